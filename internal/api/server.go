// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/bolgeo/internal/catalog"
	"github.com/taibuivan/bolgeo/internal/library"
	"github.com/taibuivan/bolgeo/internal/platform/config"
	"github.com/taibuivan/bolgeo/internal/platform/constants"
	"github.com/taibuivan/bolgeo/internal/platform/metrics"
	"github.com/taibuivan/bolgeo/internal/platform/middleware"
	"github.com/taibuivan/bolgeo/internal/recommend"
	"github.com/taibuivan/bolgeo/internal/social"
	"github.com/taibuivan/bolgeo/internal/social/live"
	"github.com/taibuivan/bolgeo/internal/users/preference"
	"github.com/taibuivan/bolgeo/internal/users/session"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Session handles passwordless sign-in.
	Session *session.Handler

	// Preference serves per-reader advisory state.
	Preference *preference.Handler

	// Catalog serves single titles and the genre list.
	Catalog *catalog.Handler

	// Library serves the filtered, sorted and revealed listing.
	Library *library.Handler

	// Social serves feedbacks, replies and reactions.
	Social *social.Handler

	// Live pushes feedback snapshots over websockets.
	Live *live.Handler

	// Recommend serves model-backed recommendations.
	Recommend *recommend.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Long-lived routes (the websocket feed and recommendations) are mounted
// outside the request timeout.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.CORS(cfg.Origins(), cfg.IsDevelopment()))
	r.Use(middleware.Authenticate(verifier))
	r.Use(chimw.CleanPath)

	timeout := chimw.Timeout(constants.GlobalRequestTimeout)

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration and scraping.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Handle("/metrics", metrics.Handler())

	// # Browser-compatible completion endpoint
	r.Route("/recommend", h.Recommend.RegisterLegacyRoutes)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/webtoons", func(webtoons chi.Router) {
			h.Live.RegisterRoutes(webtoons)

			webtoons.Group(func(timed chi.Router) {
				timed.Use(timeout)
				h.Library.RegisterRoutes(timed)
				h.Catalog.RegisterWebtoonRoutes(timed)
				h.Social.RegisterWebtoonRoutes(timed)
			})
		})

		api.Route("/recommendations", h.Recommend.RegisterRoutes)

		api.Group(func(timed chi.Router) {
			timed.Use(timeout)
			timed.Route("/genres", h.Catalog.RegisterGenreRoutes)
			timed.Route("/feedbacks", h.Social.RegisterFeedbackRoutes)
			timed.Route("/auth", h.Session.RegisterRoutes)
			timed.Route("/me", h.Preference.RegisterRoutes)
		})
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadTimeout:       constants.DefaultReadTimeout,
		WriteTimeout:      constants.DefaultWriteTimeout,
		IdleTimeout:       constants.DefaultIdleTimeout,
		ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
	}
	httpServer.RegisterOnShutdown(h.Live.Shutdown)

	return &Server{
		router:     r,
		log:        log,
		httpServer: httpServer,
	}
}

// Handler exposes the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
