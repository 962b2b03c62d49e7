// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recommend

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/taibuivan/bolgeo/internal/catalog"
	"github.com/taibuivan/bolgeo/internal/platform/apperr"
	"github.com/taibuivan/bolgeo/internal/platform/constants"
	"github.com/taibuivan/bolgeo/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/bolgeo/internal/platform/request"
	"github.com/taibuivan/bolgeo/internal/platform/respond"
)

// SeenLister loads the titles a user has marked as read.
type SeenLister interface {
	SeenList(context context.Context, userID string) ([]string, error)
}

// # Request DTOs

// legacyRequest is the body of POST /recommend.
type legacyRequest struct {
	Prompt   string   `json:"prompt"`
	SeenList []string `json:"seenList"`
}

type legacyResponse struct {
	Result string `json:"result"`
}

type legacyError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

type recommendRequest struct {
	Prompt   string   `json:"prompt" validate:"required,max=500"`
	SeenList []string `json:"seen_list" validate:"max=500"`
}

// Handler serves recommendation requests.
type Handler struct {
	service *Service
	seen    SeenLister
	limiter func(http.Handler) http.Handler
}

// NewHandler creates a Handler. seen may be nil.
func NewHandler(service *Service, seen SeenLister) *Handler {
	return &Handler{
		service: service,
		seen:    seen,
		limiter: httprate.Limit(
			constants.RecommendRateLimit,
			constants.RecommendRateWindow,
			httprate.WithKeyFuncs(httprate.KeyByRealIP),
			httprate.WithLimitHandler(func(writer http.ResponseWriter, request *http.Request) {
				respond.Error(writer, request, apperr.RateLimited(int(constants.RecommendRateWindow.Seconds())))
			}),
		),
	}
}

// RegisterLegacyRoutes mounts POST /recommend, whose body and answer keep the
// shape browser clients already send and parse.
func (handler *Handler) RegisterLegacyRoutes(router chi.Router) {
	router.With(handler.limiter).Post("/", handler.recommendLegacy)
}

// RegisterRoutes mounts the enveloped endpoint under /recommendations.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.With(handler.limiter).Post("/", handler.recommend)
}

// recommendLegacy answers 200 {result} with the raw model text, even when the
// text is not valid JSON; the client parses it.
func (handler *Handler) recommendLegacy(writer http.ResponseWriter, request *http.Request) {
	var input legacyRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		writeLegacyError(writer, request, err)
		return
	}

	outcome, err := handler.service.Recommend(request.Context(), input.Prompt, input.SeenList)
	if outcome != nil && outcome.Raw != "" {
		respond.JSON(writer, http.StatusOK, legacyResponse{Result: outcome.Raw})
		return
	}
	if err == nil {
		err = apperr.Upstream(apperr.CodeMalformedResponse, "The recommendation could not be read", ErrMalformedResponse)
	}
	writeLegacyError(writer, request, err)
}

func writeLegacyError(writer http.ResponseWriter, request *http.Request, err error) {
	appError := respond.Resolve(request, err)
	respond.JSON(writer, appError.HTTPStatus, legacyError{Error: appError.Message, Detail: appError.Code})
}

func (handler *Handler) recommend(writer http.ResponseWriter, request *http.Request) {
	var input recommendRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	excludes := input.SeenList
	if claims := requestutil.Claims(request); claims != nil && handler.seen != nil {
		stored, err := handler.seen.SeenList(request.Context(), claims.UserID)
		if err != nil {
			// Preferences are advisory; the request proceeds with the client list.
			ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "seen_list_unavailable",
				slog.String("user_id", claims.UserID),
				slog.String("error", err.Error()),
			)
		} else {
			excludes = MergeTitles(excludes, stored)
		}
	}

	outcome, err := handler.service.Recommend(request.Context(), input.Prompt, excludes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, outcome)
}

// MergeTitles returns the normalized union of lists in first-seen order.
func MergeTitles(lists ...[]string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0)

	for _, list := range lists {
		for _, title := range list {
			title = catalog.NormalizeTitle(title)
			if title == "" {
				continue
			}
			if _, ok := seen[title]; ok {
				continue
			}
			seen[title] = struct{}{}
			merged = append(merged, title)
		}
	}
	return merged
}
