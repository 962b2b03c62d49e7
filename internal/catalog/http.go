// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bolgeo/internal/platform/apperr"
	requestutil "github.com/taibuivan/bolgeo/internal/platform/request"
	"github.com/taibuivan/bolgeo/internal/platform/respond"
)

// StatsReader supplies reader statistics for a single title.
type StatsReader interface {
	TitleStats(context context.Context, title string) (avg float64, count int, err error)
}

// Detail is a catalog entry joined with its reader statistics.
type Detail struct {
	Entry
	UserAvgScore float64 `json:"user_avg_score"`
	ReviewCount  int     `json:"review_count"`
}

// Handler serves catalog lookups.
type Handler struct {
	service *Service
	stats   StatsReader
}

// NewHandler creates a new Handler.
func NewHandler(service *Service, stats StatsReader) *Handler {
	return &Handler{service: service, stats: stats}
}

// RegisterWebtoonRoutes mounts title lookups under /webtoons.
func (handler *Handler) RegisterWebtoonRoutes(router chi.Router) {
	router.Get("/{title}", handler.getWebtoon)
}

// RegisterGenreRoutes mounts the genre listing under /genres.
func (handler *Handler) RegisterGenreRoutes(router chi.Router) {
	router.Get("/", handler.listGenres)
}

func (handler *Handler) getWebtoon(writer http.ResponseWriter, request *http.Request) {
	title := requestutil.Title(request, "title")

	entry, found := handler.service.Catalog().Find(title)
	if !found {
		respond.Error(writer, request, apperr.NotFound("Webtoon"))
		return
	}

	avg, count, err := handler.stats.TitleStats(request.Context(), entry.Title)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, Detail{Entry: entry, UserAvgScore: avg, ReviewCount: count})
}

func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Catalog().Genres())
}
