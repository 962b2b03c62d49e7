// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bolgeo/internal/platform/constants"
	"github.com/taibuivan/bolgeo/internal/platform/respond"
	"github.com/taibuivan/bolgeo/internal/platform/validate"
	"github.com/taibuivan/bolgeo/pkg/pagination"
)

// Handler serves the library listing.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the listing under /webtoons.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listWebtoons)
}

// listWebtoons returns everything up to offset+limit of the filtered,
// sorted library, matching a "load more" client.
func (handler *Handler) listWebtoons(writer http.ResponseWriter, request *http.Request) {
	queryParams := request.URL.Query()

	query := Query{
		Genre:  queryParams.Get("genre"),
		Search: queryParams.Get("q"),
		Sort:   SortKey(queryParams.Get("sort")),
	}
	if query.Sort == "" {
		query.Sort = SortReference
	}

	if err := (&validate.Validator{}).
		OneOf("sort", string(query.Sort), string(SortReference), string(SortUser)).
		MaxLen("q", query.Search, 100).
		Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.service.Browse(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.RevealFromRequest(request, constants.LibraryPageSize)
	revealed := Paginate(entries, params.Offset, params.PageSize)

	respond.Revealed(writer, revealed, pagination.NewRevealMeta(params, len(revealed), len(entries)))
}
