// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bolgeo/internal/platform/middleware"
	requestutil "github.com/taibuivan/bolgeo/internal/platform/request"
	"github.com/taibuivan/bolgeo/internal/platform/respond"
	"github.com/taibuivan/bolgeo/internal/platform/validate"
	"github.com/taibuivan/bolgeo/pkg/pagination"
)

// # Request DTOs

type submitRequest struct {
	Rating  float64 `json:"rating" validate:"gte=0,lte=5"`
	Comment string  `json:"comment" validate:"required,max=1000"`
}

type commentRequest struct {
	Comment string `json:"comment" validate:"required,max=1000"`
}

type reactRequest struct {
	Type string `json:"type" validate:"required,oneof=like dislike"`
}

// Handler exposes feedback over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterWebtoonRoutes mounts per-title feedback routes under /webtoons.
func (handler *Handler) RegisterWebtoonRoutes(router chi.Router) {
	router.Get("/{title}/feedbacks", handler.listByTitle)
	router.With(middleware.RequireAuth).Post("/{title}/feedbacks", handler.submit)
}

// RegisterFeedbackRoutes mounts feedback routes under /feedbacks.
func (handler *Handler) RegisterFeedbackRoutes(router chi.Router) {
	router.Get("/", handler.listAll)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/{id}/replies", handler.reply)
		authed.Patch("/{id}", handler.edit)
		authed.Delete("/{id}", handler.remove)
		authed.Post("/{id}/reactions", handler.react)
	})
}

func (handler *Handler) listByTitle(writer http.ResponseWriter, request *http.Request) {
	sortBy, err := parseSort(request, SortLikes, SortLikes, SortLatest, SortReplies)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	threads, err := handler.service.Threads(request.Context(), requestutil.Title(request, "title"), sortBy)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, threads)
}

func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	sortBy, err := parseSort(request, SortLatest, SortLatest, SortLikes)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	feedbacks, total, err := handler.service.ListAll(request.Context(), sortBy, params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, feedbacks, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input submitRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	feedback, err := handler.service.Submit(request.Context(), userID, requestutil.Title(request, "title"), SubmitInput{
		Rating:  input.Rating,
		Comment: input.Comment,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, feedback)
}

func (handler *Handler) reply(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	reply, err := handler.service.Reply(request.Context(), userID, requestutil.Param(request, "id"), input.Comment)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, reply)
}

func (handler *Handler) edit(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	feedback, err := handler.service.Edit(request.Context(), userID, requestutil.Param(request, "id"), input.Comment)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, feedback)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Remove(request.Context(), userID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) react(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reactRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.React(request.Context(), userID, requestutil.Param(request, "id"), ReactionType(input.Type)); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// parseSort reads ?sort=, falling back to def when absent.
func parseSort(request *http.Request, def ListSort, allowed ...ListSort) (ListSort, error) {
	raw := request.URL.Query().Get("sort")
	if raw == "" {
		return def, nil
	}

	options := make([]string, len(allowed))
	for i, option := range allowed {
		options[i] = string(option)
	}

	if err := (&validate.Validator{}).OneOf(FieldSort, raw, options...).Err(); err != nil {
		return "", err
	}
	return ListSort(raw), nil
}
