// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package preference

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bolgeo/internal/platform/middleware"
	requestutil "github.com/taibuivan/bolgeo/internal/platform/request"
	"github.com/taibuivan/bolgeo/internal/platform/respond"
)

type seenRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// Handler serves the preferences of the current reader.
type Handler struct {
	service *Service
}

// NewHandler creates a new Handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the routes under /me. Every route requires a reader.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)
		authed.Get("/preferences", handler.get)
		authed.Put("/preferences", handler.update)
		authed.Post("/seen", handler.markSeen)
	})
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	preferences, err := handler.service.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, preferences)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	preferences, err := handler.service.Update(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, preferences)
}

func (handler *Handler) markSeen(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input seenRequest
	if err := requestutil.DecodeAndValidate(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.MarkSeen(request.Context(), userID, input.Title); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
