// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation and offset-based progressive reveal
// are requested via query parameters, and how the resulting metadata is delivered
// in the API response envelope.
package pagination

import (
	"net/http"

	"github.com/taibuivan/bolgeo/pkg/convert"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page to prevent system abuse.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage bounds page numbers so Offset stays far from integer overflow.
	MaxPage = 100_000
	// MaxOffset bounds progressive reveal offsets for the same reason.
	MaxOffset = MaxPage * MaxLimit
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	return (min(p.Page, MaxPage) - 1) * min(p.Limit, MaxLimit)
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata for a response.
//
// It automatically calculates the TotalPages based on the total count and limit.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid, negative, or excessive values are automatically clamped to
// [DefaultPage], [DefaultLimit], [MaxPage] or [MaxLimit].
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()
	page := convert.ToIntD(query.Get("page"), DefaultPage)
	limit := convert.ToIntD(query.Get("limit"), DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	page = min(page, MaxPage)

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}

// # Progressive Reveal

// RevealParams describes an infinite-scroll request: everything up to
// Offset+PageSize is returned on every call.
type RevealParams struct {
	Offset   int
	PageSize int
}

// RevealMeta is the metadata block for progressive reveal responses.
type RevealMeta struct {
	Offset     int  `json:"offset"`
	PageSize   int  `json:"page_size"`
	Shown      int  `json:"shown"`
	Total      int  `json:"total"`
	NextOffset int  `json:"next_offset"`
	HasMore    bool `json:"has_more"`
}

// RevealFromRequest parses "offset" and "limit" for progressive reveal.
// Offsets are clamped to [0, MaxOffset]; a missing or invalid limit falls back to pageSize.
func RevealFromRequest(r *http.Request, pageSize int) RevealParams {
	query := r.URL.Query()
	offset := convert.ToIntD(query.Get("offset"), 0)
	size := convert.ToIntD(query.Get("limit"), pageSize)

	offset = min(max(offset, 0), MaxOffset)

	if size < 1 || size > MaxLimit {
		size = pageSize
	}

	return RevealParams{Offset: offset, PageSize: size}
}

// NewRevealMeta builds the reveal metadata for a list of total items of which
// shown are currently visible.
func NewRevealMeta(params RevealParams, shown, total int) RevealMeta {
	return RevealMeta{
		Offset:     params.Offset,
		PageSize:   params.PageSize,
		Shown:      shown,
		Total:      total,
		NextOffset: shown,
		HasMore:    shown < total,
	}
}
