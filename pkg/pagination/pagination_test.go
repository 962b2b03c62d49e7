// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bolgeo/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"?page=3&limit=10", pagination.Params{Page: 3, Limit: 10}},
		{"?page=-2&limit=0", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
		{"?page=abc&limit=1000", pagination.Params{Page: 1, Limit: pagination.DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := pagination.FromRequest(httptest.NewRequest("GET", "/"+tt.query, nil))
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, 20, pagination.Params{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 10}.Offset())
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, 3, pagination.NewMeta(1, 10, 21).TotalPages)
	assert.Equal(t, 0, pagination.NewMeta(1, 0, 21).TotalPages)
}

func TestReveal(t *testing.T) {
	params := pagination.RevealFromRequest(httptest.NewRequest("GET", "/?offset=-5", nil), 20)
	assert.Equal(t, pagination.RevealParams{Offset: 0, PageSize: 20}, params)

	params = pagination.RevealFromRequest(httptest.NewRequest("GET", "/?offset=40&limit=10", nil), 20)
	assert.Equal(t, pagination.RevealParams{Offset: 40, PageSize: 10}, params)

	meta := pagination.NewRevealMeta(params, 50, 57)
	assert.Equal(t, 50, meta.NextOffset)
	assert.True(t, meta.HasMore)

	meta = pagination.NewRevealMeta(params, 57, 57)
	assert.False(t, meta.HasMore)
}

func TestOverflowGuards(t *testing.T) {
	params := pagination.RevealFromRequest(httptest.NewRequest("GET", "/?offset=9223372036854775807", nil), 40)
	assert.Equal(t, pagination.MaxOffset, params.Offset)

	paged := pagination.FromRequest(httptest.NewRequest("GET", "/?page=9223372036854775807&limit=100", nil))
	assert.Equal(t, pagination.MaxPage, paged.Page)
	assert.Equal(t, (pagination.MaxPage-1)*100, paged.Offset())

	huge := pagination.Params{Page: math.MaxInt, Limit: math.MaxInt}
	assert.Equal(t, (pagination.MaxPage-1)*pagination.MaxLimit, huge.Offset())
	assert.Zero(t, pagination.Params{Page: 5, Limit: 0}.Offset())
}
