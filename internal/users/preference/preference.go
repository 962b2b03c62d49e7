// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package preference keeps per-reader state that browsers used to hold locally:
the titles already read, the last review written per title and the email the
reader signs in with.

The data is advisory. Losing it never affects stored feedbacks.
*/
package preference

import (
	"context"
	"time"
)

// MaxSeenTitles bounds the seen list of one reader.
const MaxSeenTitles = 500

// Field names used in validation errors.
const (
	FieldSeenList = "seen_list"
	FieldTitle    = "title"
	FieldEmail    = "email"
)

// Review is the last review a reader submitted for a title.
type Review struct {
	Rating      float64   `json:"rating"`
	Comment     string    `json:"comment"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Preferences is the full state of one reader.
type Preferences struct {
	SeenList []string          `json:"seen_list"`
	Email    string            `json:"email,omitempty"`
	Reviews  map[string]Review `json:"reviews"`
}

// Store persists preferences.
type Store interface {
	Get(context context.Context, userID string) (*Preferences, error)

	// ReplaceSeen overwrites the seen list, keeping the given order.
	ReplaceSeen(context context.Context, userID string, titles []string) error

	// AddSeen appends title unless it is already present.
	AddSeen(context context.Context, userID, title string) error

	SeenList(context context.Context, userID string) ([]string, error)
	SetEmail(context context.Context, userID, email string) error
	PutReview(context context.Context, userID, title string, review Review) error
}
