// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package preference

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/bolgeo/internal/catalog"
	"github.com/taibuivan/bolgeo/internal/platform/validate"
)

// Service applies the preference rules on top of a [Store].
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new Service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// UpdateInput is the payload of a full preference update. Nil fields are
// left unchanged.
type UpdateInput struct {
	SeenList []string `json:"seen_list"`
	Email    *string  `json:"email"`
}

// Get returns the preferences of userID.
func (service *Service) Get(context context.Context, userID string) (*Preferences, error) {
	return service.store.Get(context, userID)
}

// Update replaces the seen list and remembered email.
func (service *Service) Update(context context.Context, userID string, input UpdateInput) (*Preferences, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldSeenList, len(input.SeenList) > MaxSeenTitles, "Too many titles")
	if input.Email != nil && *input.Email != "" {
		validator.Email(FieldEmail, *input.Email)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.SeenList != nil {
		if err := service.store.ReplaceSeen(context, userID, dedupeTitles(input.SeenList)); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		if err := service.store.SetEmail(context, userID, *input.Email); err != nil {
			return nil, err
		}
	}

	return service.store.Get(context, userID)
}

// MarkSeen appends title to the seen list of userID.
func (service *Service) MarkSeen(context context.Context, userID, title string) error {
	title = catalog.NormalizeTitle(title)
	if err := (&validate.Validator{}).Required(FieldTitle, title).MaxLen(FieldTitle, title, 200).Err(); err != nil {
		return err
	}

	seen, err := service.store.SeenList(context, userID)
	if err != nil {
		return err
	}
	if len(seen) >= MaxSeenTitles {
		return (&validate.Validator{}).Custom(FieldSeenList, true, "Too many titles").Err()
	}

	return service.store.AddSeen(context, userID, title)
}

// SeenList returns the titles userID has read.
func (service *Service) SeenList(context context.Context, userID string) ([]string, error) {
	return service.store.SeenList(context, userID)
}

// RecordReview caches the last review userID wrote for title.
func (service *Service) RecordReview(context context.Context, userID, title string, rating float64, comment string) error {
	review := Review{Rating: rating, Comment: comment, SubmittedAt: service.now().UTC()}
	if err := service.store.PutReview(context, userID, catalog.NormalizeTitle(title), review); err != nil {
		return err
	}

	service.logger.DebugContext(context, "review_cached",
		slog.String("user_id", userID),
		slog.String("webtoon_title", title),
	)
	return nil
}

func dedupeTitles(titles []string) []string {
	seen := make(map[string]struct{}, len(titles))
	unique := make([]string, 0, len(titles))

	for _, title := range titles {
		title = catalog.NormalizeTitle(title)
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		unique = append(unique, title)
	}
	return unique
}
