// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"context"
	"log/slog"

	"github.com/taibuivan/bolgeo/internal/catalog"
	"github.com/taibuivan/bolgeo/internal/social"
)

// RatingSource lists the ratings to aggregate.
type RatingSource interface {
	ListRatings(context context.Context) ([]social.Rating, error)
}

// Query describes a library browse request.
type Query struct {
	Genre  string
	Search string
	Sort   SortKey
}

// Service builds aggregated snapshots of the library.
type Service struct {
	catalog *catalog.Catalog
	ratings RatingSource
	logger  *slog.Logger
}

// NewService creates a new Service.
func NewService(c *catalog.Catalog, ratings RatingSource, logger *slog.Logger) *Service {
	return &Service{
		catalog: c,
		ratings: ratings,
		logger:  logger,
	}
}

/*
Snapshot recomputes the aggregated library from the current ratings.

Description: Every call is a full recompute in catalog order, so it is safe
to repeat after any change notification.

Parameters:
  - context: context.Context

Returns:
  - []AggregatedWebtoon: One entry per catalog title
  - error: Rating source failures
*/
func (service *Service) Snapshot(context context.Context) ([]AggregatedWebtoon, error) {
	ratings, err := service.ratings.ListRatings(context)
	if err != nil {
		return nil, err
	}

	return Merge(service.catalog, Aggregate(service.catalog, ratings)), nil
}

// Browse returns the filtered and sorted snapshot.
func (service *Service) Browse(context context.Context, query Query) ([]AggregatedWebtoon, error) {
	snapshot, err := service.Snapshot(context)
	if err != nil {
		return nil, err
	}

	return Sort(Filter(snapshot, query.Genre, query.Search), query.Sort), nil
}

// TitleStats returns the reader average and review count of one title.
func (service *Service) TitleStats(context context.Context, title string) (float64, int, error) {
	ratings, err := service.ratings.ListRatings(context)
	if err != nil {
		return 0, 0, err
	}

	stats := Aggregate(service.catalog, ratings)[catalog.NormalizeTitle(title)]
	return stats.Avg, stats.Count, nil
}
