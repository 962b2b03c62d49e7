// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"time"
)

// Service exposes the loaded catalog and keeps its database mirror current.
type Service struct {
	catalog *Catalog
	repo    Repository
	logger  *slog.Logger
}

// NewService creates a new Service.
func NewService(catalog *Catalog, repo Repository, logger *slog.Logger) *Service {
	return &Service{
		catalog: catalog,
		repo:    repo,
		logger:  logger,
	}
}

// Catalog returns the loaded catalog.
func (service *Service) Catalog() *Catalog {
	return service.catalog
}

// Sync mirrors the catalog into the repository.
func (service *Service) Sync(context context.Context) error {
	startTime := time.Now()

	removed, err := service.repo.Sync(context, service.catalog.Entries())
	if err != nil {
		return err
	}

	service.logger.Info("catalog_synced",
		slog.Int("entries", service.catalog.Len()),
		slog.Int64("removed", removed),
		slog.Int64("duration_ms", time.Since(startTime).Milliseconds()),
	)
	return nil
}
