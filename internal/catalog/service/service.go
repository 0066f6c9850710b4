// Package service implements catalog resolution and maintenance.
package service

import (
	"context"

	"github.com/google/uuid"

	"procurement_backend/internal/catalog/repository"
)

// Service exposes the catalog to the rest of the application. Resolution is
// read-only; maintenance writes go through a separate flow on the same data.
type Service struct {
	repo repository.Repository
}

// New creates a new catalog service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Resolve maps an external tender-catalog code to its canonical entry.
// Returns apperr.NotFound when no entry matches; callers must treat that as
// a rejection of the dependent operation, never as an empty default.
func (s *Service) Resolve(ctx context.Context, code string) (repository.CatalogEntry, error) {
	return s.repo.ResolveByTenderCode(ctx, code)
}

// Create adds a catalog entry.
func (s *Service) Create(ctx context.Context, params repository.CreateEntryParams) (repository.CatalogEntry, error) {
	return s.repo.Create(ctx, params)
}

// Update patches a catalog entry.
func (s *Service) Update(ctx context.Context, params repository.UpdateEntryParams) (repository.CatalogEntry, error) {
	return s.repo.Update(ctx, params)
}

// Delete removes a catalog entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// GetByID retrieves a catalog entry.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.CatalogEntry, error) {
	return s.repo.GetByID(ctx, id)
}

// Search lists catalog entries matching the filters.
func (s *Service) Search(ctx context.Context, params repository.SearchParams) ([]repository.CatalogEntry, error) {
	return s.repo.Search(ctx, params)
}
