// Package service implements fulfillment record bookkeeping.
package service

import (
	"context"

	"github.com/google/uuid"

	"procurement_backend/internal/fulfillment/repository"
	"procurement_backend/platform/apperr"
)

// Service records what was actually delivered against line items. Records
// are independent of quotes and never feed back into quote selection.
type Service struct {
	repo repository.Repository
}

// New creates a new fulfillment service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create records a fulfillment against an existing line item.
func (s *Service) Create(ctx context.Context, params repository.CreateParams) (repository.FulfillmentRecord, error) {
	exists, err := s.repo.LineItemExists(ctx, params.LineItemID)
	if err != nil {
		return repository.FulfillmentRecord{}, err
	}
	if !exists {
		return repository.FulfillmentRecord{}, apperr.ReferenceNotFound("lineItem")
	}
	return s.repo.Create(ctx, params)
}

// GetByID retrieves a fulfillment record.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.FulfillmentRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// Modify patches only the supplied fields of a fulfillment record.
func (s *Service) Modify(ctx context.Context, params repository.UpdateParams) (repository.FulfillmentRecord, error) {
	return s.repo.Update(ctx, params)
}

// Delete removes a fulfillment record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ListByLineItem lists a line item's fulfillment records.
func (s *Service) ListByLineItem(ctx context.Context, lineItemID uuid.UUID) ([]repository.FulfillmentRecord, error) {
	return s.repo.ListByLineItem(ctx, lineItemID)
}

// ListByTender lists a tender's fulfillment records in line-number order.
func (s *Service) ListByTender(ctx context.Context, tenderID uuid.UUID) ([]repository.TenderRecord, error) {
	return s.repo.ListByTender(ctx, tenderID)
}
