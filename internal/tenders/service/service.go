// Package service implements tender business rules.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"procurement_backend/internal/events"
	"procurement_backend/internal/tenders/domain"
	"procurement_backend/internal/tenders/repository"
	"procurement_backend/platform/apperr"
)

// Service orchestrates tender operations.
type Service struct {
	repo     repository.Repository
	eventBus events.Bus
}

// New creates a new tenders service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// SetEventBus wires the domain event bus. Optional; without it no events
// are published.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// CreateParams carries the fields for registering a tender.
type CreateParams struct {
	ClientCode      string
	ClientName      string
	Date            string
	ReferenceNumber string
	Type            string
	TimeOfDay       string
	Subject         string
	Status          string
}

// Create registers a tender. A tender with the same external reference
// number on the same date is rejected as a duplicate.
func (s *Service) Create(ctx context.Context, params CreateParams) (repository.Tender, error) {
	exists, err := s.repo.ExistsByReference(ctx, params.ReferenceNumber, params.Date)
	if err != nil {
		return repository.Tender{}, fmt.Errorf("check tender reference: %w", err)
	}
	if exists {
		return repository.Tender{}, apperr.Conflict("tender with this reference number and date already exists")
	}

	status := params.Status
	if status == "" {
		status = string(domain.StatusInProgress)
	}

	tender, err := s.repo.Create(ctx, repository.CreateTenderParams{
		ClientCode:      params.ClientCode,
		ClientName:      params.ClientName,
		Date:            params.Date,
		ReferenceNumber: params.ReferenceNumber,
		Type:            params.Type,
		TimeOfDay:       params.TimeOfDay,
		Subject:         params.Subject,
		Status:          string(domain.ParseStatus(status)),
	})
	if err != nil {
		return repository.Tender{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.TenderCreated{
			BaseEvent: events.NewBaseEvent(),
			TenderID:  tender.ID,
			Name:      tender.ClientName,
			Status:    tender.Status,
		})
	}
	return tender, nil
}

// GetByID retrieves a tender.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Tender, error) {
	return s.repo.GetByID(ctx, id)
}

// Exists reports whether a tender row exists. Other modules use this for
// reference checks before writing dependent rows.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// List lists tenders newest first.
func (s *Service) List(ctx context.Context, params repository.ListTendersParams) ([]repository.Tender, error) {
	return s.repo.List(ctx, params)
}

// ModifyParams carries sparse tender edits. Nil fields are left untouched.
type ModifyParams struct {
	ClientCode      *string
	ClientName      *string
	Date            *string
	ReferenceNumber *string
	Type            *string
	TimeOfDay       *string
	Subject         *string
	Status          *string
}

// Modify patches a tender. A status supplied here goes through the same
// normalization as UpdateStatus.
func (s *Service) Modify(ctx context.Context, id uuid.UUID, params ModifyParams) (repository.Tender, error) {
	var status *string
	if params.Status != nil {
		normalized := string(domain.ParseStatus(*params.Status))
		status = &normalized
	}

	return s.repo.Update(ctx, repository.UpdateTenderParams{
		ID:              id,
		ClientCode:      params.ClientCode,
		ClientName:      params.ClientName,
		Date:            params.Date,
		ReferenceNumber: params.ReferenceNumber,
		Type:            params.Type,
		TimeOfDay:       params.TimeOfDay,
		Subject:         params.Subject,
		Status:          status,
	})
}

// UpdateStatus changes a tender's workflow status and publishes the change.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string) (repository.Tender, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Tender{}, err
	}

	status := domain.ParseStatus(rawStatus)
	tender, err := s.repo.UpdateStatus(ctx, id, string(status))
	if err != nil {
		return repository.Tender{}, err
	}

	if s.eventBus != nil && current.Status != tender.Status {
		s.eventBus.Publish(ctx, events.TenderStatusChanged{
			BaseEvent: events.NewBaseEvent(),
			TenderID:  tender.ID,
			OldStatus: current.Status,
			NewStatus: tender.Status,
		})
	}
	return tender, nil
}

// Delete removes a tender with all its line items, quotes, and fulfillment
// records in one transaction.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (repository.CascadeResult, error) {
	result, err := s.repo.Delete(ctx, id)
	if err != nil {
		return repository.CascadeResult{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.TenderDeleted{
			BaseEvent:     events.NewBaseEvent(),
			TenderID:      id,
			QuoteCount:    result.Quotes,
			LineItemCount: result.LineItems,
		})
	}
	return result, nil
}
