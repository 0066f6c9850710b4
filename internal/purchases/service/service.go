// Package service implements purchase quote reconciliation: reference
// verification, batch screening, and the historical quote views.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"procurement_backend/internal/batch"
	catalogrepo "procurement_backend/internal/catalog/repository"
	"procurement_backend/internal/events"
	"procurement_backend/internal/purchases/repository"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/logger"
)

const bulkConcurrency = 8

// CatalogResolver maps an external tender-catalog code to its canonical
// entry. Implemented by the catalog module.
type CatalogResolver interface {
	Resolve(ctx context.Context, code string) (catalogrepo.CatalogEntry, error)
}

// Service orchestrates purchase quote operations.
type Service struct {
	repo     repository.Repository
	catalog  CatalogResolver
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new purchases service.
func New(repo repository.Repository, catalog CatalogResolver) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// SetEventBus wires the domain event bus. Optional.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// SetLogger wires the structured logger. Optional.
func (s *Service) SetLogger(log *logger.Logger) {
	s.log = log
}

// CreateQuoteParams carries the fields of a new quote.
type CreateQuoteParams struct {
	LineItemID      uuid.UUID
	TenderID        uuid.UUID
	CatalogCode     string
	FinalCost       float64
	MaintenanceNote string
	Observations    string
	UserID          uuid.UUID
}

// CreateQuote resolves the catalog code, verifies every reference, and
// persists the quote with the code snapshotted onto the row. A failing
// reference is reported by name so the caller knows which lookup failed.
func (s *Service) CreateQuote(ctx context.Context, params CreateQuoteParams) (repository.PurchaseQuote, error) {
	entry, err := s.catalog.Resolve(ctx, params.CatalogCode)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return repository.PurchaseQuote{}, apperr.ReferenceNotFound("catalogEntry")
		}
		return repository.PurchaseQuote{}, fmt.Errorf("resolve catalog code: %w", err)
	}

	if err := s.verifyReference(ctx, "lineItem", params.LineItemID, s.repo.LineItemExists); err != nil {
		return repository.PurchaseQuote{}, err
	}
	if err := s.verifyReference(ctx, "tender", params.TenderID, s.repo.TenderExists); err != nil {
		return repository.PurchaseQuote{}, err
	}
	if err := s.verifyReference(ctx, "user", params.UserID, s.repo.UserExists); err != nil {
		return repository.PurchaseQuote{}, err
	}

	return s.repo.Create(ctx, repository.CreateQuoteParams{
		LineItemID:      params.LineItemID,
		TenderID:        params.TenderID,
		CatalogEntryID:  entry.ID,
		FinalCost:       params.FinalCost,
		MaintenanceNote: params.MaintenanceNote,
		Observations:    params.Observations,
		CatalogCode:     params.CatalogCode,
		UserID:          params.UserID,
	})
}

func (s *Service) verifyReference(ctx context.Context, name string, id uuid.UUID, check func(context.Context, uuid.UUID) (bool, error)) error {
	if id == uuid.Nil {
		return apperr.ReferenceNotFound(name)
	}
	exists, err := check(ctx, id)
	if err != nil {
		return fmt.Errorf("check %s reference: %w", name, err)
	}
	if !exists {
		return apperr.ReferenceNotFound(name)
	}
	return nil
}

// QuoteRow is one record of a bulk quote batch.
type QuoteRow struct {
	LineItemID      uuid.UUID
	CatalogCode     string
	FinalCost       float64
	MaintenanceNote string
	Observations    string
}

// RecordFailure reports one record that failed during the fan-out.
type RecordFailure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// BulkOutcome reports per-record results of a bulk quote creation.
type BulkOutcome struct {
	Created []repository.PurchaseQuote `json:"created"`
	Failed  []RecordFailure            `json:"failed"`
}

// Rejection carries the classifier buckets of a rejected batch.
type Rejection struct {
	Incomplete []string `json:"incomplete"`
	Duplicate  []string `json:"duplicate"`
}

// BulkCreateQuotes verifies the user once, classifies the batch keyed by
// line item id, rejects the whole batch on any incomplete or duplicate
// record, then creates the accepted quotes concurrently. Per-record failures
// after validation are collected, not rolled back.
func (s *Service) BulkCreateQuotes(ctx context.Context, tenderID, userID uuid.UUID, rows []QuoteRow) (BulkOutcome, error) {
	if err := s.verifyReference(ctx, "user", userID, s.repo.UserExists); err != nil {
		return BulkOutcome{}, err
	}
	if err := s.verifyReference(ctx, "tender", tenderID, s.repo.TenderExists); err != nil {
		return BulkOutcome{}, err
	}

	result := batch.Classify(rows,
		func(r QuoteRow) string { return r.LineItemID.String() },
		func(r QuoteRow) bool {
			return r.LineItemID != uuid.Nil && r.CatalogCode != "" && r.FinalCost > 0
		},
		func(string) bool { return false },
	)

	if len(result.Incomplete) > 0 || len(result.Duplicate) > 0 {
		return BulkOutcome{}, apperr.Validation("batch rejected").WithDetails(Rejection{
			Incomplete: rowKeys(result.Incomplete),
			Duplicate:  rowKeys(result.Duplicate),
		})
	}

	var mu sync.Mutex
	outcome := BulkOutcome{Created: []repository.PurchaseQuote{}, Failed: []RecordFailure{}}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for _, row := range result.Accepted {
		row := row
		g.Go(func() error {
			quote, err := s.CreateQuote(gctx, CreateQuoteParams{
				LineItemID:      row.LineItemID,
				TenderID:        tenderID,
				CatalogCode:     row.CatalogCode,
				FinalCost:       row.FinalCost,
				MaintenanceNote: row.MaintenanceNote,
				Observations:    row.Observations,
				UserID:          userID,
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				outcome.Failed = append(outcome.Failed, RecordFailure{Key: row.LineItemID.String(), Error: err.Error()})
				return nil
			}
			outcome.Created = append(outcome.Created, quote)
			return nil
		})
	}

	_ = g.Wait()

	if s.log != nil {
		s.log.BatchOutcome("purchase quotes bulk create", len(outcome.Created), len(outcome.Failed))
	}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.QuotesRecorded{
			BaseEvent:  events.NewBaseEvent(),
			TenderID:   tenderID,
			RecordedBy: userID,
			Created:    len(outcome.Created),
			Failed:     len(outcome.Failed),
		})
	}
	return outcome, nil
}

// ListActiveForTender returns reconciliation rows for one tender's
// purchasing screen.
func (s *Service) ListActiveForTender(ctx context.Context, tenderID uuid.UUID) ([]repository.ActiveLine, error) {
	return s.repo.ListActive(ctx, repository.ListActiveParams{TenderID: &tenderID})
}

// ListActive returns reconciliation rows across all workflow-active tenders.
func (s *Service) ListActive(ctx context.Context, params repository.ListActiveParams) ([]repository.ActiveLine, error) {
	return s.repo.ListActive(ctx, params)
}

// ListUnmatchedLines returns active-tender line items whose catalog code
// resolves to no catalog entry.
func (s *Service) ListUnmatchedLines(ctx context.Context) ([]repository.UnmatchedLine, error) {
	return s.repo.ListUnmatched(ctx)
}

// HistoryByTender returns a tender's quote history, line number ascending,
// newest quote first within each line.
func (s *Service) HistoryByTender(ctx context.Context, tenderID uuid.UUID) ([]repository.HistoryEntry, error) {
	return s.repo.HistoryByTender(ctx, tenderID)
}

// HistoryByCatalogCode returns the quote history of a catalog code.
func (s *Service) HistoryByCatalogCode(ctx context.Context, code string) ([]repository.HistoryEntry, error) {
	return s.repo.HistoryByCatalogCode(ctx, code)
}

// HistoryAll returns all quotes, newest first.
func (s *Service) HistoryAll(ctx context.Context, limit, offset int) ([]repository.HistoryEntry, error) {
	return s.repo.HistoryAll(ctx, limit, offset)
}

// GetByID retrieves a quote.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.PurchaseQuote, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByTender lists a tender's quotes, newest first.
func (s *Service) GetByTender(ctx context.Context, tenderID uuid.UUID) ([]repository.PurchaseQuote, error) {
	return s.repo.ListByTender(ctx, tenderID)
}

// ModifyParams carries a sparse quote patch.
type ModifyParams struct {
	FinalCost       *float64
	MaintenanceNote *string
	Observations    *string
}

// Modify patches the editable fields of a quote.
func (s *Service) Modify(ctx context.Context, id uuid.UUID, params ModifyParams) (repository.PurchaseQuote, error) {
	return s.repo.Update(ctx, repository.UpdateQuoteParams{
		ID:              id,
		FinalCost:       params.FinalCost,
		MaintenanceNote: params.MaintenanceNote,
		Observations:    params.Observations,
	})
}

// Delete removes a quote.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func rowKeys(rows []QuoteRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.LineItemID.String())
	}
	return out
}
