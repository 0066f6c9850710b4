// Package service implements line item business rules: tuple uniqueness,
// batch screening, and the bulk fan-out used by spreadsheet imports.
package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"procurement_backend/internal/batch"
	"procurement_backend/internal/events"
	"procurement_backend/internal/lineitems/domain"
	"procurement_backend/internal/lineitems/repository"
	"procurement_backend/platform/apperr"
	"procurement_backend/platform/logger"
)

// bulkConcurrency caps the parallel per-record writes of a bulk operation.
const bulkConcurrency = 8

// TenderChecker verifies tender references before dependent writes.
type TenderChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service orchestrates line item operations.
type Service struct {
	repo     repository.Repository
	tenders  TenderChecker
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new line items service.
func New(repo repository.Repository, tenders TenderChecker) *Service {
	return &Service{repo: repo, tenders: tenders}
}

// SetEventBus wires the domain event bus. Optional.
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// SetLogger wires the structured logger. Optional.
func (s *Service) SetLogger(log *logger.Logger) {
	s.log = log
}

// CreateFields carries the data of a new line item.
type CreateFields struct {
	LineNumber         string
	Quantity           int64
	Description        string
	CatalogCode        string
	CatalogDescription string
	Notes              string
}

func (s *Service) requireTender(ctx context.Context, tenderID uuid.UUID) error {
	exists, err := s.tenders.Exists(ctx, tenderID)
	if err != nil {
		return fmt.Errorf("check tender reference: %w", err)
	}
	if !exists {
		return apperr.ReferenceNotFound("tender")
	}
	return nil
}

// CreatePrimary creates the primary line for a line number.
func (s *Service) CreatePrimary(ctx context.Context, tenderID uuid.UUID, fields CreateFields) (repository.LineItem, error) {
	if err := s.requireTender(ctx, tenderID); err != nil {
		return repository.LineItem{}, err
	}

	taken, err := s.repo.TupleExists(ctx, tenderID, fields.LineNumber, 0)
	if err != nil {
		return repository.LineItem{}, err
	}
	if taken {
		return repository.LineItem{}, apperr.Conflict("line number already exists for this tender")
	}

	return s.repo.Create(ctx, repository.CreateLineItemParams{
		TenderID:           tenderID,
		LineNumber:         fields.LineNumber,
		AlternateIndex:     0,
		Quantity:           fields.Quantity,
		Description:        fields.Description,
		CatalogCode:        fields.CatalogCode,
		CatalogDescription: fields.CatalogDescription,
		Notes:              fields.Notes,
	})
}

// CreateAlternate creates an alternate proposal for an existing primary line.
// The alternate index must be positive; index 0 is reserved for the primary.
func (s *Service) CreateAlternate(ctx context.Context, tenderID uuid.UUID, lineNumber string, alternateIndex int, fields CreateFields) (repository.LineItem, error) {
	if alternateIndex <= 0 {
		return repository.LineItem{}, apperr.Validation("alternate index must be greater than zero")
	}
	if err := s.requireTender(ctx, tenderID); err != nil {
		return repository.LineItem{}, err
	}

	if _, err := s.repo.GetByTuple(ctx, tenderID, lineNumber, 0); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return repository.LineItem{}, apperr.ReferenceNotFound("primaryLineItem")
		}
		return repository.LineItem{}, err
	}

	taken, err := s.repo.TupleExists(ctx, tenderID, lineNumber, alternateIndex)
	if err != nil {
		return repository.LineItem{}, err
	}
	if taken {
		return repository.LineItem{}, apperr.Conflict("alternate index already exists for this line number")
	}

	return s.repo.Create(ctx, repository.CreateLineItemParams{
		TenderID:           tenderID,
		LineNumber:         lineNumber,
		AlternateIndex:     alternateIndex,
		Quantity:           fields.Quantity,
		Description:        fields.Description,
		CatalogCode:        fields.CatalogCode,
		CatalogDescription: fields.CatalogDescription,
		Notes:              fields.Notes,
	})
}

// ModifyParams carries a sparse line item patch.
type ModifyParams struct {
	LineNumber         *string
	AlternateIndex     *int
	Quantity           *int64
	Description        *string
	CatalogCode        *string
	CatalogDescription *string
	ChosenLaboratory   *string
	ChosenCost         *float64
	RegulatoryCode     *string
	SalePrice          *float64
	PreAwarded         *bool
	DeliveryMonth      *string
	Margin             *float64
	Notes              *string
}

// Modify patches a line item. When the patch moves the item to another
// (line number, alternate index) tuple, the target tuple must be free.
func (s *Service) Modify(ctx context.Context, id uuid.UUID, params ModifyParams) (repository.LineItem, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.LineItem{}, err
	}

	targetNumber := current.LineNumber
	if params.LineNumber != nil {
		targetNumber = *params.LineNumber
	}
	targetAlternate := current.AlternateIndex
	if params.AlternateIndex != nil {
		targetAlternate = *params.AlternateIndex
	}

	if targetNumber != current.LineNumber || targetAlternate != current.AlternateIndex {
		other, err := s.repo.GetByTuple(ctx, current.TenderID, targetNumber, targetAlternate)
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return repository.LineItem{}, err
		}
		if err == nil && other.ID != id {
			return repository.LineItem{}, apperr.Conflict("target line number and alternate index already taken")
		}
	}

	return s.repo.Update(ctx, repository.UpdateLineItemParams{
		ID:                 id,
		LineNumber:         params.LineNumber,
		AlternateIndex:     params.AlternateIndex,
		Quantity:           params.Quantity,
		Description:        params.Description,
		CatalogCode:        params.CatalogCode,
		CatalogDescription: params.CatalogDescription,
		ChosenLaboratory:   params.ChosenLaboratory,
		ChosenCost:         params.ChosenCost,
		RegulatoryCode:     params.RegulatoryCode,
		SalePrice:          params.SalePrice,
		PreAwarded:         params.PreAwarded,
		DeliveryMonth:      params.DeliveryMonth,
		Margin:             params.Margin,
		Notes:              params.Notes,
	})
}

// RecordFailure reports one record that failed during a bulk fan-out.
type RecordFailure struct {
	Key   string `json:"key"`
	Error string `json:"error"`
}

// BulkOutcome reports the per-record results of a bulk fan-out. Writes are
// independent, so partial success is an expected state, not an error.
type BulkOutcome struct {
	Created []repository.LineItem `json:"created"`
	Failed  []RecordFailure       `json:"failed"`
}

// Rejection carries the classifier buckets of a rejected batch.
type Rejection struct {
	Incomplete []string `json:"incomplete"`
	Duplicate  []string `json:"duplicate"`
}

func rejectBatch(incomplete, duplicate []string) error {
	return apperr.Validation("batch rejected").WithDetails(Rejection{
		Incomplete: incomplete,
		Duplicate:  duplicate,
	})
}

// BulkCreateRow is one record of a bulk import. AlternateIndex 0 is a
// primary line; a positive index stores the row as an alternate of the
// primary sharing its line number.
type BulkCreateRow struct {
	CreateFields
	AlternateIndex int
}

// BulkCreate validates a batch of lines, rejecting the whole batch when any
// record is incomplete or its tuple is duplicated, then creates the accepted
// records concurrently. Primaries are written before alternates so an
// alternate can land on a primary from the same batch. Nothing is written
// for a rejected batch.
func (s *Service) BulkCreate(ctx context.Context, tenderID uuid.UUID, rows []BulkCreateRow) (BulkOutcome, error) {
	if err := s.requireTender(ctx, tenderID); err != nil {
		return BulkOutcome{}, err
	}

	existing, err := s.repo.ExistingTuples(ctx, tenderID)
	if err != nil {
		return BulkOutcome{}, err
	}

	result := batch.Classify(rows,
		func(r BulkCreateRow) repository.Tuple {
			return repository.Tuple{LineNumber: r.LineNumber, AlternateIndex: r.AlternateIndex}
		},
		func(r BulkCreateRow) bool {
			return r.LineNumber != "" && r.AlternateIndex >= 0 &&
				r.Quantity != 0 && r.Description != "" && r.CatalogCode != ""
		},
		func(key repository.Tuple) bool {
			_, ok := existing[key]
			return ok
		},
	)

	if len(result.Incomplete) > 0 || len(result.Duplicate) > 0 {
		return BulkOutcome{}, rejectBatch(rowKeys(result.Incomplete), rowKeys(result.Duplicate))
	}

	outcome := s.fanOutCreate(ctx, tenderID, result.Accepted)

	if s.log != nil {
		s.log.BatchOutcome("line items bulk create", len(outcome.Created), len(outcome.Failed))
	}
	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.LineItemsRecorded{
			BaseEvent: events.NewBaseEvent(),
			TenderID:  tenderID,
			Created:   len(outcome.Created),
			Failed:    len(outcome.Failed),
		})
	}
	return outcome, nil
}

// fanOutCreate writes the accepted rows in two concurrent waves: primaries
// first, then alternates, so an alternate can reference a primary created by
// the same batch. An alternate whose primary is missing fails per-record.
func (s *Service) fanOutCreate(ctx context.Context, tenderID uuid.UUID, rows []BulkCreateRow) BulkOutcome {
	var mu sync.Mutex
	outcome := BulkOutcome{Created: []repository.LineItem{}, Failed: []RecordFailure{}}

	var primaries, alternates []BulkCreateRow
	for _, row := range rows {
		if row.AlternateIndex == 0 {
			primaries = append(primaries, row)
		} else {
			alternates = append(alternates, row)
		}
	}

	runWave := func(wave []BulkCreateRow) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(bulkConcurrency)

		for _, row := range wave {
			row := row
			g.Go(func() error {
				item, err := s.createBulkRow(gctx, tenderID, row)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					outcome.Failed = append(outcome.Failed, RecordFailure{Key: rowKey(row), Error: err.Error()})
					return nil
				}
				outcome.Created = append(outcome.Created, item)
				return nil
			})
		}

		_ = g.Wait()
	}

	runWave(primaries)
	runWave(alternates)

	sortByTuple(outcome.Created)
	return outcome
}

func (s *Service) createBulkRow(ctx context.Context, tenderID uuid.UUID, row BulkCreateRow) (repository.LineItem, error) {
	if row.AlternateIndex > 0 {
		primaryExists, err := s.repo.TupleExists(ctx, tenderID, row.LineNumber, 0)
		if err != nil {
			return repository.LineItem{}, err
		}
		if !primaryExists {
			return repository.LineItem{}, apperr.ReferenceNotFound("primaryLineItem")
		}
	}

	return s.repo.Create(ctx, repository.CreateLineItemParams{
		TenderID:           tenderID,
		LineNumber:         row.LineNumber,
		AlternateIndex:     row.AlternateIndex,
		Quantity:           row.Quantity,
		Description:        row.Description,
		CatalogCode:        row.CatalogCode,
		CatalogDescription: row.CatalogDescription,
		Notes:              row.Notes,
	})
}

// BulkModifyRow is one record of a bulk edit.
type BulkModifyRow struct {
	ID     uuid.UUID
	Fields ModifyParams
}

// BulkModify validates a batch of edits keyed by line item id, rejecting the
// whole batch on missing ids or in-batch duplicates, then applies the edits
// concurrently through the same collision checks as Modify.
func (s *Service) BulkModify(ctx context.Context, rows []BulkModifyRow) (BulkOutcome, error) {
	result := batch.Classify(rows,
		func(r BulkModifyRow) string { return r.ID.String() },
		func(r BulkModifyRow) bool { return r.ID != uuid.Nil },
		func(string) bool { return false },
	)

	if len(result.Incomplete) > 0 || len(result.Duplicate) > 0 {
		return BulkOutcome{}, rejectBatch(rowIDs(result.Incomplete), rowIDs(result.Duplicate))
	}

	var mu sync.Mutex
	outcome := BulkOutcome{Created: []repository.LineItem{}, Failed: []RecordFailure{}}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for _, row := range result.Accepted {
		row := row
		g.Go(func() error {
			item, err := s.Modify(gctx, row.ID, row.Fields)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				outcome.Failed = append(outcome.Failed, RecordFailure{Key: row.ID.String(), Error: err.Error()})
				return nil
			}
			outcome.Created = append(outcome.Created, item)
			return nil
		})
	}

	_ = g.Wait()
	sortByTuple(outcome.Created)

	if s.log != nil {
		s.log.BatchOutcome("line items bulk modify", len(outcome.Created), len(outcome.Failed))
	}
	return outcome, nil
}

// BulkSetPreAward updates the pre-award flag and delivery month of the given
// primary lines, collecting per-line outcomes.
func (s *Service) BulkSetPreAward(ctx context.Context, tenderID uuid.UUID, rows []repository.PreAwardRow) (BulkOutcome, error) {
	if err := s.requireTender(ctx, tenderID); err != nil {
		return BulkOutcome{}, err
	}

	var mu sync.Mutex
	outcome := BulkOutcome{Created: []repository.LineItem{}, Failed: []RecordFailure{}}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for _, row := range rows {
		row := row
		g.Go(func() error {
			item, err := s.repo.SetPreAward(gctx, tenderID, row)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				outcome.Failed = append(outcome.Failed, RecordFailure{Key: row.LineNumber, Error: err.Error()})
				return nil
			}
			outcome.Created = append(outcome.Created, item)
			return nil
		})
	}

	_ = g.Wait()
	sortByTuple(outcome.Created)

	if s.log != nil {
		s.log.BatchOutcome("line items pre-award", len(outcome.Created), len(outcome.Failed))
	}
	return outcome, nil
}

// UpdateCosts patches the cost-selection fields of a line addressed by its
// (tender, line number, alternate index) tuple.
func (s *Service) UpdateCosts(ctx context.Context, params repository.UpdateCostsParams) (repository.LineItem, error) {
	return s.repo.UpdateCosts(ctx, params)
}

// GetByID retrieves a line item.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.LineItem, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForTender lists a tender's line items in numeric line-number order.
func (s *Service) ListForTender(ctx context.Context, tenderID uuid.UUID) ([]repository.LineItem, error) {
	return s.repo.ListForTender(ctx, tenderID)
}

// DeleteOne removes a line item with its dependent rows.
func (s *Service) DeleteOne(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// DeleteAllForTender removes every line item of a tender.
func (s *Service) DeleteAllForTender(ctx context.Context, tenderID uuid.UUID) (int64, error) {
	return s.repo.DeleteAllForTender(ctx, tenderID)
}

// rowKey renders a bulk row's tuple for failure and rejection reports:
// the bare line number for a primary, "line#index" for an alternate.
func rowKey(r BulkCreateRow) string {
	if r.AlternateIndex == 0 {
		return r.LineNumber
	}
	return r.LineNumber + "#" + strconv.Itoa(r.AlternateIndex)
}

func rowKeys(rows []BulkCreateRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowKey(r))
	}
	return out
}

// sortByTuple orders bulk results by numeric line number, then alternate
// index. Fan-out waves finish in goroutine order, so without this the
// response order would vary run to run.
func sortByTuple(items []repository.LineItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if c := domain.CompareLineNumbers(items[i].LineNumber, items[j].LineNumber); c != 0 {
			return c < 0
		}
		return items[i].AlternateIndex < items[j].AlternateIndex
	})
}

func rowIDs(rows []BulkModifyRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID.String())
	}
	return out
}
