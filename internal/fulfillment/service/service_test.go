package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"procurement_backend/internal/fulfillment/repository"
	"procurement_backend/platform/apperr"
)

type fakeRepo struct {
	records   map[uuid.UUID]repository.FulfillmentRecord
	lineItems map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		records:   make(map[uuid.UUID]repository.FulfillmentRecord),
		lineItems: make(map[uuid.UUID]bool),
	}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.FulfillmentRecord, error) {
	rec := repository.FulfillmentRecord{
		ID:                 uuid.New(),
		LineItemID:         params.LineItemID,
		RealizedQuantity:   params.RealizedQuantity,
		RealizedCost:       params.RealizedCost,
		RealizedPrice:      params.RealizedPrice,
		RealizedLaboratory: params.RealizedLaboratory,
	}
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.FulfillmentRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return repository.FulfillmentRecord{}, apperr.NotFound("fulfillment record not found")
	}
	return rec, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateParams) (repository.FulfillmentRecord, error) {
	rec, ok := f.records[params.ID]
	if !ok {
		return repository.FulfillmentRecord{}, apperr.NotFound("fulfillment record not found")
	}
	if params.RealizedQuantity != nil {
		rec.RealizedQuantity = *params.RealizedQuantity
	}
	if params.RealizedCost != nil {
		rec.RealizedCost = *params.RealizedCost
	}
	if params.RealizedPrice != nil {
		rec.RealizedPrice = *params.RealizedPrice
	}
	if params.RealizedLaboratory != nil {
		rec.RealizedLaboratory = *params.RealizedLaboratory
	}
	f.records[params.ID] = rec
	return rec, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.records[id]; !ok {
		return apperr.NotFound("fulfillment record not found")
	}
	delete(f.records, id)
	return nil
}

func (f *fakeRepo) ListByLineItem(_ context.Context, lineItemID uuid.UUID) ([]repository.FulfillmentRecord, error) {
	out := make([]repository.FulfillmentRecord, 0)
	for _, rec := range f.records {
		if rec.LineItemID == lineItemID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByTender(_ context.Context, _ uuid.UUID) ([]repository.TenderRecord, error) {
	return nil, nil
}

func (f *fakeRepo) LineItemExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.lineItems[id], nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func TestCreateRequiresExistingLineItem(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)

	_, err := svc.Create(context.Background(), repository.CreateParams{
		LineItemID:       uuid.New(),
		RealizedQuantity: 5,
	})
	if apperr.ReferenceName(err) != "lineItem" {
		t.Fatalf("expected lineItem reference failure, got %v", err)
	}
	if len(repo.records) != 0 {
		t.Fatalf("nothing should be persisted, found %d records", len(repo.records))
	}
}

func TestCreateAndModifySparse(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)

	lineItemID := uuid.New()
	repo.lineItems[lineItemID] = true

	rec, err := svc.Create(context.Background(), repository.CreateParams{
		LineItemID:         lineItemID,
		RealizedQuantity:   100,
		RealizedCost:       12.5,
		RealizedPrice:      19.9,
		RealizedLaboratory: "Lab A",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cost := 13.0
	updated, err := svc.Modify(context.Background(), repository.UpdateParams{
		ID:           rec.ID,
		RealizedCost: &cost,
	})
	if err != nil {
		t.Fatalf("modify failed: %v", err)
	}
	if updated.RealizedCost != 13.0 {
		t.Fatalf("realized cost = %v, want 13.0", updated.RealizedCost)
	}
	if updated.RealizedQuantity != 100 || updated.RealizedLaboratory != "Lab A" {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestDeleteMissingRecord(t *testing.T) {
	svc := New(newFakeRepo())

	err := svc.Delete(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
