package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"procurement_backend/internal/lineitems/repository"
	"procurement_backend/platform/apperr"
)

type fakeTenders struct {
	known map[uuid.UUID]bool
}

func (f *fakeTenders) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

type fakeRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]repository.LineItem
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[uuid.UUID]repository.LineItem)}
}

func (f *fakeRepo) findTuple(tenderID uuid.UUID, number string, alternate int) (repository.LineItem, bool) {
	for _, li := range f.items {
		if li.TenderID == tenderID && li.LineNumber == number && li.AlternateIndex == alternate {
			return li, true
		}
	}
	return repository.LineItem{}, false
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLineItemParams) (repository.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.findTuple(params.TenderID, params.LineNumber, params.AlternateIndex); taken {
		return repository.LineItem{}, apperr.Conflict("duplicate tuple")
	}
	li := repository.LineItem{
		ID:             uuid.New(),
		TenderID:       params.TenderID,
		LineNumber:     params.LineNumber,
		AlternateIndex: params.AlternateIndex,
		Quantity:       params.Quantity,
		Description:    params.Description,
		CatalogCode:    params.CatalogCode,
	}
	f.items[li.ID] = li
	return li, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	li, ok := f.items[id]
	if !ok {
		return repository.LineItem{}, apperr.NotFound("line item not found")
	}
	return li, nil
}

func (f *fakeRepo) GetByTuple(_ context.Context, tenderID uuid.UUID, number string, alternate int) (repository.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	li, ok := f.findTuple(tenderID, number, alternate)
	if !ok {
		return repository.LineItem{}, apperr.NotFound("line item not found")
	}
	return li, nil
}

func (f *fakeRepo) TupleExists(_ context.Context, tenderID uuid.UUID, number string, alternate int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.findTuple(tenderID, number, alternate)
	return ok, nil
}

func (f *fakeRepo) ExistingTuples(_ context.Context, tenderID uuid.UUID) (map[repository.Tuple]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tuples := make(map[repository.Tuple]struct{})
	for _, li := range f.items {
		if li.TenderID == tenderID {
			tuples[repository.Tuple{LineNumber: li.LineNumber, AlternateIndex: li.AlternateIndex}] = struct{}{}
		}
	}
	return tuples, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateLineItemParams) (repository.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	li, ok := f.items[params.ID]
	if !ok {
		return repository.LineItem{}, apperr.NotFound("line item not found")
	}
	if params.LineNumber != nil {
		li.LineNumber = *params.LineNumber
	}
	if params.AlternateIndex != nil {
		li.AlternateIndex = *params.AlternateIndex
	}
	if params.Quantity != nil {
		li.Quantity = *params.Quantity
	}
	if params.Description != nil {
		li.Description = *params.Description
	}
	f.items[params.ID] = li
	return li, nil
}

func (f *fakeRepo) UpdateCosts(_ context.Context, params repository.UpdateCostsParams) (repository.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	li, ok := f.findTuple(params.TenderID, params.LineNumber, params.AlternateIndex)
	if !ok {
		return repository.LineItem{}, apperr.NotFound("line item not found")
	}
	if params.ChosenCost != nil {
		li.ChosenCost = params.ChosenCost
	}
	f.items[li.ID] = li
	return li, nil
}

func (f *fakeRepo) SetPreAward(_ context.Context, tenderID uuid.UUID, row repository.PreAwardRow) (repository.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	li, ok := f.findTuple(tenderID, row.LineNumber, 0)
	if !ok {
		return repository.LineItem{}, apperr.NotFound("line item not found")
	}
	li.PreAwarded = row.PreAwarded
	f.items[li.ID] = li
	return li, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("line item not found")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) DeleteAllForTender(_ context.Context, tenderID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for id, li := range f.items {
		if li.TenderID == tenderID {
			delete(f.items, id)
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) ListForTender(_ context.Context, tenderID uuid.UUID) ([]repository.LineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.LineItem, 0)
	for _, li := range f.items {
		if li.TenderID == tenderID {
			out = append(out, li)
		}
	}
	return out, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func newService(t *testing.T) (*Service, *fakeRepo, uuid.UUID) {
	t.Helper()
	repo := newFakeRepo()
	tenderID := uuid.New()
	svc := New(repo, &fakeTenders{known: map[uuid.UUID]bool{tenderID: true}})
	return svc, repo, tenderID
}

func TestCreatePrimaryRejectsDuplicateLineNumber(t *testing.T) {
	svc, _, tenderID := newService(t)

	fields := CreateFields{LineNumber: "1", Quantity: 5, Description: "paracetamol", CatalogCode: "A1"}
	if _, err := svc.CreatePrimary(context.Background(), tenderID, fields); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.CreatePrimary(context.Background(), tenderID, fields)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreatePrimaryUnknownTender(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.CreatePrimary(context.Background(), uuid.New(), CreateFields{
		LineNumber: "1", Quantity: 5, Description: "x", CatalogCode: "A1",
	})
	if apperr.ReferenceName(err) != "tender" {
		t.Fatalf("expected tender reference failure, got %v", err)
	}
}

func TestCreateAlternateRequiresPositiveIndexAndPrimary(t *testing.T) {
	svc, _, tenderID := newService(t)

	fields := CreateFields{LineNumber: "1", Quantity: 5, Description: "x", CatalogCode: "A1"}

	_, err := svc.CreateAlternate(context.Background(), tenderID, "1", 0, fields)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for index 0, got %v", err)
	}

	_, err = svc.CreateAlternate(context.Background(), tenderID, "1", 1, fields)
	if apperr.ReferenceName(err) != "primaryLineItem" {
		t.Fatalf("expected primary line reference failure, got %v", err)
	}

	if _, err := svc.CreatePrimary(context.Background(), tenderID, fields); err != nil {
		t.Fatalf("create primary failed: %v", err)
	}
	if _, err := svc.CreateAlternate(context.Background(), tenderID, "1", 1, fields); err != nil {
		t.Fatalf("create alternate failed: %v", err)
	}

	_, err = svc.CreateAlternate(context.Background(), tenderID, "1", 1, fields)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for repeated alternate index, got %v", err)
	}
}

func TestModifyRejectsTupleCollision(t *testing.T) {
	svc, _, tenderID := newService(t)

	one, err := svc.CreatePrimary(context.Background(), tenderID, CreateFields{
		LineNumber: "1", Quantity: 5, Description: "x", CatalogCode: "A1",
	})
	if err != nil {
		t.Fatalf("create line 1 failed: %v", err)
	}
	if _, err := svc.CreatePrimary(context.Background(), tenderID, CreateFields{
		LineNumber: "2", Quantity: 5, Description: "y", CatalogCode: "A2",
	}); err != nil {
		t.Fatalf("create line 2 failed: %v", err)
	}

	target := "2"
	_, err = svc.Modify(context.Background(), one.ID, ModifyParams{LineNumber: &target})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict moving onto taken tuple, got %v", err)
	}

	// Patching without touching the tuple is fine.
	desc := "updated"
	if _, err := svc.Modify(context.Background(), one.ID, ModifyParams{Description: &desc}); err != nil {
		t.Fatalf("modify failed: %v", err)
	}
}

func TestBulkCreateRejectsWholeBatchOnDuplicate(t *testing.T) {
	svc, repo, tenderID := newService(t)

	rows := []BulkCreateRow{
		{CreateFields: CreateFields{LineNumber: "1", Quantity: 5, Description: "X", CatalogCode: "A1"}},
		{CreateFields: CreateFields{LineNumber: "1", Quantity: 5, Description: "X", CatalogCode: "A1"}},
	}

	_, err := svc.BulkCreate(context.Background(), tenderID, rows)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation rejection, got %v", err)
	}

	rejection, ok := err.(*apperr.Error).Details.(Rejection)
	if !ok {
		t.Fatalf("expected rejection details, got %T", err.(*apperr.Error).Details)
	}
	if len(rejection.Duplicate) != 1 || rejection.Duplicate[0] != "1" {
		t.Fatalf("duplicate list wrong: %+v", rejection)
	}

	if len(repo.items) != 0 {
		t.Fatalf("rejected batch must persist nothing, found %d items", len(repo.items))
	}
}

func TestBulkCreateRejectsIncompleteBeforeDuplicate(t *testing.T) {
	svc, repo, tenderID := newService(t)

	rows := []BulkCreateRow{
		{CreateFields: CreateFields{LineNumber: "1", Quantity: 5, Description: "X", CatalogCode: "A1"}},
		{CreateFields: CreateFields{LineNumber: "1", Quantity: 0, Description: "", CatalogCode: ""}},
	}

	_, err := svc.BulkCreate(context.Background(), tenderID, rows)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected rejection, got %v", err)
	}
	rejection := err.(*apperr.Error).Details.(Rejection)
	if len(rejection.Incomplete) != 1 || len(rejection.Duplicate) != 0 {
		t.Fatalf("incomplete-first precedence violated: %+v", rejection)
	}
	if len(repo.items) != 0 {
		t.Fatalf("rejected batch must persist nothing")
	}
}

func TestBulkCreateRejectsLineNumbersAlreadyInStore(t *testing.T) {
	svc, _, tenderID := newService(t)

	if _, err := svc.CreatePrimary(context.Background(), tenderID, CreateFields{
		LineNumber: "3", Quantity: 1, Description: "x", CatalogCode: "A3",
	}); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	_, err := svc.BulkCreate(context.Background(), tenderID, []BulkCreateRow{
		{CreateFields: CreateFields{LineNumber: "3", Quantity: 2, Description: "y", CatalogCode: "A3"}},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected rejection for stored duplicate, got %v", err)
	}
}

func TestBulkCreatePersistsAcceptedBatch(t *testing.T) {
	svc, repo, tenderID := newService(t)

	outcome, err := svc.BulkCreate(context.Background(), tenderID, []BulkCreateRow{
		{CreateFields: CreateFields{LineNumber: "1", Quantity: 5, Description: "X", CatalogCode: "A1"}},
		{CreateFields: CreateFields{LineNumber: "2", Quantity: 3, Description: "Y", CatalogCode: "A2"}},
		{CreateFields: CreateFields{LineNumber: "10", Quantity: 7, Description: "Z", CatalogCode: "A3"}},
	})
	if err != nil {
		t.Fatalf("bulk create failed: %v", err)
	}
	if len(outcome.Created) != 3 || len(outcome.Failed) != 0 {
		t.Fatalf("outcome = %d created %d failed, want 3/0", len(outcome.Created), len(outcome.Failed))
	}
	if len(repo.items) != 3 {
		t.Fatalf("store has %d items, want 3", len(repo.items))
	}
}

func TestBulkCreateRoutesAlternateRows(t *testing.T) {
	svc, _, tenderID := newService(t)

	outcome, err := svc.BulkCreate(context.Background(), tenderID, []BulkCreateRow{
		{CreateFields: CreateFields{LineNumber: "1", Quantity: 5, Description: "brand", CatalogCode: "A1"}},
		{CreateFields: CreateFields{LineNumber: "1", Quantity: 5, Description: "generic", CatalogCode: "A1G"}, AlternateIndex: 1},
	})
	if err != nil {
		t.Fatalf("bulk create failed: %v", err)
	}
	if len(outcome.Created) != 2 || len(outcome.Failed) != 0 {
		t.Fatalf("outcome = %d created %d failed, want 2/0", len(outcome.Created), len(outcome.Failed))
	}

	primary := outcome.Created[0]
	alternate := outcome.Created[1]
	if primary.AlternateIndex != 0 || alternate.AlternateIndex != 1 {
		t.Fatalf("alternate index not preserved: %d and %d", primary.AlternateIndex, alternate.AlternateIndex)
	}
	if primary.LineNumber != "1" || alternate.LineNumber != "1" {
		t.Fatalf("line numbers wrong: %q and %q", primary.LineNumber, alternate.LineNumber)
	}
}

func TestBulkCreateAlternateWithoutPrimaryFailsPerRecord(t *testing.T) {
	svc, repo, tenderID := newService(t)

	outcome, err := svc.BulkCreate(context.Background(), tenderID, []BulkCreateRow{
		{CreateFields: CreateFields{LineNumber: "2", Quantity: 3, Description: "x", CatalogCode: "A2"}},
		{CreateFields: CreateFields{LineNumber: "9", Quantity: 1, Description: "orphan", CatalogCode: "A9"}, AlternateIndex: 1},
	})
	if err != nil {
		t.Fatalf("bulk create failed: %v", err)
	}
	if len(outcome.Created) != 1 || len(outcome.Failed) != 1 {
		t.Fatalf("outcome = %d created %d failed, want 1/1", len(outcome.Created), len(outcome.Failed))
	}
	if outcome.Failed[0].Key != "9#1" {
		t.Fatalf("failure key = %q, want 9#1", outcome.Failed[0].Key)
	}
	if len(repo.items) != 1 {
		t.Fatalf("store has %d items, want 1", len(repo.items))
	}
}

func TestBulkCreateOrdersResultsByLineNumber(t *testing.T) {
	svc, _, tenderID := newService(t)

	outcome, err := svc.BulkCreate(context.Background(), tenderID, []BulkCreateRow{
		{CreateFields: CreateFields{LineNumber: "10", Quantity: 1, Description: "c", CatalogCode: "C"}},
		{CreateFields: CreateFields{LineNumber: "2", Quantity: 1, Description: "b", CatalogCode: "B"}},
		{CreateFields: CreateFields{LineNumber: "1", Quantity: 1, Description: "a", CatalogCode: "A"}},
		{CreateFields: CreateFields{LineNumber: "2", Quantity: 1, Description: "b alt", CatalogCode: "B2"}, AlternateIndex: 1},
	})
	if err != nil {
		t.Fatalf("bulk create failed: %v", err)
	}
	if len(outcome.Created) != 4 {
		t.Fatalf("created %d items, want 4", len(outcome.Created))
	}

	got := make([]string, 0, len(outcome.Created))
	for _, li := range outcome.Created {
		got = append(got, rowKey(BulkCreateRow{
			CreateFields:   CreateFields{LineNumber: li.LineNumber},
			AlternateIndex: li.AlternateIndex,
		}))
	}
	want := []string{"1", "2", "2#1", "10"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("result order %v, want %v", got, want)
		}
	}
}

func TestBulkModifyRejectsDuplicateIDs(t *testing.T) {
	svc, _, tenderID := newService(t)

	item, err := svc.CreatePrimary(context.Background(), tenderID, CreateFields{
		LineNumber: "1", Quantity: 5, Description: "x", CatalogCode: "A1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	qty := int64(9)
	rows := []BulkModifyRow{
		{ID: item.ID, Fields: ModifyParams{Quantity: &qty}},
		{ID: item.ID, Fields: ModifyParams{Quantity: &qty}},
	}

	_, err = svc.BulkModify(context.Background(), rows)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected rejection for repeated id, got %v", err)
	}
}
