package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"procurement_backend/internal/tenders/repository"
	"procurement_backend/platform/apperr"
)

type fakeRepo struct {
	tenders      map[uuid.UUID]repository.Tender
	byReference  map[string]bool
	lastStatusID uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tenders:     make(map[uuid.UUID]repository.Tender),
		byReference: make(map[string]bool),
	}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateTenderParams) (repository.Tender, error) {
	t := repository.Tender{
		ID:              uuid.New(),
		ClientCode:      params.ClientCode,
		ClientName:      params.ClientName,
		Date:            params.Date,
		ReferenceNumber: params.ReferenceNumber,
		Type:            params.Type,
		TimeOfDay:       params.TimeOfDay,
		Subject:         params.Subject,
		Status:          params.Status,
	}
	f.tenders[t.ID] = t
	f.byReference[params.ReferenceNumber+"|"+params.Date] = true
	return t, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Tender, error) {
	t, ok := f.tenders[id]
	if !ok {
		return repository.Tender{}, apperr.NotFound("tender not found")
	}
	return t, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListTendersParams) ([]repository.Tender, error) {
	out := make([]repository.Tender, 0)
	for _, t := range f.tenders {
		if params.WorkflowActiveOnly && t.Status != "EN CURSO" && t.Status != "COTIZADO" {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateTenderParams) (repository.Tender, error) {
	t, ok := f.tenders[params.ID]
	if !ok {
		return repository.Tender{}, apperr.NotFound("tender not found")
	}
	if params.ClientName != nil {
		t.ClientName = *params.ClientName
	}
	if params.Status != nil {
		t.Status = *params.Status
	}
	f.tenders[params.ID] = t
	return t, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) (repository.Tender, error) {
	t, ok := f.tenders[id]
	if !ok {
		return repository.Tender{}, apperr.NotFound("tender not found")
	}
	t.Status = status
	f.tenders[id] = t
	f.lastStatusID = id
	return t, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) (repository.CascadeResult, error) {
	if _, ok := f.tenders[id]; !ok {
		return repository.CascadeResult{}, apperr.NotFound("tender not found")
	}
	delete(f.tenders, id)
	return repository.CascadeResult{Quotes: 2, LineItems: 3}, nil
}

func (f *fakeRepo) ExistsByReference(_ context.Context, referenceNumber, date string) (bool, error) {
	return f.byReference[referenceNumber+"|"+date], nil
}

func (f *fakeRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.tenders[id]
	return ok, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func TestCreateRejectsDuplicateReference(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)

	params := CreateParams{
		ClientCode:      "HOSP01",
		ClientName:      "Hospital Central",
		Date:            "2026-03-10",
		ReferenceNumber: "LIC-2026-014",
	}

	if _, err := svc.Create(context.Background(), params); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := svc.Create(context.Background(), params)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for duplicate reference, got %v", err)
	}
}

func TestCreateDefaultsToInProgress(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)

	tender, err := svc.Create(context.Background(), CreateParams{
		ClientCode:      "HOSP01",
		ClientName:      "Hospital Central",
		Date:            "2026-03-10",
		ReferenceNumber: "LIC-2026-015",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if tender.Status != "EN CURSO" {
		t.Fatalf("status = %q, want EN CURSO", tender.Status)
	}
}

func TestUpdateStatusNormalizesLabel(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)

	tender, err := svc.Create(context.Background(), CreateParams{
		ClientCode:      "HOSP01",
		ClientName:      "Hospital Central",
		Date:            "2026-03-10",
		ReferenceNumber: "LIC-2026-016",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), tender.ID, "cotizado")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != "COTIZADO" {
		t.Fatalf("status = %q, want COTIZADO", updated.Status)
	}
}

func TestDeleteUnknownTender(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo)

	_, err := svc.Delete(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
