package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"procurement_backend/internal/catalog/repository"
	"procurement_backend/platform/apperr"
)

type fakeRepo struct {
	byCode map[string]repository.CatalogEntry
}

func (f *fakeRepo) ResolveByTenderCode(_ context.Context, code string) (repository.CatalogEntry, error) {
	entry, ok := f.byCode[code]
	if !ok {
		return repository.CatalogEntry{}, apperr.NotFound("catalog entry not found")
	}
	return entry, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateEntryParams) (repository.CatalogEntry, error) {
	entry := repository.CatalogEntry{
		ID:             uuid.New(),
		Laboratory:     params.Laboratory,
		CommercialName: params.CommercialName,
		TenderCode:     params.TenderCode,
	}
	f.byCode[params.TenderCode] = entry
	return entry, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateEntryParams) (repository.CatalogEntry, error) {
	return repository.CatalogEntry{}, apperr.NotFound("catalog entry not found")
}

func (f *fakeRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeRepo) GetByID(_ context.Context, _ uuid.UUID) (repository.CatalogEntry, error) {
	return repository.CatalogEntry{}, apperr.NotFound("catalog entry not found")
}

func (f *fakeRepo) Search(_ context.Context, params repository.SearchParams) ([]repository.CatalogEntry, error) {
	out := make([]repository.CatalogEntry, 0)
	for _, e := range f.byCode {
		if params.Laboratory != "" && !strings.Contains(strings.ToLower(e.Laboratory), strings.ToLower(params.Laboratory)) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

func TestResolveRoundTrip(t *testing.T) {
	repo := &fakeRepo{byCode: map[string]repository.CatalogEntry{}}
	svc := New(repo)

	created, err := svc.Create(context.Background(), repository.CreateEntryParams{
		Laboratory:     "Laboratorios Andina",
		CommercialName: "Paracetamol 500mg",
		TenderCode:     "00420",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Leading zeros are significant, the code must round-trip untouched.
	resolved, err := svc.Resolve(context.Background(), "00420")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.ID != created.ID || resolved.TenderCode != "00420" {
		t.Fatalf("resolved wrong entry: %+v", resolved)
	}
}

func TestResolveUnknownCodeIsNotFound(t *testing.T) {
	repo := &fakeRepo{byCode: map[string]repository.CatalogEntry{}}
	svc := New(repo)

	_, err := svc.Resolve(context.Background(), "420")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
