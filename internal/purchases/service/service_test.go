package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	catalogrepo "procurement_backend/internal/catalog/repository"
	"procurement_backend/internal/purchases/repository"
	"procurement_backend/platform/apperr"
)

type fakeCatalog struct {
	byCode map[string]catalogrepo.CatalogEntry
}

func (f *fakeCatalog) Resolve(_ context.Context, code string) (catalogrepo.CatalogEntry, error) {
	entry, ok := f.byCode[code]
	if !ok {
		return catalogrepo.CatalogEntry{}, apperr.NotFound("catalog entry not found")
	}
	return entry, nil
}

type fakeRepo struct {
	mu        sync.Mutex
	quotes    map[uuid.UUID]repository.PurchaseQuote
	lineItems map[uuid.UUID]bool
	tenders   map[uuid.UUID]bool
	users     map[uuid.UUID]bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		quotes:    make(map[uuid.UUID]repository.PurchaseQuote),
		lineItems: make(map[uuid.UUID]bool),
		tenders:   make(map[uuid.UUID]bool),
		users:     make(map[uuid.UUID]bool),
	}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateQuoteParams) (repository.PurchaseQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := repository.PurchaseQuote{
		ID:             uuid.New(),
		LineItemID:     params.LineItemID,
		TenderID:       params.TenderID,
		CatalogEntryID: params.CatalogEntryID,
		FinalCost:      params.FinalCost,
		CatalogCode:    params.CatalogCode,
		UserID:         params.UserID,
		QuotedAt:       time.Now().Format(time.RFC3339),
	}
	f.quotes[q.ID] = q
	return q, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.PurchaseQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quotes[id]
	if !ok {
		return repository.PurchaseQuote{}, apperr.NotFound("purchase quote not found")
	}
	return q, nil
}

func (f *fakeRepo) ListByTender(_ context.Context, tenderID uuid.UUID) ([]repository.PurchaseQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.PurchaseQuote, 0)
	for _, q := range f.quotes {
		if q.TenderID == tenderID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, params repository.UpdateQuoteParams) (repository.PurchaseQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q, ok := f.quotes[params.ID]
	if !ok {
		return repository.PurchaseQuote{}, apperr.NotFound("purchase quote not found")
	}
	if params.FinalCost != nil {
		q.FinalCost = *params.FinalCost
	}
	f.quotes[params.ID] = q
	return q, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.quotes[id]; !ok {
		return apperr.NotFound("purchase quote not found")
	}
	delete(f.quotes, id)
	return nil
}

func (f *fakeRepo) ListActive(_ context.Context, _ repository.ListActiveParams) ([]repository.ActiveLine, error) {
	return nil, nil
}

func (f *fakeRepo) ListUnmatched(_ context.Context) ([]repository.UnmatchedLine, error) {
	return nil, nil
}

func (f *fakeRepo) HistoryByTender(_ context.Context, _ uuid.UUID) ([]repository.HistoryEntry, error) {
	return nil, nil
}

func (f *fakeRepo) HistoryByCatalogCode(_ context.Context, _ string) ([]repository.HistoryEntry, error) {
	return nil, nil
}

func (f *fakeRepo) HistoryAll(_ context.Context, _, _ int) ([]repository.HistoryEntry, error) {
	return nil, nil
}

func (f *fakeRepo) LineItemExists(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lineItems[id], nil
}

func (f *fakeRepo) TenderExists(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tenders[id], nil
}

func (f *fakeRepo) UserExists(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

var _ repository.Repository = (*fakeRepo)(nil)

type fixture struct {
	svc        *Service
	repo       *fakeRepo
	tenderID   uuid.UUID
	lineItemID uuid.UUID
	userID     uuid.UUID
	entryID    uuid.UUID
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := newFakeRepo()
	tenderID, lineItemID, userID := uuid.New(), uuid.New(), uuid.New()
	repo.tenders[tenderID] = true
	repo.lineItems[lineItemID] = true
	repo.users[userID] = true

	entryID := uuid.New()
	catalog := &fakeCatalog{byCode: map[string]catalogrepo.CatalogEntry{
		"A1": {ID: entryID, TenderCode: "A1"},
	}}

	return fixture{
		svc:        New(repo, catalog),
		repo:       repo,
		tenderID:   tenderID,
		lineItemID: lineItemID,
		userID:     userID,
		entryID:    entryID,
	}
}

func (fx fixture) quoteParams() CreateQuoteParams {
	return CreateQuoteParams{
		LineItemID:  fx.lineItemID,
		TenderID:    fx.tenderID,
		CatalogCode: "A1",
		FinalCost:   1250.50,
		UserID:      fx.userID,
	}
}

func TestCreateQuoteResolvesCatalogAndSnapshotsCode(t *testing.T) {
	fx := newFixture(t)

	quote, err := fx.svc.CreateQuote(context.Background(), fx.quoteParams())
	if err != nil {
		t.Fatalf("create quote failed: %v", err)
	}
	if quote.CatalogEntryID != fx.entryID {
		t.Fatalf("catalog entry id = %s, want %s", quote.CatalogEntryID, fx.entryID)
	}
	if quote.CatalogCode != "A1" {
		t.Fatalf("snapshot code = %q, want A1", quote.CatalogCode)
	}
}

func TestCreateQuoteUnresolvedCatalogCode(t *testing.T) {
	fx := newFixture(t)

	params := fx.quoteParams()
	params.CatalogCode = "ZZ"

	_, err := fx.svc.CreateQuote(context.Background(), params)
	if apperr.ReferenceName(err) != "catalogEntry" {
		t.Fatalf("expected catalogEntry reference failure, got %v", err)
	}
}

func TestCreateQuoteNamesFailingReference(t *testing.T) {
	fx := newFixture(t)

	params := fx.quoteParams()
	params.LineItemID = uuid.New()

	_, err := fx.svc.CreateQuote(context.Background(), params)
	if apperr.ReferenceName(err) != "lineItem" {
		t.Fatalf("expected lineItem reference failure, got %v", err)
	}

	params = fx.quoteParams()
	params.UserID = uuid.New()

	_, err = fx.svc.CreateQuote(context.Background(), params)
	if apperr.ReferenceName(err) != "user" {
		t.Fatalf("expected user reference failure, got %v", err)
	}
}

func TestBulkCreateQuotesRejectsUnknownUser(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.BulkCreateQuotes(context.Background(), fx.tenderID, uuid.New(), []QuoteRow{
		{LineItemID: fx.lineItemID, CatalogCode: "A1", FinalCost: 10},
	})
	if apperr.ReferenceName(err) != "user" {
		t.Fatalf("expected user reference failure, got %v", err)
	}
}

func TestBulkCreateQuotesRejectsWholeBatch(t *testing.T) {
	fx := newFixture(t)

	rows := []QuoteRow{
		{LineItemID: fx.lineItemID, CatalogCode: "A1", FinalCost: 10},
		{LineItemID: fx.lineItemID, CatalogCode: "A1", FinalCost: 12},
	}

	_, err := fx.svc.BulkCreateQuotes(context.Background(), fx.tenderID, fx.userID, rows)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation rejection, got %v", err)
	}
	rejection, ok := err.(*apperr.Error).Details.(Rejection)
	if !ok || len(rejection.Duplicate) != 1 {
		t.Fatalf("expected one duplicate key, got %+v", err.(*apperr.Error).Details)
	}
	if len(fx.repo.quotes) != 0 {
		t.Fatalf("rejected batch must persist nothing, found %d quotes", len(fx.repo.quotes))
	}
}

func TestBulkCreateQuotesIncompleteBeforeDuplicate(t *testing.T) {
	fx := newFixture(t)

	rows := []QuoteRow{
		{LineItemID: fx.lineItemID, CatalogCode: "A1", FinalCost: 10},
		{LineItemID: fx.lineItemID, CatalogCode: "", FinalCost: 0},
	}

	_, err := fx.svc.BulkCreateQuotes(context.Background(), fx.tenderID, fx.userID, rows)
	rejection := err.(*apperr.Error).Details.(Rejection)
	if len(rejection.Incomplete) != 1 || len(rejection.Duplicate) != 0 {
		t.Fatalf("incomplete-first precedence violated: %+v", rejection)
	}
}

func TestBulkCreateQuotesCollectsPerRecordFailures(t *testing.T) {
	fx := newFixture(t)

	otherLine := uuid.New()
	fx.repo.lineItems[otherLine] = true

	rows := []QuoteRow{
		{LineItemID: fx.lineItemID, CatalogCode: "A1", FinalCost: 10},
		// Resolvable at validation time but the catalog code has no entry,
		// so this record fails during the fan-out.
		{LineItemID: otherLine, CatalogCode: "GONE", FinalCost: 11},
	}

	outcome, err := fx.svc.BulkCreateQuotes(context.Background(), fx.tenderID, fx.userID, rows)
	if err != nil {
		t.Fatalf("bulk create failed: %v", err)
	}
	if len(outcome.Created) != 1 || len(outcome.Failed) != 1 {
		t.Fatalf("outcome = %d created %d failed, want 1/1", len(outcome.Created), len(outcome.Failed))
	}
	if outcome.Failed[0].Key != otherLine.String() {
		t.Fatalf("failed key = %s, want %s", outcome.Failed[0].Key, otherLine)
	}
}
