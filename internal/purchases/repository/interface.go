package repository

import (
	"context"

	"github.com/google/uuid"
)

// PurchaseQuote is a priced offer against a catalog entry for one line item.
// The catalog code is denormalized onto the quote: history must stay
// queryable even if the line item's code is later edited.
type PurchaseQuote struct {
	ID              uuid.UUID `db:"id"`
	LineItemID      uuid.UUID `db:"line_item_id"`
	TenderID        uuid.UUID `db:"tender_id"`
	CatalogEntryID  uuid.UUID `db:"catalog_entry_id"`
	FinalCost       float64   `db:"final_cost"`
	MaintenanceNote string    `db:"maintenance_note"`
	Observations    string    `db:"observations"`
	CatalogCode     string    `db:"catalog_code"`
	UserID          uuid.UUID `db:"user_id"`
	QuotedAt        string    `db:"quoted_at"`
	CreatedAt       string    `db:"created_at"`
}

// CreateQuoteParams contains data for inserting a purchase quote.
type CreateQuoteParams struct {
	LineItemID      uuid.UUID
	TenderID        uuid.UUID
	CatalogEntryID  uuid.UUID
	FinalCost       float64
	MaintenanceNote string
	Observations    string
	CatalogCode     string
	UserID          uuid.UUID
}

// UpdateQuoteParams contains data for a sparse quote patch.
type UpdateQuoteParams struct {
	ID              uuid.UUID
	FinalCost       *float64
	MaintenanceNote *string
	Observations    *string
}

// ActiveLine is one reconciliation row for purchasing screens: a line item
// on a workflow-active tender, joined to the catalog by code and to its
// latest quote by (line item, catalog entry). Catalog and quote columns are
// nil when no match exists.
type ActiveLine struct {
	LineItemID     uuid.UUID
	TenderID       uuid.UUID
	LineNumber     string
	AlternateIndex int
	Quantity       int64
	Description    string
	CatalogCode    string
	TenderStatus   string
	ClientName     string

	CatalogEntryID *uuid.UUID
	Laboratory     *string
	CommercialName *string
	ERPCode        *string

	QuoteID   *uuid.UUID
	FinalCost *float64
	QuotedAt  *string
}

// ListActiveParams defines the structured filters of the active listing.
type ListActiveParams struct {
	TenderID   *uuid.UUID
	Laboratory string
	LineNumber string
}

// UnmatchedLine is a line item on a workflow-active tender whose catalog
// code resolves to no catalog entry. Staff use this view to repair catalog
// data.
type UnmatchedLine struct {
	LineItemID      uuid.UUID
	TenderID        uuid.UUID
	LineNumber      string
	Quantity        int64
	Description     string
	CatalogCode     string
	ClientName      string
	ReferenceNumber string
}

// HistoryEntry is one quote in a historical view, carrying its line number
// for per-tender grouping.
type HistoryEntry struct {
	PurchaseQuote
	LineNumber string
}

// Repository defines purchase quote persistence operations.
type Repository interface {
	Create(ctx context.Context, params CreateQuoteParams) (PurchaseQuote, error)
	GetByID(ctx context.Context, id uuid.UUID) (PurchaseQuote, error)
	ListByTender(ctx context.Context, tenderID uuid.UUID) ([]PurchaseQuote, error)
	Update(ctx context.Context, params UpdateQuoteParams) (PurchaseQuote, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListActive(ctx context.Context, params ListActiveParams) ([]ActiveLine, error)
	ListUnmatched(ctx context.Context) ([]UnmatchedLine, error)
	HistoryByTender(ctx context.Context, tenderID uuid.UUID) ([]HistoryEntry, error)
	HistoryByCatalogCode(ctx context.Context, code string) ([]HistoryEntry, error)
	HistoryAll(ctx context.Context, limit, offset int) ([]HistoryEntry, error)

	LineItemExists(ctx context.Context, id uuid.UUID) (bool, error)
	TenderExists(ctx context.Context, id uuid.UUID) (bool, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
}
