package repository

import (
	"context"

	"github.com/google/uuid"
)

// CatalogEntry is a canonical product record. Codes are TEXT end-to-end:
// tender codes can carry leading zeros and must never be compared numerically.
type CatalogEntry struct {
	ID               uuid.UUID `db:"id"`
	Laboratory       string    `db:"laboratory"`
	CommercialName   string    `db:"commercial_name"`
	ActiveIngredient string    `db:"active_ingredient"`
	RegulatoryCode   string    `db:"regulatory_code"`
	TenderCode       string    `db:"tender_code"`
	ERPCode          string    `db:"erp_code"`
	CreatedAt        string    `db:"created_at"`
	UpdatedAt        string    `db:"updated_at"`
}

// CreateEntryParams contains data for creating a catalog entry.
type CreateEntryParams struct {
	Laboratory       string
	CommercialName   string
	ActiveIngredient string
	RegulatoryCode   string
	TenderCode       string
	ERPCode          string
}

// UpdateEntryParams contains data for a sparse catalog entry update.
type UpdateEntryParams struct {
	ID               uuid.UUID
	Laboratory       *string
	CommercialName   *string
	ActiveIngredient *string
	RegulatoryCode   *string
	TenderCode       *string
	ERPCode          *string
}

// SearchParams defines the catalog search filters. At most one of the
// exact-match fields is expected per call; substring fields combine.
type SearchParams struct {
	TenderCode       string
	ERPCode          string
	RegulatoryCode   string
	Laboratory       string
	ActiveIngredient string
	CommercialName   string
	Limit            int
	Offset           int
}

// Repository defines catalog persistence operations.
type Repository interface {
	ResolveByTenderCode(ctx context.Context, code string) (CatalogEntry, error)
	Create(ctx context.Context, params CreateEntryParams) (CatalogEntry, error)
	Update(ctx context.Context, params UpdateEntryParams) (CatalogEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (CatalogEntry, error)
	Search(ctx context.Context, params SearchParams) ([]CatalogEntry, error)
}
