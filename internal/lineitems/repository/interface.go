package repository

import (
	"context"

	"github.com/google/uuid"
)

// LineItem is one requested product line within a tender. Alternate index 0
// is the primary line; a positive index identifies an alternate competing
// for the same line number. The tuple (tender, line number, alternate index)
// is unique.
type LineItem struct {
	ID                 uuid.UUID `db:"id"`
	TenderID           uuid.UUID `db:"tender_id"`
	LineNumber         string    `db:"line_number"`
	AlternateIndex     int       `db:"alternate_index"`
	Quantity           int64     `db:"quantity"`
	Description        string    `db:"description"`
	CatalogCode        string    `db:"catalog_code"`
	CatalogDescription string    `db:"catalog_description"`
	ChosenLaboratory   string    `db:"chosen_laboratory"`
	ChosenCost         *float64  `db:"chosen_cost"`
	RegulatoryCode     string    `db:"regulatory_code"`
	SalePrice          *float64  `db:"sale_price"`
	PreAwarded         bool      `db:"pre_awarded"`
	DeliveryMonth      string    `db:"delivery_month"`
	Margin             *float64  `db:"margin"`
	Notes              string    `db:"notes"`
	CreatedAt          string    `db:"created_at"`
	UpdatedAt          string    `db:"updated_at"`
}

// CreateLineItemParams contains data for inserting a line item.
type CreateLineItemParams struct {
	TenderID           uuid.UUID
	LineNumber         string
	AlternateIndex     int
	Quantity           int64
	Description        string
	CatalogCode        string
	CatalogDescription string
	Notes              string
}

// UpdateLineItemParams contains data for a sparse line item update.
// Nil fields are left untouched.
type UpdateLineItemParams struct {
	ID                 uuid.UUID
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

// UpdateCostsParams patches the cost-selection fields of a line item
// addressed by its (tender, line number, alternate index) tuple.
type UpdateCostsParams struct {
	TenderID         uuid.UUID
	LineNumber       string
	AlternateIndex   int
	ChosenLaboratory *string
	ChosenCost       *float64
	RegulatoryCode   *string
	SalePrice        *float64
	Margin           *float64
	Notes            *string
}

// Tuple addresses a line within a tender by line number and alternate index.
type Tuple struct {
	LineNumber     string
	AlternateIndex int
}

// PreAwardRow marks one line's pre-award state.
type PreAwardRow struct {
	LineNumber    string
	PreAwarded    bool
	DeliveryMonth *string
}

// Repository defines line item persistence operations.
type Repository interface {
	Create(ctx context.Context, params CreateLineItemParams) (LineItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (LineItem, error)
	GetByTuple(ctx context.Context, tenderID uuid.UUID, lineNumber string, alternateIndex int) (LineItem, error)
	TupleExists(ctx context.Context, tenderID uuid.UUID, lineNumber string, alternateIndex int) (bool, error)
	ExistingTuples(ctx context.Context, tenderID uuid.UUID) (map[Tuple]struct{}, error)
	Update(ctx context.Context, params UpdateLineItemParams) (LineItem, error)
	UpdateCosts(ctx context.Context, params UpdateCostsParams) (LineItem, error)
	SetPreAward(ctx context.Context, tenderID uuid.UUID, row PreAwardRow) (LineItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllForTender(ctx context.Context, tenderID uuid.UUID) (int64, error)
	ListForTender(ctx context.Context, tenderID uuid.UUID) ([]LineItem, error)
}
