package repository

import (
	"context"

	"github.com/google/uuid"
)

// FulfillmentRecord captures what was actually delivered against a line
// item after the fact. Records exist for analysis only and never influence
// quote selection.
type FulfillmentRecord struct {
	ID                 uuid.UUID `db:"id"`
	LineItemID         uuid.UUID `db:"line_item_id"`
	RealizedQuantity   int64     `db:"realized_quantity"`
	RealizedCost       float64   `db:"realized_cost"`
	RealizedPrice      float64   `db:"realized_price"`
	RealizedLaboratory string    `db:"realized_laboratory"`
	CreatedAt          string    `db:"created_at"`
	UpdatedAt          string    `db:"updated_at"`
}

// TenderRecord is a fulfillment record joined with its line item's number
// for tender-level listings.
type TenderRecord struct {
	FulfillmentRecord
	LineNumber     string
	AlternateIndex int
}

// CreateParams contains data for inserting a fulfillment record.
type CreateParams struct {
	LineItemID         uuid.UUID
	RealizedQuantity   int64
	RealizedCost       float64
	RealizedPrice      float64
	RealizedLaboratory string
}

// UpdateParams contains data for a sparse fulfillment record patch.
type UpdateParams struct {
	ID                 uuid.UUID
	RealizedQuantity   *int64
	RealizedCost       *float64
	RealizedPrice      *float64
	RealizedLaboratory *string
}

// Repository defines fulfillment record persistence operations.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (FulfillmentRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (FulfillmentRecord, error)
	Update(ctx context.Context, params UpdateParams) (FulfillmentRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByLineItem(ctx context.Context, lineItemID uuid.UUID) ([]FulfillmentRecord, error)
	ListByTender(ctx context.Context, tenderID uuid.UUID) ([]TenderRecord, error)
	LineItemExists(ctx context.Context, id uuid.UUID) (bool, error)
}
