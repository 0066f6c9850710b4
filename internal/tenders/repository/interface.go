package repository

import (
	"context"

	"github.com/google/uuid"
)

// Tender represents a bidding opportunity opened by an institutional client.
type Tender struct {
	ID              uuid.UUID `db:"id"`
	ClientCode      string    `db:"client_code"`
	ClientName      string    `db:"client_name"`
	Date            string    `db:"tender_date"`
	ReferenceNumber string    `db:"reference_number"`
	Type            string    `db:"tender_type"`
	TimeOfDay       string    `db:"time_of_day"`
	Subject         string    `db:"subject"`
	Status          string    `db:"status"`
	CreatedAt       string    `db:"created_at"`
	UpdatedAt       string    `db:"updated_at"`
}

// CreateTenderParams contains data for registering a tender.
type CreateTenderParams struct {
	ClientCode      string
	ClientName      string
	Date            string
	ReferenceNumber string
	Type            string
	TimeOfDay       string
	Subject         string
	Status          string
}

// UpdateTenderParams contains data for a sparse tender update. Nil fields
// are left untouched.
type UpdateTenderParams struct {
	ID              uuid.UUID
	ClientCode      *string
	ClientName      *string
	Date            *string
	ReferenceNumber *string
	Type            *string
	TimeOfDay       *string
	Subject         *string
	Status          *string
}

// ListTendersParams defines filters for tender listings.
type ListTendersParams struct {
	WorkflowActiveOnly bool
	ClientCode         string
	Limit              int
	Offset             int
}

// CascadeResult reports how many dependent rows a tender delete removed.
type CascadeResult struct {
	Quotes             int64
	FulfillmentRecords int64
	LineItems          int64
}

// Repository defines tender persistence operations.
type Repository interface {
	Create(ctx context.Context, params CreateTenderParams) (Tender, error)
	GetByID(ctx context.Context, id uuid.UUID) (Tender, error)
	List(ctx context.Context, params ListTendersParams) ([]Tender, error)
	Update(ctx context.Context, params UpdateTenderParams) (Tender, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Tender, error)
	Delete(ctx context.Context, id uuid.UUID) (CascadeResult, error)
	ExistsByReference(ctx context.Context, referenceNumber, date string) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
