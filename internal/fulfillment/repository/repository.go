package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"procurement_backend/platform/apperr"
)

const recordNotFoundMessage = "fulfillment record not found"

const recordColumns = `id, line_item_id, realized_quantity, realized_cost,
		realized_price, realized_laboratory, created_at, updated_at`

// Repo implements the fulfillment repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new fulfillment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanRecord(row pgx.Row) (FulfillmentRecord, error) {
	var rec FulfillmentRecord
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&rec.ID, &rec.LineItemID, &rec.RealizedQuantity, &rec.RealizedCost,
		&rec.RealizedPrice, &rec.RealizedLaboratory, &createdAt, &updatedAt,
	); err != nil {
		return FulfillmentRecord{}, err
	}
	rec.CreatedAt = createdAt.Format(time.RFC3339)
	rec.UpdatedAt = updatedAt.Format(time.RFC3339)
	return rec, nil
}

// Create inserts a fulfillment record.
func (r *Repo) Create(ctx context.Context, params CreateParams) (FulfillmentRecord, error) {
	query := `
		INSERT INTO fulfillment_records (
			line_item_id, realized_quantity, realized_cost,
			realized_price, realized_laboratory
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + recordColumns

	rec, err := scanRecord(r.pool.QueryRow(ctx, query,
		params.LineItemID, params.RealizedQuantity, params.RealizedCost,
		params.RealizedPrice, params.RealizedLaboratory,
	))
	if err != nil {
		return FulfillmentRecord{}, fmt.Errorf("create fulfillment record: %w", err)
	}
	return rec, nil
}

// GetByID retrieves a fulfillment record by its id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (FulfillmentRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM fulfillment_records WHERE id = $1`

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FulfillmentRecord{}, apperr.NotFound(recordNotFoundMessage)
		}
		return FulfillmentRecord{}, fmt.Errorf("get fulfillment record: %w", err)
	}
	return rec, nil
}

// Update patches only the supplied fields.
func (r *Repo) Update(ctx context.Context, params UpdateParams) (FulfillmentRecord, error) {
	query := `
		UPDATE fulfillment_records SET
			realized_quantity = COALESCE($2, realized_quantity),
			realized_cost = COALESCE($3, realized_cost),
			realized_price = COALESCE($4, realized_price),
			realized_laboratory = COALESCE($5, realized_laboratory),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + recordColumns

	rec, err := scanRecord(r.pool.QueryRow(ctx, query,
		params.ID, params.RealizedQuantity, params.RealizedCost,
		params.RealizedPrice, params.RealizedLaboratory,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FulfillmentRecord{}, apperr.NotFound(recordNotFoundMessage)
		}
		return FulfillmentRecord{}, fmt.Errorf("update fulfillment record: %w", err)
	}
	return rec, nil
}

// Delete removes a fulfillment record.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM fulfillment_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fulfillment record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(recordNotFoundMessage)
	}
	return nil
}

// ListByLineItem lists a line item's fulfillment records, newest first.
func (r *Repo) ListByLineItem(ctx context.Context, lineItemID uuid.UUID) ([]FulfillmentRecord, error) {
	query := `SELECT ` + recordColumns + `
		FROM fulfillment_records
		WHERE line_item_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, lineItemID)
	if err != nil {
		return nil, fmt.Errorf("list fulfillment records: %w", err)
	}
	defer rows.Close()

	records := make([]FulfillmentRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fulfillment record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fulfillment records: %w", err)
	}
	return records, nil
}

// ListByTender lists all fulfillment records for a tender's line items,
// ordered by line number as an integer with the record id as tiebreak.
func (r *Repo) ListByTender(ctx context.Context, tenderID uuid.UUID) ([]TenderRecord, error) {
	query := `
		SELECT fr.id, fr.line_item_id, fr.realized_quantity, fr.realized_cost,
			fr.realized_price, fr.realized_laboratory, fr.created_at, fr.updated_at,
			li.line_number, li.alternate_index
		FROM fulfillment_records fr
		JOIN line_items li ON li.id = fr.line_item_id
		WHERE li.tender_id = $1
		ORDER BY CASE WHEN li.line_number ~ '^\s*[0-9]+\s*$'
			THEN CAST(TRIM(li.line_number) AS BIGINT) END NULLS LAST,
			li.line_number ASC, li.alternate_index ASC, fr.id ASC`

	rows, err := r.pool.Query(ctx, query, tenderID)
	if err != nil {
		return nil, fmt.Errorf("list tender fulfillment records: %w", err)
	}
	defer rows.Close()

	records := make([]TenderRecord, 0)
	for rows.Next() {
		var rec TenderRecord
		var createdAt, updatedAt time.Time
		if err := rows.Scan(
			&rec.ID, &rec.LineItemID, &rec.RealizedQuantity, &rec.RealizedCost,
			&rec.RealizedPrice, &rec.RealizedLaboratory, &createdAt, &updatedAt,
			&rec.LineNumber, &rec.AlternateIndex,
		); err != nil {
			return nil, fmt.Errorf("scan tender fulfillment record: %w", err)
		}
		rec.CreatedAt = createdAt.Format(time.RFC3339)
		rec.UpdatedAt = updatedAt.Format(time.RFC3339)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tender fulfillment records: %w", err)
	}
	return records, nil
}

// LineItemExists reports whether a line item row exists.
func (r *Repo) LineItemExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM line_items WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check line item exists: %w", err)
	}
	return exists, nil
}
