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

const lineItemNotFoundMessage = "line item not found"

const lineItemColumns = `id, tender_id, line_number, alternate_index, quantity,
		description, catalog_code, catalog_description, chosen_laboratory,
		chosen_cost, regulatory_code, sale_price, pre_awarded, delivery_month,
		margin, notes, created_at, updated_at`

// lineNumberOrder sorts line numbers as integers where possible; imports
// occasionally carry non-numeric values, which sort last.
const lineNumberOrder = `
		ORDER BY CASE WHEN line_number ~ '^\s*[0-9]+\s*$'
			THEN CAST(TRIM(line_number) AS BIGINT) END NULLS LAST,
			line_number ASC, alternate_index ASC`

// Repo implements the line items repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new line items repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanLineItem(row pgx.Row) (LineItem, error) {
	var li LineItem
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&li.ID, &li.TenderID, &li.LineNumber, &li.AlternateIndex, &li.Quantity,
		&li.Description, &li.CatalogCode, &li.CatalogDescription, &li.ChosenLaboratory,
		&li.ChosenCost, &li.RegulatoryCode, &li.SalePrice, &li.PreAwarded, &li.DeliveryMonth,
		&li.Margin, &li.Notes, &createdAt, &updatedAt,
	); err != nil {
		return LineItem{}, err
	}
	li.CreatedAt = createdAt.Format(time.RFC3339)
	li.UpdatedAt = updatedAt.Format(time.RFC3339)
	return li, nil
}

// Create inserts a line item.
func (r *Repo) Create(ctx context.Context, params CreateLineItemParams) (LineItem, error) {
	query := `
		INSERT INTO line_items (tender_id, line_number, alternate_index, quantity,
			description, catalog_code, catalog_description, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + lineItemColumns

	item, err := scanLineItem(r.pool.QueryRow(ctx, query,
		params.TenderID, params.LineNumber, params.AlternateIndex, params.Quantity,
		params.Description, params.CatalogCode, params.CatalogDescription, params.Notes,
	))
	if err != nil {
		return LineItem{}, fmt.Errorf("create line item: %w", err)
	}
	return item, nil
}

// GetByID retrieves a line item by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE id = $1`

	item, err := scanLineItem(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LineItem{}, apperr.NotFound(lineItemNotFoundMessage)
		}
		return LineItem{}, fmt.Errorf("get line item by id: %w", err)
	}
	return item, nil
}

// GetByTuple retrieves a line item by its unique tuple.
func (r *Repo) GetByTuple(ctx context.Context, tenderID uuid.UUID, lineNumber string, alternateIndex int) (LineItem, error) {
	query := `SELECT ` + lineItemColumns + `
		FROM line_items
		WHERE tender_id = $1 AND line_number = $2 AND alternate_index = $3`

	item, err := scanLineItem(r.pool.QueryRow(ctx, query, tenderID, lineNumber, alternateIndex))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LineItem{}, apperr.NotFound(lineItemNotFoundMessage)
		}
		return LineItem{}, fmt.Errorf("get line item by tuple: %w", err)
	}
	return item, nil
}

// TupleExists reports whether the (tender, line number, alternate) tuple is taken.
func (r *Repo) TupleExists(ctx context.Context, tenderID uuid.UUID, lineNumber string, alternateIndex int) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM line_items
		WHERE tender_id = $1 AND line_number = $2 AND alternate_index = $3)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, tenderID, lineNumber, alternateIndex).Scan(&exists); err != nil {
		return false, fmt.Errorf("line item tuple exists: %w", err)
	}
	return exists, nil
}

// ExistingTuples returns the (line number, alternate index) pairs already
// present on a tender, for batch-level duplicate screening.
func (r *Repo) ExistingTuples(ctx context.Context, tenderID uuid.UUID) (map[Tuple]struct{}, error) {
	query := `SELECT line_number, alternate_index FROM line_items WHERE tender_id = $1`

	rows, err := r.pool.Query(ctx, query, tenderID)
	if err != nil {
		return nil, fmt.Errorf("existing tuples: %w", err)
	}
	defer rows.Close()

	tuples := make(map[Tuple]struct{})
	for rows.Next() {
		var t Tuple
		if err := rows.Scan(&t.LineNumber, &t.AlternateIndex); err != nil {
			return nil, fmt.Errorf("scan tuple: %w", err)
		}
		tuples[t] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("existing tuples rows: %w", err)
	}
	return tuples, nil
}

// Update patches a line item. Nil params leave columns untouched.
func (r *Repo) Update(ctx context.Context, params UpdateLineItemParams) (LineItem, error) {
	query := `
		UPDATE line_items
		SET line_number = COALESCE($2, line_number),
			alternate_index = COALESCE($3, alternate_index),
			quantity = COALESCE($4, quantity),
			description = COALESCE($5, description),
			catalog_code = COALESCE($6, catalog_code),
			catalog_description = COALESCE($7, catalog_description),
			chosen_laboratory = COALESCE($8, chosen_laboratory),
			chosen_cost = COALESCE($9, chosen_cost),
			regulatory_code = COALESCE($10, regulatory_code),
			sale_price = COALESCE($11, sale_price),
			pre_awarded = COALESCE($12, pre_awarded),
			delivery_month = COALESCE($13, delivery_month),
			margin = COALESCE($14, margin),
			notes = COALESCE($15, notes),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + lineItemColumns

	item, err := scanLineItem(r.pool.QueryRow(ctx, query,
		params.ID, params.LineNumber, params.AlternateIndex, params.Quantity,
		params.Description, params.CatalogCode, params.CatalogDescription,
		params.ChosenLaboratory, params.ChosenCost, params.RegulatoryCode,
		params.SalePrice, params.PreAwarded, params.DeliveryMonth, params.Margin, params.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LineItem{}, apperr.NotFound(lineItemNotFoundMessage)
		}
		return LineItem{}, fmt.Errorf("update line item: %w", err)
	}
	return item, nil
}

// UpdateCosts patches cost-selection fields addressed by tuple.
func (r *Repo) UpdateCosts(ctx context.Context, params UpdateCostsParams) (LineItem, error) {
	query := `
		UPDATE line_items
		SET chosen_laboratory = COALESCE($4, chosen_laboratory),
			chosen_cost = COALESCE($5, chosen_cost),
			regulatory_code = COALESCE($6, regulatory_code),
			sale_price = COALESCE($7, sale_price),
			margin = COALESCE($8, margin),
			notes = COALESCE($9, notes),
			updated_at = now()
		WHERE tender_id = $1 AND line_number = $2 AND alternate_index = $3
		RETURNING ` + lineItemColumns

	item, err := scanLineItem(r.pool.QueryRow(ctx, query,
		params.TenderID, params.LineNumber, params.AlternateIndex,
		params.ChosenLaboratory, params.ChosenCost, params.RegulatoryCode,
		params.SalePrice, params.Margin, params.Notes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LineItem{}, apperr.NotFound(lineItemNotFoundMessage)
		}
		return LineItem{}, fmt.Errorf("update line item costs: %w", err)
	}
	return item, nil
}

// SetPreAward updates the pre-award flag and estimated delivery month of a
// primary line.
func (r *Repo) SetPreAward(ctx context.Context, tenderID uuid.UUID, row PreAwardRow) (LineItem, error) {
	query := `
		UPDATE line_items
		SET pre_awarded = $3,
			delivery_month = COALESCE($4, delivery_month),
			updated_at = now()
		WHERE tender_id = $1 AND line_number = $2 AND alternate_index = 0
		RETURNING ` + lineItemColumns

	item, err := scanLineItem(r.pool.QueryRow(ctx, query,
		tenderID, row.LineNumber, row.PreAwarded, row.DeliveryMonth,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LineItem{}, apperr.NotFound(lineItemNotFoundMessage)
		}
		return LineItem{}, fmt.Errorf("set line item pre-award: %w", err)
	}
	return item, nil
}

// Delete removes a line item together with its quotes and fulfillment
// records in one transaction.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("delete line item begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM purchase_quotes WHERE line_item_id = $1`, id); err != nil {
		return fmt.Errorf("delete line item quotes: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM fulfillment_records WHERE line_item_id = $1`, id); err != nil {
		return fmt.Errorf("delete line item fulfillment records: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM line_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete line item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(lineItemNotFoundMessage)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("delete line item commit: %w", err)
	}
	return nil
}

// DeleteAllForTender removes every line item of a tender, with dependent
// quotes and fulfillment records, and returns the line item count.
func (r *Repo) DeleteAllForTender(ctx context.Context, tenderID uuid.UUID) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete tender line items begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM purchase_quotes WHERE tender_id = $1`, tenderID); err != nil {
		return 0, fmt.Errorf("delete tender line item quotes: %w", err)
	}
	if _, err := tx.Exec(ctx, `
		DELETE FROM fulfillment_records
		WHERE line_item_id IN (SELECT id FROM line_items WHERE tender_id = $1)`, tenderID); err != nil {
		return 0, fmt.Errorf("delete tender line item fulfillment records: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM line_items WHERE tender_id = $1`, tenderID)
	if err != nil {
		return 0, fmt.Errorf("delete line items for tender: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("delete tender line items commit: %w", err)
	}
	return result.RowsAffected(), nil
}

// ListForTender lists a tender's line items in numeric line-number order.
func (r *Repo) ListForTender(ctx context.Context, tenderID uuid.UUID) ([]LineItem, error) {
	query := `SELECT ` + lineItemColumns + ` FROM line_items WHERE tender_id = $1` + lineNumberOrder

	rows, err := r.pool.Query(ctx, query, tenderID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	items := make([]LineItem, 0)
	for rows.Next() {
		item, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list line items rows: %w", err)
	}
	return items, nil
}
