package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"procurement_backend/internal/tenders/domain"
	"procurement_backend/platform/apperr"
)

const tenderNotFoundMessage = "tender not found"

const tenderColumns = `id, client_code, client_name, tender_date, reference_number,
		tender_type, time_of_day, subject, status, created_at, updated_at`

// Repo implements the tenders repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tenders repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanTender(row pgx.Row) (Tender, error) {
	var t Tender
	var date time.Time
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&t.ID, &t.ClientCode, &t.ClientName, &date, &t.ReferenceNumber,
		&t.Type, &t.TimeOfDay, &t.Subject, &t.Status, &createdAt, &updatedAt,
	); err != nil {
		return Tender{}, err
	}
	t.Date = date.Format("2006-01-02")
	t.CreatedAt = createdAt.Format(time.RFC3339)
	t.UpdatedAt = updatedAt.Format(time.RFC3339)
	return t, nil
}

// Create registers a tender.
func (r *Repo) Create(ctx context.Context, params CreateTenderParams) (Tender, error) {
	query := `
		INSERT INTO tenders (client_code, client_name, tender_date, reference_number,
			tender_type, time_of_day, subject, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + tenderColumns

	tender, err := scanTender(r.pool.QueryRow(ctx, query,
		params.ClientCode, params.ClientName, params.Date, params.ReferenceNumber,
		params.Type, params.TimeOfDay, params.Subject, params.Status,
	))
	if err != nil {
		return Tender{}, fmt.Errorf("create tender: %w", err)
	}
	return tender, nil
}

// GetByID retrieves a tender by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tenders WHERE id = $1`

	tender, err := scanTender(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tender{}, apperr.NotFound(tenderNotFoundMessage)
		}
		return Tender{}, fmt.Errorf("get tender by id: %w", err)
	}
	return tender, nil
}

// List lists tenders newest first, optionally restricted to workflow-active
// statuses and a client code.
func (r *Repo) List(ctx context.Context, params ListTendersParams) ([]Tender, error) {
	query := `SELECT ` + tenderColumns + ` FROM tenders WHERE 1=1`
	args := []interface{}{}

	if params.WorkflowActiveOnly {
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args)+1)
		args = append(args, domain.WorkflowActiveStatuses())
	}
	if params.ClientCode != "" {
		query += fmt.Sprintf(" AND client_code = $%d", len(args)+1)
		args = append(args, params.ClientCode)
	}

	query += " ORDER BY tender_date DESC, created_at DESC"

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, params.Limit, params.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tenders: %w", err)
	}
	defer rows.Close()

	tenders := make([]Tender, 0)
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tender: %w", err)
		}
		tenders = append(tenders, tender)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tenders rows: %w", err)
	}
	return tenders, nil
}

// Update patches a tender. Nil params leave columns untouched.
func (r *Repo) Update(ctx context.Context, params UpdateTenderParams) (Tender, error) {
	query := `
		UPDATE tenders
		SET client_code = COALESCE($2, client_code),
			client_name = COALESCE($3, client_name),
			tender_date = COALESCE($4::date, tender_date),
			reference_number = COALESCE($5, reference_number),
			tender_type = COALESCE($6, tender_type),
			time_of_day = COALESCE($7, time_of_day),
			subject = COALESCE($8, subject),
			status = COALESCE($9, status),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + tenderColumns

	tender, err := scanTender(r.pool.QueryRow(ctx, query,
		params.ID, params.ClientCode, params.ClientName, params.Date,
		params.ReferenceNumber, params.Type, params.TimeOfDay, params.Subject, params.Status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tender{}, apperr.NotFound(tenderNotFoundMessage)
		}
		return Tender{}, fmt.Errorf("update tender: %w", err)
	}
	return tender, nil
}

// UpdateStatus changes only the status label.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Tender, error) {
	query := `
		UPDATE tenders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + tenderColumns

	tender, err := scanTender(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tender{}, apperr.NotFound(tenderNotFoundMessage)
		}
		return Tender{}, fmt.Errorf("update tender status: %w", err)
	}
	return tender, nil
}

// Delete removes a tender and its dependent rows in one transaction.
// Order matters: quotes and fulfillment records reference line items,
// line items reference the tender.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (CascadeResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("delete tender begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var result CascadeResult

	tag, err := tx.Exec(ctx, `DELETE FROM purchase_quotes WHERE tender_id = $1`, id)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("delete tender quotes: %w", err)
	}
	result.Quotes = tag.RowsAffected()

	tag, err = tx.Exec(ctx, `
		DELETE FROM fulfillment_records
		WHERE line_item_id IN (SELECT id FROM line_items WHERE tender_id = $1)`, id)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("delete tender fulfillment records: %w", err)
	}
	result.FulfillmentRecords = tag.RowsAffected()

	tag, err = tx.Exec(ctx, `DELETE FROM line_items WHERE tender_id = $1`, id)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("delete tender line items: %w", err)
	}
	result.LineItems = tag.RowsAffected()

	tag, err = tx.Exec(ctx, `DELETE FROM tenders WHERE id = $1`, id)
	if err != nil {
		return CascadeResult{}, fmt.Errorf("delete tender: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return CascadeResult{}, apperr.NotFound(tenderNotFoundMessage)
	}

	if err := tx.Commit(ctx); err != nil {
		return CascadeResult{}, fmt.Errorf("delete tender commit: %w", err)
	}
	return result, nil
}

// ExistsByReference reports whether a tender with the same external reference
// number already exists on the given date.
func (r *Repo) ExistsByReference(ctx context.Context, referenceNumber, date string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM tenders WHERE reference_number = $1 AND tender_date = $2::date)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, referenceNumber, date).Scan(&exists); err != nil {
		return false, fmt.Errorf("tender exists by reference: %w", err)
	}
	return exists, nil
}

// Exists reports whether a tender row exists.
func (r *Repo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tenders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("tender exists: %w", err)
	}
	return exists, nil
}
