package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"procurement_backend/internal/tenders/domain"
	"procurement_backend/platform/apperr"
)

const quoteNotFoundMessage = "purchase quote not found"

const quoteColumns = `id, line_item_id, tender_id, catalog_entry_id, final_cost,
		maintenance_note, observations, catalog_code, user_id, quoted_at, created_at`

// Repo implements the purchases repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new purchases repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanQuote(row pgx.Row) (PurchaseQuote, error) {
	var q PurchaseQuote
	var quotedAt, createdAt time.Time
	if err := row.Scan(
		&q.ID, &q.LineItemID, &q.TenderID, &q.CatalogEntryID, &q.FinalCost,
		&q.MaintenanceNote, &q.Observations, &q.CatalogCode, &q.UserID, &quotedAt, &createdAt,
	); err != nil {
		return PurchaseQuote{}, err
	}
	q.QuotedAt = quotedAt.Format(time.RFC3339)
	q.CreatedAt = createdAt.Format(time.RFC3339)
	return q, nil
}

// Create inserts a purchase quote. The quote timestamp is assigned by the
// database so ordering within a batch is consistent.
func (r *Repo) Create(ctx context.Context, params CreateQuoteParams) (PurchaseQuote, error) {
	query := `
		INSERT INTO purchase_quotes (line_item_id, tender_id, catalog_entry_id,
			final_cost, maintenance_note, observations, catalog_code, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + quoteColumns

	quote, err := scanQuote(r.pool.QueryRow(ctx, query,
		params.LineItemID, params.TenderID, params.CatalogEntryID,
		params.FinalCost, params.MaintenanceNote, params.Observations,
		params.CatalogCode, params.UserID,
	))
	if err != nil {
		return PurchaseQuote{}, fmt.Errorf("create purchase quote: %w", err)
	}
	return quote, nil
}

// GetByID retrieves a purchase quote by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (PurchaseQuote, error) {
	query := `SELECT ` + quoteColumns + ` FROM purchase_quotes WHERE id = $1`

	quote, err := scanQuote(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseQuote{}, apperr.NotFound(quoteNotFoundMessage)
		}
		return PurchaseQuote{}, fmt.Errorf("get purchase quote by id: %w", err)
	}
	return quote, nil
}

// ListByTender lists a tender's quotes, newest first.
func (r *Repo) ListByTender(ctx context.Context, tenderID uuid.UUID) ([]PurchaseQuote, error) {
	query := `SELECT ` + quoteColumns + `
		FROM purchase_quotes WHERE tender_id = $1 ORDER BY quoted_at DESC`

	rows, err := r.pool.Query(ctx, query, tenderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]PurchaseQuote, 0)
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase quote: %w", err)
		}
		quotes = append(quotes, quote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase quotes rows: %w", err)
	}
	return quotes, nil
}

// Update patches a quote. Only cost, maintenance note, and observations are
// editable; the rest of the row is a historical snapshot.
func (r *Repo) Update(ctx context.Context, params UpdateQuoteParams) (PurchaseQuote, error) {
	query := `
		UPDATE purchase_quotes
		SET final_cost = COALESCE($2, final_cost),
			maintenance_note = COALESCE($3, maintenance_note),
			observations = COALESCE($4, observations)
		WHERE id = $1
		RETURNING ` + quoteColumns

	quote, err := scanQuote(r.pool.QueryRow(ctx, query,
		params.ID, params.FinalCost, params.MaintenanceNote, params.Observations,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseQuote{}, apperr.NotFound(quoteNotFoundMessage)
		}
		return PurchaseQuote{}, fmt.Errorf("update purchase quote: %w", err)
	}
	return quote, nil
}

// Delete removes a purchase quote.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM purchase_quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase quote: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMessage)
	}
	return nil
}

// ListActive returns reconciliation rows for purchasing screens: line items
// on workflow-active tenders, left-joined to the catalog by code and to
// their most recent quote against that catalog entry.
func (r *Repo) ListActive(ctx context.Context, params ListActiveParams) ([]ActiveLine, error) {
	whereClauses := []string{"t.status = ANY($1)"}
	args := []interface{}{domain.WorkflowActiveStatuses()}

	if params.TenderID != nil {
		args = append(args, *params.TenderID)
		whereClauses = append(whereClauses, fmt.Sprintf("li.tender_id = $%d", len(args)))
	}
	if params.Laboratory != "" {
		args = append(args, "%"+params.Laboratory+"%")
		whereClauses = append(whereClauses, fmt.Sprintf("ce.laboratory ILIKE $%d", len(args)))
	}
	if params.LineNumber != "" {
		args = append(args, params.LineNumber)
		whereClauses = append(whereClauses, fmt.Sprintf("li.line_number = $%d", len(args)))
	}

	query := `
		SELECT li.id, li.tender_id, li.line_number, li.alternate_index, li.quantity,
			li.description, li.catalog_code, t.status, t.client_name,
			ce.id, ce.laboratory, ce.commercial_name, ce.erp_code,
			pq.id, pq.final_cost, pq.quoted_at
		FROM line_items li
		JOIN tenders t ON t.id = li.tender_id
		LEFT JOIN catalog_entries ce ON ce.tender_code = li.catalog_code
		LEFT JOIN LATERAL (
			SELECT id, final_cost, quoted_at
			FROM purchase_quotes
			WHERE line_item_id = li.id AND catalog_entry_id = ce.id
			ORDER BY quoted_at DESC
			LIMIT 1
		) pq ON true
		WHERE ` + strings.Join(whereClauses, " AND ") + `
		ORDER BY CASE WHEN li.line_number ~ '^\s*[0-9]+\s*$'
			THEN CAST(TRIM(li.line_number) AS BIGINT) END NULLS LAST,
			li.line_number ASC, li.alternate_index ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active lines: %w", err)
	}
	defer rows.Close()

	lines := make([]ActiveLine, 0)
	for rows.Next() {
		var line ActiveLine
		var quotedAt *time.Time
		if err := rows.Scan(
			&line.LineItemID, &line.TenderID, &line.LineNumber, &line.AlternateIndex,
			&line.Quantity, &line.Description, &line.CatalogCode, &line.TenderStatus,
			&line.ClientName, &line.CatalogEntryID, &line.Laboratory,
			&line.CommercialName, &line.ERPCode, &line.QuoteID, &line.FinalCost, &quotedAt,
		); err != nil {
			return nil, fmt.Errorf("scan active line: %w", err)
		}
		if quotedAt != nil {
			formatted := quotedAt.Format(time.RFC3339)
			line.QuotedAt = &formatted
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active lines rows: %w", err)
	}
	return lines, nil
}

// ListUnmatched returns line items on workflow-active tenders whose catalog
// code matches no catalog entry.
func (r *Repo) ListUnmatched(ctx context.Context) ([]UnmatchedLine, error) {
	query := `
		SELECT li.id, li.tender_id, li.line_number, li.quantity, li.description,
			li.catalog_code, t.client_name, t.reference_number
		FROM line_items li
		JOIN tenders t ON t.id = li.tender_id
		WHERE t.status = ANY($1)
			AND li.catalog_code <> ''
			AND NOT EXISTS (
				SELECT 1 FROM catalog_entries ce WHERE ce.tender_code = li.catalog_code)
		ORDER BY t.reference_number ASC,
			CASE WHEN li.line_number ~ '^\s*[0-9]+\s*$'
				THEN CAST(TRIM(li.line_number) AS BIGINT) END NULLS LAST,
			li.line_number ASC`

	rows, err := r.pool.Query(ctx, query, domain.WorkflowActiveStatuses())
	if err != nil {
		return nil, fmt.Errorf("list unmatched lines: %w", err)
	}
	defer rows.Close()

	lines := make([]UnmatchedLine, 0)
	for rows.Next() {
		var line UnmatchedLine
		if err := rows.Scan(
			&line.LineItemID, &line.TenderID, &line.LineNumber, &line.Quantity,
			&line.Description, &line.CatalogCode, &line.ClientName, &line.ReferenceNumber,
		); err != nil {
			return nil, fmt.Errorf("scan unmatched line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unmatched lines rows: %w", err)
	}
	return lines, nil
}

const historySelect = `
		SELECT pq.id, pq.line_item_id, pq.tender_id, pq.catalog_entry_id, pq.final_cost,
			pq.maintenance_note, pq.observations, pq.catalog_code, pq.user_id,
			pq.quoted_at, pq.created_at, li.line_number
		FROM purchase_quotes pq
		JOIN line_items li ON li.id = pq.line_item_id`

func (r *Repo) scanHistory(rows pgx.Rows) ([]HistoryEntry, error) {
	entries := make([]HistoryEntry, 0)
	for rows.Next() {
		var e HistoryEntry
		var quotedAt, createdAt time.Time
		if err := rows.Scan(
			&e.ID, &e.LineItemID, &e.TenderID, &e.CatalogEntryID, &e.FinalCost,
			&e.MaintenanceNote, &e.Observations, &e.CatalogCode, &e.UserID,
			&quotedAt, &createdAt, &e.LineNumber,
		); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.QuotedAt = quotedAt.Format(time.RFC3339)
		e.CreatedAt = createdAt.Format(time.RFC3339)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return entries, nil
}

// HistoryByTender lists a tender's quote history grouped by line number
// ascending, newest quote first within each line.
func (r *Repo) HistoryByTender(ctx context.Context, tenderID uuid.UUID) ([]HistoryEntry, error) {
	query := historySelect + `
		WHERE pq.tender_id = $1
		ORDER BY CASE WHEN li.line_number ~ '^\s*[0-9]+\s*$'
			THEN CAST(TRIM(li.line_number) AS BIGINT) END NULLS LAST,
			li.line_number ASC, pq.quoted_at DESC`

	rows, err := r.pool.Query(ctx, query, tenderID)
	if err != nil {
		return nil, fmt.Errorf("history by tender: %w", err)
	}
	defer rows.Close()
	return r.scanHistory(rows)
}

// HistoryByCatalogCode lists the quote history of a catalog code across all
// tenders, newest first. The join uses the denormalized snapshot code, so
// later edits to the line item do not hide old quotes.
func (r *Repo) HistoryByCatalogCode(ctx context.Context, code string) ([]HistoryEntry, error) {
	query := historySelect + `
		WHERE pq.catalog_code = $1
		ORDER BY pq.quoted_at DESC`

	rows, err := r.pool.Query(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("history by catalog code: %w", err)
	}
	defer rows.Close()
	return r.scanHistory(rows)
}

// HistoryAll lists all quotes, newest first.
func (r *Repo) HistoryAll(ctx context.Context, limit, offset int) ([]HistoryEntry, error) {
	query := historySelect + ` ORDER BY pq.quoted_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history all: %w", err)
	}
	defer rows.Close()
	return r.scanHistory(rows)
}

// LineItemExists reports whether a line item row exists.
func (r *Repo) LineItemExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM line_items WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("line item exists: %w", err)
	}
	return exists, nil
}

// TenderExists reports whether a tender row exists.
func (r *Repo) TenderExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tenders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("tender exists: %w", err)
	}
	return exists, nil
}

// UserExists reports whether a user row exists.
func (r *Repo) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return exists, nil
}
