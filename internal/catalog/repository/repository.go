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

	"procurement_backend/platform/apperr"
)

const entryNotFoundMessage = "catalog entry not found"

const entryColumns = `id, laboratory, commercial_name, active_ingredient,
		regulatory_code, tender_code, erp_code, created_at, updated_at`

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

func scanEntry(row pgx.Row) (CatalogEntry, error) {
	var e CatalogEntry
	var createdAt, updatedAt time.Time
	if err := row.Scan(
		&e.ID, &e.Laboratory, &e.CommercialName, &e.ActiveIngredient,
		&e.RegulatoryCode, &e.TenderCode, &e.ERPCode, &createdAt, &updatedAt,
	); err != nil {
		return CatalogEntry{}, err
	}
	e.CreatedAt = createdAt.Format(time.RFC3339)
	e.UpdatedAt = updatedAt.Format(time.RFC3339)
	return e, nil
}

// ResolveByTenderCode finds the entry whose tender code equals the given
// code exactly. String comparison keeps leading zeros significant.
func (r *Repo) ResolveByTenderCode(ctx context.Context, code string) (CatalogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM catalog_entries WHERE tender_code = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CatalogEntry{}, apperr.NotFound(entryNotFoundMessage)
		}
		return CatalogEntry{}, fmt.Errorf("resolve catalog entry: %w", err)
	}
	return entry, nil
}

// Create inserts a catalog entry.
func (r *Repo) Create(ctx context.Context, params CreateEntryParams) (CatalogEntry, error) {
	query := `
		INSERT INTO catalog_entries (laboratory, commercial_name, active_ingredient,
			regulatory_code, tender_code, erp_code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + entryColumns

	entry, err := scanEntry(r.pool.QueryRow(ctx, query,
		params.Laboratory, params.CommercialName, params.ActiveIngredient,
		params.RegulatoryCode, params.TenderCode, params.ERPCode,
	))
	if err != nil {
		return CatalogEntry{}, fmt.Errorf("create catalog entry: %w", err)
	}
	return entry, nil
}

// Update patches a catalog entry. Nil params leave columns untouched.
func (r *Repo) Update(ctx context.Context, params UpdateEntryParams) (CatalogEntry, error) {
	query := `
		UPDATE catalog_entries
		SET laboratory = COALESCE($2, laboratory),
			commercial_name = COALESCE($3, commercial_name),
			active_ingredient = COALESCE($4, active_ingredient),
			regulatory_code = COALESCE($5, regulatory_code),
			tender_code = COALESCE($6, tender_code),
			erp_code = COALESCE($7, erp_code),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + entryColumns

	entry, err := scanEntry(r.pool.QueryRow(ctx, query,
		params.ID, params.Laboratory, params.CommercialName, params.ActiveIngredient,
		params.RegulatoryCode, params.TenderCode, params.ERPCode,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CatalogEntry{}, apperr.NotFound(entryNotFoundMessage)
		}
		return CatalogEntry{}, fmt.Errorf("update catalog entry: %w", err)
	}
	return entry, nil
}

// Delete removes a catalog entry.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM catalog_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete catalog entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(entryNotFoundMessage)
	}
	return nil
}

// GetByID retrieves a catalog entry by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (CatalogEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM catalog_entries WHERE id = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CatalogEntry{}, apperr.NotFound(entryNotFoundMessage)
		}
		return CatalogEntry{}, fmt.Errorf("get catalog entry by id: %w", err)
	}
	return entry, nil
}

// Search lists catalog entries matching the given filters. Tender and
// regulatory codes match exactly; the text fields match as
// case-insensitive substrings.
func (r *Repo) Search(ctx context.Context, params SearchParams) ([]CatalogEntry, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}

	addExact := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addSubstring := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+value+"%")
		whereClauses = append(whereClauses, fmt.Sprintf("%s ILIKE $%d", column, len(args)))
	}

	addExact("tender_code", params.TenderCode)
	addExact("regulatory_code", params.RegulatoryCode)
	addSubstring("erp_code", params.ERPCode)
	addSubstring("laboratory", params.Laboratory)
	addSubstring("active_ingredient", params.ActiveIngredient)
	addSubstring("commercial_name", params.CommercialName)

	query := `SELECT ` + entryColumns + ` FROM catalog_entries WHERE ` +
		strings.Join(whereClauses, " AND ") + ` ORDER BY commercial_name ASC`

	if params.Limit > 0 {
		args = append(args, params.Limit, params.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search catalog entries: %w", err)
	}
	defer rows.Close()

	entries := make([]CatalogEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search catalog entries rows: %w", err)
	}
	return entries, nil
}
