package heads

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdesk/fleetdesk/internal/platform/db"
	"github.com/fleetdesk/fleetdesk/internal/shared"
)

const headColumns = `id, license_plate, company_name, created_by, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for truck heads.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all heads, optionally filtered by plate or company search.
func (r *Repository) List(ctx context.Context, search string) ([]Head, error) {
	query := `SELECT ` + headColumns + ` FROM truck_heads`
	args := []any{}
	if search != "" {
		query += ` WHERE license_plate ILIKE $1 OR company_name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY license_plate`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Head
	for rows.Next() {
		var h Head
		if err := rows.Scan(&h.ID, &h.LicensePlate, &h.CompanyName, &h.CreatedBy, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetByID fetches a single head.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Head, error) {
	var h Head
	err := r.pool.QueryRow(ctx, `SELECT `+headColumns+` FROM truck_heads WHERE id = $1`, id).
		Scan(&h.ID, &h.LicensePlate, &h.CompanyName, &h.CreatedBy, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Head{}, shared.ErrNotFound
		}
		return Head{}, err
	}
	return h, nil
}

// Create inserts a new head. A duplicate license plate surfaces as
// shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, h Head) (Head, error) {
	now := time.Now()
	h.CreatedAt = now
	h.UpdatedAt = now
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO truck_heads (`+headColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		h.ID, h.LicensePlate, h.CompanyName, h.CreatedBy, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Head{}, shared.ErrDuplicate
		}
		return Head{}, err
	}
	return h, nil
}

// Update persists plate and company changes.
func (r *Repository) Update(ctx context.Context, h Head) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE truck_heads SET license_plate = $2, company_name = $3, updated_at = now() WHERE id = $1`,
		h.ID, h.LicensePlate, h.CompanyName)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return shared.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a head.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM truck_heads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
