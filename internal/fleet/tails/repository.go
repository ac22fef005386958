package tails

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

const tailColumns = `id, license_plate, company_name, created_by, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for trailers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all trailers, optionally filtered by plate or company search.
func (r *Repository) List(ctx context.Context, search string) ([]Tail, error) {
	query := `SELECT ` + tailColumns + ` FROM truck_tails`
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

	var out []Tail
	for rows.Next() {
		var t Tail
		if err := rows.Scan(&t.ID, &t.LicensePlate, &t.CompanyName, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID fetches a single trailer.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Tail, error) {
	var t Tail
	err := r.pool.QueryRow(ctx, `SELECT `+tailColumns+` FROM truck_tails WHERE id = $1`, id).
		Scan(&t.ID, &t.LicensePlate, &t.CompanyName, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tail{}, shared.ErrNotFound
		}
		return Tail{}, err
	}
	return t, nil
}

// Create inserts a new trailer. A duplicate license plate surfaces as
// shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, t Tail) (Tail, error) {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO truck_tails (`+tailColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.LicensePlate, t.CompanyName, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Tail{}, shared.ErrDuplicate
		}
		return Tail{}, err
	}
	return t, nil
}

// Update persists plate and company changes.
func (r *Repository) Update(ctx context.Context, t Tail) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE truck_tails SET license_plate = $2, company_name = $3, updated_at = now() WHERE id = $1`,
		t.ID, t.LicensePlate, t.CompanyName)
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

// Delete removes a trailer.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM truck_tails WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
