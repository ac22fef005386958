package drivers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdesk/fleetdesk/internal/shared"
)

const driverColumns = `id, first_name, last_name, phone_number, position, company, detail, profile_img, created_by, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for drivers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns one page of drivers plus the total match count. Search
// covers names, phone number and company.
func (r *Repository) List(ctx context.Context, filters shared.ListFilters) ([]Driver, int, error) {
	where := ``
	args := []any{}
	if filters.Search != "" {
		where = ` WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR phone_number ILIKE $1 OR company ILIKE $1`
		args = append(args, "%"+filters.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM drivers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (filters.Page - 1) * filters.Limit
	query := `SELECT ` + driverColumns + ` FROM drivers` + where + ` ORDER BY first_name, last_name`
	if filters.Limit > 0 {
		args = append(args, filters.Limit, offset)
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.FirstName, &d.LastName, &d.PhoneNumber, &d.Position,
			&d.Company, &d.Detail, &d.ProfileImg, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// GetByID fetches a single driver.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Driver, error) {
	var d Driver
	err := r.pool.QueryRow(ctx, `SELECT `+driverColumns+` FROM drivers WHERE id = $1`, id).
		Scan(&d.ID, &d.FirstName, &d.LastName, &d.PhoneNumber, &d.Position,
			&d.Company, &d.Detail, &d.ProfileImg, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Driver{}, shared.ErrNotFound
		}
		return Driver{}, err
	}
	return d, nil
}

// Create inserts a new driver.
func (r *Repository) Create(ctx context.Context, d Driver) (Driver, error) {
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO drivers (`+driverColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		d.ID, d.FirstName, d.LastName, d.PhoneNumber, d.Position, d.Company,
		d.Detail, d.ProfileImg, d.CreatedBy, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return Driver{}, err
	}
	return d, nil
}

// Update persists driver changes.
func (r *Repository) Update(ctx context.Context, d Driver) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE drivers SET first_name = $2, last_name = $3, phone_number = $4, position = $5,
		 company = $6, detail = $7, profile_img = $8, updated_at = now() WHERE id = $1`,
		d.ID, d.FirstName, d.LastName, d.PhoneNumber, d.Position, d.Company, d.Detail, d.ProfileImg)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes a driver.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
