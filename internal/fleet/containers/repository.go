package containers

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

const containerColumns = `id, container_number, company_name, container_size, created_by, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for containers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all containers, optionally filtered by number or company.
func (r *Repository) List(ctx context.Context, search string) ([]Container, error) {
	query := `SELECT ` + containerColumns + ` FROM containers`
	args := []any{}
	if search != "" {
		query += ` WHERE container_number ILIKE $1 OR company_name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY container_number`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Container
	for rows.Next() {
		var c Container
		if err := rows.Scan(&c.ID, &c.ContainerNumber, &c.CompanyName, &c.ContainerSize,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID fetches a single container.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Container, error) {
	var c Container
	err := r.pool.QueryRow(ctx, `SELECT `+containerColumns+` FROM containers WHERE id = $1`, id).
		Scan(&c.ID, &c.ContainerNumber, &c.CompanyName, &c.ContainerSize,
			&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Container{}, shared.ErrNotFound
		}
		return Container{}, err
	}
	return c, nil
}

// Create inserts a new container. A duplicate container number surfaces
// as shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, c Container) (Container, error) {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO containers (`+containerColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.ContainerNumber, c.CompanyName, c.ContainerSize, c.CreatedBy, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Container{}, shared.ErrDuplicate
		}
		return Container{}, err
	}
	return c, nil
}

// Update persists container changes.
func (r *Repository) Update(ctx context.Context, c Container) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE containers SET container_number = $2, company_name = $3, container_size = $4, updated_at = now() WHERE id = $1`,
		c.ID, c.ContainerNumber, c.CompanyName, c.ContainerSize)
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

// Delete removes a container.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM containers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
