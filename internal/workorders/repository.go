package workorders

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

const workOrderColumns = `id, issue_date, work_order_number, product, driver_name, driver_phone,
	head_plate, tail_plate, container_number, company_name, description,
	created_by, updated_by, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for work orders.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanWorkOrder(row pgx.Row) (WorkOrder, error) {
	var w WorkOrder
	err := row.Scan(&w.ID, &w.IssueDate, &w.WorkOrderNumber, &w.Product, &w.DriverName,
		&w.DriverPhone, &w.HeadPlate, &w.TailPlate, &w.ContainerNumber, &w.CompanyName,
		&w.Description, &w.CreatedBy, &w.UpdatedBy, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// List returns work orders newest first, optionally filtered by a partial
// match on the work order number.
func (r *Repository) List(ctx context.Context, search string) ([]WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders`
	args := []any{}
	if search != "" {
		query += ` WHERE work_order_number ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY issue_date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WorkOrder
	for rows.Next() {
		w, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetByID fetches a single work order.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (WorkOrder, error) {
	w, err := scanWorkOrder(r.pool.QueryRow(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WorkOrder{}, shared.ErrNotFound
		}
		return WorkOrder{}, err
	}
	return w, nil
}

// GetByNumber fetches a work order by its exact number.
func (r *Repository) GetByNumber(ctx context.Context, number string) (WorkOrder, error) {
	w, err := scanWorkOrder(r.pool.QueryRow(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE work_order_number = $1`, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return WorkOrder{}, shared.ErrNotFound
		}
		return WorkOrder{}, err
	}
	return w, nil
}

// Create inserts a new work order. A duplicate number surfaces as
// shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, w WorkOrder) (WorkOrder, error) {
	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO work_orders (`+workOrderColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		w.ID, w.IssueDate, w.WorkOrderNumber, w.Product, w.DriverName, w.DriverPhone,
		w.HeadPlate, w.TailPlate, w.ContainerNumber, w.CompanyName, w.Description,
		w.CreatedBy, w.UpdatedBy, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return WorkOrder{}, shared.ErrDuplicate
		}
		return WorkOrder{}, err
	}
	return w, nil
}

// Update persists work order changes and stamps the editor.
func (r *Repository) Update(ctx context.Context, w WorkOrder) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE work_orders SET issue_date = $2, work_order_number = $3, product = $4,
		 driver_name = $5, driver_phone = $6, head_plate = $7, tail_plate = $8,
		 container_number = $9, company_name = $10, description = $11, updated_by = $12,
		 updated_at = now() WHERE id = $1`,
		w.ID, w.IssueDate, w.WorkOrderNumber, w.Product, w.DriverName, w.DriverPhone,
		w.HeadPlate, w.TailPlate, w.ContainerNumber, w.CompanyName, w.Description, w.UpdatedBy)
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

// Delete removes a work order.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
