package joblog

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

const entryColumns = `id, datetime_in, datetime_out, driver_name, head_registration, tail_registration,
	container_no, station_in, station_out, companyname, created_by, updated_by, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for gate log entries.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.DatetimeIn, &e.DatetimeOut, &e.DriverName, &e.HeadRegistration,
		&e.TailRegistration, &e.ContainerNo, &e.StationIn, &e.StationOut, &e.CompanyName,
		&e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// List returns entries newest first under the given filters.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM data_today`
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, clause+` $`+strconv.Itoa(len(args)))
	}
	if filters.DriverName != "" {
		add(`driver_name =`, filters.DriverName)
	}
	if filters.ContainerNo != "" {
		add(`container_no =`, filters.ContainerNo)
	}
	if filters.HeadRegistration != "" {
		add(`head_registration =`, filters.HeadRegistration)
	}
	if from, to, ok := dateRange(filters.From, filters.To); ok {
		add(`datetime_in >=`, from)
		add(`datetime_in <=`, to)
	}

	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY datetime_in DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// dateRange converts YYYY-MM-DD bounds to an inclusive UTC interval. A
// single bound covers that one day.
func dateRange(fromStr, toStr string) (time.Time, time.Time, bool) {
	if fromStr == "" && toStr == "" {
		return time.Time{}, time.Time{}, false
	}
	if fromStr == "" {
		fromStr = toStr
	}
	if toStr == "" {
		toStr = fromStr
	}
	from, err := time.ParseInLocation("2006-01-02", fromStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err := time.ParseInLocation("2006-01-02", toStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to.Add(24*time.Hour - time.Millisecond), true
}

// GetByID fetches a single entry.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Entry, error) {
	e, err := scanEntry(r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM data_today WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, shared.ErrNotFound
		}
		return Entry{}, err
	}
	return e, nil
}

// Create inserts a new entry.
func (r *Repository) Create(ctx context.Context, e Entry) (Entry, error) {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO data_today (`+entryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID, e.DatetimeIn, e.DatetimeOut, e.DriverName, e.HeadRegistration, e.TailRegistration,
		e.ContainerNo, e.StationIn, e.StationOut, e.CompanyName, e.CreatedBy, e.UpdatedBy,
		e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Update persists entry changes.
func (r *Repository) Update(ctx context.Context, e Entry) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE data_today SET datetime_in = $2, datetime_out = $3, driver_name = $4,
		 head_registration = $5, tail_registration = $6, container_no = $7, station_in = $8,
		 station_out = $9, companyname = $10, updated_by = $11, updated_at = now() WHERE id = $1`,
		e.ID, e.DatetimeIn, e.DatetimeOut, e.DriverName, e.HeadRegistration, e.TailRegistration,
		e.ContainerNo, e.StationIn, e.StationOut, e.CompanyName, e.UpdatedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes an entry.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM data_today WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
