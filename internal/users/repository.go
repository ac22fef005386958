package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/platform/db"
	"github.com/fleetdesk/fleetdesk/internal/shared"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, page_permissions, profile_img, is_active, created_at, updated_at`

// Repository provides PostgreSQL backed persistence for accounts.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns all accounts ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// GetByID fetches a single account.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// GetByEmail fetches a single account by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// EmailInUse reports whether another account already claims email.
func (r *Repository) EmailInUse(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE email = $1 AND id <> $2`, email, exclude).Scan(&count)
	return count > 0, err
}

// Count returns the total number of accounts.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// Create inserts a new account. A unique violation on email surfaces as
// shared.ErrDuplicate.
func (r *Repository) Create(ctx context.Context, user User) (User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		string(user.Role), permissionStrings(user.PagePermissions), user.ProfileImg,
		user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, shared.ErrDuplicate
		}
		return User{}, err
	}
	return user, nil
}

// UpdateProfile persists name and email changes.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, email string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET first_name = $2, last_name = $3, email = $4, updated_at = now() WHERE id = $1`,
		id, firstName, lastName, email)
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

// UpdateRole persists a role change.
func (r *Repository) UpdateRole(ctx context.Context, id uuid.UUID, role authz.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, string(role))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpdatePermissions replaces the page-permission grant list.
func (r *Repository) UpdatePermissions(ctx context.Context, id uuid.UUID, perms []authz.Permission) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET page_permissions = $2, updated_at = now() WHERE id = $1`,
		id, permissionStrings(perms))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetActive toggles the account status.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the account.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListWithoutPermissions returns accounts whose grant list is empty; the
// backfill job seeds them with role defaults.
func (r *Repository) ListWithoutPermissions(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE page_permissions IS NULL OR cardinality(page_permissions) = 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func scanUser(row pgx.Row) (User, error) {
	var (
		user  User
		role  string
		perms []string
	)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&role, &perms, &user.ProfileImg, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	user.Role = authz.ParseRole(role)
	user.PagePermissions = make([]authz.Permission, 0, len(perms))
	for _, p := range perms {
		user.PagePermissions = append(user.PagePermissions, authz.Permission(p))
	}
	return user, nil
}

func permissionStrings(perms []authz.Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
