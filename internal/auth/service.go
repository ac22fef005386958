package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/shared"
	"github.com/fleetdesk/fleetdesk/internal/users"
)

// UserStore is the slice of the user repository authentication needs.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (users.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (users.User, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, user users.User) (users.User, error)
}

// Service wraps authentication business rules.
type Service struct {
	store UserStore
}

// NewService constructs a new Service.
func NewService(store UserStore) *Service {
	return &Service{store: store}
}

// Authenticate validates email/password credentials. Disabled accounts
// surface a distinct error so the handler can explain the lockout.
func (s *Service) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	user, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return users.User{}, shared.ErrAccountDisabled
	}
	return user, nil
}

// RegisterInput carries a bootstrap registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ErrAlreadyBootstrapped is returned once an account exists; further
// accounts are provisioned through user management only.
var ErrAlreadyBootstrapped = errors.New("auth: registration closed")

// Bootstrap creates the first account. The inaugural account is a super
// admin with the full permission set; once any account exists the
// endpoint is closed.
func (s *Service) Bootstrap(ctx context.Context, input RegisterInput) (users.User, error) {
	total, err := s.store.Count(ctx)
	if err != nil {
		return users.User{}, err
	}
	if total > 0 {
		return users.User{}, ErrAlreadyBootstrapped
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return users.User{}, err
	}

	return s.store.Create(ctx, users.User{
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash:    string(hash),
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		Role:            authz.RoleSuperAdmin,
		PagePermissions: authz.DefaultPermissions(authz.RoleSuperAdmin),
		IsActive:        true,
	})
}

// Lookup resolves a session user ID back to an account.
func (s *Service) Lookup(ctx context.Context, id string) (users.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return users.User{}, shared.ErrNotFound
	}
	return s.store.GetByID(ctx, parsed)
}
