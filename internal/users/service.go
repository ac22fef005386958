package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/shared"
)

// RepositoryPort defines data access methods for accounts.
type RepositoryPort interface {
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	EmailInUse(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, user User) (User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, email string) error
	UpdateRole(ctx context.Context, id uuid.UUID, role authz.Role) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles user management. Every mutation is authorized through the
// engine before the repository write; authorize-before-mutate is this
// service's sequencing responsibility.
type Service struct {
	repo   RepositoryPort
	policy authz.Policy
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, policy authz.Policy) *Service {
	return &Service{repo: repo, policy: policy}
}

// CreateInput carries a user creation request.
type CreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      any
}

// UpdateInput carries a user update request. Empty fields keep their stored
// values; Role is a role change request when non-nil.
type UpdateInput struct {
	FirstName string
	LastName  string
	Email     string
	Role      any
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get fetches one account.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// Create provisions a new account on behalf of principal.
func (s *Service) Create(ctx context.Context, principal authz.Principal, input CreateInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	inUse, err := s.repo.EmailInUse(ctx, email, uuid.Nil)
	if err != nil {
		return User{}, err
	}
	if denied := s.policy.AuthorizeCreate(principal, input.Role, inUse).Err(); denied != nil {
		return User{}, denied
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	role := authz.ParseRole(input.Role)
	user := User{
		Email:           email,
		PasswordHash:    string(hash),
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		Role:            role,
		PagePermissions: authz.DefaultPermissions(role),
		ProfileImg:      defaultProfileImg,
		IsActive:        true,
	}
	return s.repo.Create(ctx, user)
}

// Update applies profile changes and, when requested, a role change.
func (s *Service) Update(ctx context.Context, principal authz.Principal, id uuid.UUID, input UpdateInput) (User, error) {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return User{}, s.notFound()
		}
		return User{}, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	emailChanged := email != "" && email != target.Email
	var emailInUse bool
	if emailChanged {
		emailInUse, err = s.repo.EmailInUse(ctx, email, id)
		if err != nil {
			return User{}, err
		}
	}

	requestedRole := authz.ParseRole(input.Role)
	roleChanged := input.Role != nil && requestedRole != target.Role

	if roleChanged {
		if denied := s.policy.AuthorizeRoleChange(principal, target.Target(), input.Role).Err(); denied != nil {
			return User{}, denied
		}
	}
	if denied := s.policy.AuthorizeProfileUpdate(principal, target.Target(), emailChanged, emailInUse).Err(); denied != nil {
		return User{}, denied
	}

	if input.FirstName != "" {
		target.FirstName = strings.TrimSpace(input.FirstName)
	}
	if input.LastName != "" {
		target.LastName = strings.TrimSpace(input.LastName)
	}
	if emailChanged {
		target.Email = email
	}
	if err := s.repo.UpdateProfile(ctx, id, target.FirstName, target.LastName, target.Email); err != nil {
		return User{}, err
	}
	if roleChanged {
		if err := s.repo.UpdateRole(ctx, id, requestedRole); err != nil {
			return User{}, err
		}
		target.Role = requestedRole
	}
	return target, nil
}

// Delete removes an account on behalf of principal.
func (s *Service) Delete(ctx context.Context, principal authz.Principal, id uuid.UUID) error {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.notFound()
		}
		return err
	}
	if denied := s.policy.AuthorizeDelete(principal, target.Target()).Err(); denied != nil {
		return denied
	}
	return s.repo.Delete(ctx, id)
}

// SetStatus activates or deactivates an account on behalf of principal.
func (s *Service) SetStatus(ctx context.Context, principal authz.Principal, id uuid.UUID, active bool) error {
	target, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return s.notFound()
		}
		return err
	}
	if denied := s.policy.AuthorizeSetStatus(principal, target.Target(), active).Err(); denied != nil {
		return denied
	}
	return s.repo.SetActive(ctx, id, active)
}

// notFound renders the missing-target deny so handlers see one error shape
// for both "row absent" and "target nil" paths.
func (s *Service) notFound() error {
	return authz.NotFound("User not found.").Err()
}
