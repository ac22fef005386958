package heads

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for truck heads.
type RepositoryPort interface {
	List(ctx context.Context, search string) ([]Head, error)
	GetByID(ctx context.Context, id uuid.UUID) (Head, error)
	Create(ctx context.Context, h Head) (Head, error)
	Update(ctx context.Context, h Head) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles truck head operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns heads matching the optional search term.
func (s *Service) List(ctx context.Context, search string) ([]Head, error) {
	return s.repo.List(ctx, search)
}

// Get fetches one head.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Head, error) {
	return s.repo.GetByID(ctx, id)
}

// Create registers a new head recorded against its creator.
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, licensePlate, companyName string) (Head, error) {
	return s.repo.Create(ctx, Head{
		LicensePlate: strings.TrimSpace(licensePlate),
		CompanyName:  strings.TrimSpace(companyName),
		CreatedBy:    createdBy,
	})
}

// Update applies plate or company changes. Empty fields keep stored values.
func (s *Service) Update(ctx context.Context, id uuid.UUID, licensePlate, companyName string) (Head, error) {
	head, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Head{}, err
	}
	if plate := strings.TrimSpace(licensePlate); plate != "" {
		head.LicensePlate = plate
	}
	if company := strings.TrimSpace(companyName); company != "" {
		head.CompanyName = company
	}
	if err := s.repo.Update(ctx, head); err != nil {
		return Head{}, err
	}
	return head, nil
}

// Delete removes a head.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
