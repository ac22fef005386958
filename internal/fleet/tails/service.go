package tails

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for trailers.
type RepositoryPort interface {
	List(ctx context.Context, search string) ([]Tail, error)
	GetByID(ctx context.Context, id uuid.UUID) (Tail, error)
	Create(ctx context.Context, t Tail) (Tail, error)
	Update(ctx context.Context, t Tail) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles trailer operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns trailers matching the optional search term.
func (s *Service) List(ctx context.Context, search string) ([]Tail, error) {
	return s.repo.List(ctx, search)
}

// Get fetches one trailer.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Tail, error) {
	return s.repo.GetByID(ctx, id)
}

// Create registers a new trailer recorded against its creator.
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, licensePlate, companyName string) (Tail, error) {
	return s.repo.Create(ctx, Tail{
		LicensePlate: strings.TrimSpace(licensePlate),
		CompanyName:  strings.TrimSpace(companyName),
		CreatedBy:    createdBy,
	})
}

// Update applies plate or company changes. Empty fields keep stored values.
func (s *Service) Update(ctx context.Context, id uuid.UUID, licensePlate, companyName string) (Tail, error) {
	tail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Tail{}, err
	}
	if plate := strings.TrimSpace(licensePlate); plate != "" {
		tail.LicensePlate = plate
	}
	if company := strings.TrimSpace(companyName); company != "" {
		tail.CompanyName = company
	}
	if err := s.repo.Update(ctx, tail); err != nil {
		return Tail{}, err
	}
	return tail, nil
}

// Delete removes a trailer.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
