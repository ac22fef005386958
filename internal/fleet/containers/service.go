package containers

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for containers.
type RepositoryPort interface {
	List(ctx context.Context, search string) ([]Container, error)
	GetByID(ctx context.Context, id uuid.UUID) (Container, error)
	Create(ctx context.Context, c Container) (Container, error)
	Update(ctx context.Context, c Container) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles container registry operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns containers matching the optional search term.
func (s *Service) List(ctx context.Context, search string) ([]Container, error) {
	return s.repo.List(ctx, search)
}

// Get fetches one container.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Container, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateInput carries a container registration request.
type CreateInput struct {
	ContainerNumber string
	CompanyName     string
	ContainerSize   string
}

// Create registers a new container. Numbers are stored uppercased so
// lookups match regardless of how the client typed them.
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, input CreateInput) (Container, error) {
	return s.repo.Create(ctx, Container{
		ContainerNumber: strings.ToUpper(strings.TrimSpace(input.ContainerNumber)),
		CompanyName:     strings.TrimSpace(input.CompanyName),
		ContainerSize:   strings.TrimSpace(input.ContainerSize),
		CreatedBy:       createdBy,
	})
}

// UpdateInput carries container changes. Empty fields keep stored values.
type UpdateInput struct {
	ContainerNumber string
	CompanyName     string
	ContainerSize   string
}

// Update applies changes to a container.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (Container, error) {
	container, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Container{}, err
	}
	if number := strings.TrimSpace(input.ContainerNumber); number != "" {
		container.ContainerNumber = strings.ToUpper(number)
	}
	if company := strings.TrimSpace(input.CompanyName); company != "" {
		container.CompanyName = company
	}
	if size := strings.TrimSpace(input.ContainerSize); size != "" {
		container.ContainerSize = size
	}
	if err := s.repo.Update(ctx, container); err != nil {
		return Container{}, err
	}
	return container, nil
}

// Delete removes a container.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
