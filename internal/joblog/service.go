package joblog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for gate log entries.
type RepositoryPort interface {
	List(ctx context.Context, filters ListFilters) ([]Entry, error)
	GetByID(ctx context.Context, id uuid.UUID) (Entry, error)
	Create(ctx context.Context, e Entry) (Entry, error)
	Update(ctx context.Context, e Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles gate log operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns entries under the given filters.
func (s *Service) List(ctx context.Context, filters ListFilters) ([]Entry, error) {
	filters.DriverName = strings.TrimSpace(filters.DriverName)
	filters.ContainerNo = strings.TrimSpace(filters.ContainerNo)
	filters.HeadRegistration = strings.TrimSpace(filters.HeadRegistration)
	return s.repo.List(ctx, filters)
}

// Get fetches one entry.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateInput carries a gate entry request.
type CreateInput struct {
	DatetimeIn       time.Time
	DatetimeOut      *time.Time
	DriverName       string
	HeadRegistration string
	TailRegistration string
	ContainerNo      string
	StationIn        string
	StationOut       string
	CompanyName      string
}

// Create records a new gate movement.
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, input CreateInput) (Entry, error) {
	return s.repo.Create(ctx, Entry{
		DatetimeIn:       input.DatetimeIn,
		DatetimeOut:      input.DatetimeOut,
		DriverName:       strings.TrimSpace(input.DriverName),
		HeadRegistration: strings.TrimSpace(input.HeadRegistration),
		TailRegistration: strings.TrimSpace(input.TailRegistration),
		ContainerNo:      strings.ToUpper(strings.TrimSpace(input.ContainerNo)),
		StationIn:        strings.TrimSpace(input.StationIn),
		StationOut:       strings.TrimSpace(input.StationOut),
		CompanyName:      strings.TrimSpace(input.CompanyName),
		CreatedBy:        createdBy,
	})
}

// UpdateInput carries entry changes. Nil or empty fields keep stored
// values; DatetimeOut and StationOut may be set once the truck leaves.
type UpdateInput struct {
	DatetimeIn       *time.Time
	DatetimeOut      *time.Time
	DriverName       string
	HeadRegistration string
	TailRegistration string
	ContainerNo      string
	StationIn        string
	StationOut       string
	CompanyName      string
}

// Update applies changes to an entry and stamps the editor.
func (s *Service) Update(ctx context.Context, updatedBy uuid.UUID, id uuid.UUID, input UpdateInput) (Entry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if input.DatetimeIn != nil {
		entry.DatetimeIn = *input.DatetimeIn
	}
	if input.DatetimeOut != nil {
		entry.DatetimeOut = input.DatetimeOut
	}
	if v := strings.TrimSpace(input.DriverName); v != "" {
		entry.DriverName = v
	}
	if v := strings.TrimSpace(input.HeadRegistration); v != "" {
		entry.HeadRegistration = v
	}
	if v := strings.TrimSpace(input.TailRegistration); v != "" {
		entry.TailRegistration = v
	}
	if v := strings.TrimSpace(input.ContainerNo); v != "" {
		entry.ContainerNo = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(input.StationIn); v != "" {
		entry.StationIn = v
	}
	if v := strings.TrimSpace(input.StationOut); v != "" {
		entry.StationOut = v
	}
	if v := strings.TrimSpace(input.CompanyName); v != "" {
		entry.CompanyName = v
	}
	entry.UpdatedBy = &updatedBy

	if err := s.repo.Update(ctx, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
