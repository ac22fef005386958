package drivers

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fleetdesk/fleetdesk/internal/shared"
)

// RepositoryPort defines data access methods for drivers.
type RepositoryPort interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Driver, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (Driver, error)
	Create(ctx context.Context, d Driver) (Driver, error)
	Update(ctx context.Context, d Driver) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles driver roster operations.
type Service struct {
	repo RepositoryPort

	// The collator keeps iterator state between comparisons, so it is
	// not safe for concurrent use.
	mu       sync.Mutex
	collator *collate.Collator
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{
		repo:     repo,
		collator: collate.New(language.Thai),
	}
}

// List returns one page of drivers. The page is re-sorted with a Thai
// collator because the database's byte order misplaces Thai vowels.
func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Driver, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sort.SliceStable(items, func(i, j int) bool {
		if c := s.collator.CompareString(items[i].FirstName, items[j].FirstName); c != 0 {
			return c < 0
		}
		return s.collator.CompareString(items[i].LastName, items[j].LastName) < 0
	})
	return items, shared.NewPagination(filters.Page, filters.Limit, total), nil
}

// Get fetches one driver.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Driver, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateInput carries a driver creation request.
type CreateInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Position    string
	Company     string
	Detail      string
	ProfileImg  string
}

// Create registers a new driver recorded against its creator.
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, input CreateInput) (Driver, error) {
	profileImg := strings.TrimSpace(input.ProfileImg)
	if profileImg == "" {
		profileImg = defaultProfileImg
	}
	return s.repo.Create(ctx, Driver{
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		Position:    strings.TrimSpace(input.Position),
		Company:     strings.TrimSpace(input.Company),
		Detail:      strings.TrimSpace(input.Detail),
		ProfileImg:  profileImg,
		CreatedBy:   createdBy,
	})
}

// UpdateInput carries a driver update. Empty fields keep stored values.
type UpdateInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Position    string
	Company     string
	Detail      *string
	ProfileImg  string
}

// Update applies changes to a driver.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (Driver, error) {
	driver, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Driver{}, err
	}
	if input.FirstName != "" {
		driver.FirstName = strings.TrimSpace(input.FirstName)
	}
	if input.LastName != "" {
		driver.LastName = strings.TrimSpace(input.LastName)
	}
	if input.PhoneNumber != "" {
		driver.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	}
	if input.Position != "" {
		driver.Position = strings.TrimSpace(input.Position)
	}
	if input.Company != "" {
		driver.Company = strings.TrimSpace(input.Company)
	}
	if input.Detail != nil {
		driver.Detail = strings.TrimSpace(*input.Detail)
	}
	if input.ProfileImg != "" {
		driver.ProfileImg = strings.TrimSpace(input.ProfileImg)
	}
	if err := s.repo.Update(ctx, driver); err != nil {
		return Driver{}, err
	}
	return driver, nil
}

// Delete removes a driver from the roster.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
