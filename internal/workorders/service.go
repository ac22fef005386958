package workorders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort defines data access methods for work orders.
type RepositoryPort interface {
	List(ctx context.Context, search string) ([]WorkOrder, error)
	GetByID(ctx context.Context, id uuid.UUID) (WorkOrder, error)
	GetByNumber(ctx context.Context, number string) (WorkOrder, error)
	Create(ctx context.Context, w WorkOrder) (WorkOrder, error)
	Update(ctx context.Context, w WorkOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service handles work order operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns work orders, optionally filtered by number search.
func (s *Service) List(ctx context.Context, search string) ([]WorkOrder, error) {
	return s.repo.List(ctx, search)
}

// Get fetches one work order.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (WorkOrder, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByNumber fetches a work order by its exact number.
func (s *Service) GetByNumber(ctx context.Context, number string) (WorkOrder, error) {
	return s.repo.GetByNumber(ctx, strings.TrimSpace(number))
}

// CreateInput carries a work order issue request.
type CreateInput struct {
	IssueDate       time.Time
	WorkOrderNumber string
	Product         string
	DriverName      string
	DriverPhone     string
	HeadPlate       string
	TailPlate       string
	ContainerNumber string
	CompanyName     string
	Description     string
}

// Create issues a new work order recorded against its creator.
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, input CreateInput) (WorkOrder, error) {
	return s.repo.Create(ctx, WorkOrder{
		IssueDate:       input.IssueDate,
		WorkOrderNumber: strings.TrimSpace(input.WorkOrderNumber),
		Product:         strings.TrimSpace(input.Product),
		DriverName:      strings.TrimSpace(input.DriverName),
		DriverPhone:     strings.TrimSpace(input.DriverPhone),
		HeadPlate:       strings.TrimSpace(input.HeadPlate),
		TailPlate:       strings.TrimSpace(input.TailPlate),
		ContainerNumber: strings.ToUpper(strings.TrimSpace(input.ContainerNumber)),
		CompanyName:     strings.TrimSpace(input.CompanyName),
		Description:     strings.TrimSpace(input.Description),
		CreatedBy:       createdBy,
	})
}

// UpdateInput carries work order changes. Nil or empty fields keep their
// stored values; Description distinguishes unset from explicit empty.
type UpdateInput struct {
	IssueDate       *time.Time
	WorkOrderNumber string
	Product         string
	DriverName      string
	DriverPhone     string
	HeadPlate       string
	TailPlate       string
	ContainerNumber string
	CompanyName     string
	Description     *string
}

// Update applies changes to a work order and stamps the editor.
func (s *Service) Update(ctx context.Context, updatedBy uuid.UUID, id uuid.UUID, input UpdateInput) (WorkOrder, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return WorkOrder{}, err
	}
	if input.IssueDate != nil {
		order.IssueDate = *input.IssueDate
	}
	if v := strings.TrimSpace(input.WorkOrderNumber); v != "" {
		order.WorkOrderNumber = v
	}
	if v := strings.TrimSpace(input.Product); v != "" {
		order.Product = v
	}
	if v := strings.TrimSpace(input.DriverName); v != "" {
		order.DriverName = v
	}
	if v := strings.TrimSpace(input.DriverPhone); v != "" {
		order.DriverPhone = v
	}
	if v := strings.TrimSpace(input.HeadPlate); v != "" {
		order.HeadPlate = v
	}
	if v := strings.TrimSpace(input.TailPlate); v != "" {
		order.TailPlate = v
	}
	if v := strings.TrimSpace(input.ContainerNumber); v != "" {
		order.ContainerNumber = strings.ToUpper(v)
	}
	if v := strings.TrimSpace(input.CompanyName); v != "" {
		order.CompanyName = v
	}
	if input.Description != nil {
		order.Description = strings.TrimSpace(*input.Description)
	}
	order.UpdatedBy = &updatedBy

	if err := s.repo.Update(ctx, order); err != nil {
		return WorkOrder{}, err
	}
	return order, nil
}

// Delete removes a work order.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
