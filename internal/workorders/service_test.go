package workorders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdesk/fleetdesk/internal/shared"
)

type mockRepository struct {
	byID     map[uuid.UUID]*WorkOrder
	byNumber map[string]uuid.UUID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		byID:     make(map[uuid.UUID]*WorkOrder),
		byNumber: make(map[string]uuid.UUID),
	}
}

func (m *mockRepository) List(ctx context.Context, search string) ([]WorkOrder, error) {
	out := make([]WorkOrder, 0, len(m.byID))
	for _, w := range m.byID {
		out = append(out, *w)
	}
	return out, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (WorkOrder, error) {
	w, ok := m.byID[id]
	if !ok {
		return WorkOrder{}, shared.ErrNotFound
	}
	return *w, nil
}

func (m *mockRepository) GetByNumber(ctx context.Context, number string) (WorkOrder, error) {
	id, ok := m.byNumber[number]
	if !ok {
		return WorkOrder{}, shared.ErrNotFound
	}
	return *m.byID[id], nil
}

func (m *mockRepository) Create(ctx context.Context, w WorkOrder) (WorkOrder, error) {
	if _, taken := m.byNumber[w.WorkOrderNumber]; taken {
		return WorkOrder{}, shared.ErrDuplicate
	}
	w.ID = uuid.New()
	copied := w
	m.byID[w.ID] = &copied
	m.byNumber[w.WorkOrderNumber] = w.ID
	return w, nil
}

func (m *mockRepository) Update(ctx context.Context, w WorkOrder) error {
	stored, ok := m.byID[w.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if owner, taken := m.byNumber[w.WorkOrderNumber]; taken && owner != w.ID {
		return shared.ErrDuplicate
	}
	delete(m.byNumber, stored.WorkOrderNumber)
	*stored = w
	m.byNumber[w.WorkOrderNumber] = w.ID
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	w, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.byNumber, w.WorkOrderNumber)
	delete(m.byID, id)
	return nil
}

func sampleInput(number string) CreateInput {
	return CreateInput{
		IssueDate:       time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		WorkOrderNumber: number,
		Product:         "Rice",
		DriverName:      "สมชาย ใจดี",
		DriverPhone:     "0812345678",
		HeadPlate:       "70-1234",
		TailPlate:       "71-5678",
		ContainerNumber: "tclu1234567",
		CompanyName:     "FleetDesk",
	}
}

func TestCreateAndLookup(t *testing.T) {
	svc := NewService(newMockRepository())
	creator := uuid.New()

	order, err := svc.Create(context.Background(), creator, sampleInput("WO-2026-001"))
	require.NoError(t, err)
	assert.Equal(t, "TCLU1234567", order.ContainerNumber)
	assert.Equal(t, creator, order.CreatedBy)
	assert.Nil(t, order.UpdatedBy)

	found, err := svc.GetByNumber(context.Background(), " WO-2026-001 ")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
}

func TestCreateDuplicateNumber(t *testing.T) {
	svc := NewService(newMockRepository())
	creator := uuid.New()

	_, err := svc.Create(context.Background(), creator, sampleInput("WO-2026-001"))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), creator, sampleInput("WO-2026-001"))
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateStampsEditor(t *testing.T) {
	svc := NewService(newMockRepository())
	created, err := svc.Create(context.Background(), uuid.New(), sampleInput("WO-2026-001"))
	require.NoError(t, err)

	editor := uuid.New()
	updated, err := svc.Update(context.Background(), editor, created.ID, UpdateInput{Product: "Sugar"})
	require.NoError(t, err)
	assert.Equal(t, "Sugar", updated.Product)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, editor, *updated.UpdatedBy)
	assert.Equal(t, "WO-2026-001", updated.WorkOrderNumber, "unset fields stay put")
}

func TestUpdateMissingOrder(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateInput{Product: "Sugar"})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
