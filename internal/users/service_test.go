package users

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/shared"
)

type mockRepository struct {
	byID    map[uuid.UUID]*User
	byEmail map[string]*User

	createErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		byID:    make(map[uuid.UUID]*User),
		byEmail: make(map[string]*User),
	}
}

func (m *mockRepository) add(user User) User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := user
	m.byID[copied.ID] = &copied
	m.byEmail[copied.Email] = &copied
	return copied
}

func (m *mockRepository) List(ctx context.Context) ([]User, error) {
	out := make([]User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	u, ok := m.byID[id]
	if !ok {
		return User{}, shared.ErrNotFound
	}
	return *u, nil
}

func (m *mockRepository) EmailInUse(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	u, ok := m.byEmail[email]
	return ok && u.ID != exclude, nil
}

func (m *mockRepository) Create(ctx context.Context, user User) (User, error) {
	if m.createErr != nil {
		return User{}, m.createErr
	}
	return m.add(user), nil
}

func (m *mockRepository) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, email string) error {
	u, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.byEmail, u.Email)
	u.FirstName, u.LastName, u.Email = firstName, lastName, email
	m.byEmail[email] = u
	return nil
}

func (m *mockRepository) UpdateRole(ctx context.Context, id uuid.UUID, role authz.Role) error {
	u, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *mockRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	u, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	u, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(m.byEmail, u.Email)
	delete(m.byID, id)
	return nil
}

func seedUser(repo *mockRepository, email string, role authz.Role) User {
	return repo.add(User{
		Email:           email,
		FirstName:       "Somchai",
		LastName:        "Jaidee",
		Role:            role,
		PagePermissions: authz.DefaultPermissions(role),
		IsActive:        true,
	})
}

func denyKind(t *testing.T, err error) authz.ErrorKind {
	t.Helper()
	var denied *authz.DeniedError
	require.True(t, errors.As(err, &denied), "expected a DeniedError, got %v", err)
	return denied.Decision.Kind
}

func TestCreateHashesPasswordAndSeedsDefaults(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, authz.DefaultPolicy())
	admin := seedUser(repo, "admin@fleetdesk.local", authz.RoleAdmin)

	user, err := svc.Create(context.Background(), admin.Principal(), CreateInput{
		Email:     "Driver.One@Fleetdesk.Local",
		Password:  "secret123",
		FirstName: "Anan",
		LastName:  "Srisuk",
		Role:      "user",
	})
	require.NoError(t, err)
	assert.Equal(t, "driver.one@fleetdesk.local", user.Email)
	assert.Equal(t, authz.RoleUser, user.Role)
	assert.Equal(t, []authz.Permission{authz.PermMap}, user.PagePermissions)
	assert.True(t, user.IsActive)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestCreateDeniedForManagerAssigningAdmin(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, authz.DefaultPolicy())
	manager := seedUser(repo, "manager@fleetdesk.local", authz.RoleManager)

	_, err := svc.Create(context.Background(), manager.Principal(), CreateInput{
		Email:     "new@fleetdesk.local",
		Password:  "secret123",
		FirstName: "A",
		LastName:  "B",
		Role:      "admin",
	})
	assert.Equal(t, authz.KindForbidden, denyKind(t, err))
}

func TestCreateDuplicateEmailIsBadRequest(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, authz.DefaultPolicy())
	admin := seedUser(repo, "admin@fleetdesk.local", authz.RoleAdmin)
	seedUser(repo, "taken@fleetdesk.local", authz.RoleUser)

	_, err := svc.Create(context.Background(), admin.Principal(), CreateInput{
		Email:     "taken@fleetdesk.local",
		Password:  "secret123",
		FirstName: "A",
		LastName:  "B",
		Role:      "user",
	})
	assert.Equal(t, authz.KindBadRequest, denyKind(t, err))
}

func TestUpdateRoleChangeFlows(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, authz.DefaultPolicy())
	superAdmin := seedUser(repo, "root@fleetdesk.local", authz.RoleSuperAdmin)
	admin := seedUser(repo, "admin@fleetdesk.local", authz.RoleAdmin)
	worker := seedUser(repo, "worker@fleetdesk.local", authz.RoleUser)

	t.Run("super admin promotes a user", func(t *testing.T) {
		updated, err := svc.Update(context.Background(), superAdmin.Principal(), worker.ID, UpdateInput{Role: "manager"})
		require.NoError(t, err)
		assert.Equal(t, authz.RoleManager, updated.Role)
	})

	t.Run("admin cannot demote self", func(t *testing.T) {
		_, err := svc.Update(context.Background(), admin.Principal(), admin.ID, UpdateInput{Role: "user"})
		assert.Equal(t, authz.KindBadRequest, denyKind(t, err))
	})

	t.Run("super admin may demote self under default policy", func(t *testing.T) {
		updated, err := svc.Update(context.Background(), superAdmin.Principal(), superAdmin.ID, UpdateInput{Role: "admin"})
		require.NoError(t, err)
		assert.Equal(t, authz.RoleAdmin, updated.Role)
	})
}

func TestUpdateProfileSelfService(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, authz.DefaultPolicy())
	worker := seedUser(repo, "worker@fleetdesk.local", authz.RoleUser)

	updated, err := svc.Update(context.Background(), worker.Principal(), worker.ID, UpdateInput{
		FirstName: "Prasert",
		Email:     "prasert@fleetdesk.local",
	})
	require.NoError(t, err)
	assert.Equal(t, "Prasert", updated.FirstName)
	assert.Equal(t, "prasert@fleetdesk.local", updated.Email)
}

func TestUpdateEmailConflict(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, authz.DefaultPolicy())
	worker := seedUser(repo, "worker@fleetdesk.local", authz.RoleUser)
	seedUser(repo, "taken@fleetdesk.local", authz.RoleUser)

	_, err := svc.Update(context.Background(), worker.Principal(), worker.ID, UpdateInput{Email: "taken@fleetdesk.local"})
	assert.Equal(t, authz.KindBadRequest, denyKind(t, err))
}

func TestUpdateMissingTargetIsNotFound(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, authz.DefaultPolicy())
	admin := seedUser(repo, "admin@fleetdesk.local", authz.RoleAdmin)

	_, err := svc.Update(context.Background(), admin.Principal(), uuid.New(), UpdateInput{FirstName: "X"})
	assert.Equal(t, authz.KindNotFound, denyKind(t, err))
}

func TestDeleteRules(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, authz.DefaultPolicy())
	admin := seedUser(repo, "admin@fleetdesk.local", authz.RoleAdmin)
	manager := seedUser(repo, "manager@fleetdesk.local", authz.RoleManager)
	worker := seedUser(repo, "worker@fleetdesk.local", authz.RoleUser)

	t.Run("self-delete is bad request", func(t *testing.T) {
		err := svc.Delete(context.Background(), admin.Principal(), admin.ID)
		assert.Equal(t, authz.KindBadRequest, denyKind(t, err))
	})

	t.Run("manager may not delete at all", func(t *testing.T) {
		err := svc.Delete(context.Background(), manager.Principal(), worker.ID)
		assert.Equal(t, authz.KindForbidden, denyKind(t, err))
	})

	t.Run("admin deletes a user", func(t *testing.T) {
		require.NoError(t, svc.Delete(context.Background(), admin.Principal(), worker.ID))
		_, err := repo.GetByID(context.Background(), worker.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("missing target is not found", func(t *testing.T) {
		err := svc.Delete(context.Background(), admin.Principal(), uuid.New())
		assert.Equal(t, authz.KindNotFound, denyKind(t, err))
	})
}

func TestSetStatusRules(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, authz.DefaultPolicy())
	admin := seedUser(repo, "admin@fleetdesk.local", authz.RoleAdmin)
	worker := seedUser(repo, "worker@fleetdesk.local", authz.RoleUser)

	t.Run("self-deactivation denied", func(t *testing.T) {
		err := svc.SetStatus(context.Background(), admin.Principal(), admin.ID, false)
		assert.Equal(t, authz.KindBadRequest, denyKind(t, err))
	})

	t.Run("admin deactivates a user", func(t *testing.T) {
		require.NoError(t, svc.SetStatus(context.Background(), admin.Principal(), worker.ID, false))
		stored, err := repo.GetByID(context.Background(), worker.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsActive)
	})
}
