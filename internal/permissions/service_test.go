package permissions

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/shared"
	"github.com/fleetdesk/fleetdesk/internal/users"
)

type stubStore struct {
	accounts map[uuid.UUID]*users.User
}

func newStubStore() *stubStore {
	return &stubStore{accounts: make(map[uuid.UUID]*users.User)}
}

func (s *stubStore) add(role authz.Role, perms []authz.Permission) users.User {
	user := users.User{ID: uuid.New(), Role: role, PagePermissions: perms, IsActive: true}
	s.accounts[user.ID] = &user
	return user
}

func (s *stubStore) GetByID(ctx context.Context, id uuid.UUID) (users.User, error) {
	user, ok := s.accounts[id]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	return *user, nil
}

func (s *stubStore) UpdatePermissions(ctx context.Context, id uuid.UUID, perms []authz.Permission) error {
	user, ok := s.accounts[id]
	if !ok {
		return shared.ErrNotFound
	}
	user.PagePermissions = perms
	return nil
}

func denyKind(t *testing.T, err error) authz.ErrorKind {
	t.Helper()
	var denied *authz.DeniedError
	require.True(t, errors.As(err, &denied), "expected a DeniedError, got %v", err)
	return denied.Decision.Kind
}

func TestGetGrants(t *testing.T) {
	store := newStubStore()
	svc := NewService(store)
	admin := store.add(authz.RoleAdmin, authz.DefaultPermissions(authz.RoleAdmin))
	worker := store.add(authz.RoleUser, []authz.Permission{authz.PermMap, authz.PermDrivers})
	unseeded := store.add(authz.RoleUser, nil)

	t.Run("admin reads a managed user", func(t *testing.T) {
		perms, err := svc.Get(context.Background(), admin.Principal(), worker.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []authz.Permission{authz.PermMap, authz.PermDrivers}, perms)
	})

	t.Run("user reads own grants", func(t *testing.T) {
		perms, err := svc.Get(context.Background(), worker.Principal(), worker.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []authz.Permission{authz.PermMap, authz.PermDrivers}, perms)
	})

	t.Run("user cannot read an admin", func(t *testing.T) {
		_, err := svc.Get(context.Background(), worker.Principal(), admin.ID)
		assert.Equal(t, authz.KindForbidden, denyKind(t, err))
	})

	t.Run("missing grants fall back to role defaults", func(t *testing.T) {
		perms, err := svc.Get(context.Background(), admin.Principal(), unseeded.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, authz.DefaultPermissions(authz.RoleUser), perms)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		_, err := svc.Get(context.Background(), admin.Principal(), uuid.New())
		assert.Equal(t, authz.KindNotFound, denyKind(t, err))
	})
}

func TestUpdateGrants(t *testing.T) {
	store := newStubStore()
	svc := NewService(store)
	admin := store.add(authz.RoleAdmin, nil)
	manager := store.add(authz.RoleManager, authz.DefaultPermissions(authz.RoleManager))
	worker := store.add(authz.RoleUser, authz.DefaultPermissions(authz.RoleUser))

	t.Run("admin replaces grants", func(t *testing.T) {
		perms, err := svc.Update(context.Background(), admin.Principal(), worker.ID, UpdateInput{
			Permissions: []string{"map", "drivers", "map"},
		})
		require.NoError(t, err)
		assert.Equal(t, []authz.Permission{authz.PermMap, authz.PermDrivers}, perms, "duplicates collapse, order kept")
	})

	t.Run("unknown key is bad request", func(t *testing.T) {
		_, err := svc.Update(context.Background(), admin.Principal(), worker.ID, UpdateInput{
			Permissions: []string{"map", "warehouse"},
		})
		assert.Equal(t, authz.KindBadRequest, denyKind(t, err))
	})

	t.Run("manager cannot grant the management page", func(t *testing.T) {
		_, err := svc.Update(context.Background(), manager.Principal(), worker.ID, UpdateInput{
			Permissions: []string{"management"},
		})
		assert.Equal(t, authz.KindForbidden, denyKind(t, err))
	})

	t.Run("manager cannot edit an admin", func(t *testing.T) {
		_, err := svc.Update(context.Background(), manager.Principal(), admin.ID, UpdateInput{
			Permissions: []string{"map"},
		})
		assert.Equal(t, authz.KindForbidden, denyKind(t, err))
	})

	t.Run("admin may grant management", func(t *testing.T) {
		perms, err := svc.Update(context.Background(), admin.Principal(), worker.ID, UpdateInput{
			Permissions: []string{"management"},
		})
		require.NoError(t, err)
		assert.Equal(t, []authz.Permission{authz.PermManagement}, perms)
	})
}

func TestCatalogAndMenu(t *testing.T) {
	adminCatalog := Catalog(authz.Principal{Role: authz.RoleAdmin})
	assert.Len(t, adminCatalog, len(authz.AllPermissions()))

	managerCatalog := Catalog(authz.Principal{Role: authz.RoleManager})
	for _, entry := range managerCatalog {
		assert.NotEqual(t, authz.PermManagement, entry.Key)
	}
	assert.Len(t, managerCatalog, len(authz.AllPermissions())-1)

	t.Run("menu follows grants for plain users", func(t *testing.T) {
		menu := Menu(authz.Principal{Role: authz.RoleUser, Permissions: []authz.Permission{authz.PermMap}})
		require.Len(t, menu, 1)
		assert.Equal(t, authz.PermMap, menu[0].Key)
		assert.Equal(t, "/map", menu[0].Path)
	})

	t.Run("admin tier sees the full menu", func(t *testing.T) {
		menu := Menu(authz.Principal{Role: authz.RoleSuperAdmin})
		assert.Len(t, menu, len(authz.AllPermissions()))
	})
}
