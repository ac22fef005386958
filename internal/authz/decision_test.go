package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeCreate(t *testing.T) {
	pol := DefaultPolicy()

	t.Run("plain user may never create", func(t *testing.T) {
		d := pol.AuthorizeCreate(Principal{ID: "u1", Role: RoleUser}, "user", false)
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, d.Kind)
	})

	t.Run("manager cannot create admin", func(t *testing.T) {
		d := pol.AuthorizeCreate(Principal{ID: "u1", Role: RoleManager}, "admin", false)
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, d.Kind)
		assert.Contains(t, d.Message, "manager")
	})

	t.Run("manager creates user", func(t *testing.T) {
		d := pol.AuthorizeCreate(Principal{ID: "u1", Role: RoleManager}, "user", false)
		assert.True(t, d.Allowed)
	})

	t.Run("invalid role is bad request", func(t *testing.T) {
		d := pol.AuthorizeCreate(Principal{ID: "u1", Role: RoleAdmin}, "wizard", false)
		require.False(t, d.Allowed)
		assert.Equal(t, KindBadRequest, d.Kind)
	})

	t.Run("duplicate email is bad request", func(t *testing.T) {
		d := pol.AuthorizeCreate(Principal{ID: "u1", Role: RoleAdmin}, "user", true)
		require.False(t, d.Allowed)
		assert.Equal(t, KindBadRequest, d.Kind)
	})

	t.Run("legacy integer role code", func(t *testing.T) {
		d := pol.AuthorizeCreate(Principal{ID: "u1", Role: RoleAdmin}, 3, false)
		assert.True(t, d.Allowed)
	})
}

func TestAuthorizeRoleChange(t *testing.T) {
	pol := DefaultPolicy()

	t.Run("missing target is not found", func(t *testing.T) {
		d := pol.AuthorizeRoleChange(Principal{ID: "u1", Role: RoleSuperAdmin}, nil, "user")
		require.False(t, d.Allowed)
		assert.Equal(t, KindNotFound, d.Kind)
	})

	t.Run("manager may not change roles", func(t *testing.T) {
		d := pol.AuthorizeRoleChange(Principal{ID: "u1", Role: RoleManager}, &Target{ID: "u2", Role: RoleUser}, "viewer")
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, d.Kind)
	})

	t.Run("admin self-demotion is guarded", func(t *testing.T) {
		d := pol.AuthorizeRoleChange(Principal{ID: "u1", Role: RoleAdmin}, &Target{ID: "u1", Role: RoleAdmin}, "user")
		require.False(t, d.Allowed)
		assert.Equal(t, KindBadRequest, d.Kind)
	})

	t.Run("super admin self-demotion allowed under default policy", func(t *testing.T) {
		d := pol.AuthorizeRoleChange(Principal{ID: "u1", Role: RoleSuperAdmin}, &Target{ID: "u1", Role: RoleSuperAdmin}, "admin")
		assert.True(t, d.Allowed)
	})

	t.Run("super admin self-demotion denied under strict policy", func(t *testing.T) {
		d := StrictPolicy().AuthorizeRoleChange(Principal{ID: "u1", Role: RoleSuperAdmin}, &Target{ID: "u1", Role: RoleSuperAdmin}, "admin")
		require.False(t, d.Allowed)
		assert.Equal(t, KindBadRequest, d.Kind)
	})

	t.Run("admin may not demote a peer admin", func(t *testing.T) {
		d := pol.AuthorizeRoleChange(Principal{ID: "u1", Role: RoleAdmin}, &Target{ID: "u2", Role: RoleAdmin}, "manager")
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, d.Kind)
	})

	t.Run("super admin demotes an admin", func(t *testing.T) {
		d := pol.AuthorizeRoleChange(Principal{ID: "u1", Role: RoleSuperAdmin}, &Target{ID: "u2", Role: RoleAdmin}, "manager")
		assert.True(t, d.Allowed)
	})

	t.Run("admin cannot assign super admin", func(t *testing.T) {
		d := pol.AuthorizeRoleChange(Principal{ID: "u1", Role: RoleAdmin}, &Target{ID: "u2", Role: RoleUser}, "super admin")
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, d.Kind)
	})

	t.Run("invalid requested role is bad request", func(t *testing.T) {
		d := pol.AuthorizeRoleChange(Principal{ID: "u1", Role: RoleAdmin}, &Target{ID: "u2", Role: RoleUser}, "wizard")
		require.False(t, d.Allowed)
		assert.Equal(t, KindBadRequest, d.Kind)
	})
}

func TestAuthorizeProfileUpdate(t *testing.T) {
	pol := DefaultPolicy()

	t.Run("self-service is allowed", func(t *testing.T) {
		d := pol.AuthorizeProfileUpdate(Principal{ID: "u1", Role: RoleUser}, &Target{ID: "u1", Role: RoleUser}, false, false)
		assert.True(t, d.Allowed)
	})

	t.Run("self-service email change still needs uniqueness", func(t *testing.T) {
		d := pol.AuthorizeProfileUpdate(Principal{ID: "u1", Role: RoleUser}, &Target{ID: "u1", Role: RoleUser}, true, true)
		require.False(t, d.Allowed)
		assert.Equal(t, KindBadRequest, d.Kind)
	})

	t.Run("user cannot update another user", func(t *testing.T) {
		d := pol.AuthorizeProfileUpdate(Principal{ID: "u1", Role: RoleUser}, &Target{ID: "u2", Role: RoleUser}, false, false)
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, d.Kind)
	})

	t.Run("manager updates a user", func(t *testing.T) {
		d := pol.AuthorizeProfileUpdate(Principal{ID: "u1", Role: RoleManager}, &Target{ID: "u2", Role: RoleUser}, false, false)
		assert.True(t, d.Allowed)
	})

	t.Run("manager cannot update an admin", func(t *testing.T) {
		d := pol.AuthorizeProfileUpdate(Principal{ID: "u1", Role: RoleManager}, &Target{ID: "u2", Role: RoleAdmin}, false, false)
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, d.Kind)
	})

	t.Run("missing target is not found", func(t *testing.T) {
		d := pol.AuthorizeProfileUpdate(Principal{ID: "u1", Role: RoleAdmin}, nil, false, false)
		require.False(t, d.Allowed)
		assert.Equal(t, KindNotFound, d.Kind)
	})
}

func TestAuthorizeDelete(t *testing.T) {
	pol := DefaultPolicy()

	t.Run("self-delete is bad request regardless of role", func(t *testing.T) {
		d := pol.AuthorizeDelete(Principal{ID: "u1", Role: RoleAdmin}, &Target{ID: "u1", Role: RoleAdmin})
		require.False(t, d.Allowed)
		assert.Equal(t, KindBadRequest, d.Kind)
	})

	t.Run("manager is excluded from delete entirely", func(t *testing.T) {
		d := pol.AuthorizeDelete(Principal{ID: "u1", Role: RoleManager}, &Target{ID: "u2", Role: RoleAdmin})
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, d.Kind)
		assert.Equal(t, "Permission denied. manager cannot delete admin.", d.Message)
	})

	t.Run("manager cannot even delete a user", func(t *testing.T) {
		d := pol.AuthorizeDelete(Principal{ID: "u1", Role: RoleManager}, &Target{ID: "u2", Role: RoleUser})
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, d.Kind)
	})

	t.Run("admin deletes a manager", func(t *testing.T) {
		d := pol.AuthorizeDelete(Principal{ID: "u1", Role: RoleAdmin}, &Target{ID: "u2", Role: RoleManager})
		assert.True(t, d.Allowed)
	})

	t.Run("admin cannot delete a peer admin", func(t *testing.T) {
		d := pol.AuthorizeDelete(Principal{ID: "u1", Role: RoleAdmin}, &Target{ID: "u2", Role: RoleAdmin})
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, d.Kind)
	})

	t.Run("super admin deletes an admin", func(t *testing.T) {
		d := pol.AuthorizeDelete(Principal{ID: "u1", Role: RoleSuperAdmin}, &Target{ID: "u2", Role: RoleAdmin})
		assert.True(t, d.Allowed)
	})

	t.Run("missing target is not found", func(t *testing.T) {
		d := pol.AuthorizeDelete(Principal{ID: "u1", Role: RoleSuperAdmin}, nil)
		require.False(t, d.Allowed)
		assert.Equal(t, KindNotFound, d.Kind)
	})
}

func TestAuthorizeSetStatus(t *testing.T) {
	pol := DefaultPolicy()

	t.Run("manager cannot change status", func(t *testing.T) {
		d := pol.AuthorizeSetStatus(Principal{ID: "u1", Role: RoleManager}, &Target{ID: "u2", Role: RoleUser}, false)
		require.False(t, d.Allowed)
		assert.Equal(t, KindForbidden, d.Kind)
	})

	t.Run("self-deactivation is denied", func(t *testing.T) {
		d := pol.AuthorizeSetStatus(Principal{ID: "u1", Role: RoleAdmin}, &Target{ID: "u1", Role: RoleAdmin}, false)
		require.False(t, d.Allowed)
		assert.Equal(t, KindBadRequest, d.Kind)
	})

	t.Run("self-reactivation is permitted", func(t *testing.T) {
		d := pol.AuthorizeSetStatus(Principal{ID: "u1", Role: RoleAdmin}, &Target{ID: "u1", Role: RoleAdmin}, true)
		assert.True(t, d.Allowed)
	})

	t.Run("admin deactivates a user", func(t *testing.T) {
		d := pol.AuthorizeSetStatus(Principal{ID: "u1", Role: RoleAdmin}, &Target{ID: "u2", Role: RoleUser}, false)
		assert.True(t, d.Allowed)
	})

	t.Run("missing target is not found", func(t *testing.T) {
		d := pol.AuthorizeSetStatus(Principal{ID: "u1", Role: RoleAdmin}, nil, false)
		require.False(t, d.Allowed)
		assert.Equal(t, KindNotFound, d.Kind)
	})
}

// Decisions are pure: identical inputs always produce identical outputs.
func TestDecisionIdempotence(t *testing.T) {
	pol := DefaultPolicy()
	p := Principal{ID: "u1", Role: RoleAdmin}
	target := &Target{ID: "u2", Role: RoleManager}

	first := pol.AuthorizeDelete(p, target)
	second := pol.AuthorizeDelete(p, target)
	assert.Equal(t, first, second)

	first = pol.AuthorizeRoleChange(p, target, "user")
	second = pol.AuthorizeRoleChange(p, target, "user")
	assert.Equal(t, first, second)
}
