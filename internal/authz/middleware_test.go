package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, guard func(http.Handler) http.Handler, principal *Principal) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if principal != nil {
		req = req.WithContext(ContextWithPrincipal(req.Context(), *principal))
	}
	rec := httptest.NewRecorder()
	guard(okHandler()).ServeHTTP(rec, req)
	return rec
}

func TestRequirePage(t *testing.T) {
	mw := Middleware{Policy: DefaultPolicy()}
	guard := mw.RequirePage(PermDrivers)

	t.Run("missing principal is unauthorized", func(t *testing.T) {
		rec := doRequest(t, guard, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("granted permission passes", func(t *testing.T) {
		p := Principal{ID: "u1", Role: RoleUser, Permissions: []Permission{PermDrivers}}
		rec := doRequest(t, guard, &p)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing permission is forbidden", func(t *testing.T) {
		p := Principal{ID: "u1", Role: RoleUser, Permissions: []Permission{PermMap}}
		rec := doRequest(t, guard, &p)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin bypass passes without grants", func(t *testing.T) {
		p := Principal{ID: "u1", Role: RoleAdmin}
		rec := doRequest(t, guard, &p)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAllPages(t *testing.T) {
	mw := Middleware{Policy: DefaultPolicy()}
	guard := mw.RequireAllPages(PermDrivers, PermVehicles)

	p := Principal{ID: "u1", Role: RoleManager, Permissions: []Permission{PermDrivers}}
	rec := doRequest(t, guard, &p)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	p.Permissions = append(p.Permissions, PermVehicles)
	rec = doRequest(t, guard, &p)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	mw := Middleware{Policy: DefaultPolicy()}
	guard := mw.RequireRole(RoleAdmin, RoleSuperAdmin)

	admin := Principal{ID: "u1", Role: RoleAdmin}
	rec := doRequest(t, guard, &admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	manager := Principal{ID: "u2", Role: RoleManager}
	rec = doRequest(t, guard, &manager)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, guard, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
