package e2e

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetdesk/fleetdesk/internal/app"
	"github.com/fleetdesk/fleetdesk/internal/auth"
	"github.com/fleetdesk/fleetdesk/internal/authz"
	"github.com/fleetdesk/fleetdesk/internal/shared"
	_ "github.com/fleetdesk/fleetdesk/internal/testing/guard"
	"github.com/fleetdesk/fleetdesk/internal/users"
)

type memoryUserStore struct {
	byEmail map[string]users.User
	byID    map[uuid.UUID]users.User
}

func (s *memoryUserStore) GetByEmail(ctx context.Context, email string) (users.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	return u, nil
}

func (s *memoryUserStore) GetByID(ctx context.Context, id uuid.UUID) (users.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	return u, nil
}

func (s *memoryUserStore) Count(ctx context.Context) (int, error) {
	return len(s.byID), nil
}

func (s *memoryUserStore) Create(ctx context.Context, u users.User) (users.User, error) {
	u.ID = uuid.New()
	s.byEmail[u.Email] = u
	s.byID[u.ID] = u
	return u, nil
}

// TestLoginSessionGuardFlow drives the full request pipeline: the session
// middleware, the principal resolver and the page guard, backed by a real
// Redis protocol server.
func TestLoginSessionGuardFlow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.DiscardHandler)
	sessions := shared.NewSessionManager(client, "fleetdesk_session", time.Hour, false)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	operator := users.User{
		ID:              uuid.New(),
		Email:           "gate@fleetdesk.local",
		PasswordHash:    string(hash),
		FirstName:       "Gate",
		LastName:        "Operator",
		Role:            authz.RoleUser,
		PagePermissions: []authz.Permission{authz.PermDataToday},
		IsActive:        true,
	}
	store := &memoryUserStore{
		byEmail: map[string]users.User{operator.Email: operator},
		byID:    map[uuid.UUID]users.User{operator.ID: operator},
	}

	authService := auth.NewService(store)
	authHandler := auth.NewHandler(logger, authService, sessions)
	guard := authz.Middleware{Logger: logger, Policy: authz.DefaultPolicy()}

	router := chi.NewRouter()
	for _, mw := range app.MiddlewareStack(app.MiddlewareConfig{
		Logger:         logger,
		SessionManager: sessions,
	}) {
		router.Use(mw)
	}
	router.Use(auth.ResolvePrincipal(logger, authService))
	router.Route("/auth", authHandler.MountRoutes)
	router.With(guard.RequirePage(authz.PermDataToday)).Get("/data-today", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.With(guard.RequirePage(authz.PermManagement)).Get("/management", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	t.Run("anonymous requests are rejected", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/data-today")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	body := `{"email":"gate@fleetdesk.local","password":"secret123"}`
	resp, err := http.Post(server.URL+"/auth/login", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "fleetdesk_session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "login must issue a session cookie")

	doGet := func(path string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, server.URL+path, nil)
		require.NoError(t, err)
		req.AddCookie(sessionCookie)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return res
	}

	t.Run("granted page admits the session", func(t *testing.T) {
		res := doGet("/data-today")
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("ungranted page is forbidden", func(t *testing.T) {
		res := doGet("/management")
		defer res.Body.Close()
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("logout invalidates the session", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, server.URL+"/auth/logout", nil)
		require.NoError(t, err)
		req.AddCookie(sessionCookie)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()

		after := doGet("/data-today")
		defer after.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, after.StatusCode)
	})
}
