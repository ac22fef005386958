package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	jobmetrics "github.com/fleetdesk/fleetdesk/internal/jobs"
	"github.com/fleetdesk/fleetdesk/internal/users"
)

type stubRefresher struct {
	calls int
	err   error
}

func (s *stubRefresher) Renew(ctx context.Context) error {
	s.calls++
	return s.err
}

type stubDirectory struct {
	accounts []users.User
	listErr  error
	updates  map[uuid.UUID][]authz.Permission
}

func (s *stubDirectory) ListWithoutPermissions(ctx context.Context) ([]users.User, error) {
	return s.accounts, s.listErr
}

func (s *stubDirectory) UpdatePermissions(ctx context.Context, id uuid.UUID, perms []authz.Permission) error {
	if s.updates == nil {
		s.updates = make(map[uuid.UUID][]authz.Permission)
	}
	s.updates[id] = perms
	return nil
}

func testMetrics() *jobmetrics.Metrics {
	return jobmetrics.NewMetrics(prometheus.NewRegistry())
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestTrackerSessionRenew(t *testing.T) {
	t.Run("renews every configured provider by default", func(t *testing.T) {
		cartrack := &stubRefresher{}
		containers := &stubRefresher{}
		job := NewTrackerSessionRenewJob(map[string]SessionRefresher{
			ProviderCartrack:    cartrack,
			ProviderUContainers: containers,
		}, testLogger(), testMetrics())

		task, err := NewTrackerSessionRenewTask()
		require.NoError(t, err)

		require.NoError(t, job.Handle(t.Context(), task))
		assert.Equal(t, 1, cartrack.calls)
		assert.Equal(t, 1, containers.calls)
	})

	t.Run("honours an explicit provider list", func(t *testing.T) {
		cartrack := &stubRefresher{}
		containers := &stubRefresher{}
		job := NewTrackerSessionRenewJob(map[string]SessionRefresher{
			ProviderCartrack:    cartrack,
			ProviderUContainers: containers,
		}, testLogger(), testMetrics())

		task, err := NewTrackerSessionRenewTask(ProviderCartrack)
		require.NoError(t, err)

		require.NoError(t, job.Handle(t.Context(), task))
		assert.Equal(t, 1, cartrack.calls)
		assert.Zero(t, containers.calls)
	})

	t.Run("reports failure when a provider cannot renew", func(t *testing.T) {
		job := NewTrackerSessionRenewJob(map[string]SessionRefresher{
			ProviderCartrack: &stubRefresher{err: errors.New("upstream down")},
		}, testLogger(), testMetrics())

		task, err := NewTrackerSessionRenewTask(ProviderCartrack)
		require.NoError(t, err)

		assert.Error(t, job.Handle(t.Context(), task))
	})

	t.Run("skips retry on a malformed payload", func(t *testing.T) {
		job := NewTrackerSessionRenewJob(nil, testLogger(), testMetrics())
		task := asynq.NewTask(TaskTrackerSessionRenew, []byte("{"))

		assert.ErrorIs(t, job.Handle(t.Context(), task), asynq.SkipRetry)
	})
}

func TestPermissionsBackfill(t *testing.T) {
	makeAccount := func(role authz.Role) users.User {
		return users.User{ID: uuid.New(), Role: role}
	}

	t.Run("seeds role defaults for accounts with empty grants", func(t *testing.T) {
		admin := makeAccount(authz.RoleAdmin)
		viewer := makeAccount(authz.RoleViewer)
		dir := &stubDirectory{accounts: []users.User{admin, viewer}}
		job := NewPermissionsBackfillJob(dir, testLogger(), testMetrics())

		task, err := NewPermissionsBackfillTask(false)
		require.NoError(t, err)

		require.NoError(t, job.Handle(t.Context(), task))
		require.Len(t, dir.updates, 2)
		assert.Equal(t, authz.DefaultPermissions(authz.RoleAdmin), dir.updates[admin.ID])
		assert.Equal(t, authz.DefaultPermissions(authz.RoleViewer), dir.updates[viewer.ID])
	})

	t.Run("dry run leaves grants untouched", func(t *testing.T) {
		dir := &stubDirectory{accounts: []users.User{makeAccount(authz.RoleUser)}}
		job := NewPermissionsBackfillJob(dir, testLogger(), testMetrics())

		task, err := NewPermissionsBackfillTask(true)
		require.NoError(t, err)

		require.NoError(t, job.Handle(t.Context(), task))
		assert.Empty(t, dir.updates)
	})

	t.Run("propagates listing failures for retry", func(t *testing.T) {
		dir := &stubDirectory{listErr: errors.New("db down")}
		job := NewPermissionsBackfillJob(dir, testLogger(), testMetrics())

		task, err := NewPermissionsBackfillTask(false)
		require.NoError(t, err)

		assert.Error(t, job.Handle(t.Context(), task))
	})
}
