package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/fleetdesk/fleetdesk/internal/authz"
	jobmetrics "github.com/fleetdesk/fleetdesk/internal/jobs"
	"github.com/fleetdesk/fleetdesk/internal/users"
)

// UserDirectory is the slice of the user repository the backfill needs.
type UserDirectory interface {
	ListWithoutPermissions(ctx context.Context) ([]users.User, error)
	UpdatePermissions(ctx context.Context, id uuid.UUID, perms []authz.Permission) error
}

// PermissionsBackfillJob materializes role-default page grants for accounts
// whose grant list is empty. Admin-tier accounts pass page checks regardless
// of stored grants, but a plain user with an empty list is locked out of
// every page until the defaults are written back.
type PermissionsBackfillJob struct {
	Directory UserDirectory
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics

	clock func() time.Time
}

// NewPermissionsBackfillJob constructs the backfill job.
func NewPermissionsBackfillJob(directory UserDirectory, logger *slog.Logger, metrics *jobmetrics.Metrics) *PermissionsBackfillJob {
	return &PermissionsBackfillJob{
		Directory: directory,
		Logger:    logger,
		Metrics:   metrics,
		clock:     time.Now,
	}
}

// Handle processes TaskPermissionsBackfill tasks.
func (j *PermissionsBackfillJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics().Track("permissions_backfill")

	var payload PermissionsBackfillPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.logger().Error("permissions backfill: bad payload", slog.Any("error", err))
		return tracker.End(asynq.SkipRetry)
	}

	start := j.now()
	accounts, err := j.Directory.ListWithoutPermissions(ctx)
	if err != nil {
		j.logger().Error("permissions backfill: list accounts", slog.Any("error", err))
		return tracker.End(err)
	}

	updated := 0
	for _, account := range accounts {
		perms := authz.DefaultPermissions(account.Role)
		if payload.DryRun {
			j.logger().Info("permissions backfill: would update",
				slog.String("user_id", account.ID.String()),
				slog.String("role", string(account.Role)),
				slog.Int("grants", len(perms)))
			continue
		}
		if err := j.Directory.UpdatePermissions(ctx, account.ID, perms); err != nil {
			j.logger().Error("permissions backfill: update",
				slog.String("user_id", account.ID.String()),
				slog.Any("error", err))
			return tracker.End(err)
		}
		updated++
	}

	j.logger().Info("permissions backfill finished",
		slog.Int("candidates", len(accounts)),
		slog.Int("updated", updated),
		slog.Bool("dry_run", payload.DryRun),
		slog.Duration("elapsed", j.now().Sub(start)))
	return tracker.End(nil)
}

func (j *PermissionsBackfillJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *PermissionsBackfillJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *PermissionsBackfillJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}
