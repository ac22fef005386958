package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/fleetdesk/fleetdesk/internal/jobs"
)

// Provider names accepted in TrackerSessionRenewPayload.
const (
	ProviderCartrack    = "cartrack"
	ProviderUContainers = "ucontainers"
)

// SessionRefresher is the slice of an upstream tracker client the renewal
// job needs. Cartrack and uContainers clients both satisfy it.
type SessionRefresher interface {
	Renew(ctx context.Context) error
}

// TrackerSessionRenewJob re-authenticates against the upstream GPS
// providers ahead of session expiry so request-path calls rarely pay the
// login round trip.
type TrackerSessionRenewJob struct {
	Refreshers map[string]SessionRefresher
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics

	clock func() time.Time
}

// NewTrackerSessionRenewJob constructs the renewal job.
func NewTrackerSessionRenewJob(refreshers map[string]SessionRefresher, logger *slog.Logger, metrics *jobmetrics.Metrics) *TrackerSessionRenewJob {
	return &TrackerSessionRenewJob{
		Refreshers: refreshers,
		Logger:     logger,
		Metrics:    metrics,
		clock:      time.Now,
	}
}

// Handle processes TaskTrackerSessionRenew tasks.
func (j *TrackerSessionRenewJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics().Track("tracker_session_renew")

	var payload TrackerSessionRenewPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.logger().Error("tracker session renew: bad payload", slog.Any("error", err))
		return tracker.End(asynq.SkipRetry)
	}

	providers := payload.Providers
	if len(providers) == 0 {
		providers = make([]string, 0, len(j.Refreshers))
		for name := range j.Refreshers {
			providers = append(providers, name)
		}
	}

	start := j.now()
	var failed []string
	for _, name := range providers {
		refresher, ok := j.Refreshers[name]
		if !ok || refresher == nil {
			j.logger().Warn("tracker session renew: unknown provider", slog.String("provider", name))
			continue
		}
		if err := refresher.Renew(ctx); err != nil {
			j.logger().Error("tracker session renew failed",
				slog.String("provider", name),
				slog.Any("error", err))
			failed = append(failed, name)
			continue
		}
		j.logger().Info("tracker session renewed", slog.String("provider", name))
	}

	j.logger().Info("tracker session renew finished",
		slog.Int("providers", len(providers)),
		slog.Int("failed", len(failed)),
		slog.Duration("elapsed", j.now().Sub(start)))

	if len(failed) > 0 {
		return tracker.End(errors.New("tracker session renew: " + failed[0] + " failed"))
	}
	return tracker.End(nil)
}

func (j *TrackerSessionRenewJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *TrackerSessionRenewJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return jobmetrics.NewMetrics(nil)
}

func (j *TrackerSessionRenewJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}
