package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"

	// TaskTrackerSessionRenew refreshes upstream GPS provider sessions.
	TaskTrackerSessionRenew = "tracker:session_renew"
	// TaskPermissionsBackfill seeds role defaults for accounts that carry
	// no explicit page-permission grants.
	TaskPermissionsBackfill = "authz:permissions_backfill"
)

// TrackerSessionRenewPayload selects which upstream providers to refresh.
// An empty provider list refreshes every configured provider.
type TrackerSessionRenewPayload struct {
	Providers []string `json:"providers,omitempty"`
}

// NewTrackerSessionRenewTask constructs an Asynq task.
func NewTrackerSessionRenewTask(providers ...string) (*asynq.Task, error) {
	data, err := json.Marshal(TrackerSessionRenewPayload{Providers: providers})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTrackerSessionRenew, data), nil
}

// PermissionsBackfillPayload carries tuning knobs for the backfill run.
type PermissionsBackfillPayload struct {
	DryRun bool `json:"dry_run,omitempty"`
}

// NewPermissionsBackfillTask constructs an Asynq task.
func NewPermissionsBackfillTask(dryRun bool) (*asynq.Task, error) {
	data, err := json.Marshal(PermissionsBackfillPayload{DryRun: dryRun})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPermissionsBackfill, data), nil
}
