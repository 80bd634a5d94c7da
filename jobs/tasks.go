// Package jobs holds the background task definitions and the Asynq worker
// that runs them.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskAuditPurge trims old rows from the admin activity log.
	TaskAuditPurge = "audit:purge"
	// TaskPanelSyncStatuses reconciles subscription statuses with RemnaWave.
	TaskPanelSyncStatuses = "remnawave:sync_statuses"
)

// AuditPurgePayload configures a purge run.
type AuditPurgePayload struct {
	RetentionHours int `json:"retention_hours"`
}

// NewAuditPurgeTask constructs an audit purge task.
func NewAuditPurgeTask(payload AuditPurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAuditPurge, data), nil
}

// NewPanelSyncStatusesTask constructs a statuses sync task.
func NewPanelSyncStatusesTask() *asynq.Task {
	return asynq.NewTask(TaskPanelSyncStatuses, nil)
}
