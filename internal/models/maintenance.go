package models

import "time"

// MaintenanceJobStatus tracks a background recompute.
type MaintenanceJobStatus string

const (
	MaintenanceJobQueued    MaintenanceJobStatus = "queued"
	MaintenanceJobRunning   MaintenanceJobStatus = "running"
	MaintenanceJobSucceeded MaintenanceJobStatus = "succeeded"
	MaintenanceJobFailed    MaintenanceJobStatus = "failed"
)

// MaintenanceJobTypeRecompute re-derives club totals and badges.
const MaintenanceJobTypeRecompute = "recompute"

// MaintenanceJob is the in-process record of one queued maintenance run.
type MaintenanceJob struct {
	ID         string               `json:"id"`
	Type       string               `json:"type"`
	Status     MaintenanceJobStatus `json:"status"`
	Attempts   int                  `json:"attempts"`
	Report     *SeedReport          `json:"report,omitempty"`
	Error      string               `json:"error,omitempty"`
	EnqueuedAt time.Time            `json:"enqueued_at"`
	StartedAt  *time.Time           `json:"started_at,omitempty"`
	FinishedAt *time.Time           `json:"finished_at,omitempty"`
}
