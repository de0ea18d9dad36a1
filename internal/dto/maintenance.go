package dto

import "time"

// RecomputeJobResponse acknowledges an enqueued recompute.
type RecomputeJobResponse struct {
	JobID      string    `json:"jobId"`
	Status     string    `json:"status"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}
