package operations

import (
	"time"

	"callcast/internal/pipeline"
)

// JobStatus is the lifecycle state of one build job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one build triggered through the service. Result is set only
// for completed jobs, Error only for failed ones.
type Job struct {
	ID         string           `json:"id"`
	Status     JobStatus        `json:"status"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Error      string           `json:"error,omitempty"`
	Result     *pipeline.Result `json:"-"`
}

// Clone returns a copy safe to hand outside the store's lock.
func (j *Job) Clone() *Job {
	out := *j
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		out.FinishedAt = &t
	}
	return &out
}
