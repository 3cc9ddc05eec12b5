// Package v1 defines the request and response bodies of the build service
// API. The types mirror what the handlers accept and render; they carry no
// behavior beyond validation tags.
package v1

import "time"

// BuildResponse is returned by POST /api/builds when a job is accepted.
type BuildResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// JobResponse is returned by GET /api/builds/{id}.
type JobResponse struct {
	JobID      string           `json:"job_id"`
	Status     string           `json:"status"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Error      string           `json:"error,omitempty"`
	Manifest   *ManifestSummary `json:"manifest,omitempty"`
}

// ManifestSummary is the manifest subset exposed for completed jobs.
type ManifestSummary struct {
	RunID      string `json:"run_id"`
	Rows       int    `json:"rows"`
	Cols       int    `json:"cols"`
	OutputPath string `json:"output_path"`
	Groups     int    `json:"groups"`
	Skipped    int    `json:"skipped_groups"`
}

// HealthResponse is returned by GET /api/healthz.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}
