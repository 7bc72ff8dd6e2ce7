// ABOUTME: IngestRun model recording one pass of the ingestion loop.
// ABOUTME: Runs are identified by UUID and finish as completed or failed.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// IngestRun is a row of the ingest_runs table.
type IngestRun struct {
	ID         uuid.UUID  `json:"id" yaml:"id"`
	StartURL   string     `json:"start_url" yaml:"start_url"`
	Status     string     `json:"status" yaml:"status"`
	Pages      int        `json:"pages" yaml:"pages"`
	Records    int        `json:"records" yaml:"records"`
	Error      *string    `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
}

// NewIngestRun creates a running IngestRun with a generated UUID.
func NewIngestRun(startURL string) *IngestRun {
	return &IngestRun{
		ID:        uuid.New(),
		StartURL:  startURL,
		Status:    RunRunning,
		StartedAt: time.Now(),
	}
}

// Finish marks the run completed, or failed when err is non-nil.
func (r *IngestRun) Finish(err error) *IngestRun {
	now := time.Now()
	r.FinishedAt = &now
	if err != nil {
		msg := err.Error()
		r.Error = &msg
		r.Status = RunFailed
		return r
	}
	r.Status = RunCompleted
	return r
}
