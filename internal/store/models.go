// Package store contains the database layer for pipewatch.
package store

import "time"

// Pipeline represents a monitored CI/CD pipeline.
// Pipelines are provisioned externally; this service only reads them.
type Pipeline struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Repository string    `json:"repository"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Execution represents one completed run of a pipeline.
// Rows are append-only; an execution is never mutated after insert.
type Execution struct {
	ID         int64           `json:"id"`
	PipelineID int64           `json:"pipeline_id"`
	Status     ExecutionStatus `json:"status"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    time.Time       `json:"end_time"`
	Logs       string          `json:"logs,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ExecutionStatus is the terminal status reported by the CI system.
// Values outside the known constants are stored as-is.
type ExecutionStatus string

const (
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusFailure ExecutionStatus = "failure"
)

// AlertConfig binds a pipeline to a set of notification channels,
// triggered when an execution fails.
type AlertConfig struct {
	ID         int64     `json:"id"`
	PipelineID int64     `json:"pipeline_id"`
	Type       string    `json:"type"`
	Threshold  float64   `json:"threshold"`
	Channels   []string  `json:"channels"`
	CreatedAt  time.Time `json:"created_at"`
}

// MetricsSnapshot is computed on demand from raw execution rows; it is
// never stored. The pointer fields are nil when no execution falls inside
// the window, which serializes as JSON null.
//
// LastBuildStatus is deliberately not window-restricted: it reflects the
// most recent execution overall, so a pipeline that has been idle longer
// than the window still reports its last known state.
type MetricsSnapshot struct {
	SuccessRate     *float64   `json:"success_rate"`
	AvgBuildTime    *int64     `json:"avg_build_time"`
	LastBuildTime   *time.Time `json:"last_build_time"`
	LastBuildStatus *string    `json:"last_build_status"`
}
