package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a referenced entity does not exist.
// Handlers map it to a 404.
var ErrNotFound = errors.New("not found")

// PipelineStore handles read access to pipeline definitions.
type PipelineStore interface {
	// ListPipelines returns all monitored pipelines.
	ListPipelines(ctx context.Context) ([]Pipeline, error)

	// GetPipelineByID returns a pipeline by its ID.
	// Returns ErrNotFound if no such pipeline exists.
	GetPipelineByID(ctx context.Context, id int64) (*Pipeline, error)
}

// ExecutionStore handles the append-only execution history and the
// metrics derived from it.
type ExecutionStore interface {
	// RecordExecution inserts an immutable execution row and fills in the
	// generated ID and creation timestamp. Returns ErrNotFound if the
	// referenced pipeline does not exist.
	RecordExecution(ctx context.Context, execution *Execution) error

	// ListExecutions returns the execution history for a pipeline,
	// newest start time first.
	ListExecutions(ctx context.Context, pipelineID int64, limit, offset int) ([]Execution, error)

	// GetExecutionLogs returns the log blob for a single execution.
	// Returns ErrNotFound if no such execution exists.
	GetExecutionLogs(ctx context.Context, executionID int64) (string, error)

	// ComputeMetrics aggregates executions whose end time falls within
	// [now-window, now]. Every call recomputes from raw rows.
	ComputeMetrics(ctx context.Context, pipelineID int64, window time.Duration) (*MetricsSnapshot, error)
}

// AlertStore handles alert configuration CRUD.
type AlertStore interface {
	// ListAlertConfigs returns the alert configs bound to one pipeline.
	ListAlertConfigs(ctx context.Context, pipelineID int64) ([]AlertConfig, error)

	// ListAllAlertConfigs returns every alert config.
	ListAllAlertConfigs(ctx context.Context) ([]AlertConfig, error)

	// CreateAlertConfig inserts a new alert config and fills in the
	// generated ID and creation timestamp.
	CreateAlertConfig(ctx context.Context, config *AlertConfig) error

	// UpdateAlertConfig replaces type, threshold and channels of an
	// existing config. Returns ErrNotFound if no such config exists.
	UpdateAlertConfig(ctx context.Context, config *AlertConfig) error

	// DeleteAlertConfig removes a config.
	// Returns ErrNotFound if no such config exists.
	DeleteAlertConfig(ctx context.Context, id int64) error
}
