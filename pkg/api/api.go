// Package api contains shared JSON request/response structs.
// This package is shared between the CLI and the server.
package api

import "time"

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WebhookRequest is the execution-completion event posted by CI systems.
// Pointer fields are required; the handler rejects requests missing any
// of them.
type WebhookRequest struct {
	PipelineID *int64     `json:"pipeline_id"`
	Status     *string    `json:"status"`
	StartTime  *time.Time `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	Logs       string     `json:"logs"`
}

// ExecutionResponse represents an execution in API responses.
// The log blob is served separately via the logs endpoint.
type ExecutionResponse struct {
	ID         int64     `json:"id"`
	PipelineID int64     `json:"pipeline_id"`
	Status     string    `json:"status"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`
}

// PipelineResponse represents a monitored pipeline.
type PipelineResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Repository string    `json:"repository"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MetricsResponse is the trailing-window metrics snapshot. The nullable
// fields are null when no execution ended inside the window.
type MetricsResponse struct {
	SuccessRate     *float64   `json:"success_rate"`
	AvgBuildTime    *int64     `json:"avg_build_time"`
	LastBuildTime   *time.Time `json:"last_build_time"`
	LastBuildStatus *string    `json:"last_build_status"`
}

// LogsResponse is the response body for fetching an execution's logs.
type LogsResponse struct {
	Logs string `json:"logs"`
}

// AlertConfigRequest is the request body for creating or updating an
// alert config. PipelineID is only required on create.
type AlertConfigRequest struct {
	PipelineID *int64   `json:"pipeline_id"`
	Type       string   `json:"type"`
	Threshold  float64  `json:"threshold"`
	Channels   []string `json:"channels"`
}

// AlertConfigResponse represents an alert config in API responses.
type AlertConfigResponse struct {
	ID         int64     `json:"id"`
	PipelineID int64     `json:"pipeline_id"`
	Type       string    `json:"type"`
	Threshold  float64   `json:"threshold"`
	Channels   []string  `json:"channels"`
	CreatedAt  time.Time `json:"created_at"`
}

// MessageResponse carries a human-readable confirmation, e.g. after a
// delete.
type MessageResponse struct {
	Message string `json:"message"`
}
