// Package handlers contains the HTTP handlers for the pipewatch API.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"pipewatch/internal/notify"
	"pipewatch/internal/store"
	"pipewatch/pkg/api"
)

// Store combines the store interfaces the handlers need.
type Store interface {
	Ping(ctx context.Context) error
	store.PipelineStore
	store.ExecutionStore
	store.AlertStore
}

// Dispatcher sends failure alerts to configured channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, configs []store.AlertConfig, payload notify.Payload)
}

// Broadcaster pushes events to connected dashboard viewers.
type Broadcaster interface {
	Broadcast(eventType string, data any)
}

// Handlers holds all HTTP handlers and their dependencies.
type Handlers struct {
	store       Store
	dispatcher  Dispatcher
	broadcaster Broadcaster
	logger      *slog.Logger

	// Trailing window for metrics aggregation.
	metricsWindow time.Duration

	// Counts executions accepted via the webhook.
	ingested metric.Int64Counter
}

// New creates a new Handlers instance with the given dependencies.
func New(s Store, d Dispatcher, b Broadcaster, logger *slog.Logger, metricsWindow time.Duration) *Handlers {
	meter := otel.Meter("pipewatch-server")
	ingested, err := meter.Int64Counter("pipewatch.executions.ingested",
		metric.WithDescription("Completed executions accepted via the webhook"),
	)
	if err != nil {
		logger.Error("failed to register ingestion counter", "error", err)
	}

	return &Handlers{
		store:         s,
		dispatcher:    d,
		broadcaster:   b,
		logger:        logger,
		metricsWindow: metricsWindow,
		ingested:      ingested,
	}
}

// A helper function to write standard JSON responses.
func (h *Handlers) respondJson(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// A helper function to return consistent error messages.
func (h *Handlers) httpError(w http.ResponseWriter, message string, code int) {
	h.respondJson(w, code, api.ErrorResponse{
		Error: message,
		Code:  strconv.Itoa(code),
	})
}

// pathID parses a numeric path value.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func executionResponse(e *store.Execution) api.ExecutionResponse {
	return api.ExecutionResponse{
		ID:         e.ID,
		PipelineID: e.PipelineID,
		Status:     string(e.Status),
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		CreatedAt:  e.CreatedAt,
	}
}

func pipelineResponse(p *store.Pipeline) api.PipelineResponse {
	return api.PipelineResponse{
		ID:         p.ID,
		Name:       p.Name,
		Repository: p.Repository,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func alertConfigResponse(c *store.AlertConfig) api.AlertConfigResponse {
	channels := c.Channels
	if channels == nil {
		channels = []string{}
	}
	return api.AlertConfigResponse{
		ID:         c.ID,
		PipelineID: c.PipelineID,
		Type:       c.Type,
		Threshold:  c.Threshold,
		Channels:   channels,
		CreatedAt:  c.CreatedAt,
	}
}
