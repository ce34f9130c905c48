package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"pipewatch/internal/logger"
	"pipewatch/internal/notify"
	"pipewatch/internal/store"
	"pipewatch/internal/ws"
	"pipewatch/pkg/api"
)

// IngestExecution handles POST /pipelines/webhook. This is the ingestion
// flow: persist the execution, alert configured channels if it failed,
// then broadcast to live viewers.
//
// Only persistence decides the response. Alerting and broadcasting are
// fire-and-forget from the caller's perspective: their failures are
// logged and the caller still gets a 201 with the created execution.
func (h *Handlers) IngestExecution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	var req api.WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.PipelineID == nil || req.Status == nil || req.StartTime == nil || req.EndTime == nil {
		h.httpError(w, "pipeline_id, status, start_time and end_time are required", http.StatusBadRequest)
		return
	}
	if req.EndTime.Before(*req.StartTime) {
		h.httpError(w, "end_time must not precede start_time", http.StatusBadRequest)
		return
	}

	execution := &store.Execution{
		PipelineID: *req.PipelineID,
		Status:     store.ExecutionStatus(*req.Status),
		StartTime:  *req.StartTime,
		EndTime:    *req.EndTime,
		Logs:       req.Logs,
	}

	if err := h.store.RecordExecution(ctx, execution); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.httpError(w, "Pipeline not found", http.StatusNotFound)
			return
		}
		log.Error("failed to record execution", "pipeline_id", execution.PipelineID, "error", err)
		h.httpError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if h.ingested != nil {
		h.ingested.Add(ctx, 1, metric.WithAttributes(
			attribute.String("status", string(execution.Status)),
		))
	}

	if execution.Status == store.ExecutionStatusFailure {
		h.alertFailure(r, execution)
	}

	h.broadcaster.Broadcast(ws.EventExecutionCreated, executionResponse(execution))

	h.respondJson(w, http.StatusCreated, executionResponse(execution))
}

// alertFailure loads the pipeline and its alert configs and dispatches
// the failure notification. Any error here only costs the alert, never
// the request.
func (h *Handlers) alertFailure(r *http.Request, execution *store.Execution) {
	ctx := r.Context()
	log := logger.FromContext(ctx, h.logger)

	pipeline, err := h.store.GetPipelineByID(ctx, execution.PipelineID)
	if err != nil {
		log.Error("failed to load pipeline for alerting", "pipeline_id", execution.PipelineID, "error", err)
		return
	}

	configs, err := h.store.ListAlertConfigs(ctx, execution.PipelineID)
	if err != nil {
		log.Error("failed to load alert configs", "pipeline_id", execution.PipelineID, "error", err)
		return
	}
	if len(configs) == 0 {
		return
	}

	h.dispatcher.Dispatch(ctx, configs, notify.Payload{
		PipelineName: pipeline.Name,
		Status:       string(execution.Status),
		BuildTime:    int64(execution.EndTime.Sub(execution.StartTime).Seconds()),
		Logs:         execution.Logs,
	})
}
