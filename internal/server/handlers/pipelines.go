package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"pipewatch/internal/store"
	"pipewatch/pkg/api"
)

const (
	defaultExecutionsLimit  = 10
	defaultExecutionsOffset = 0
)

// ListPipelines handles GET /pipelines.
func (h *Handlers) ListPipelines(w http.ResponseWriter, r *http.Request) {
	pipelines, err := h.store.ListPipelines(r.Context())
	if err != nil {
		h.httpError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.PipelineResponse, 0, len(pipelines))
	for i := range pipelines {
		resp = append(resp, pipelineResponse(&pipelines[i]))
	}

	h.respondJson(w, http.StatusOK, resp)
}

// GetPipeline handles GET /pipelines/{id}.
func (h *Handlers) GetPipeline(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.httpError(w, "Invalid pipeline id", http.StatusBadRequest)
		return
	}

	pipeline, err := h.store.GetPipelineByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.httpError(w, "Pipeline not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.httpError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, pipelineResponse(pipeline))
}

// GetPipelineMetrics handles GET /pipelines/{id}/metrics.
// The snapshot is recomputed from raw execution rows on every request;
// a pipeline with no executions in the window yields null aggregates.
func (h *Handlers) GetPipelineMetrics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.httpError(w, "Invalid pipeline id", http.StatusBadRequest)
		return
	}

	snapshot, err := h.store.ComputeMetrics(r.Context(), id, h.metricsWindow)
	if err != nil {
		h.httpError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, api.MetricsResponse{
		SuccessRate:     snapshot.SuccessRate,
		AvgBuildTime:    snapshot.AvgBuildTime,
		LastBuildTime:   snapshot.LastBuildTime,
		LastBuildStatus: snapshot.LastBuildStatus,
	})
}

// ListExecutions handles GET /pipelines/{id}/executions?limit&offset.
func (h *Handlers) ListExecutions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.httpError(w, "Invalid pipeline id", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	limit := defaultExecutionsLimit
	if l := query.Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	offset := defaultExecutionsOffset
	if o := query.Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	executions, err := h.store.ListExecutions(r.Context(), id, limit, offset)
	if err != nil {
		h.httpError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.ExecutionResponse, 0, len(executions))
	for i := range executions {
		resp = append(resp, executionResponse(&executions[i]))
	}

	h.respondJson(w, http.StatusOK, resp)
}

// GetExecutionLogs handles GET /pipelines/executions/{executionID}/logs.
func (h *Handlers) GetExecutionLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "executionID")
	if !ok {
		h.httpError(w, "Invalid execution id", http.StatusBadRequest)
		return
	}

	logs, err := h.store.GetExecutionLogs(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.httpError(w, "Execution not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.httpError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, api.LogsResponse{Logs: logs})
}
