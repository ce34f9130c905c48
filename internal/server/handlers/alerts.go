package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pipewatch/internal/store"
	"pipewatch/pkg/api"
)

// ListAlertConfigs handles GET /alerts?pipeline_id=.
// Without the filter it returns every configured alert.
func (h *Handlers) ListAlertConfigs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		configs []store.AlertConfig
		err     error
	)
	if raw := r.URL.Query().Get("pipeline_id"); raw != "" {
		pipelineID, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || pipelineID <= 0 {
			h.httpError(w, "Invalid pipeline_id", http.StatusBadRequest)
			return
		}
		configs, err = h.store.ListAlertConfigs(ctx, pipelineID)
	} else {
		configs, err = h.store.ListAllAlertConfigs(ctx)
	}
	if err != nil {
		h.httpError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]api.AlertConfigResponse, 0, len(configs))
	for i := range configs {
		resp = append(resp, alertConfigResponse(&configs[i]))
	}

	h.respondJson(w, http.StatusOK, resp)
}

// CreateAlertConfig handles POST /alerts.
func (h *Handlers) CreateAlertConfig(w http.ResponseWriter, r *http.Request) {
	var req api.AlertConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PipelineID == nil || *req.PipelineID <= 0 {
		h.httpError(w, "pipeline_id is required", http.StatusBadRequest)
		return
	}

	config := &store.AlertConfig{
		PipelineID: *req.PipelineID,
		Type:       req.Type,
		Threshold:  req.Threshold,
		Channels:   req.Channels,
	}

	err := h.store.CreateAlertConfig(r.Context(), config)
	if errors.Is(err, store.ErrNotFound) {
		h.httpError(w, "Pipeline not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.httpError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusCreated, alertConfigResponse(config))
}

// UpdateAlertConfig handles PUT /alerts/{id}.
func (h *Handlers) UpdateAlertConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.httpError(w, "Invalid alert config id", http.StatusBadRequest)
		return
	}

	var req api.AlertConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.httpError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	config := &store.AlertConfig{
		ID:        id,
		Type:      req.Type,
		Threshold: req.Threshold,
		Channels:  req.Channels,
	}

	err := h.store.UpdateAlertConfig(r.Context(), config)
	if errors.Is(err, store.ErrNotFound) {
		h.httpError(w, "Alert config not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.httpError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, alertConfigResponse(config))
}

// DeleteAlertConfig handles DELETE /alerts/{id}.
func (h *Handlers) DeleteAlertConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.httpError(w, "Invalid alert config id", http.StatusBadRequest)
		return
	}

	err := h.store.DeleteAlertConfig(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.httpError(w, "Alert config not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.httpError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJson(w, http.StatusOK, api.MessageResponse{Message: "Alert config deleted successfully"})
}
