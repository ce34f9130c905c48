package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pipewatch/internal/store"
	"pipewatch/pkg/api"
)

func newAlertMux(h *Handlers) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /alerts", h.ListAlertConfigs)
	mux.HandleFunc("POST /alerts", h.CreateAlertConfig)
	mux.HandleFunc("PUT /alerts/{id}", h.UpdateAlertConfig)
	mux.HandleFunc("DELETE /alerts/{id}", h.DeleteAlertConfig)
	return mux
}

func TestListAlertConfigs(t *testing.T) {
	mock := &mockStore{
		listAlertsResp: []store.AlertConfig{
			{ID: 1, PipelineID: 1, Channels: []string{"slack"}},
		},
	}
	h := newTestHandlers(mock, &mockDispatcher{}, &mockBroadcaster{})
	mux := newAlertMux(h)

	req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}

	var resp []api.AlertConfigResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].Channels[0] != "slack" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestListAlertConfigs_InvalidPipelineFilter(t *testing.T) {
	h := newTestHandlers(&mockStore{}, &mockDispatcher{}, &mockBroadcaster{})
	mux := newAlertMux(h)

	req := httptest.NewRequest(http.MethodGet, "/alerts?pipeline_id=abc", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("got status %d, want 400", rr.Code)
	}
}

func TestCreateAlertConfig(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*mockStore)
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"pipeline_id":1,"type":"failure","threshold":0,"channels":["slack","email"]}`,
			mockSetup:      func(m *mockStore) {},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing pipeline_id",
			body:           `{"type":"failure","channels":["slack"]}`,
			mockSetup:      func(m *mockStore) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Malformed body",
			body:           `{"pipeline_id"`,
			mockSetup:      func(m *mockStore) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Unknown pipeline",
			body: `{"pipeline_id":99,"channels":["slack"]}`,
			mockSetup: func(m *mockStore) {
				m.createAlertErr = store.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Store error",
			body: `{"pipeline_id":1,"channels":["slack"]}`,
			mockSetup: func(m *mockStore) {
				m.createAlertErr = errors.New("db failed")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockStore{}
			tt.mockSetup(mock)
			h := newTestHandlers(mock, &mockDispatcher{}, &mockBroadcaster{})
			mux := newAlertMux(h)

			req := httptest.NewRequest(http.MethodPost, "/alerts", bytes.NewReader([]byte(tt.body)))
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("got status %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestUpdateAlertConfig_NotFound(t *testing.T) {
	mock := &mockStore{updateAlertErr: store.ErrNotFound}
	h := newTestHandlers(mock, &mockDispatcher{}, &mockBroadcaster{})
	mux := newAlertMux(h)

	body := []byte(`{"type":"failure","threshold":0.5,"channels":["email"]}`)
	req := httptest.NewRequest(http.MethodPut, "/alerts/42", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rr.Code)
	}
}

func TestUpdateAlertConfig_Success(t *testing.T) {
	h := newTestHandlers(&mockStore{}, &mockDispatcher{}, &mockBroadcaster{})
	mux := newAlertMux(h)

	body := []byte(`{"type":"failure","threshold":0.5,"channels":["email"]}`)
	req := httptest.NewRequest(http.MethodPut, "/alerts/1", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", rr.Code)
	}

	var resp api.AlertConfigResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != 1 || len(resp.Channels) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestDeleteAlertConfig(t *testing.T) {
	tests := []struct {
		name           string
		alertID        string
		mockSetup      func(*mockStore)
		expectedStatus int
	}{
		{
			name:           "Success",
			alertID:        "3",
			mockSetup:      func(m *mockStore) {},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid ID",
			alertID:        "abc",
			mockSetup:      func(m *mockStore) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "Not Found",
			alertID: "404",
			mockSetup: func(m *mockStore) {
				m.deleteAlertErr = store.ErrNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockStore{}
			tt.mockSetup(mock)
			h := newTestHandlers(mock, &mockDispatcher{}, &mockBroadcaster{})
			mux := newAlertMux(h)

			req := httptest.NewRequest(http.MethodDelete, "/alerts/"+tt.alertID, nil)
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("got status %d, want %d", rr.Code, tt.expectedStatus)
			}
		})
	}
}
