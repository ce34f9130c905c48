package handlers

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"pipewatch/internal/notify"
	"pipewatch/internal/store"
)

// Mock Store
type mockStore struct {
	pingErr error

	listPipelinesResp []store.Pipeline
	listPipelinesErr  error
	getPipelineResp   *store.Pipeline
	getPipelineErr    error

	recordExecutionErr error
	recordedExecutions []store.Execution
	listExecutionsResp []store.Execution
	listExecutionsErr  error
	listExecutionsArgs struct {
		limit  int
		offset int
	}
	getLogsResp string
	getLogsErr  error

	computeMetricsResp *store.MetricsSnapshot
	computeMetricsErr  error

	listAlertsResp []store.AlertConfig
	listAlertsErr  error
	createAlertErr error
	updateAlertErr error
	deleteAlertErr error
}

func (m *mockStore) Ping(ctx context.Context) error { return m.pingErr }

func (m *mockStore) ListPipelines(ctx context.Context) ([]store.Pipeline, error) {
	return m.listPipelinesResp, m.listPipelinesErr
}

func (m *mockStore) GetPipelineByID(ctx context.Context, id int64) (*store.Pipeline, error) {
	return m.getPipelineResp, m.getPipelineErr
}

func (m *mockStore) RecordExecution(ctx context.Context, execution *store.Execution) error {
	if m.recordExecutionErr != nil {
		return m.recordExecutionErr
	}
	execution.ID = int64(len(m.recordedExecutions) + 1)
	execution.CreatedAt = time.Now()
	m.recordedExecutions = append(m.recordedExecutions, *execution)
	return nil
}

func (m *mockStore) ListExecutions(ctx context.Context, pipelineID int64, limit, offset int) ([]store.Execution, error) {
	m.listExecutionsArgs.limit = limit
	m.listExecutionsArgs.offset = offset
	return m.listExecutionsResp, m.listExecutionsErr
}

func (m *mockStore) GetExecutionLogs(ctx context.Context, executionID int64) (string, error) {
	return m.getLogsResp, m.getLogsErr
}

func (m *mockStore) ComputeMetrics(ctx context.Context, pipelineID int64, window time.Duration) (*store.MetricsSnapshot, error) {
	return m.computeMetricsResp, m.computeMetricsErr
}

func (m *mockStore) ListAlertConfigs(ctx context.Context, pipelineID int64) ([]store.AlertConfig, error) {
	return m.listAlertsResp, m.listAlertsErr
}

func (m *mockStore) ListAllAlertConfigs(ctx context.Context) ([]store.AlertConfig, error) {
	return m.listAlertsResp, m.listAlertsErr
}

func (m *mockStore) CreateAlertConfig(ctx context.Context, config *store.AlertConfig) error {
	if m.createAlertErr != nil {
		return m.createAlertErr
	}
	config.ID = 1
	config.CreatedAt = time.Now()
	return nil
}

func (m *mockStore) UpdateAlertConfig(ctx context.Context, config *store.AlertConfig) error {
	return m.updateAlertErr
}

func (m *mockStore) DeleteAlertConfig(ctx context.Context, id int64) error {
	return m.deleteAlertErr
}

// Mock Dispatcher
type mockDispatcher struct {
	mu       sync.Mutex
	payloads []notify.Payload
	configs  [][]store.AlertConfig
}

func (m *mockDispatcher) Dispatch(ctx context.Context, configs []store.AlertConfig, payload notify.Payload) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs = append(m.configs, configs)
	m.payloads = append(m.payloads, payload)
}

// Mock Broadcaster
type mockBroadcaster struct {
	mu     sync.Mutex
	events []string
	data   []any
}

func (m *mockBroadcaster) Broadcast(eventType string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, eventType)
	m.data = append(m.data, data)
}

func newTestHandlers(s *mockStore, d *mockDispatcher, b *mockBroadcaster) *Handlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(s, d, b, logger, 7*24*time.Hour)
}
