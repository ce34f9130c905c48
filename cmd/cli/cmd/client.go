package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pipewatch/pkg/api"
)

// PipeClient handles API calls to the pipewatch server.
type PipeClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewPipeClient creates a new client with the given base URL.
func NewPipeClient(baseURL string) *PipeClient {
	return &PipeClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError represents an error response from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

func (c *PipeClient) do(method, endpoint string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequest(method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Add("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// ListPipelines sends GET /pipelines.
func (c *PipeClient) ListPipelines() ([]api.PipelineResponse, error) {
	var result []api.PipelineResponse
	err := c.do(http.MethodGet, fmt.Sprintf("%s/pipelines", c.BaseURL), nil, &result)
	return result, err
}

// GetPipeline sends GET /pipelines/{id}.
func (c *PipeClient) GetPipeline(pipelineID int64) (*api.PipelineResponse, error) {
	var result api.PipelineResponse
	err := c.do(http.MethodGet, fmt.Sprintf("%s/pipelines/%d", c.BaseURL, pipelineID), nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMetrics sends GET /pipelines/{id}/metrics.
func (c *PipeClient) GetMetrics(pipelineID int64) (*api.MetricsResponse, error) {
	var result api.MetricsResponse
	err := c.do(http.MethodGet, fmt.Sprintf("%s/pipelines/%d/metrics", c.BaseURL, pipelineID), nil, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListExecutions sends GET /pipelines/{id}/executions.
func (c *PipeClient) ListExecutions(pipelineID int64, limit, offset int) ([]api.ExecutionResponse, error) {
	endpoint := fmt.Sprintf("%s/pipelines/%d/executions?limit=%d&offset=%d", c.BaseURL, pipelineID, limit, offset)
	var result []api.ExecutionResponse
	err := c.do(http.MethodGet, endpoint, nil, &result)
	return result, err
}

// GetLogs sends GET /pipelines/executions/{id}/logs.
func (c *PipeClient) GetLogs(executionID int64) (string, error) {
	var result api.LogsResponse
	err := c.do(http.MethodGet, fmt.Sprintf("%s/pipelines/executions/%d/logs", c.BaseURL, executionID), nil, &result)
	return result.Logs, err
}

// IngestExecution sends POST /pipelines/webhook.
func (c *PipeClient) IngestExecution(req api.WebhookRequest) (*api.ExecutionResponse, error) {
	var result api.ExecutionResponse
	err := c.do(http.MethodPost, fmt.Sprintf("%s/pipelines/webhook", c.BaseURL), req, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListAlertConfigs sends GET /alerts, optionally filtered by pipeline.
func (c *PipeClient) ListAlertConfigs(pipelineID int64) ([]api.AlertConfigResponse, error) {
	endpoint := fmt.Sprintf("%s/alerts", c.BaseURL)
	if pipelineID > 0 {
		endpoint = fmt.Sprintf("%s?pipeline_id=%d", endpoint, pipelineID)
	}
	var result []api.AlertConfigResponse
	err := c.do(http.MethodGet, endpoint, nil, &result)
	return result, err
}

// CreateAlertConfig sends POST /alerts.
func (c *PipeClient) CreateAlertConfig(req api.AlertConfigRequest) (*api.AlertConfigResponse, error) {
	var result api.AlertConfigResponse
	err := c.do(http.MethodPost, fmt.Sprintf("%s/alerts", c.BaseURL), req, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateAlertConfig sends PUT /alerts/{id}.
func (c *PipeClient) UpdateAlertConfig(id int64, req api.AlertConfigRequest) (*api.AlertConfigResponse, error) {
	var result api.AlertConfigResponse
	err := c.do(http.MethodPut, fmt.Sprintf("%s/alerts/%d", c.BaseURL, id), req, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteAlertConfig sends DELETE /alerts/{id}.
func (c *PipeClient) DeleteAlertConfig(id int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("%s/alerts/%d", c.BaseURL, id), nil, nil)
}
