package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"pipewatch/pkg/api"
)

func TestAlertsList_Success(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/alerts" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		resp := []api.AlertConfigResponse{
			{
				ID:         1,
				PipelineID: 1,
				Type:       "failure",
				Threshold:  0,
				Channels:   []string{"slack", "email"},
				CreatedAt:  time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
			},
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"alerts", "list"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	expectedStrings := []string{
		"ID", "PIPELINE", "TYPE", "CHANNELS", // Headers
		"failure", "slack,email", // Data
	}
	for _, s := range expectedStrings {
		if !strings.Contains(output, s) {
			t.Errorf("expected output to contain %q, got:\n%s", s, output)
		}
	}
}

func TestAlertsList_PipelineFilter(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("pipeline_id"); got != "3" {
			t.Errorf("expected pipeline_id=3, got %s", got)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode([]api.AlertConfigResponse{})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"alerts", "list", "--pipeline", "3"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "No alert configs found.") {
		t.Errorf("expected empty message, got: %s", stdout.String())
	}
}

func TestAlertsCreate_Success(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST method, got %s", r.Method)
		}

		var req api.AlertConfigRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.PipelineID == nil || *req.PipelineID != 2 {
			t.Errorf("unexpected pipeline_id: %v", req.PipelineID)
		}
		if len(req.Channels) != 1 || req.Channels[0] != "slack" {
			t.Errorf("unexpected channels: %v", req.Channels)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(api.AlertConfigResponse{
			ID:         5,
			PipelineID: *req.PipelineID,
			Type:       req.Type,
			Channels:   req.Channels,
		})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"alerts", "create", "--pipeline", "2", "--channels", "slack"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	if !strings.Contains(output, "Alert config created!") {
		t.Errorf("expected success message, got:\n%s", output)
	}
	if !strings.Contains(output, "ID: 5") {
		t.Errorf("expected config ID in output, got:\n%s", output)
	}
}

func TestAlertsCreate_MissingPipeline(t *testing.T) {
	resetViper()
	viper.Set("url", "http://localhost:1")

	// Flags persist across executions in the same process.
	alertsCreateCmd.Flags().Set("pipeline", "0")
	alertsCreateCmd.Flags().Set("channels", "slack")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"alerts", "create", "--channels", "email"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "--pipeline is required") {
		t.Errorf("expected validation message, got: %s", stdout.String())
	}
}

func TestAlertsUpdate_Success(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT method, got %s", r.Method)
		}
		if r.URL.Path != "/alerts/5" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req api.AlertConfigRequest
		json.NewDecoder(r.Body).Decode(&req)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(api.AlertConfigResponse{
			ID:       5,
			Type:     req.Type,
			Channels: req.Channels,
		})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"alerts", "update", "5", "--channels", "email"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "Alert config 5 updated.") {
		t.Errorf("expected success message, got: %s", stdout.String())
	}
}

func TestAlertsDelete_Success(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE method, got %s", r.Method)
		}
		if r.URL.Path != "/alerts/9" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(api.MessageResponse{Message: "Alert config deleted successfully"})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"alerts", "delete", "9"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "Alert config 9 deleted.") {
		t.Errorf("expected success message, got: %s", stdout.String())
	}
}
