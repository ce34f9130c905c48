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

func TestExecutions_Success(t *testing.T) {
	resetViper()

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pipelines/1/executions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		resp := []api.ExecutionResponse{
			{
				ID:         10,
				PipelineID: 1,
				Status:     "success",
				StartTime:  start,
				EndTime:    start.Add(90 * time.Second),
			},
			{
				ID:         9,
				PipelineID: 1,
				Status:     "failure",
				StartTime:  start.Add(-time.Hour),
				EndTime:    start.Add(-time.Hour).Add(30 * time.Second),
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
	rootCmd.SetArgs([]string{"executions", "1"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := stdout.String()
	expectedStrings := []string{
		"ID", "STATUS", "STARTED", "DURATION", // Headers
		"success", "failure", "1m 30s", // Data
	}
	for _, s := range expectedStrings {
		if !strings.Contains(output, s) {
			t.Errorf("expected output to contain %q, got:\n%s", s, output)
		}
	}
}

func TestExecutions_Pagination(t *testing.T) {
	resetViper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("limit") != "5" {
			t.Errorf("expected limit=5, got %s", query.Get("limit"))
		}
		if query.Get("offset") != "10" {
			t.Errorf("expected offset=10, got %s", query.Get("offset"))
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode([]api.ExecutionResponse{})
	}))
	defer server.Close()

	viper.Set("url", server.URL)

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"executions", "1", "--limit", "5", "--offset", "10"})

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "No more executions found.") {
		t.Errorf("expected empty-page message, got: %s", stdout.String())
	}
}
