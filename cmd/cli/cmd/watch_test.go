package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"pipewatch/internal/ws"
	"pipewatch/pkg/api"
)

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		want    string
		wantErr bool
	}{
		{
			name: "HTTP",
			base: "http://localhost:8080",
			want: "ws://localhost:8080/ws",
		},
		{
			name: "HTTPS",
			base: "https://pipewatch.example.com",
			want: "wss://pipewatch.example.com/ws",
		},
		{
			name: "Trailing slash",
			base: "http://localhost:8080/",
			want: "ws://localhost:8080/ws",
		},
		{
			name: "Already websocket",
			base: "ws://localhost:8080",
			want: "ws://localhost:8080/ws",
		},
		{
			name:    "Unsupported scheme",
			base:    "ftp://localhost",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := websocketURL(tt.base)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadEvents_PrintsExecution(t *testing.T) {
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		event := ws.Event{
			Type: ws.EventExecutionCreated,
			Data: api.ExecutionResponse{
				ID:         7,
				PipelineID: 2,
				Status:     "failure",
				StartTime:  start,
				EndTime:    start.Add(45 * time.Second),
			},
		}
		if err := conn.WriteJSON(event); err != nil {
			t.Errorf("write failed: %v", err)
		}

		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	var stdout bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)

	// Returns once the server closes the connection.
	if err := readEvents(cmd, conn); err == nil {
		t.Error("expected connection-closed error")
	}

	output := stdout.String()
	if !strings.Contains(output, "pipeline=2") {
		t.Errorf("expected pipeline in output, got:\n%s", output)
	}
	if !strings.Contains(output, "execution=7") {
		t.Errorf("expected execution in output, got:\n%s", output)
	}
	if !strings.Contains(output, "failure") {
		t.Errorf("expected status in output, got:\n%s", output)
	}
}
