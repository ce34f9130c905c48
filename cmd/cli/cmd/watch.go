package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pipewatch/pkg/api"
)

const (
	watchMaxReconnects    = 5
	watchReconnectDelay   = 3 * time.Second
	eventExecutionCreated = "EXECUTION_CREATED"
)

// watchEvent mirrors the server's push envelope.
type watchEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow live execution events",
	Long: `Connect to the live event stream and print every execution as it is
ingested. Reconnects automatically when the connection drops, up to 5
attempts with a 3 second delay between them.`,
	Run: func(cmd *cobra.Command, args []string) {
		wsURL, err := websocketURL(viper.GetString("url"))
		if err != nil {
			cmd.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		// Trap Ctrl+C to exit gracefully
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			<-sigChan
			os.Exit(0)
		}()

		attempts := 0
		for {
			conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
			if err != nil {
				attempts++
				if attempts > watchMaxReconnects {
					cmd.Printf("Giving up after %d connection attempts: %v\n", watchMaxReconnects, err)
					os.Exit(1)
				}
				cmd.Printf("Connection failed (%v), retrying in %s (%d/%d)\n",
					err, watchReconnectDelay, attempts, watchMaxReconnects)
				time.Sleep(watchReconnectDelay)
				continue
			}

			cmd.Printf("Connected to %s\n", wsURL)
			attempts = 0

			if err := readEvents(cmd, conn); err != nil {
				cmd.Printf("Connection lost: %v\n", err)
			}
			conn.Close()

			attempts++
			if attempts > watchMaxReconnects {
				cmd.Printf("Giving up after %d reconnect attempts.\n", watchMaxReconnects)
				os.Exit(1)
			}
			cmd.Printf("Reconnecting in %s (%d/%d)\n", watchReconnectDelay, attempts, watchMaxReconnects)
			time.Sleep(watchReconnectDelay)
		}
	},
}

func readEvents(cmd *cobra.Command, conn *websocket.Conn) error {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var event watchEvent
		if err := json.Unmarshal(message, &event); err != nil {
			cmd.Printf("Skipping malformed event: %v\n", err)
			continue
		}

		switch event.Type {
		case eventExecutionCreated:
			var execution api.ExecutionResponse
			if err := json.Unmarshal(event.Data, &execution); err != nil {
				cmd.Printf("Skipping malformed execution event: %v\n", err)
				continue
			}
			cmd.Printf("%s  pipeline=%d execution=%d duration=%s\n",
				colorizeStatus(execution.Status),
				execution.PipelineID,
				execution.ID,
				formatDuration(execution.EndTime.Sub(execution.StartTime)),
			)
		default:
			cmd.Printf("• %s\n", event.Type)
		}
	}
}

// websocketURL derives the /ws endpoint from the API base URL.
func websocketURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid API URL %q: %w", base, err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
		// already a websocket URL
	default:
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	return u.String(), nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
