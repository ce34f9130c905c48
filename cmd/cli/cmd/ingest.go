package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pipewatch/pkg/api"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Report a completed execution to the webhook",
	Long: `Post an execution-completion event to the ingestion webhook, the same
payload a CI system would deliver.

Example:
  pipectl ingest --pipeline 1 --status success --start 2026-01-02T10:00:00Z --end 2026-01-02T10:04:30Z
  pipectl ingest --pipeline 1 --status failure --start 2026-01-02T10:00:00Z --end 2026-01-02T10:01:10Z --logs "compile error"`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		pipelineID, _ := flags.GetInt64("pipeline")
		status, _ := flags.GetString("status")
		startRaw, _ := flags.GetString("start")
		endRaw, _ := flags.GetString("end")
		logs, _ := flags.GetString("logs")

		if pipelineID == 0 {
			cmd.Println("Error: --pipeline is required")
			return
		}
		if status != "success" && status != "failure" {
			cmd.Println("Error: --status must be success or failure")
			return
		}

		startTime, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			cmd.Printf("Error: invalid --start time: %v\n", err)
			return
		}
		endTime, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			cmd.Printf("Error: invalid --end time: %v\n", err)
			return
		}

		client := NewPipeClient(viper.GetString("url"))
		req := api.WebhookRequest{
			PipelineID: &pipelineID,
			Status:     &status,
			StartTime:  &startTime,
			EndTime:    &endTime,
			Logs:       logs,
		}

		result, err := client.IngestExecution(req)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Execution recorded!\nID: %d\nStatus: %s\nDuration: %s\n",
			result.ID, result.Status, formatDuration(result.EndTime.Sub(result.StartTime)))
	},
}

func init() {
	flags := ingestCmd.Flags()
	flags.Int64P("pipeline", "p", 0, "Pipeline ID (required)")
	flags.StringP("status", "s", "", "Execution status: success or failure (required)")
	flags.String("start", "", "Execution start time, RFC 3339 (required)")
	flags.String("end", "", "Execution end time, RFC 3339 (required)")
	flags.String("logs", "", "Build log output (optional)")

	rootCmd.AddCommand(ingestCmd)
}
