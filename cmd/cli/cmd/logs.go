package cmd

import (
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logsCmd = &cobra.Command{
	Use:   "logs [execution_id]",
	Short: "Print build logs for an execution",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		executionID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			cmd.Printf("Invalid execution id: %s\n", args[0])
			os.Exit(1)
		}

		client := NewPipeClient(viper.GetString("url"))
		logs, err := client.GetLogs(executionID)
		if err != nil {
			cmd.Printf("Error fetching logs: %s\n", err)
			os.Exit(1)
		}

		if logs == "" {
			cmd.Println("No logs recorded for this execution.")
			return
		}

		cmd.Print(logs)
		if !strings.HasSuffix(logs, "\n") {
			cmd.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
}
