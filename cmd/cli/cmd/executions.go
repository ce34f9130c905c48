package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var executionsCmd = &cobra.Command{
	Use:   "executions [pipeline_id]",
	Short: "List recent executions for a pipeline",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pipelineID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			cmd.Printf("Invalid pipeline id: %s\n", args[0])
			os.Exit(1)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		client := NewPipeClient(viper.GetString("url"))
		executions, err := client.ListExecutions(pipelineID, limit, offset)
		if err != nil {
			cmd.Printf("Error fetching executions: %s\n", err)
			os.Exit(1)
		}

		if len(executions) == 0 {
			if offset > 0 {
				cmd.Println("No more executions found.")
			} else {
				cmd.Println("No executions found.")
			}
			return
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tSTARTED\tDURATION")
		for _, e := range executions {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				e.ID,
				e.Status,
				e.StartTime.Format(time.RFC3339),
				formatDuration(e.EndTime.Sub(e.StartTime)),
			)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(executionsCmd)

	executionsCmd.Flags().IntP("limit", "l", 10, "Number of executions to list")
	executionsCmd.Flags().IntP("offset", "o", 0, "Offset for pagination")
}
