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

var pipelinesCmd = &cobra.Command{
	Use:   "pipelines",
	Short: "Inspect monitored pipelines",
}

var pipelinesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all monitored pipelines",
	Run: func(cmd *cobra.Command, args []string) {
		client := NewPipeClient(viper.GetString("url"))

		pipelines, err := client.ListPipelines()
		if err != nil {
			cmd.Printf("Error fetching pipelines: %s\n", err)
			os.Exit(1)
		}

		if len(pipelines) == 0 {
			cmd.Println("No pipelines found.")
			return
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tREPOSITORY\tCREATED")
		for _, p := range pipelines {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
				p.ID,
				p.Name,
				p.Repository,
				p.CreatedAt.Format(time.RFC3339),
			)
		}
		w.Flush()
	},
}

var pipelinesGetCmd = &cobra.Command{
	Use:   "get [pipeline_id]",
	Short: "Show a single pipeline",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pipelineID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			cmd.Printf("Invalid pipeline id: %s\n", args[0])
			os.Exit(1)
		}

		client := NewPipeClient(viper.GetString("url"))
		pipeline, err := client.GetPipeline(pipelineID)
		if err != nil {
			cmd.Printf("Error fetching pipeline: %s\n", err)
			os.Exit(1)
		}

		cmd.Printf("%sPipeline%s\n", colorBold, colorReset)
		cmd.Println("──────────────────────────────")
		cmd.Printf("%sID:%s          %d\n", colorDim, colorReset, pipeline.ID)
		cmd.Printf("%sName:%s        %s\n", colorDim, colorReset, pipeline.Name)
		cmd.Printf("%sRepository:%s  %s\n", colorDim, colorReset, pipeline.Repository)
		cmd.Printf("%sCreated:%s     %s\n", colorDim, colorReset, pipeline.CreatedAt.Format(time.RFC3339))
	},
}

func init() {
	rootCmd.AddCommand(pipelinesCmd)
	pipelinesCmd.AddCommand(pipelinesListCmd)
	pipelinesCmd.AddCommand(pipelinesGetCmd)
}
