package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pipewatch/pkg/api"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage alert configurations",
	Long:  `Inspect and manage the alert configs that decide which channels are notified when a pipeline build fails.`,
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alert configs",
	Run: func(cmd *cobra.Command, args []string) {
		pipelineID, _ := cmd.Flags().GetInt64("pipeline")

		client := NewPipeClient(viper.GetString("url"))
		configs, err := client.ListAlertConfigs(pipelineID)
		if err != nil {
			cmd.Printf("Error fetching alert configs: %s\n", err)
			os.Exit(1)
		}

		if len(configs) == 0 {
			cmd.Println("No alert configs found.")
			return
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tPIPELINE\tTYPE\tTHRESHOLD\tCHANNELS")
		for _, c := range configs {
			fmt.Fprintf(w, "%d\t%d\t%s\t%.2f\t%s\n",
				c.ID,
				c.PipelineID,
				c.Type,
				c.Threshold,
				strings.Join(c.Channels, ","),
			)
		}
		w.Flush()
	},
}

var alertsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an alert config",
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		pipelineID, _ := flags.GetInt64("pipeline")
		alertType, _ := flags.GetString("type")
		threshold, _ := flags.GetFloat64("threshold")
		channels, _ := flags.GetStringSlice("channels")

		if pipelineID == 0 {
			cmd.Println("Error: --pipeline is required")
			return
		}
		if len(channels) == 0 {
			cmd.Println("Error: --channels is required")
			return
		}

		client := NewPipeClient(viper.GetString("url"))
		req := api.AlertConfigRequest{
			PipelineID: &pipelineID,
			Type:       alertType,
			Threshold:  threshold,
			Channels:   channels,
		}

		result, err := client.CreateAlertConfig(req)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Alert config created!\nID: %d\nChannels: %s\n", result.ID, strings.Join(result.Channels, ","))
	},
}

var alertsUpdateCmd = &cobra.Command{
	Use:   "update [alert_id]",
	Short: "Update an alert config",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		alertID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			cmd.Printf("Invalid alert config id: %s\n", args[0])
			os.Exit(1)
		}

		flags := cmd.Flags()
		alertType, _ := flags.GetString("type")
		threshold, _ := flags.GetFloat64("threshold")
		channels, _ := flags.GetStringSlice("channels")

		client := NewPipeClient(viper.GetString("url"))
		req := api.AlertConfigRequest{
			Type:      alertType,
			Threshold: threshold,
			Channels:  channels,
		}

		result, err := client.UpdateAlertConfig(alertID, req)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Alert config %d updated.\nChannels: %s\n", result.ID, strings.Join(result.Channels, ","))
	},
}

var alertsDeleteCmd = &cobra.Command{
	Use:   "delete [alert_id]",
	Short: "Delete an alert config",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		alertID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			cmd.Printf("Invalid alert config id: %s\n", args[0])
			os.Exit(1)
		}

		client := NewPipeClient(viper.GetString("url"))
		if err := client.DeleteAlertConfig(alertID); err != nil {
			cmd.Printf("Error deleting alert config: %s\n", err)
			os.Exit(1)
		}

		cmd.Printf("✓ Alert config %d deleted.\n", alertID)
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsCreateCmd)
	alertsCmd.AddCommand(alertsUpdateCmd)
	alertsCmd.AddCommand(alertsDeleteCmd)

	alertsListCmd.Flags().Int64P("pipeline", "p", 0, "Filter by pipeline ID")

	createFlags := alertsCreateCmd.Flags()
	createFlags.Int64P("pipeline", "p", 0, "Pipeline ID (required)")
	createFlags.StringP("type", "t", "failure", "Alert type")
	createFlags.Float64("threshold", 0, "Alert threshold")
	createFlags.StringSliceP("channels", "c", []string{}, "Notification channels: slack, email (required)")

	updateFlags := alertsUpdateCmd.Flags()
	updateFlags.StringP("type", "t", "failure", "Alert type")
	updateFlags.Float64("threshold", 0, "Alert threshold")
	updateFlags.StringSliceP("channels", "c", []string{}, "Notification channels: slack, email")
}
