package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics [pipeline_id]",
	Short: "Show health metrics for a pipeline",
	Long:  `Display the trailing-window health snapshot for a pipeline: success rate, average build time, and the time and status of the most recent build. Fields show "-" when no execution finished inside the window.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pipelineID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			cmd.Printf("Invalid pipeline id: %s\n", args[0])
			os.Exit(1)
		}

		client := NewPipeClient(viper.GetString("url"))
		metrics, err := client.GetMetrics(pipelineID)
		if err != nil {
			cmd.Printf("Error fetching metrics: %s\n", err)
			os.Exit(1)
		}

		cmd.Printf("%sPipeline Health%s\n", colorBold, colorReset)
		cmd.Println("──────────────────────────────")

		if metrics.SuccessRate != nil {
			rate := *metrics.SuccessRate * 100
			color := colorGreen
			if rate < 80 {
				color = colorYellow
			}
			if rate < 50 {
				color = colorRed
			}
			cmd.Printf("%sSuccess Rate:%s     %s%.1f%%%s\n", colorDim, colorReset, color, rate, colorReset)
		} else {
			cmd.Printf("%sSuccess Rate:%s     -\n", colorDim, colorReset)
		}

		if metrics.AvgBuildTime != nil {
			cmd.Printf("%sAvg Build Time:%s   %s\n", colorDim, colorReset, formatDuration(time.Duration(*metrics.AvgBuildTime)*time.Second))
		} else {
			cmd.Printf("%sAvg Build Time:%s   -\n", colorDim, colorReset)
		}

		cmd.Printf("%sLast Build:%s       %s\n", colorDim, colorReset, formatTimeWithRelative(metrics.LastBuildTime))

		if metrics.LastBuildStatus != nil {
			cmd.Printf("%sLast Status:%s      %s\n", colorDim, colorReset, colorizeStatus(*metrics.LastBuildStatus))
		} else {
			cmd.Printf("%sLast Status:%s      -\n", colorDim, colorReset)
		}
	},
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func statusIcon(status string) string {
	switch status {
	case "success":
		return colorGreen + "✓" + colorReset
	case "failure":
		return colorRed + "✗" + colorReset
	default:
		return "•"
	}
}

func colorizeStatus(status string) string {
	icon := statusIcon(status)
	switch status {
	case "success":
		return icon + " " + colorGreen + status + colorReset
	case "failure":
		return icon + " " + colorRed + status + colorReset
	default:
		return status
	}
}

func formatTimeWithRelative(t *time.Time) string {
	if t == nil {
		return "-"
	}
	relative := relativeTime(*t)
	return fmt.Sprintf("%s %s(%s ago)%s", t.Format("Mon, 02 Jan 2006 15:04:05 MST"), colorDim, relative, colorReset)
}

func relativeTime(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh", int(duration.Hours()))
	} else {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
