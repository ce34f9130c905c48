package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pipectl",
	Short: "Pipectl is a command line tool for interacting with the pipewatch dashboard API",
	Long: `pipectl is the command-line interface for the PipeWatch CI/CD monitoring dashboard.

PipeWatch collects completed pipeline executions from CI systems via a webhook,
aggregates health metrics per pipeline over a trailing window, pushes live
updates to connected dashboards and fires alerts for failed builds.

Common workflows:

  List monitored pipelines:
    pipectl pipelines list

  Show a pipeline's health metrics:
    pipectl metrics <pipeline-id>

  Show recent executions:
    pipectl executions <pipeline-id> --limit 20

  Fetch an execution's build logs:
    pipectl logs <execution-id>

  Report a completed execution (what a CI webhook would send):
    pipectl ingest --pipeline 1 --status failure --start 2026-01-02T10:00:00Z --end 2026-01-02T10:04:30Z

  Follow live execution events:
    pipectl watch

Configuration:
  Set the API endpoint via an environment variable or a config file:
    PIPEWATCH_URL    API endpoint (default: http://localhost:8080)`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".pipectl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".pipectl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "PIPEWATCH_VARNAME"
	viper.SetEnvPrefix("PIPEWATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pipectl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:8080", "PipeWatch API URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
}
