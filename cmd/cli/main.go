// Package main is the entry point for the pipewatch CLI.
// The CLI is the developer terminal tool for interacting with the pipewatch API.
package main

import (
	"os"

	"pipewatch/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
