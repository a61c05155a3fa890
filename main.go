package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"promptgen-backend/internal/cli"
)

// @title promptgen-backend API
// @version 1.0
// @description Prompt generator backed by a Google Sheets prompt log.

// @host localhost:8080
// @BasePath /api/v1

var rootCmd = &cobra.Command{
	Use:           "promptgen",
	Short:         "Build structured AI prompts and keep a searchable log of them",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	cli.SetupCLI(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
