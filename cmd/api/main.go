package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/justsurfingit/job-jotter/internal/config"
	"github.com/justsurfingit/job-jotter/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobjotter",
	Short: "Job application tracker API with Google Calendar integration",
	Long: `jobjotter serves the Job Jotter REST API.

Run without a subcommand to start the server. Configuration comes from the
environment and an optional .env file in the working directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and installs the process logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(logging.Config{
		Service: "jobjotter",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		File:    cfg.LogFile,
	})
	return cfg, logger, nil
}
