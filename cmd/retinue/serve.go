package main

import (
	"os"

	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the HTTP API. The catalog is loaded once at startup from
catalog.paths (or the embedded card data) and saved rosters are kept in the
SQLite database at database.dsn. SIGINT and SIGTERM trigger a graceful shutdown.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return &ServerError{Op: "LoadConfig", Err: err, ExitCode: ExitConfigError}
	}

	logger := SetupLogger(cfg, os.Stdout)
	logger.Info("starting retinue",
		"version", Version,
		"config", configPath,
	)

	server, err := NewServer(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		return err
	}

	if err := server.Start(cmd.Context()); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}
