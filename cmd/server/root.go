package main

import (
	"loker/internal/config"
	"loker/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const appName = "loker"

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "loker job marketplace API",
	SilenceUsage:  true,
	SilenceErrors: true,
	// Running the binary without a sub-command serves the API.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func loadConfig() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}
