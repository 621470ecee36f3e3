package main

import (
	"context"
	"fmt"
	"time"

	dbpostgres "loker/internal/database/postgres"
	"loker/internal/database/seeder"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert reference data (skills, industries, locations)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		defer func() { _ = log.Sync() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()
		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		r := seeder.Runner{Seeders: seeder.Defaults(), Logger: log}
		return r.Run(cmd.Context(), db)
	},
}
