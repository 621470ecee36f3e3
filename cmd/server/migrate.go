package main

import (
	"database/sql"
	"fmt"

	"loker/internal/database/migration"
	dbpostgres "loker/internal/database/postgres"
	"loker/migrations"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		defer func() { _ = log.Sync() }()

		db, err := sql.Open("pgx", dbpostgres.DSN(cfg.Database))
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		applied, err := migration.Runner{FS: migrations.FS}.Run(cmd.Context(), db)
		if err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		for _, m := range applied {
			log.Info("migration applied", zap.Int64("version", m.Version), zap.String("name", m.Name))
		}
		log.Info("migrations complete", zap.Int("applied", len(applied)))
		return nil
	},
}
