package seeder

import (
	"context"
	"fmt"

	"loker/internal/database"

	"go.uber.org/zap"
)

// Seeder writes idempotent reference rows. Runner owns the transaction, so
// a failing seeder leaves nothing behind.
type Seeder interface {
	Name() string
	Seed(ctx context.Context, tx database.Tx) error
}

type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

// Run applies each seeder in its own transaction and stops at the first
// failure.
func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := inTx(ctx, db, func(tx database.Tx) error { return s.Seed(ctx, tx) }); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder applied", zap.String("seeder", s.Name()))
	}
	return nil
}

func inTx(ctx context.Context, db database.DB, fn func(tx database.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
