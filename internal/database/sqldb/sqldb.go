// Package sqldb adapts a *sql.DB to database.DB. It backs the migration
// command and the sqlmock-driven repository tests.
package sqldb

import (
	"context"
	"database/sql"

	"loker/internal/database"
)

type DB struct {
	db *sql.DB
}

func Wrap(db *sql.DB) *DB {
	return &DB{db: db}
}

func (d *DB) Ping(ctx context.Context) error {
	if d == nil || d.db == nil {
		return database.ErrNilDB
	}
	return d.db.PingContext(ctx)
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if d == nil || d.db == nil {
		return 0, database.ErrNilDB
	}
	return execOn(ctx, d.db, query, args...)
}

func (d *DB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if d == nil || d.db == nil {
		return nil, database.ErrNilDB
	}
	r, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows{r}, nil
}

func (d *DB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	if d == nil || d.db == nil {
		return errRow{database.ErrNilDB}
	}
	return d.db.QueryRowContext(ctx, query, args...)
}

func (d *DB) Begin(ctx context.Context) (database.Tx, error) {
	if d == nil || d.db == nil {
		return nil, database.ErrNilDB
	}
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return txAdapter{tx: tx}, nil
}

func (d *DB) SQLDB() *sql.DB {
	if d == nil {
		return nil
	}
	return d.db
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execOn(ctx context.Context, e execer, query string, args ...any) (int64, error) {
	res, err := e.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type txAdapter struct {
	tx *sql.Tx
}

func (t txAdapter) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execOn(ctx, t.tx, query, args...)
}

func (t txAdapter) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	r, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows{r}, nil
}

func (t txAdapter) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

func (t txAdapter) Commit(context.Context) error {
	return t.tx.Commit()
}

func (t txAdapter) Rollback(context.Context) error {
	return t.tx.Rollback()
}

type rows struct {
	r *sql.Rows
}

func (r rows) Close() {
	_ = r.r.Close()
}

func (r rows) Next() bool {
	return r.r.Next()
}

func (r rows) Scan(dest ...any) error {
	return r.r.Scan(dest...)
}

func (r rows) Err() error {
	return r.r.Err()
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error {
	return r.err
}
