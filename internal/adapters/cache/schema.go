package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the quote cache schema. The DDL is valid for both Postgres
// and SQLite.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createQuoteCacheQuery := `
	CREATE TABLE IF NOT EXISTS quote_cache (
		cache_key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		expires_at BIGINT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_quote_cache_expires_at
	ON quote_cache(expires_at);
	`

	statements := []string{
		createQuoteCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
