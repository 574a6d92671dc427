package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS screening_run (
	id            TEXT PRIMARY KEY,
	query         TEXT NOT NULL,
	role_type     TEXT NOT NULL DEFAULT '',
	summary       TEXT NOT NULL DEFAULT '',
	report_json   TEXT NOT NULL DEFAULT '',
	raw_response  BLOB,
	status        TEXT NOT NULL,
	batch_size    INTEGER NOT NULL DEFAULT 0,
	failed_slots  INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_screening_run_created_at ON screening_run(created_at);
`

// Open opens (or creates) the run-history database and ensures its schema.
// Pass ":memory:" for an ephemeral store.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}
