package db

import (
	"context"
	"database/sql"
)

// DB wraps the sql connection pool so packages can depend on this type
// instead of database/sql directly.
type DB struct {
	*sql.DB
}

const appsMigration = `
CREATE TABLE IF NOT EXISTS apps (
    domain text PRIMARY KEY,
    client_id text NOT NULL,
    client_secret text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW()
);
`

// RunMigration applies the idempotent startup schema.
func RunMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, appsMigration)
	return err
}
