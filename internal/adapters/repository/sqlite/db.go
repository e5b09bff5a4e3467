package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vncsmyrnk/quickpoll/internal/core/domain"
	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Open opens (or creates) the database file. Foreign keys are switched on
// for every connection since cascading deletes depend on them.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("sqlite dsn is required")
	}

	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One writer at a time keeps SQLITE_BUSY away.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", classify(err))
	}
	return db, nil
}

func withPragmas(dsn string) string {
	pragmas := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)"}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(pragmas, "&")
}

// Migrate creates all tables. Safe to call multiple times.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", classify(err))
	}
	return nil
}

const schema = `
CREATE TABLE IF NOT EXISTS poll (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL CHECK (title <> ''),
    poll_type TEXT NOT NULL CHECK (poll_type IN ('single', 'multiple')),
    created_at INTEGER NOT NULL,
    timeout_at INTEGER NOT NULL,
    delete_at INTEGER NOT NULL,
    CHECK (delete_at >= timeout_at)
);

CREATE INDEX IF NOT EXISTS idx_poll_delete_at ON poll (delete_at);

CREATE TABLE IF NOT EXISTS poll_option (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    poll_id INTEGER NOT NULL REFERENCES poll (id) ON DELETE CASCADE,
    name TEXT NOT NULL CHECK (name <> ''),
    UNIQUE (poll_id, name)
);

CREATE INDEX IF NOT EXISTS idx_poll_option_poll_id ON poll_option (poll_id);

CREATE TABLE IF NOT EXISTS poll_vote (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    option_id INTEGER NOT NULL REFERENCES poll_option (id) ON DELETE CASCADE,
    ip_address TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    UNIQUE (option_id, ip_address)
);

CREATE INDEX IF NOT EXISTS idx_poll_vote_ip_address ON poll_vote (ip_address);
`

// Timestamps are stored as unix microseconds so that range comparisons are
// plain integer comparisons. Microseconds cover roughly 290k years either
// side of 1970, nanoseconds would overflow after 2262.
func toUnix(t time.Time) int64 { return t.UnixMicro() }

func fromUnix(n int64) time.Time { return time.UnixMicro(n).UTC() }

func classify(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr *sqlitedriver.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", domain.ErrConflict, err)
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR:
			return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
		}
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr *sqlitedriver.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}
