// Package repository selects the storage backend at startup.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vncsmyrnk/quickpoll/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/quickpoll/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/quickpoll/internal/core/ports"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store bundles an open, migrated database with its repositories.
type Store struct {
	DB    *sql.DB
	Polls ports.PollRepository
	Votes ports.VoteRepository
}

// Open connects to the database of the given driver, applies the schema and
// builds the repositories on top of it.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	switch driver {
	case DriverPostgres:
		db, err := postgres.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{DB: db, Polls: postgres.NewPollRepository(db), Votes: postgres.NewVoteRepository(db)}, nil

	case DriverSQLite:
		db, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Store{DB: db, Polls: sqlite.NewPollRepository(db), Votes: sqlite.NewVoteRepository(db)}, nil

	default:
		return nil, fmt.Errorf("unsupported database type %q", driver)
	}
}

func (s *Store) Close() error {
	return s.DB.Close()
}
