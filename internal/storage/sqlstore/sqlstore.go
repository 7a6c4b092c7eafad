// Package sqlstore implements storage.Storage on top of database/sql.
//
// Two drivers are supported, selected by config.Database.Driver:
//
//	sqlite3  github.com/mattn/go-sqlite3, URL is a file path
//	pgx      github.com/jackc/pgx/v5/stdlib, URL is a postgres:// DSN
//
// All SQL is built with squirrel so the same query code serves both
// placeholder styles.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog/log"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/config"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/storage"
)

// Store is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type Store struct {
	db      *sql.DB
	dialect dialect
	sb      squirrel.StatementBuilderType
}

var _ storage.Storage = (*Store)(nil)

// New opens the database described by cfg and verifies the connection.
// It does not create the schema; call Migrate for that.
func New(ctx context.Context, cfg config.Database) (*Store, error) {
	d, err := dialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.driverName, d.dsn(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("sqlstore.New: open db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlstore.New: ping db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	log.Debug().Str("driver", d.driverName).Msg("Database connection established")

	return &Store{
		db:      db,
		dialect: d,
		sb:      squirrel.StatementBuilder.PlaceholderFormat(d.placeholder),
	}, nil
}

// Migrate creates the tables and indexes if they do not exist yet.
// CREATE ... IF NOT EXISTS is idempotent, so this runs on every startup.
func (s *Store) Migrate(ctx context.Context) error {
	log.Info().Str("driver", s.dialect.driverName).Msg("Ensuring database schema")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore.Migrate: begin: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range s.dialect.schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlstore.Migrate: statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore.Migrate: commit: %w", err)
	}
	return nil
}

// Begin starts a transaction for one request.
func (s *Store) Begin(ctx context.Context) (storage.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlstore.Begin: %w", err)
	}
	return &session{tx: tx, sb: s.sb, classify: s.dialect.classify}, nil
}

// Ping checks the connection pool can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
