package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// session is one request-scoped transaction.
type session struct {
	tx       *sql.Tx
	sb       squirrel.StatementBuilderType
	classify func(error) error
	done     bool
}

func (s *session) Commit() error {
	if s.done {
		return sql.ErrTxDone
	}
	s.done = true
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", s.classify(err))
	}
	return nil
}

func (s *session) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

func (s *session) exec(ctx context.Context, b squirrel.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	res, err := s.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, s.classify(err)
	}
	return res, nil
}

func (s *session) query(ctx context.Context, b squirrel.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return s.tx.QueryContext(ctx, query, args...)
}

// queryRow runs b and scans its single row into dest. Constraint errors
// raised by INSERT ... RETURNING surface here, so they are classified too.
func (s *session) queryRow(ctx context.Context, b squirrel.Sqlizer, dest ...any) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return s.classify(s.tx.QueryRowContext(ctx, query, args...).Scan(dest...))
}

// execOne runs a keyed UPDATE or DELETE and reports storage.ErrNotFound
// when no row matched.
func (s *session) execOne(ctx context.Context, b squirrel.Sqlizer) error {
	res, err := s.exec(ctx, b)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return errNotFound
	}
	return nil
}

// execMany runs a DELETE by predicate and returns how many rows it removed.
func (s *session) execMany(ctx context.Context, b squirrel.Sqlizer) (int64, error) {
	res, err := s.exec(ctx, b)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
