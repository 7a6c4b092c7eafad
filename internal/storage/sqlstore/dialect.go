package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/storage"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/types"
)

// dialect captures everything that differs between the two backends.
type dialect struct {
	driverName  string
	placeholder squirrel.PlaceholderFormat
	dsn         func(url string) string
	schema      []string
	// classify maps a driver error onto the storage sentinels. Errors it
	// does not recognise are returned unchanged.
	classify func(err error) error
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "sqlite3", "":
		return sqliteDialect, nil
	case "pgx":
		return postgresDialect, nil
	default:
		return dialect{}, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
}

var creditsCheck = fmt.Sprintf("CHECK (credits BETWEEN %d AND %d)", types.MinCredits, types.MaxCredits)

var sqliteDialect = dialect{
	driverName:  "sqlite3",
	placeholder: squirrel.Question,
	dsn:         sqliteDSN,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS student (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT    NOT NULL,
			last_name  TEXT    NOT NULL,
			email      TEXT    NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS course (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT    NOT NULL,
			description TEXT,
			credits     INTEGER NOT NULL ` + creditsCheck + `
		)`,
		`CREATE INDEX IF NOT EXISTS ix_course_name ON course (name)`,
		`CREATE TABLE IF NOT EXISTS enrollment (
			student_id      INTEGER  NOT NULL REFERENCES student (id),
			course_id       INTEGER  NOT NULL REFERENCES course (id),
			enrollment_date DATETIME NOT NULL,
			PRIMARY KEY (student_id, course_id)
		)`,
		`CREATE INDEX IF NOT EXISTS ix_enrollment_course_id ON enrollment (course_id)`,
	},
	classify: classifySQLite,
}

var postgresDialect = dialect{
	driverName:  "pgx",
	placeholder: squirrel.Dollar,
	dsn:         func(url string) string { return url },
	schema: []string{
		`CREATE TABLE IF NOT EXISTS student (
			id         BIGSERIAL PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS course (
			id          BIGSERIAL PRIMARY KEY,
			name        TEXT    NOT NULL,
			description TEXT,
			credits     INTEGER NOT NULL ` + creditsCheck + `
		)`,
		`CREATE INDEX IF NOT EXISTS ix_course_name ON course (name)`,
		`CREATE TABLE IF NOT EXISTS enrollment (
			student_id      BIGINT      NOT NULL REFERENCES student (id),
			course_id       BIGINT      NOT NULL REFERENCES course (id),
			enrollment_date TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (student_id, course_id)
		)`,
		`CREATE INDEX IF NOT EXISTS ix_enrollment_course_id ON enrollment (course_id)`,
	},
	classify: classifyPostgres,
}

// sqliteDSN turns on foreign keys (off by default in SQLite), WAL and a
// busy timeout unless the caller already set them.
func sqliteDSN(url string) string {
	params := []string{}
	for _, p := range []string{"_foreign_keys=on", "_busy_timeout=5000", "_journal_mode=WAL"} {
		key := p[:strings.Index(p, "=")+1]
		if !strings.Contains(url, key) {
			params = append(params, p)
		}
	}
	if len(params) == 0 {
		return url
	}
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + strings.Join(params, "&")
}

func classifySQLite(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code != sqlite3.ErrConstraint {
		return err
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %w", storage.ErrDuplicate, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %w", storage.ErrMissingReference, err)
	default:
		return fmt.Errorf("%w: %w", storage.ErrConstraint, err)
	}
}

// SQLSTATE codes, class 23 (integrity constraint violation).
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

func classifyPostgres(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %w", storage.ErrDuplicate, err)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %w", storage.ErrMissingReference, err)
	case pgCheckViolation, pgNotNullViolation:
		return fmt.Errorf("%w: %w", storage.ErrConstraint, err)
	default:
		return err
	}
}
