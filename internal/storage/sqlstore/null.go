package sqlstore

import (
	"database/sql"
	"errors"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/storage"
)

var errNotFound = storage.ErrNotFound

// notFound converts sql.ErrNoRows into storage.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound
	}
	return err
}

// nullStringToPtr converts a sql.NullString to a pointer (nil if not valid)
func nullStringToPtr(n sql.NullString) *string {
	if n.Valid {
		return &n.String
	}
	return nil
}

// ptrToNullString is the inverse of nullStringToPtr.
func ptrToNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
