// Package storage defines the persistence contract the HTTP handlers
// depend on. Handlers never see SQL or a driver; they open a Session per
// request, call the primitives below and commit on write paths.
package storage

import (
	"context"
	"errors"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/types"
)

// Errors returned (wrapped) by every implementation. Match with errors.Is.
var (
	// ErrNotFound means no row matched the key.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is a unique or primary-key constraint violation.
	ErrDuplicate = errors.New("duplicate record")
	// ErrMissingReference is a foreign-key constraint violation.
	ErrMissingReference = errors.New("referenced record does not exist")
	// ErrConstraint is a CHECK or NOT NULL constraint violation.
	ErrConstraint = errors.New("constraint violation")
)

// Storage is the database contract.
type Storage interface {
	// Begin opens a transactional Session. The caller must Close it.
	Begin(ctx context.Context) (Session, error)

	// Migrate creates the schema if it is absent. Safe to run on every
	// startup.
	Migrate(ctx context.Context) error

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// Session is one transaction. Writes become visible to other sessions only
// after Commit. Close rolls back anything not committed and is safe to call
// after Commit or more than once.
type Session interface {
	StudentStore
	CourseStore
	EnrollmentStore

	Commit() error
	Close() error
}

// StudentStore holds the student primitives.
type StudentStore interface {
	GetStudent(ctx context.Context, id int64) (types.Student, error)
	// FindStudentByEmail returns ErrNotFound when the email is free.
	FindStudentByEmail(ctx context.Context, email string) (types.Student, error)
	ListStudents(ctx context.Context) ([]types.Student, error)
	// InsertStudent returns the student with its generated ID.
	InsertStudent(ctx context.Context, s types.Student) (types.Student, error)
	UpdateStudent(ctx context.Context, s types.Student) error
	DeleteStudent(ctx context.Context, id int64) error
}

// CourseStore holds the course primitives.
type CourseStore interface {
	GetCourse(ctx context.Context, id int64) (types.Course, error)
	ListCourses(ctx context.Context) ([]types.Course, error)
	InsertCourse(ctx context.Context, c types.Course) (types.Course, error)
	UpdateCourse(ctx context.Context, c types.Course) error
	DeleteCourse(ctx context.Context, id int64) error
}

// EnrollmentStore holds the enrollment primitives.
type EnrollmentStore interface {
	GetEnrollment(ctx context.Context, studentID, courseID int64) (types.Enrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID int64) ([]types.Enrollment, error)
	ListEnrollmentsByCourse(ctx context.Context, courseID int64) ([]types.Enrollment, error)
	InsertEnrollment(ctx context.Context, e types.Enrollment) error
	DeleteEnrollment(ctx context.Context, studentID, courseID int64) error
	// DeleteEnrollmentsByStudent and DeleteEnrollmentsByCourse return the
	// number of rows removed.
	DeleteEnrollmentsByStudent(ctx context.Context, studentID int64) (int64, error)
	DeleteEnrollmentsByCourse(ctx context.Context, courseID int64) (int64, error)
}
