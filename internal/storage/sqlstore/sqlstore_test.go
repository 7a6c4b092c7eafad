package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/config"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/storage"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	store, err := New(ctx, config.Database{
		Driver: "sqlite3",
		URL:    filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return store
}

func begin(t *testing.T, store *Store) storage.Session {
	t.Helper()
	sess, err := store.Begin(context.Background())
	if err != nil {
		t.Fatalf("failed to begin session: %v", err)
	}
	t.Cleanup(func() { sess.Close() })
	return sess
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStore(t)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate returned error: %v", err)
	}
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := New(context.Background(), config.Database{Driver: "oracle", URL: "x"})
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestStudent_CRUD(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sess := begin(t, store)

	created, err := sess.InsertStudent(ctx, types.Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("InsertStudent returned error: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected generated id")
	}

	got, err := sess.GetStudent(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetStudent returned error: %v", err)
	}
	if got != created {
		t.Fatalf("expected %+v, got %+v", created, got)
	}

	byEmail, err := sess.FindStudentByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("FindStudentByEmail returned error: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("expected id %d, got %d", created.ID, byEmail.ID)
	}

	got.Email = "countess@example.com"
	if err := sess.UpdateStudent(ctx, got); err != nil {
		t.Fatalf("UpdateStudent returned error: %v", err)
	}
	updated, _ := sess.GetStudent(ctx, created.ID)
	if updated.Email != "countess@example.com" || updated.FirstName != "Ada" {
		t.Fatalf("unexpected student after update: %+v", updated)
	}

	if err := sess.DeleteStudent(ctx, created.ID); err != nil {
		t.Fatalf("DeleteStudent returned error: %v", err)
	}
	if _, err := sess.GetStudent(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := sess.DeleteStudent(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListStudents_EmptyIsNotNil(t *testing.T) {
	store := newTestStore(t)
	sess := begin(t, store)

	students, err := sess.ListStudents(context.Background())
	if err != nil {
		t.Fatalf("ListStudents returned error: %v", err)
	}
	if students == nil || len(students) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", students)
	}
}

func TestInsertStudent_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sess := begin(t, store)

	s := types.Student{FirstName: "A", LastName: "B", Email: "dup@example.com"}
	if _, err := sess.InsertStudent(ctx, s); err != nil {
		t.Fatalf("first InsertStudent returned error: %v", err)
	}
	if _, err := sess.InsertStudent(ctx, s); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestInsertCourse_CreditsCheck(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sess := begin(t, store)

	if _, err := sess.InsertCourse(ctx, types.Course{Name: "Bad", Credits: 9}); !errors.Is(err, storage.ErrConstraint) {
		t.Fatalf("expected ErrConstraint, got %v", err)
	}

	desc := "Intro"
	c, err := sess.InsertCourse(ctx, types.Course{Name: "Math", Description: &desc, Credits: 8})
	if err != nil {
		t.Fatalf("InsertCourse returned error: %v", err)
	}
	got, err := sess.GetCourse(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCourse returned error: %v", err)
	}
	if got.Description == nil || *got.Description != "Intro" || got.Credits != 8 {
		t.Fatalf("unexpected course: %+v", got)
	}

	noDesc, err := sess.InsertCourse(ctx, types.Course{Name: "Art", Credits: 1})
	if err != nil {
		t.Fatalf("InsertCourse returned error: %v", err)
	}
	got, _ = sess.GetCourse(ctx, noDesc.ID)
	if got.Description != nil {
		t.Fatalf("expected nil description, got %q", *got.Description)
	}
}

func TestEnrollment_Constraints(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	sess := begin(t, store)

	student, _ := sess.InsertStudent(ctx, types.Student{FirstName: "A", LastName: "B", Email: "a@b.c"})
	course, _ := sess.InsertCourse(ctx, types.Course{Name: "Math", Credits: 3})
	when := time.Date(2024, 9, 1, 8, 30, 0, 0, time.UTC)

	e := types.Enrollment{StudentID: student.ID, CourseID: course.ID, EnrollmentDate: when}
	if err := sess.InsertEnrollment(ctx, e); err != nil {
		t.Fatalf("InsertEnrollment returned error: %v", err)
	}
	if err := sess.InsertEnrollment(ctx, e); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	missing := types.Enrollment{StudentID: 999, CourseID: course.ID, EnrollmentDate: when}
	if err := sess.InsertEnrollment(ctx, missing); !errors.Is(err, storage.ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}

	got, err := sess.GetEnrollment(ctx, student.ID, course.ID)
	if err != nil {
		t.Fatalf("GetEnrollment returned error: %v", err)
	}
	if !got.EnrollmentDate.Equal(when) {
		t.Fatalf("expected enrollment date %v, got %v", when, got.EnrollmentDate)
	}

	byCourse, err := sess.ListEnrollmentsByCourse(ctx, course.ID)
	if err != nil || len(byCourse) != 1 {
		t.Fatalf("expected one enrollment for course, got %v (err %v)", byCourse, err)
	}

	n, err := sess.DeleteEnrollmentsByStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("DeleteEnrollmentsByStudent returned error: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 deleted enrollment, got %d", n)
	}
	if err := sess.DeleteEnrollment(ctx, student.ID, course.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSession_CloseRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	s, err := sess.InsertStudent(ctx, types.Student{FirstName: "A", LastName: "B", Email: "gone@example.com"})
	if err != nil {
		t.Fatalf("InsertStudent returned error: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}

	check := begin(t, store)
	if _, err := check.GetStudent(ctx, s.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected rolled back student to be gone, got %v", err)
	}
}

func TestSession_CommitPersists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin returned error: %v", err)
	}
	c, err := sess.InsertCourse(ctx, types.Course{Name: "Physics", Credits: 4})
	if err != nil {
		t.Fatalf("InsertCourse returned error: %v", err)
	}
	if err := sess.Commit(); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("Close after Commit returned error: %v", err)
	}

	check := begin(t, store)
	if _, err := check.GetCourse(ctx, c.ID); err != nil {
		t.Fatalf("expected committed course, got %v", err)
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"app.db", "app.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"},
		{"file:app.db?cache=shared", "file:app.db?cache=shared&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"},
		{"app.db?_foreign_keys=off&_busy_timeout=1&_journal_mode=DELETE", "app.db?_foreign_keys=off&_busy_timeout=1&_journal_mode=DELETE"},
	}
	for _, tt := range tests {
		if got := sqliteDSN(tt.in); got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
