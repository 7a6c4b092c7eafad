package sqlstore

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/types"
)

const enrollmentTable = "enrollment"

var enrollmentColumns = []string{"student_id", "course_id", "enrollment_date"}

func (s *session) GetEnrollment(ctx context.Context, studentID, courseID int64) (types.Enrollment, error) {
	q := s.sb.Select(enrollmentColumns...).
		From(enrollmentTable).
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		Limit(1)

	var e types.Enrollment
	if err := s.queryRow(ctx, q, &e.StudentID, &e.CourseID, &e.EnrollmentDate); err != nil {
		return types.Enrollment{}, fmt.Errorf("GetEnrollment (%d, %d): %w", studentID, courseID, notFound(err))
	}
	return e, nil
}

func (s *session) ListEnrollmentsByStudent(ctx context.Context, studentID int64) ([]types.Enrollment, error) {
	q := s.sb.Select(enrollmentColumns...).
		From(enrollmentTable).
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("enrollment_date", "course_id")

	enrollments, err := s.listEnrollments(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ListEnrollmentsByStudent %d: %w", studentID, err)
	}
	return enrollments, nil
}

func (s *session) ListEnrollmentsByCourse(ctx context.Context, courseID int64) ([]types.Enrollment, error) {
	q := s.sb.Select(enrollmentColumns...).
		From(enrollmentTable).
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("enrollment_date", "student_id")

	enrollments, err := s.listEnrollments(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ListEnrollmentsByCourse %d: %w", courseID, err)
	}
	return enrollments, nil
}

func (s *session) listEnrollments(ctx context.Context, q squirrel.SelectBuilder) ([]types.Enrollment, error) {
	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	enrollments := make([]types.Enrollment, 0)
	for rows.Next() {
		var e types.Enrollment
		if err := rows.Scan(&e.StudentID, &e.CourseID, &e.EnrollmentDate); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return enrollments, nil
}

func (s *session) InsertEnrollment(ctx context.Context, e types.Enrollment) error {
	q := s.sb.Insert(enrollmentTable).
		Columns(enrollmentColumns...).
		Values(e.StudentID, e.CourseID, e.EnrollmentDate)

	if _, err := s.exec(ctx, q); err != nil {
		return fmt.Errorf("InsertEnrollment (%d, %d): %w", e.StudentID, e.CourseID, err)
	}
	return nil
}

func (s *session) DeleteEnrollment(ctx context.Context, studentID, courseID int64) error {
	q := s.sb.Delete(enrollmentTable).
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID})

	if err := s.execOne(ctx, q); err != nil {
		return fmt.Errorf("DeleteEnrollment (%d, %d): %w", studentID, courseID, err)
	}
	return nil
}

func (s *session) DeleteEnrollmentsByStudent(ctx context.Context, studentID int64) (int64, error) {
	n, err := s.execMany(ctx, s.sb.Delete(enrollmentTable).Where(squirrel.Eq{"student_id": studentID}))
	if err != nil {
		return 0, fmt.Errorf("DeleteEnrollmentsByStudent %d: %w", studentID, err)
	}
	return n, nil
}

func (s *session) DeleteEnrollmentsByCourse(ctx context.Context, courseID int64) (int64, error) {
	n, err := s.execMany(ctx, s.sb.Delete(enrollmentTable).Where(squirrel.Eq{"course_id": courseID}))
	if err != nil {
		return 0, fmt.Errorf("DeleteEnrollmentsByCourse %d: %w", courseID, err)
	}
	return n, nil
}
