package sqlstore

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/types"
)

const studentTable = "student"

var studentColumns = []string{"id", "first_name", "last_name", "email"}

func (s *session) GetStudent(ctx context.Context, id int64) (types.Student, error) {
	student, err := s.getStudentWhere(ctx, squirrel.Eq{"id": id})
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudent %d: %w", id, err)
	}
	return student, nil
}

func (s *session) FindStudentByEmail(ctx context.Context, email string) (types.Student, error) {
	student, err := s.getStudentWhere(ctx, squirrel.Eq{"email": email})
	if err != nil {
		return types.Student{}, fmt.Errorf("FindStudentByEmail: %w", err)
	}
	return student, nil
}

func (s *session) getStudentWhere(ctx context.Context, pred squirrel.Sqlizer) (types.Student, error) {
	q := s.sb.Select(studentColumns...).From(studentTable).Where(pred).Limit(1)

	var student types.Student
	err := s.queryRow(ctx, q, &student.ID, &student.FirstName, &student.LastName, &student.Email)
	if err != nil {
		return types.Student{}, notFound(err)
	}
	return student, nil
}

func (s *session) ListStudents(ctx context.Context) ([]types.Student, error) {
	q := s.sb.Select(studentColumns...).From(studentTable).OrderBy("id")

	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ListStudents: query: %w", err)
	}
	defer rows.Close()

	// Non-nil so an empty table encodes as [] rather than null.
	students := make([]types.Student, 0)
	for rows.Next() {
		var student types.Student
		if err := rows.Scan(&student.ID, &student.FirstName, &student.LastName, &student.Email); err != nil {
			return nil, fmt.Errorf("ListStudents: scan row: %w", err)
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListStudents: rows iteration: %w", err)
	}
	return students, nil
}

func (s *session) InsertStudent(ctx context.Context, student types.Student) (types.Student, error) {
	q := s.sb.Insert(studentTable).
		Columns("first_name", "last_name", "email").
		Values(student.FirstName, student.LastName, student.Email).
		Suffix("RETURNING id")

	if err := s.queryRow(ctx, q, &student.ID); err != nil {
		return types.Student{}, fmt.Errorf("InsertStudent: %w", err)
	}
	return student, nil
}

func (s *session) UpdateStudent(ctx context.Context, student types.Student) error {
	q := s.sb.Update(studentTable).
		SetMap(map[string]any{
			"first_name": student.FirstName,
			"last_name":  student.LastName,
			"email":      student.Email,
		}).
		Where(squirrel.Eq{"id": student.ID})

	if err := s.execOne(ctx, q); err != nil {
		return fmt.Errorf("UpdateStudent %d: %w", student.ID, err)
	}
	return nil
}

func (s *session) DeleteStudent(ctx context.Context, id int64) error {
	q := s.sb.Delete(studentTable).Where(squirrel.Eq{"id": id})

	if err := s.execOne(ctx, q); err != nil {
		return fmt.Errorf("DeleteStudent %d: %w", id, err)
	}
	return nil
}
