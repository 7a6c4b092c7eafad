package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/types"
)

const courseTable = "course"

var courseColumns = []string{"id", "name", "description", "credits"}

func (s *session) GetCourse(ctx context.Context, id int64) (types.Course, error) {
	q := s.sb.Select(courseColumns...).From(courseTable).Where(squirrel.Eq{"id": id}).Limit(1)

	var (
		course      types.Course
		description sql.NullString
	)
	if err := s.queryRow(ctx, q, &course.ID, &course.Name, &description, &course.Credits); err != nil {
		return types.Course{}, fmt.Errorf("GetCourse %d: %w", id, notFound(err))
	}
	course.Description = nullStringToPtr(description)
	return course, nil
}

func (s *session) ListCourses(ctx context.Context) ([]types.Course, error) {
	q := s.sb.Select(courseColumns...).From(courseTable).OrderBy("id")

	rows, err := s.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("ListCourses: query: %w", err)
	}
	defer rows.Close()

	courses := make([]types.Course, 0)
	for rows.Next() {
		var (
			course      types.Course
			description sql.NullString
		)
		if err := rows.Scan(&course.ID, &course.Name, &description, &course.Credits); err != nil {
			return nil, fmt.Errorf("ListCourses: scan row: %w", err)
		}
		course.Description = nullStringToPtr(description)
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCourses: rows iteration: %w", err)
	}
	return courses, nil
}

func (s *session) InsertCourse(ctx context.Context, course types.Course) (types.Course, error) {
	q := s.sb.Insert(courseTable).
		Columns("name", "description", "credits").
		Values(course.Name, ptrToNullString(course.Description), course.Credits).
		Suffix("RETURNING id")

	if err := s.queryRow(ctx, q, &course.ID); err != nil {
		return types.Course{}, fmt.Errorf("InsertCourse: %w", err)
	}
	return course, nil
}

func (s *session) UpdateCourse(ctx context.Context, course types.Course) error {
	q := s.sb.Update(courseTable).
		SetMap(map[string]any{
			"name":        course.Name,
			"description": ptrToNullString(course.Description),
			"credits":     course.Credits,
		}).
		Where(squirrel.Eq{"id": course.ID})

	if err := s.execOne(ctx, q); err != nil {
		return fmt.Errorf("UpdateCourse %d: %w", course.ID, err)
	}
	return nil
}

func (s *session) DeleteCourse(ctx context.Context, id int64) error {
	q := s.sb.Delete(courseTable).Where(squirrel.Eq{"id": id})

	if err := s.execOne(ctx, q); err != nil {
		return fmt.Errorf("DeleteCourse %d: %w", id, err)
	}
	return nil
}
