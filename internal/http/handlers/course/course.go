// Package course contains the HTTP handlers for the Course resource.
// The handlers follow the same factory and session shape as package student.
package course

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/storage"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/types"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/utils/request"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/utils/response"
)

const notFoundDetail = "Course not found"

// New handles POST /courses.
//
//	{ "name": "Algebra", "description": "optional", "credits": 3 }
//
// Credits outside 1..8 fail validation with 422.
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Msg("creating a course")

		var in types.CourseCreate
		if !request.DecodeJSON(w, r, &in) {
			return
		}

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		c, err := sess.InsertCourse(r.Context(), types.Course{
			Name:        in.Name,
			Description: in.Description,
			Credits:     in.Credits,
		})
		if err != nil {
			response.StorageError(w, err)
			return
		}
		if err := sess.Commit(); err != nil {
			response.StorageError(w, err)
			return
		}

		log.Info().Int64("id", c.ID).Msg("course created")
		response.WriteJSON(w, http.StatusCreated, c)
	}
}

// GetList handles GET /courses. Courses are returned flat.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Msg("getting all courses")

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		courses, err := sess.ListCourses(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, courses)
	}
}

// GetByID handles GET /courses/{course_id}, embedding enrolled students.
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(w, r, "course_id")
		if !ok {
			return
		}
		log.Info().Int64("id", id).Msg("getting a course")

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		c, err := sess.GetCourse(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, notFoundDetail)
			return
		}
		if err != nil {
			response.StorageError(w, err)
			return
		}

		read, err := withStudents(r.Context(), sess, c)
		if err != nil {
			response.StorageError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, read)
	}
}

// Update handles PATCH /courses/{course_id}.
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(w, r, "course_id")
		if !ok {
			return
		}
		log.Info().Int64("id", id).Msg("updating a course")

		var in types.CourseUpdate
		if !request.DecodeJSON(w, r, &in) {
			return
		}

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		c, err := sess.GetCourse(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, notFoundDetail)
			return
		}
		if err != nil {
			response.StorageError(w, err)
			return
		}

		in.Apply(&c)
		if err := sess.UpdateCourse(r.Context(), c); err != nil {
			response.StorageError(w, err)
			return
		}
		if err := sess.Commit(); err != nil {
			response.StorageError(w, err)
			return
		}

		log.Info().Int64("id", id).Msg("course updated")
		response.WriteJSON(w, http.StatusOK, c)
	}
}

// Delete handles DELETE /courses/{course_id}, removing its enrollments first.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(w, r, "course_id")
		if !ok {
			return
		}
		log.Info().Int64("id", id).Msg("deleting a course")

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		if _, err := sess.GetCourse(r.Context(), id); errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, notFoundDetail)
			return
		} else if err != nil {
			response.StorageError(w, err)
			return
		}

		n, err := sess.DeleteEnrollmentsByCourse(r.Context(), id)
		if err != nil {
			response.StorageError(w, err)
			return
		}
		if err := sess.DeleteCourse(r.Context(), id); err != nil {
			response.StorageError(w, err)
			return
		}
		if err := sess.Commit(); err != nil {
			response.StorageError(w, err)
			return
		}

		log.Info().Int64("id", id).Int64("enrollments", n).Msg("course deleted")
		response.NoContent(w)
	}
}

func withStudents(ctx context.Context, sess storage.Session, c types.Course) (types.CourseReadWithStudents, error) {
	enrollments, err := sess.ListEnrollmentsByCourse(ctx, c.ID)
	if err != nil {
		return types.CourseReadWithStudents{}, err
	}

	students := make([]types.StudentWithEnrollmentDate, 0, len(enrollments))
	for _, e := range enrollments {
		s, err := sess.GetStudent(ctx, e.StudentID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return types.CourseReadWithStudents{}, err
		}
		students = append(students, types.StudentWithEnrollmentDate{
			ID:             s.ID,
			FirstName:      s.FirstName,
			LastName:       s.LastName,
			Email:          s.Email,
			EnrollmentDate: e.EnrollmentDate,
		})
	}

	return types.CourseReadWithStudents{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Credits:     c.Credits,
		Students:    students,
	}, nil
}
