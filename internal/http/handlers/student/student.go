// Package student contains all HTTP handlers related to the Student resource.
//
// Every exported function is a factory: it receives the storage once at
// route registration and returns the http.HandlerFunc that runs on every
// request.
//
//	r.Post("/", student.New(store))
//
// Each handler opens its own storage.Session and defers Close, so the
// transaction is released on every exit path. Write paths Commit before
// responding.
package student

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/storage"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/types"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/utils/request"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/utils/response"
)

// MaxDeleteID is the upper bound accepted by the delete endpoint.
const MaxDeleteID = 1_000_000

const notFoundDetail = "Student not found"

// New handles POST /students.
//
// Request body:
//
//	{ "first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com" }
//
// 201 with the created student, 409 when the email is taken.
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Msg("creating a student")

		var in types.StudentCreate
		if !request.DecodeJSON(w, r, &in) {
			return
		}

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		if taken, err := emailTaken(r.Context(), sess, in.Email, 0); err != nil {
			response.StorageError(w, err)
			return
		} else if taken {
			response.Conflict(w, fmt.Sprintf("Student with email %s already exists.", in.Email))
			return
		}

		student, err := sess.InsertStudent(r.Context(), types.Student{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
		})
		if err != nil {
			response.StorageError(w, err)
			return
		}
		if err := sess.Commit(); err != nil {
			response.StorageError(w, err)
			return
		}

		log.Info().Int64("id", student.ID).Msg("student created")
		response.WriteJSON(w, http.StatusCreated, student)
	}
}

// GetList handles GET /students.
// Returns every student with the courses they are enrolled in.
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info().Msg("getting all students")

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		students, err := sess.ListStudents(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}

		out := make([]types.StudentReadWithCourses, 0, len(students))
		for _, s := range students {
			read, err := withCourses(r.Context(), sess, s)
			if err != nil {
				response.StorageError(w, err)
				return
			}
			out = append(out, read)
		}

		response.WriteJSON(w, http.StatusOK, out)
	}
}

// GetByID handles GET /students/{student_id}.
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(w, r, "student_id")
		if !ok {
			return
		}
		log.Info().Int64("id", id).Msg("getting a student")

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		s, err := sess.GetStudent(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, notFoundDetail)
			return
		}
		if err != nil {
			response.StorageError(w, err)
			return
		}

		read, err := withCourses(r.Context(), sess, s)
		if err != nil {
			response.StorageError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, read)
	}
}

// Update handles PATCH /students/{student_id}.
// Only the fields present in the body are changed.
func Update(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(w, r, "student_id")
		if !ok {
			return
		}
		log.Info().Int64("id", id).Msg("updating a student")

		var in types.StudentUpdate
		if !request.DecodeJSON(w, r, &in) {
			return
		}

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		s, err := sess.GetStudent(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, notFoundDetail)
			return
		}
		if err != nil {
			response.StorageError(w, err)
			return
		}

		if in.Email != nil && *in.Email != s.Email {
			if taken, err := emailTaken(r.Context(), sess, *in.Email, id); err != nil {
				response.StorageError(w, err)
				return
			} else if taken {
				response.Conflict(w, fmt.Sprintf("Student with email %s already exists.", *in.Email))
				return
			}
		}

		in.Apply(&s)
		if err := sess.UpdateStudent(r.Context(), s); err != nil {
			response.StorageError(w, err)
			return
		}
		if err := sess.Commit(); err != nil {
			response.StorageError(w, err)
			return
		}

		log.Info().Int64("id", id).Msg("student updated")
		response.WriteJSON(w, http.StatusOK, s)
	}
}

// Delete handles DELETE /students/deleteStudentById?student_id={id}.
// The student's enrollments are removed first, in the same transaction.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.QueryID(w, r, "student_id", 1, MaxDeleteID)
		if !ok {
			return
		}
		log.Info().Int64("id", id).Msg("deleting a student")

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		if _, err := sess.GetStudent(r.Context(), id); errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, notFoundDetail)
			return
		} else if err != nil {
			response.StorageError(w, err)
			return
		}

		n, err := sess.DeleteEnrollmentsByStudent(r.Context(), id)
		if err != nil {
			response.StorageError(w, err)
			return
		}
		if err := sess.DeleteStudent(r.Context(), id); err != nil {
			response.StorageError(w, err)
			return
		}
		if err := sess.Commit(); err != nil {
			response.StorageError(w, err)
			return
		}

		log.Info().Int64("id", id).Int64("enrollments", n).Msg("student deleted")
		response.NoContent(w)
	}
}

// emailTaken reports whether email belongs to a student other than self.
func emailTaken(ctx context.Context, sess storage.Session, email string, self int64) (bool, error) {
	existing, err := sess.FindStudentByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return existing.ID != self, nil
}

// withCourses builds the nested read-model: one lookup for the student's
// enrollments, then one per enrolled course.
func withCourses(ctx context.Context, sess storage.Session, s types.Student) (types.StudentReadWithCourses, error) {
	enrollments, err := sess.ListEnrollmentsByStudent(ctx, s.ID)
	if err != nil {
		return types.StudentReadWithCourses{}, err
	}

	courses := make([]types.CourseWithEnrollmentDate, 0, len(enrollments))
	for _, e := range enrollments {
		c, err := sess.GetCourse(ctx, e.CourseID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return types.StudentReadWithCourses{}, err
		}
		courses = append(courses, types.CourseWithEnrollmentDate{
			ID:             c.ID,
			Name:           c.Name,
			Description:    c.Description,
			Credits:        c.Credits,
			EnrollmentDate: e.EnrollmentDate,
		})
	}

	return types.StudentReadWithCourses{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Courses:   courses,
	}, nil
}
