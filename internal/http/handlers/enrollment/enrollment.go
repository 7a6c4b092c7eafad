// Package enrollment contains the HTTP handlers for the student/course
// pairing. Enrollments are only created and deleted; there is no read or
// update endpoint.
package enrollment

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/storage"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/types"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/utils/request"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/utils/response"
)

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// New handles POST /enrollments.
//
//	{ "student_id": 1, "course_id": 2, "enrollment_date": "2024-09-01T08:00:00Z" }
//
// Checks run in a fixed order: student exists (404), course exists (404),
// pair not already enrolled (409). enrollment_date defaults to now and
// also accepts "2024-09-01" or "2024-09-01T08:00:00" (read as UTC).
func New(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in types.EnrollmentCreate
		if !request.DecodeJSON(w, r, &in) {
			return
		}
		studentID, courseID := *in.StudentID, *in.CourseID

		logger := log.With().Int64("student_id", studentID).Int64("course_id", courseID).Logger()
		logger.Info().Msg("creating an enrollment")

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		if _, err := sess.GetStudent(r.Context(), studentID); errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, fmt.Sprintf("Student with ID %d not found.", studentID))
			return
		} else if err != nil {
			response.StorageError(w, err)
			return
		}

		if _, err := sess.GetCourse(r.Context(), courseID); errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, fmt.Sprintf("Course with ID %d not found.", courseID))
			return
		} else if err != nil {
			response.StorageError(w, err)
			return
		}

		if _, err := sess.GetEnrollment(r.Context(), studentID, courseID); err == nil {
			response.Conflict(w, "Student is already enrolled in this course.")
			return
		} else if !errors.Is(err, storage.ErrNotFound) {
			response.StorageError(w, err)
			return
		}

		e := types.Enrollment{StudentID: studentID, CourseID: courseID, EnrollmentDate: now()}
		if in.EnrollmentDate != nil {
			e.EnrollmentDate = in.EnrollmentDate.Time
		}

		if err := sess.InsertEnrollment(r.Context(), e); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				response.Conflict(w, "Student is already enrolled in this course.")
				return
			}
			response.StorageError(w, err)
			return
		}
		if err := sess.Commit(); err != nil {
			response.StorageError(w, err)
			return
		}

		logger.Info().Msg("enrollment created")
		response.WriteJSON(w, http.StatusCreated, e)
	}
}

// Delete handles DELETE /enrollments/{student_id}/{course_id}.
func Delete(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, ok := request.PathID(w, r, "student_id")
		if !ok {
			return
		}
		courseID, ok := request.PathID(w, r, "course_id")
		if !ok {
			return
		}
		log.Info().Int64("student_id", studentID).Int64("course_id", courseID).Msg("deleting an enrollment")

		sess, err := store.Begin(r.Context())
		if err != nil {
			response.StorageError(w, err)
			return
		}
		defer sess.Close()

		if err := sess.DeleteEnrollment(r.Context(), studentID, courseID); errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, "Enrollment record not found.")
			return
		} else if err != nil {
			response.StorageError(w, err)
			return
		}
		if err := sess.Commit(); err != nil {
			response.StorageError(w, err)
			return
		}

		response.NoContent(w)
	}
}
