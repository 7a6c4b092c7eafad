// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and utils can all import types without depending
// on each other.
//
// Each projection is its own flat struct. Storage rows double as the
// flat read projections (StudentRead, CourseRead) because their shapes
// are identical.
package types

import "time"

// Student is a row of the student table and the flat StudentRead projection.
type Student struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// StudentCreate is the POST /students payload.
type StudentCreate struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"  validate:"required"`
	Email     string `json:"email"      validate:"required"`
}

// StudentUpdate is the PATCH /students/{id} payload. Nil fields are left
// untouched.
type StudentUpdate struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string `json:"last_name"  validate:"omitempty,min=1"`
	Email     *string `json:"email"      validate:"omitempty,min=1"`
}

// Apply copies the fields present in u onto s.
func (u StudentUpdate) Apply(s *Student) {
	if u.FirstName != nil {
		s.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		s.LastName = *u.LastName
	}
	if u.Email != nil {
		s.Email = *u.Email
	}
}

// Course is a row of the course table and the flat CourseRead projection.
type Course struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Credits     int     `json:"credits"`
}

// MinCredits and MaxCredits bound Course.Credits (inclusive).
const (
	MinCredits = 1
	MaxCredits = 8
)

// CourseCreate is the POST /courses payload.
type CourseCreate struct {
	Name        string  `json:"name"        validate:"required"`
	Description *string `json:"description"`
	Credits     int     `json:"credits"     validate:"min=1,max=8"`
}

// CourseUpdate is the PATCH /courses/{id} payload. An explicit
// "description": null clears the description.
type CourseUpdate struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1"`
	Description Optional[string] `json:"description"`
	Credits     *int             `json:"credits"     validate:"omitempty,min=1,max=8"`
}

// Apply copies the fields present in u onto c.
func (u CourseUpdate) Apply(c *Course) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Description.Set {
		c.Description = u.Description.Value
	}
	if u.Credits != nil {
		c.Credits = *u.Credits
	}
}

// Enrollment is a row of the enrollment table, keyed by
// (StudentID, CourseID).
type Enrollment struct {
	StudentID      int64     `json:"student_id"`
	CourseID       int64     `json:"course_id"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}

// EnrollmentCreate is the POST /enrollments payload. The ids are pointers
// so that a missing id fails validation while an unknown id reaches the
// existence checks.
type EnrollmentCreate struct {
	StudentID      *int64     `json:"student_id"      validate:"required"`
	CourseID       *int64     `json:"course_id"       validate:"required"`
	EnrollmentDate *Timestamp `json:"enrollment_date"`
}

// CourseWithEnrollmentDate is a course embedded in a student read-model.
type CourseWithEnrollmentDate struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	Credits        int       `json:"credits"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}

// StudentWithEnrollmentDate is a student embedded in a course read-model.
type StudentWithEnrollmentDate struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}

// StudentReadWithCourses is returned by GET /students and GET /students/{id}.
type StudentReadWithCourses struct {
	ID        int64                      `json:"id"`
	FirstName string                     `json:"first_name"`
	LastName  string                     `json:"last_name"`
	Email     string                     `json:"email"`
	Courses   []CourseWithEnrollmentDate `json:"courses"`
}

// CourseReadWithStudents is returned by GET /courses/{id}.
type CourseReadWithStudents struct {
	ID          int64                       `json:"id"`
	Name        string                      `json:"name"`
	Description *string                     `json:"description"`
	Credits     int                         `json:"credits"`
	Students    []StudentWithEnrollmentDate `json:"students"`
}
