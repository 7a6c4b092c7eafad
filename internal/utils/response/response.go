// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Success responses may return any JSON shape. Error responses always look
// like:
//
//	{ "status": "error", "detail": "Student not found" }
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/storage"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes a JSON-encoded response with the given HTTP status code.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// NoContent writes a 204 with an empty body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{Status: StatusError, Detail: err.Error()}
}

// Error writes an error envelope with a plain message.
func Error(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, Response{Status: StatusError, Detail: detail})
}

// NotFound writes 404 with detail.
func NotFound(w http.ResponseWriter, detail string) {
	Error(w, http.StatusNotFound, detail)
}

// Conflict writes 409 with detail.
func Conflict(w http.ResponseWriter, detail string) {
	Error(w, http.StatusConflict, detail)
}

// StorageError maps an error from the storage layer to a response. Known
// constraint violations become 409/404/422; anything else is logged and
// reported as a bare 500 so driver details never reach the client.
func StorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		NotFound(w, "Record not found.")
	case errors.Is(err, storage.ErrDuplicate):
		Conflict(w, "Record already exists.")
	case errors.Is(err, storage.ErrMissingReference):
		NotFound(w, "Referenced record not found.")
	case errors.Is(err, storage.ErrConstraint):
		Error(w, http.StatusUnprocessableEntity, "Value violates a database constraint.")
	default:
		log.Error().Err(err).Msg("Unhandled storage error")
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response.
//
// Example output:
//
//	{ "status": "error", "detail": "field first_name is required, field credits must be at least 1" }
func ValidationError(errs validator.ValidationErrors) Response {
	var errMessages []string

	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is required", e.Field()))
		case "email":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be a valid email address", e.Field()))
		case "min", "gte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at least %s", e.Field(), e.Param()))
		case "max", "lte":
			errMessages = append(errMessages,
				fmt.Sprintf("field %s must be at most %s", e.Field(), e.Param()))
		default:
			errMessages = append(errMessages,
				fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}

	return Response{
		Status: StatusError,
		Detail: strings.Join(errMessages, ", "),
	}
}
