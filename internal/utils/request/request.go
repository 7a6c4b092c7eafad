// Package request decodes and validates incoming payloads and parameters.
// Every helper writes the 400/422 response itself and reports whether the
// handler may continue.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/utils/response"
)

// validate is shared; validator caches struct metadata and is safe for
// concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON names (first_name) instead of Go names (FirstName).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// DecodeJSON reads the body into dst and runs struct validation.
// Empty or malformed bodies get 400, failed validation gets 422.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("request body is empty")))
		return false
	}
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.ValidationError(validateErrs))
			return false
		}
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
		return false
	}
	return true
}

// PathID parses the named chi URL parameter as an integer id.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(fmt.Errorf("invalid %s: must be an integer", name)))
		return 0, false
	}
	return id, true
}

// QueryID parses the named query parameter as an integer in [lo, hi].
// A missing or out-of-range value is a 422.
func QueryID(w http.ResponseWriter, r *http.Request, name string, lo, hi int64) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		response.WriteJSON(w, http.StatusUnprocessableEntity,
			response.GeneralError(fmt.Errorf("query parameter %s is required", name)))
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusUnprocessableEntity,
			response.GeneralError(fmt.Errorf("query parameter %s must be an integer", name)))
		return 0, false
	}
	if err := validate.Var(id, fmt.Sprintf("min=%d,max=%d", lo, hi)); err != nil {
		response.WriteJSON(w, http.StatusUnprocessableEntity,
			response.GeneralError(fmt.Errorf("query parameter %s must be between %d and %d", name, lo, hi)))
		return 0, false
	}
	return id, true
}
