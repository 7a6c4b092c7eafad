package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

type payload struct {
	FirstName string `json:"first_name" validate:"required"`
	Credits   int    `json:"credits"    validate:"min=1,max=8"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		ok     bool
		status int
		detail string
	}{
		{"valid", `{"first_name":"Ada","credits":3}`, true, http.StatusOK, ""},
		{"empty", ``, false, http.StatusBadRequest, "request body is empty"},
		{"malformed", `{"first_name":`, false, http.StatusBadRequest, ""},
		{"json field names", `{"credits":3}`, false, http.StatusUnprocessableEntity, "field first_name is required"},
		{"range", `{"first_name":"Ada","credits":9}`, false, http.StatusUnprocessableEntity, "field credits must be at most 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dst payload
			if got := DecodeJSON(rec, req, &dst); got != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, got)
			}
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if tt.detail != "" && !strings.Contains(rec.Body.String(), tt.detail) {
				t.Fatalf("expected %q in %s", tt.detail, rec.Body.String())
			}
		})
	}
}

func TestPathID(t *testing.T) {
	var (
		gotID int64
		gotOK bool
	)
	r := chi.NewRouter()
	r.Get("/students/{student_id}", func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = PathID(w, r, "student_id")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students/42", nil))
	if !gotOK || gotID != 42 {
		t.Fatalf("expected 42, got %d (ok=%v)", gotID, gotOK)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students/abc", nil))
	if gotOK || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (ok=%v)", rec.Code, gotOK)
	}
}

func TestQueryID(t *testing.T) {
	tests := []struct {
		query string
		ok    bool
		want  int64
	}{
		{"?student_id=1", true, 1},
		{"?student_id=1000000", true, 1000000},
		{"?student_id=0", false, 0},
		{"?student_id=1000001", false, 0},
		{"?student_id=-5", false, 0},
		{"?student_id=x", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodDelete, "/students/deleteStudentById"+tt.query, nil)

			id, ok := QueryID(rec, req, "student_id", 1, 1_000_000)
			if ok != tt.ok || id != tt.want {
				t.Fatalf("expected (%d, %v), got (%d, %v)", tt.want, tt.ok, id, ok)
			}
			if !ok && rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rec.Code)
			}
		})
	}
}
