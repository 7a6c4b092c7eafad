// Package server wires the handlers to routes and wraps them in the
// shared middleware stack.
//
// Route table:
//
//	GET    /                                       welcome message
//	GET    /healthz                                database ping
//	POST   /students                               create a student
//	GET    /students                               list students with courses
//	GET    /students/{student_id}                  one student with courses
//	PATCH  /students/{student_id}                  partial update
//	DELETE /students/deleteStudentById?student_id  delete with enrollments
//	POST   /courses                                create a course
//	GET    /courses                                list courses
//	GET    /courses/{course_id}                    one course with students
//	PATCH  /courses/{course_id}                    partial update
//	DELETE /courses/{course_id}                    delete with enrollments
//	POST   /enrollments                            enroll a student
//	DELETE /enrollments/{student_id}/{course_id}   un-enroll
package server

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/config"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/http/handlers/course"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/http/handlers/enrollment"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/http/handlers/student"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/http/middleware"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/storage"
	"github.com/Qata-Mo7ammad-Isma3el/Course-Enrollment-Api/internal/utils/response"
)

// WelcomeMessage is returned by GET /.
const WelcomeMessage = "Welcome to the Course Enrollment API."

// New builds an *http.Server for cfg.HTTPServer serving NewRouter.
func New(cfg *config.Config, store storage.Storage) *http.Server {
	return &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      NewRouter(store, cfg.CORS),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}
}

// NewRouter returns the full handler tree.
func NewRouter(store storage.Storage, corsCfg config.CORS) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(corsCfg).Handler)
	// Clients call /students/ and /students interchangeably.
	r.Use(chimiddleware.StripSlashes)

	r.Get("/", welcome)
	r.Get("/healthz", health(store))

	r.Route("/students", func(r chi.Router) {
		r.Post("/", student.New(store))
		r.Get("/", student.GetList(store))
		r.Delete("/deleteStudentById", student.Delete(store))
		r.Get("/{student_id}", student.GetByID(store))
		r.Patch("/{student_id}", student.Update(store))
	})

	r.Route("/courses", func(r chi.Router) {
		r.Post("/", course.New(store))
		r.Get("/", course.GetList(store))
		r.Get("/{course_id}", course.GetByID(store))
		r.Patch("/{course_id}", course.Update(store))
		r.Delete("/{course_id}", course.Delete(store))
	})

	r.Route("/enrollments", func(r chi.Router) {
		r.Post("/", enrollment.New(store))
		r.Delete("/{student_id}/{course_id}", enrollment.Delete(store))
	})

	return r
}

// corsHandler builds the CORS middleware. A "*" origin is served by
// echoing the request's Origin, since browsers reject a literal "*"
// on credentialed responses.
func corsHandler(cfg config.CORS) *cors.Cors {
	opts := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: cfg.AllowCredentials,
	}
	if slices.Contains(cfg.AllowedOrigins, "*") {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(opts)
}

func welcome(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"message": WelcomeMessage})
}

func health(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			response.Error(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": response.StatusOK})
	}
}
