// Package router sets up all HTTP routes and middleware chains for the
// board API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"luckyboard/internal/handlers"
	"luckyboard/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and routes wired up. Registering only the supported verbs per path lets
// chi answer everything else with 405, which is all the method handling
// the upload endpoint needs.
func New(api *handlers.API) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	// Thread directory.
	r.Route("/threads", func(r chi.Router) {
		r.Get("/", api.ThreadsList)
		r.Post("/", api.ThreadCreate)
		r.Put("/", api.ThreadsReorder)

		// Thread detail.
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", api.ThreadFetch)
			r.Post("/", api.PostAppend)
			r.Delete("/", api.ThreadDelete)
		})
	})

	// Individual posts.
	r.Route("/posts/{id}", func(r chi.Router) {
		r.Put("/", api.PostEdit)
		r.Delete("/", api.PostDelete)
	})

	// Attachment upload: raw body, filename in the query string.
	r.Post("/upload", api.Upload)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
