// Package handlers implements the JSON HTTP API of the board: the thread
// directory, thread detail with posts, and the attachment uploader.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"luckyboard/internal/cache"
	"luckyboard/internal/storage"
	"luckyboard/internal/store"
)

// API groups the board handlers and their dependencies. All handlers are
// stateless; the only shared mutable state is the database behind the stores.
type API struct {
	threads   *store.ThreadStore
	posts     *store.PostStore
	storage   *storage.Client
	listCache *cache.ThreadList
	adminKey  string
}

// New creates the handler group. storageClient and listCache may be nil;
// uploads then fail with 503 and the listing is served uncached.
func New(threads *store.ThreadStore, posts *store.PostStore, storageClient *storage.Client, listCache *cache.ThreadList, adminKey string) *API {
	return &API{
		threads:   threads,
		posts:     posts,
		storage:   storageClient,
		listCache: listCache,
		adminKey:  adminKey,
	}
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeSuccess writes the {"success":true} body used by mutating endpoints.
// Clients re-fetch after mutations, so no further payload is returned.
func writeSuccess(w http.ResponseWriter, status int) {
	writeJSON(w, status, map[string]bool{"success": true})
}

// urlID parses the {id} route parameter. Returns (0, false) after writing
// a 400 response if the parameter is not a valid id.
func urlID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// nullable converts an empty string to a NULL-able pointer so optional
// fields are stored as NULL rather than empty text.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
