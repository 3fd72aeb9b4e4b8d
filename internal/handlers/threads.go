package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"luckyboard/internal/models"
	"luckyboard/internal/store"
)

// ThreadsList returns every thread with its live post count, ordered by
// position ascending, then creation time descending. Served from the
// Valkey cache when one is configured.
func (a *API) ThreadsList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if threads, ok := a.listCache.Get(ctx); ok {
		writeJSON(w, http.StatusOK, threads)
		return
	}

	threads, err := a.threads.List()
	if err != nil {
		slog.Error("list threads failed", "error", err)
		writeError(w, "Failed to fetch threads", http.StatusInternalServerError)
		return
	}
	if threads == nil {
		threads = []models.Thread{}
	}

	a.listCache.Set(ctx, threads)
	writeJSON(w, http.StatusOK, threads)
}

// threadCreateRequest is the body of POST /threads.
type threadCreateRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	AuthorID string `json:"author_id"`
}

// ThreadCreate creates a new thread and returns its id.
func (a *API) ThreadCreate(w http.ResponseWriter, r *http.Request) {
	var req threadCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, "Title required", http.StatusBadRequest)
		return
	}

	category := req.Category
	if category == "" {
		category = models.DefaultCategory
	}

	id, err := a.threads.Create(req.Title, category, nullable(req.AuthorID))
	if err != nil {
		slog.Error("create thread failed", "error", err, "title", req.Title)
		writeError(w, "Failed to create thread", http.StatusInternalServerError)
		return
	}

	a.listCache.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// threadReorderRequest is the body of PUT /threads.
type threadReorderRequest struct {
	ThreadIDs []int64 `json:"threadIds"`
}

// ThreadsReorder rewrites each listed thread's position to its index in
// the submitted order. The rewrite is transactional: either the whole new
// order applies or none of it does.
func (a *API) ThreadsReorder(w http.ResponseWriter, r *http.Request) {
	var req threadReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ThreadIDs == nil {
		writeError(w, "threadIds must be a list of thread ids", http.StatusBadRequest)
		return
	}

	if err := a.threads.Reorder(req.ThreadIDs); err != nil {
		slog.Error("reorder threads failed", "error", err)
		writeError(w, "Failed to reorder threads", http.StatusInternalServerError)
		return
	}

	a.listCache.Invalidate(r.Context())
	writeSuccess(w, http.StatusOK)
}

// threadDetailResponse is the body of GET /threads/{id}.
type threadDetailResponse struct {
	Thread *models.Thread `json:"thread"`
	Posts  []models.Post  `json:"posts"`
}

// ThreadFetch returns a thread with its posts in chronological order.
func (a *API) ThreadFetch(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	thread, err := a.threads.FindByID(id)
	if err != nil {
		slog.Error("fetch thread failed", "error", err, "id", id)
		writeError(w, "Database error", http.StatusInternalServerError)
		return
	}
	if thread == nil {
		writeError(w, "Thread not found", http.StatusNotFound)
		return
	}

	posts, err := a.posts.ListByThread(id)
	if err != nil {
		slog.Error("fetch thread posts failed", "error", err, "id", id)
		writeError(w, "Database error", http.StatusInternalServerError)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	writeJSON(w, http.StatusOK, threadDetailResponse{Thread: thread, Posts: posts})
}

// postAppendRequest is the body of POST /threads/{id}.
type postAppendRequest struct {
	Name           string `json:"name"`
	Content        string `json:"content"`
	AuthorID       string `json:"author_id"`
	AttachmentURL  string `json:"attachment_url"`
	AttachmentName string `json:"attachment_name"`
	AttachmentType string `json:"attachment_type"`
}

// PostAppend adds a reply to a thread. A post needs text content or an
// attachment; an attachment-only post stores empty content.
func (a *API) PostAppend(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req postAppendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Content == "" && req.AttachmentURL == "" {
		writeError(w, "Content or file required", http.StatusBadRequest)
		return
	}

	name := req.Name
	if name == "" {
		name = models.DefaultPostName
	}

	post := &models.Post{
		ThreadID: id,
		Name:     name,
		Content:  req.Content,
		AuthorID: nullable(req.AuthorID),
	}
	// The attachment triple is all-or-nothing: name and type without a URL
	// describe nothing and are dropped.
	if req.AttachmentURL != "" {
		post.AttachmentURL = &req.AttachmentURL
		post.AttachmentName = nullable(req.AttachmentName)
		post.AttachmentType = nullable(req.AttachmentType)
	}

	if _, err := a.posts.Create(post); err != nil {
		if errors.Is(err, store.ErrThreadMissing) {
			writeError(w, "Thread not found", http.StatusNotFound)
			return
		}
		slog.Error("append post failed", "error", err, "thread_id", id)
		writeError(w, "Failed to post", http.StatusInternalServerError)
		return
	}

	a.listCache.Invalidate(r.Context())
	writeSuccess(w, http.StatusCreated)
}

// threadDeleteRequest carries the admin key when it is sent in the body
// instead of the query string.
type threadDeleteRequest struct {
	AdminKey string `json:"admin_key"`
}

// ThreadDelete removes a thread and all of its posts. Requires the admin
// key, accepted either as the admin_key query parameter or in the JSON
// body. Deleting a thread that does not exist succeeds as a no-op.
func (a *API) ThreadDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	key := r.URL.Query().Get("admin_key")
	if key == "" && r.Body != nil {
		var req threadDeleteRequest
		// Body is optional; a decode failure just means no key was sent.
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			key = req.AdminKey
		}
	}

	if subtle.ConstantTimeCompare([]byte(key), []byte(a.adminKey)) != 1 {
		writeError(w, "Only admins can delete threads", http.StatusForbidden)
		return
	}

	if err := a.threads.Delete(id); err != nil {
		slog.Error("delete thread failed", "error", err, "id", id)
		writeError(w, "Failed to delete", http.StatusInternalServerError)
		return
	}

	a.listCache.Invalidate(r.Context())
	writeSuccess(w, http.StatusOK)
}
