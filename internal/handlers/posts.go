package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// postEditRequest is the body of PUT /posts/{id}.
type postEditRequest struct {
	Content  string `json:"content"`
	AuthorID string `json:"author_id"`
}

// PostEdit overwrites a post's content. The caller must present the same
// author token the post was created with; the token is opaque and checked
// by string equality only. On mismatch nothing is changed.
func (a *API) PostEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req postEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		writeError(w, "Content required", http.StatusBadRequest)
		return
	}

	post, err := a.posts.FindByID(id)
	if err != nil {
		slog.Error("find post failed", "error", err, "id", id)
		writeError(w, "Failed to update post", http.StatusInternalServerError)
		return
	}
	if post == nil {
		writeError(w, "Post not found", http.StatusNotFound)
		return
	}
	if !post.OwnedBy(req.AuthorID) {
		writeError(w, "Not authorized to edit this post", http.StatusForbidden)
		return
	}

	if err := a.posts.UpdateContent(id, req.Content); err != nil {
		slog.Error("update post failed", "error", err, "id", id)
		writeError(w, "Failed to update post", http.StatusInternalServerError)
		return
	}

	writeSuccess(w, http.StatusOK)
}

// postDeleteRequest is the body of DELETE /posts/{id}.
type postDeleteRequest struct {
	AuthorID string `json:"author_id"`
}

// PostDelete removes a single post, subject to the same ownership check
// as PostEdit. The author token is accepted in the JSON body or as the
// author_id query parameter.
func (a *API) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	authorID := r.URL.Query().Get("author_id")
	if authorID == "" && r.Body != nil {
		var req postDeleteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			authorID = req.AuthorID
		}
	}

	post, err := a.posts.FindByID(id)
	if err != nil {
		slog.Error("find post failed", "error", err, "id", id)
		writeError(w, "Failed to delete post", http.StatusInternalServerError)
		return
	}
	if post == nil {
		writeError(w, "Post not found", http.StatusNotFound)
		return
	}
	if !post.OwnedBy(authorID) {
		writeError(w, "Not authorized to delete this post", http.StatusForbidden)
		return
	}

	if err := a.posts.Delete(id); err != nil {
		slog.Error("delete post failed", "error", err, "id", id)
		writeError(w, "Failed to delete post", http.StatusInternalServerError)
		return
	}

	// The owning thread's reply count changed.
	a.listCache.Invalidate(r.Context())
	writeSuccess(w, http.StatusOK)
}
