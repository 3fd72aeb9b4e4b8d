package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"luckyboard/internal/models"
)

// appendPost creates a post through the API and returns its id, looked up
// from the thread detail since the append endpoint returns no payload.
func appendPost(t *testing.T, r http.Handler, threadID int64, body map[string]string) int64 {
	t.Helper()

	rr := doJSON(t, r, http.MethodPost, "/threads/"+itoa(threadID), body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("append post: got %d, body %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, r, http.MethodGet, "/threads/"+itoa(threadID), nil)
	var detail struct {
		Posts []models.Post `json:"posts"`
	}
	decodeBody(t, rr, &detail)
	if len(detail.Posts) == 0 {
		t.Fatal("no posts after append")
	}
	return detail.Posts[len(detail.Posts)-1].ID
}

// fetchPost returns a post from the thread detail by id.
func fetchPost(t *testing.T, r http.Handler, threadID, postID int64) *models.Post {
	t.Helper()

	rr := doJSON(t, r, http.MethodGet, "/threads/"+itoa(threadID), nil)
	var detail struct {
		Posts []models.Post `json:"posts"`
	}
	decodeBody(t, rr, &detail)
	for i := range detail.Posts {
		if detail.Posts[i].ID == postID {
			return &detail.Posts[i]
		}
	}
	return nil
}

func TestPostEditOwnership(t *testing.T) {
	db := testDB(t)
	r := testRouter(t, db)

	threadID := createThread(t, r, db, "test-edit-"+uuid.NewString()[:8], "")
	postID := appendPost(t, r, threadID, map[string]string{
		"name": "A", "content": "original", "author_id": "u1",
	})
	path := "/posts/" + itoa(postID)

	t.Run("mismatched author never changes content", func(t *testing.T) {
		rr := doJSON(t, r, http.MethodPut, path, map[string]string{
			"content": "hijacked", "author_id": "u2",
		})
		if rr.Code != http.StatusForbidden {
			t.Fatalf("status: got %d, want 403", rr.Code)
		}
		if p := fetchPost(t, r, threadID, postID); p.Content != "original" {
			t.Errorf("content: got %q, want %q", p.Content, "original")
		}
	})

	t.Run("matching author updates content exactly", func(t *testing.T) {
		rr := doJSON(t, r, http.MethodPut, path, map[string]string{
			"content": "edited", "author_id": "u1",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
		}
		if p := fetchPost(t, r, threadID, postID); p.Content != "edited" {
			t.Errorf("content: got %q, want %q", p.Content, "edited")
		}
	})

	t.Run("content required", func(t *testing.T) {
		rr := doJSON(t, r, http.MethodPut, path, map[string]string{"author_id": "u1"})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})
}

func TestPostEditNotFound(t *testing.T) {
	db := testDB(t)
	r := testRouter(t, db)

	rr := doJSON(t, r, http.MethodPut, "/posts/999999999", map[string]string{
		"content": "x", "author_id": "u1",
	})
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestPostWithoutAuthorCannotBeEdited(t *testing.T) {
	db := testDB(t)
	r := testRouter(t, db)

	threadID := createThread(t, r, db, "test-edit-anon-"+uuid.NewString()[:8], "")
	postID := appendPost(t, r, threadID, map[string]string{"content": "anonymous"})

	// Posts stored without an author token are owned by nobody.
	rr := doJSON(t, r, http.MethodPut, "/posts/"+itoa(postID), map[string]string{
		"content": "taken over", "author_id": "",
	})
	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
}

func TestPostDeleteOwnership(t *testing.T) {
	db := testDB(t)
	r := testRouter(t, db)

	threadID := createThread(t, r, db, "test-pdel-"+uuid.NewString()[:8], "")
	postID := appendPost(t, r, threadID, map[string]string{
		"content": "delete me", "author_id": "u1",
	})
	path := "/posts/" + itoa(postID)

	t.Run("mismatched author is rejected", func(t *testing.T) {
		rr := doJSON(t, r, http.MethodDelete, path, map[string]string{"author_id": "u2"})
		if rr.Code != http.StatusForbidden {
			t.Fatalf("status: got %d, want 403", rr.Code)
		}
		if p := fetchPost(t, r, threadID, postID); p == nil {
			t.Error("post should still exist")
		}
	})

	t.Run("matching author deletes", func(t *testing.T) {
		rr := doJSON(t, r, http.MethodDelete, path, map[string]string{"author_id": "u1"})
		if rr.Code != http.StatusOK {
			t.Fatalf("status: got %d, body %s", rr.Code, rr.Body.String())
		}
		if p := fetchPost(t, r, threadID, postID); p != nil {
			t.Error("post should be gone")
		}
	})

	t.Run("deleting again is a 404", func(t *testing.T) {
		rr := doJSON(t, r, http.MethodDelete, path, map[string]string{"author_id": "u1"})
		if rr.Code != http.StatusNotFound {
			t.Errorf("status: got %d, want 404", rr.Code)
		}
	})
}

// TestBoardScenario walks the whole lifecycle: create a thread, post to
// it, fail an edit with the wrong token, succeed with the right one.
func TestBoardScenario(t *testing.T) {
	db := testDB(t)
	r := testRouter(t, db)

	title := "雑談スレ-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanThreads(t, db, title) })

	rr := doJSON(t, r, http.MethodPost, "/threads", map[string]string{
		"title": title, "category": "雑談",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: got %d", rr.Code)
	}
	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rr, &created)

	rr = doJSON(t, r, http.MethodPost, "/threads/"+itoa(created.ID), map[string]string{
		"name": "A", "content": "hello", "author_id": "u1",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("append: got %d", rr.Code)
	}

	rr = doJSON(t, r, http.MethodGet, "/threads/"+itoa(created.ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("fetch: got %d", rr.Code)
	}
	var detail struct {
		Thread models.Thread `json:"thread"`
		Posts  []models.Post `json:"posts"`
	}
	decodeBody(t, rr, &detail)
	if detail.Thread.Category != "雑談" {
		t.Errorf("category: got %q, want %q", detail.Thread.Category, "雑談")
	}
	if len(detail.Posts) != 1 {
		t.Fatalf("posts: got %d, want 1", len(detail.Posts))
	}
	if detail.Posts[0].Content != "hello" {
		t.Errorf("content: got %q, want %q", detail.Posts[0].Content, "hello")
	}
	postID := detail.Posts[0].ID

	rr = doJSON(t, r, http.MethodPut, "/posts/"+itoa(postID), map[string]string{
		"content": "hi", "author_id": "u2",
	})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("edit with wrong token: got %d, want 403", rr.Code)
	}
	if p := fetchPost(t, r, created.ID, postID); p.Content != "hello" {
		t.Errorf("content after rejected edit: got %q, want %q", p.Content, "hello")
	}

	rr = doJSON(t, r, http.MethodPut, "/posts/"+itoa(postID), map[string]string{
		"content": "hi", "author_id": "u1",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("edit with right token: got %d, want 200", rr.Code)
	}
	if p := fetchPost(t, r, created.ID, postID); p.Content != "hi" {
		t.Errorf("content after edit: got %q, want %q", p.Content, "hi")
	}
}
