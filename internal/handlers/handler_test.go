// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
// The handlers run without Valkey and without object storage; both are
// optional dependencies and the nil paths are part of what is tested.
package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"luckyboard/internal/database"
	"luckyboard/internal/store"
)

// testAdminKey is the admin secret wired into the test handler group.
const testAdminKey = "test-admin-key"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "luckyboard")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "luckyboard")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testRouter builds the API over a real database and returns the wired
// router. No Valkey, no S3: the listing is uncached and uploads 503.
func testRouter(t *testing.T, db *sql.DB) chi.Router {
	t.Helper()

	api := New(store.NewThreadStore(db), store.NewPostStore(db), nil, nil, testAdminKey)

	r := chi.NewRouter()
	r.Route("/threads", func(r chi.Router) {
		r.Get("/", api.ThreadsList)
		r.Post("/", api.ThreadCreate)
		r.Put("/", api.ThreadsReorder)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", api.ThreadFetch)
			r.Post("/", api.PostAppend)
			r.Delete("/", api.ThreadDelete)
		})
	})
	r.Route("/posts/{id}", func(r chi.Router) {
		r.Put("/", api.PostEdit)
		r.Delete("/", api.PostDelete)
	})
	r.Post("/upload", api.Upload)
	return r
}

// doJSON issues a request with a JSON body against the router and returns
// the recorded response.
func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// decodeBody decodes a JSON response body into v.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// itoa formats an id for building request paths.
func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// cleanThreads removes test threads (and their posts) by title.
func cleanThreads(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec("DELETE FROM threads WHERE title = $1", title)
	}
}

// createThread creates a thread through the API and returns its id.
func createThread(t *testing.T, r http.Handler, db *sql.DB, title, category string) int64 {
	t.Helper()

	rr := doJSON(t, r, http.MethodPost, "/threads", map[string]string{
		"title":    title,
		"category": category,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create thread: got %d, body %s", rr.Code, rr.Body.String())
	}
	t.Cleanup(func() { cleanThreads(t, db, title) })

	var resp struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rr, &resp)
	return resp.ID
}
