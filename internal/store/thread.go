// Package store implements the relational data layer for threads and posts.
// Each store wraps a *sql.DB and issues parameterized queries only; no SQL
// is ever built from user input.
package store

import (
	"database/sql"
	"fmt"

	"luckyboard/internal/models"
)

// ThreadStore handles all thread-related database operations.
type ThreadStore struct {
	db *sql.DB
}

// NewThreadStore creates a new ThreadStore with the given database connection.
func NewThreadStore(db *sql.DB) *ThreadStore {
	return &ThreadStore{db: db}
}

// List returns every thread on the board with its live post count, ordered
// by position ascending, then creation time descending. The board renders
// the full set; there is no pagination.
func (s *ThreadStore) List() ([]models.Thread, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.title, t.category, t.author_id, t.position, t.created_at,
		       COUNT(p.id) AS count
		FROM threads t
		LEFT JOIN posts p ON p.thread_id = t.id
		GROUP BY t.id
		ORDER BY t.position ASC, t.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	var threads []models.Thread
	for rows.Next() {
		var t models.Thread
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Category, &t.AuthorID, &t.Position, &t.CreatedAt,
			&t.Count,
		); err != nil {
			return nil, fmt.Errorf("scan thread: %w", err)
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// FindByID retrieves a thread by id. Returns nil if not found. The Count
// field is not populated here.
func (s *ThreadStore) FindByID(id int64) (*models.Thread, error) {
	t := &models.Thread{}
	err := s.db.QueryRow(`
		SELECT id, title, category, author_id, position, created_at
		FROM threads WHERE id = $1
	`, id).Scan(&t.ID, &t.Title, &t.Category, &t.AuthorID, &t.Position, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find thread by id: %w", err)
	}
	return t, nil
}

// Create inserts a new thread at position 0 with a server-assigned
// timestamp and returns its id.
func (s *ThreadStore) Create(title, category string, authorID *string) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO threads (title, category, author_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, title, category, authorID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create thread: %w", err)
	}
	return id, nil
}

// Reorder rewrites each thread's position to its index in ids. The whole
// rewrite runs in one transaction so a failure leaves the previous order
// intact. Ids that do not match an existing thread are skipped.
func (s *ThreadStore) Reorder(ids []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("reorder begin: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		if _, err := tx.Exec(`UPDATE threads SET position = $1 WHERE id = $2`, i, id); err != nil {
			return fmt.Errorf("reorder thread %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reorder commit: %w", err)
	}
	return nil
}

// Delete removes a thread and all of its posts in one transaction. The
// posts are deleted explicitly even though the schema also cascades.
// Deleting an id that does not exist is a no-op, not an error.
func (s *ThreadStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete thread begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM posts WHERE thread_id = $1`, id); err != nil {
		return fmt.Errorf("delete thread posts: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM threads WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete thread: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete thread commit: %w", err)
	}
	return nil
}
