package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"luckyboard/internal/models"
)

// ErrThreadMissing is returned when a post insert references a thread id
// that does not exist.
var ErrThreadMissing = errors.New("thread does not exist")

// pgForeignKeyViolation is the PostgreSQL error code for FK violations.
const pgForeignKeyViolation = "23503"

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns lists the columns selected in post queries.
const postColumns = `id, thread_id, name, content, author_id,
	attachment_url, attachment_name, attachment_type, created_at`

// scanPost scans a post row from the result set.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.ThreadID, &p.Name, &p.Content, &p.AuthorID,
		&p.AttachmentURL, &p.AttachmentName, &p.AttachmentType, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByThread returns every post in a thread in chronological reading
// order. Ties on created_at break on id so the order stays stable.
func (s *PostStore) ListByThread(threadID int64) ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts
		WHERE thread_id = $1
		ORDER BY created_at ASC, id ASC
	`, threadID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// FindByID retrieves a post by id. Returns nil if not found.
func (s *PostStore) FindByID(id int64) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(`
		SELECT `+postColumns+` FROM posts WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated id and
// timestamp. Returns ErrThreadMissing if the referenced thread is gone.
func (s *PostStore) Create(p *models.Post) (*models.Post, error) {
	created, err := scanPost(s.db.QueryRow(`
		INSERT INTO posts (thread_id, name, content, author_id,
			attachment_url, attachment_name, attachment_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+postColumns,
		p.ThreadID, p.Name, p.Content, p.AuthorID,
		p.AttachmentURL, p.AttachmentName, p.AttachmentType,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, ErrThreadMissing
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// UpdateContent overwrites a post's content. The ownership check happens
// in the handler before this is called; author_id itself is never updated.
func (s *PostStore) UpdateContent(id int64, content string) error {
	_, err := s.db.Exec(`UPDATE posts SET content = $1 WHERE id = $2`, content, id)
	if err != nil {
		return fmt.Errorf("update post content: %w", err)
	}
	return nil
}

// Delete removes a single post by id.
func (s *PostStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// CountByThread returns the number of posts currently in a thread.
func (s *PostStore) CountByThread(threadID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE thread_id = $1`, threadID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}
