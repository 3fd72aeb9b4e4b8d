package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a single
// welcome thread with one post. It is a no-op if any thread exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM threads").Scan(&count); err != nil {
		return fmt.Errorf("seed check threads: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	var threadID int64
	err := db.QueryRow(`
		INSERT INTO threads (title, category, author_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "Lucky Fieldへようこそ", "お知らせ", "admin").Scan(&threadID)
	if err != nil {
		return fmt.Errorf("seed insert thread: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO posts (thread_id, name, content, author_id)
		VALUES ($1, $2, $3, $4)
	`, threadID, "Lucky Admin", "Welcome to Lucky Field!", "admin")
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	slog.Info("database seeded with welcome thread", "thread_id", threadID)
	return nil
}
