package sqlite

import (
	"database/sql"
	"io"
	"log/slog"
)

// NewForTest wraps an already opened database without running the schema migration.
func NewForTest(db *sql.DB) *Repository {
	return &Repository{db: db, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}
