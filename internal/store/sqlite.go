package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"inphormed/internal/layout"
)

// SQLiteRepository keeps the layout in a single-row table together with a
// revision counter bumped on every write.
type SQLiteRepository struct {
	db *sql.DB
}

// Ensure SQLiteRepository implements Repository.
var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database at path.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS ui_layout (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			body       TEXT    NOT NULL,
			revision   INTEGER NOT NULL,
			updated_at TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Read implements Repository.
func (r *SQLiteRepository) Read(ctx context.Context) (layout.Layout, error) {
	var body string
	err := r.db.QueryRowContext(ctx, `SELECT body FROM ui_layout WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return layout.Layout{}, layout.ErrNotFound
	}
	if err != nil {
		return layout.Layout{}, fmt.Errorf("query layout: %w", err)
	}
	return layout.Parse([]byte(body))
}

// Write implements Repository.
func (r *SQLiteRepository) Write(ctx context.Context, l layout.Layout) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO ui_layout (id, body, revision, updated_at)
		VALUES (1, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE SET
			body = excluded.body,
			revision = ui_layout.revision + 1,
			updated_at = CURRENT_TIMESTAMP`, string(data))
	if err != nil {
		return fmt.Errorf("write layout: %w", err)
	}
	return nil
}

// Revision returns how many times the layout has been written (0 if never).
func (r *SQLiteRepository) Revision(ctx context.Context) (int64, error) {
	var rev int64
	err := r.db.QueryRowContext(ctx, `SELECT revision FROM ui_layout WHERE id = 1`).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query revision: %w", err)
	}
	return rev, nil
}

// Close implements Repository.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
