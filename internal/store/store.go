// Package store persists the server-side copy of the dashboard layout.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"inphormed/internal/layout"
)

// Repository holds the single persisted layout. Read returns
// layout.ErrNotFound when nothing has been written yet.
type Repository interface {
	Read(ctx context.Context) (layout.Layout, error)
	Write(ctx context.Context, l layout.Layout) error
	Close() error
}

// DefaultFilePath is where FileRepository keeps the layout by default.
const DefaultFilePath = "outputs/ui_layout.json"

// FileRepository stores the layout as an indented JSON document.
type FileRepository struct {
	path string
}

// Ensure FileRepository implements Repository.
var _ Repository = (*FileRepository)(nil)

// NewFileRepository returns a repository backed by path (DefaultFilePath if
// empty). The file and its directory are created on first write.
func NewFileRepository(path string) *FileRepository {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileRepository{path: path}
}

// Path returns the backing file.
func (r *FileRepository) Path() string {
	return r.path
}

// Read implements Repository.
func (r *FileRepository) Read(ctx context.Context) (layout.Layout, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return layout.Layout{}, layout.ErrNotFound
	}
	if err != nil {
		return layout.Layout{}, fmt.Errorf("read layout file: %w", err)
	}
	return layout.Parse(data)
}

// Write implements Repository.
func (r *FileRepository) Write(ctx context.Context, l layout.Layout) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create layout dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ui_layout-*")
	if err != nil {
		return fmt.Errorf("create temp layout: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write layout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close layout: %w", err)
	}
	return os.Rename(tmp.Name(), r.path)
}

// Close implements Repository.
func (r *FileRepository) Close() error {
	return nil
}
