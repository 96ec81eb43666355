// Package cache is the on-disk local cache for the dashboard layout: a
// directory of named slots, one JSON file per key.
package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"inphormed/internal/layout"
)

const (
	// DirEnv overrides the cache directory (used by tests and by
	// INPHORMED_CACHE_DIR in the shell).
	DirEnv = "INPHORMED_CACHE_DIR"
	// DefaultDir is the default cache location relative to the home dir.
	DefaultDir = ".config/inphormed"
)

// Store reads and writes slots under a base directory.
// Layout: <dir>/<key>.json
type Store struct {
	baseDir string
}

// NewStore creates a store rooted at dir. An empty dir falls back to
// INPHORMED_CACHE_DIR, then to ~/.config/inphormed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = os.Getenv(DirEnv)
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, DefaultDir)
	}
	return &Store{baseDir: dir}, nil
}

// BaseDir returns the directory slots are stored in.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), " ", "_"))
	return filepath.Join(s.baseDir, normalized+".json")
}

// Get returns the raw contents of key, or layout.ErrNotFound if the slot is
// empty.
func (s *Store) Get(key string) ([]byte, error) {
	b, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, layout.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cache %q: %w", key, err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, layout.ErrNotFound
	}
	return b, nil
}

// Set replaces the contents of key. The write goes through a temp file and a
// rename so a crash never leaves a half-written slot.
func (s *Store) Set(key string, data []byte) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.baseDir, ".slot-*")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache %q: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return fmt.Errorf("commit cache %q: %w", key, err)
	}
	return nil
}

// Delete empties key. Deleting an empty slot is not an error.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete cache %q: %w", key, err)
	}
	return nil
}

// Slot binds a store to one key, satisfying layout.Cache.
type Slot struct {
	store *Store
	key   string
}

// Ensure Slot implements layout.Cache.
var _ layout.Cache = (*Slot)(nil)

// Slot returns the slot for key.
func (s *Store) Slot(key string) *Slot {
	return &Slot{store: s, key: key}
}

// Read implements layout.Cache.
func (s *Slot) Read() ([]byte, error) {
	return s.store.Get(s.key)
}

// Write implements layout.Cache.
func (s *Slot) Write(data []byte) error {
	return s.store.Set(s.key, data)
}

// Clear empties the slot.
func (s *Slot) Clear() error {
	return s.store.Delete(s.key)
}
