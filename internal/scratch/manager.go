// Package scratch manages the local staging directory downloads are
// materialized in before being handed to the caller.
package scratch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidKey = errors.New("invalid scratch key")

// Manager maps keys to files directly under a single root directory.
// Keys are per-document, so no locking is done: concurrent stages of the
// same key are allowed and the last rename wins.
type Manager struct {
	root string
}

// New creates root if needed. Callers treat an error as fatal at startup.
func New(root string) (*Manager, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("scratch location can not be empty")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("could not initialize scratch area %s: %w", root, err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scratch area %s: %w", root, err)
	}
	return &Manager{root: abs}, nil
}

func (m *Manager) Root() string {
	return m.root
}

// Path resolves key to a file inside root. Keys carrying path separators or
// dot segments are rejected.
func (m *Manager) Path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(m.root, key), nil
}

// Remove deletes the staged file for key. A file that is already gone is not an error.
func (m *Manager) Remove(key string) error {
	p, err := m.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove staged file %s: %w", p, err)
	}
	return nil
}

// Stage copies r into a private temp file, renames it onto the file for key
// and returns the still-open handle positioned at the start. The handle keeps
// serving these bytes even if another caller later removes or replaces the
// path. The caller owns the handle and must close it.
func (m *Manager) Stage(key string, r io.Reader) (*os.File, int64, error) {
	dst, err := m.Path(key)
	if err != nil {
		return nil, 0, err
	}

	tmp, err := os.CreateTemp(m.root, key+".*.tmp")
	if err != nil {
		return nil, 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	discard := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	n, err := io.Copy(tmp, r)
	if err != nil {
		discard()
		return nil, 0, fmt.Errorf("write staged file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		discard()
		return nil, 0, fmt.Errorf("rewind staged file: %w", err)
	}
	info, err := tmp.Stat()
	if err != nil {
		discard()
		return nil, 0, fmt.Errorf("stat staged file: %w", err)
	}
	if !info.Mode().IsRegular() || info.Size() != n {
		discard()
		return nil, 0, fmt.Errorf("staged file %s is not readable as written", tmpPath)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		discard()
		return nil, 0, fmt.Errorf("move staged file into place: %w", err)
	}
	return tmp, n, nil
}
