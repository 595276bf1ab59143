// Package local stores statement files on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/mma_statements/internal/apperrors"
	"github.com/SscSPs/mma_statements/internal/core/ports"
)

const scheme = "file://"

// FileStore keeps files under a root directory. Locations are file:// URLs.
type FileStore struct {
	root string
}

var _ ports.FileStore = (*FileStore)(nil)

// NewFileStore creates the root directory if needed.
func NewFileStore(root string) (*FileStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir %q: %w", abs, err)
	}
	return &FileStore{root: abs}, nil
}

func (s *FileStore) Put(_ context.Context, key string, _ string, data []byte) (string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("create directory for %q: %w", key, err)
	}
	// Write to a temp file first so a reader never sees a partial statement.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return "", fmt.Errorf("write %q: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize %q: %w", key, err)
	}
	return scheme + filepath.ToSlash(path), nil
}

func (s *FileStore) Get(_ context.Context, location string) ([]byte, error) {
	if !strings.HasPrefix(location, scheme) {
		return nil, fmt.Errorf("%w: not a local file location: %s", apperrors.ErrValidation, location)
	}
	path := filepath.FromSlash(strings.TrimPrefix(location, scheme))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("%w: location outside upload dir: %s", apperrors.ErrValidation, location)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, location)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}
	return data, nil
}

func (s *FileStore) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	path := filepath.Join(s.root, clean)
	if path == s.root {
		return "", fmt.Errorf("%w: empty file key", apperrors.ErrValidation)
	}
	return path, nil
}
