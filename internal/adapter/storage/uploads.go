// Package storage keeps uploaded images on an afero filesystem.
package storage

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/Keshavsspppp/municipality/internal/domain/repository"
)

var _ repository.UploadStore = (*UploadStore)(nil)

// UploadStore writes uploads into a single directory
type UploadStore struct {
	fs       afero.Fs
	dir      string
	maxBytes int64
}

// NewUploadStore creates the upload directory if needed
func NewUploadStore(fs afero.Fs, dir string, maxBytes int64) (*UploadStore, error) {
	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat upload dir %s: %w", dir, err)
	}
	if !exists {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
		}
	}
	return &UploadStore{fs: fs, dir: dir, maxBytes: maxBytes}, nil
}

// Save stores the content of r under name and returns the bytes written.
// name must already be sanitized. An existing file is replaced.
func (s *UploadStore) Save(name string, r io.Reader) ([]byte, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid upload name %q", name)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, repository.ErrUploadTooLarge
	}

	if err := afero.WriteFile(s.fs, filepath.Join(s.dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}
	return data, nil
}

// FileSystem exposes the upload directory for static file serving
func (s *UploadStore) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs).Dir(s.dir)
}
