package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps uploads in a scratch directory on the local filesystem
type LocalStore struct {
	basePath string
}

// NewLocalStore creates the scratch directory if needed
func NewLocalStore(basePath string) (*LocalStore, error) {
	if basePath == "" {
		basePath = filepath.Join(os.TempDir(), "snaplaw_uploads")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

// Put saves an upload to disk
func (s *LocalStore) Put(ctx context.Context, id uuid.UUID, filename string, data io.Reader) (string, error) {
	key := objectKey(id, filename)
	fullPath := filepath.Join(s.basePath, key)

	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("storage: create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return key, nil
}

// Get opens a stored upload
func (s *LocalStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.basePath, filepath.Base(key)))
	if err != nil {
		return nil, fmt.Errorf("storage: open file: %w", err)
	}
	return f, nil
}

// Remove deletes a stored upload; missing files are ignored
func (s *LocalStore) Remove(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.basePath, filepath.Base(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove file: %w", err)
	}
	return nil
}
