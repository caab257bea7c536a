// Package storage holds uploads for the duration of one analysis request.
// Files are stored under a UUID key, read back for extraction, and removed
// when the request completes; nothing here persists analyses.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"snaplaw-backend/config"
)

// Store is the temporary file lifecycle used by the upload handler
type Store interface {
	// Put saves an upload and returns its storage key
	Put(ctx context.Context, id uuid.UUID, filename string, data io.Reader) (string, error)

	// Get opens a stored upload for reading
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes a stored upload. Removing an already-removed key is
	// not an error.
	Remove(ctx context.Context, key string) error
}

// New builds a store from configuration
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStore(cfg.LocalPath)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, errors.New("storage: s3_bucket is required for s3 storage")
		}
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("storage: unknown storage type %q", cfg.Type)
	}
}

// objectKey derives a collision-free key from the upload id. The original
// filename only contributes its extension, so hostile names never reach the
// filesystem or bucket.
func objectKey(id uuid.UUID, filename string) string {
	return id.String() + path.Ext(path.Base(filename))
}
