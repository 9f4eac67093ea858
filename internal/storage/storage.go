// Package storage keeps the original bytes of uploaded documents.
//
// Two backends implement Storage: the local filesystem (files are also
// served by the HTTP layer below a public prefix) and S3-compatible object
// storage (MinIO, AWS S3, etc.).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"docsearch/internal/config"
)

// ErrNotFound is returned by Get when no object exists under the key.
var ErrNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
// Location is the value recorded as the document's file path: a public URL
// path for the local backend, the full object key for object storage.
type ObjectInfo struct {
	Key          string
	Location     string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the file store used by ingestion. Keys are server generated
// ("{guid}.{ext}") and never contain path separators.
type Storage interface {
	// Put writes the object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a URL the object can be downloaded from without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// validateKey rejects keys that could address anything outside the flat
// namespace of stored originals.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}

// New builds the backend selected by cfg.Driver.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.UploadDir, cfg.PublicPrefix)
	case "minio", "s3":
		return NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
