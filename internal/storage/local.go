package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// localStorage writes objects as plain files in one directory.
type localStorage struct {
	dir    string
	prefix string
}

// NewLocal returns a Storage rooted at dir. Objects are addressed publicly
// as "{publicPrefix}/{key}". The directory is created on first write.
func NewLocal(dir, publicPrefix string) (Storage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload directory: %w", err)
	}
	prefix := "/" + strings.Trim(publicPrefix, "/")
	return &localStorage{dir: abs, prefix: prefix}, nil
}

func (s *localStorage) path(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key), nil
}

func (s *localStorage) location(key string) string {
	return path.Join(s.prefix, key)
}

// Put writes through a temporary file and renames it into place so a
// failed write never leaves a partial object under key.
func (s *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	dst, err := s.path(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	h := md5.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("write %s: %w", key, err)
	}
	if opt.Size >= 0 && n != opt.Size {
		return ObjectInfo{}, fmt.Errorf("write %s: wrote %d bytes, expected %d", key, n, opt.Size)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return ObjectInfo{}, fmt.Errorf("move %s into place: %w", key, err)
	}

	return ObjectInfo{
		Key:          key,
		Location:     s.location(key),
		Size:         n,
		ETag:         hex.EncodeToString(h.Sum(nil)),
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

func (s *localStorage) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ObjectInfo{}, ErrNotFound
	}
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	return f, ObjectInfo{
		Key:          key,
		Location:     s.location(key),
		Size:         st.Size(),
		LastModified: st.ModTime(),
	}, nil
}

func (s *localStorage) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PresignGet returns the public path; local files are served without
// credentials, so expiry is ignored.
func (s *localStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	if _, err := s.path(key); err != nil {
		return "", err
	}
	return s.location(key), nil
}
