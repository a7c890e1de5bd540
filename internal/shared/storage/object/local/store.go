package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"loanfile-backend/internal/shared/storage/object"
)

// Store implements object.Store on the local filesystem. One Store maps to
// one logical bucket rooted at baseDir/bucket.
type Store struct {
	baseDir string
	bucket  string
}

// New creates a local object store for the given bucket under baseDir.
func New(baseDir, bucket string) *Store {
	return &Store{baseDir: baseDir, bucket: bucket}
}

// Put writes the reader to disk at key. The exclusive create preserves the
// no-overwrite contract of the S3 store.
func (s *Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	clean, err := s.cleanKey(key)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(s.baseDir, s.bucket, clean)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("local put key=%s: %w", clean, object.ErrAlreadyExists)
		}
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write body: %w", err)
	}
	_ = contentType

	return s.publicURL(clean), nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := s.cleanKey(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, s.bucket, clean))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a stored object. Deleting a missing object is an error so
// callers can log it, matching the S3 store's behavior on access failures.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clean, err := s.cleanKey(key)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(s.baseDir, s.bucket, clean))
}

func (s *Store) cleanKey(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return clean, nil
}

func (s *Store) publicURL(cleanKey string) string {
	return "local://" + s.bucket + "/" + filepath.ToSlash(cleanKey)
}

var _ object.Store = (*Store)(nil)
