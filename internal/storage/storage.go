// Package storage persists story media in a bucket-like object store. The
// concrete backend is chosen by configuration: the local filesystem for
// development, or MinIO, Amazon S3 or Supabase Storage in deployments.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/safevoice/safevoice-api/internal/config"
)

// ErrInvalidKey is returned for keys that are empty or escape the bucket.
var ErrInvalidKey = errors.New("storage: invalid object key")

// Store is the object-store contract used by the media service.
type Store interface {
	// Put writes size bytes from r under key and returns the public URL.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object at key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public URL for key.
	URL(key string) string
}

// New builds the Store selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg config.Config) (Store, error) {
	sc := cfg.Storage
	switch sc.Driver {
	case "", "local":
		return NewLocal(sc.LocalDir, sc.PublicBaseURL)
	case "minio":
		return NewMinIO(ctx, cfg.MinIO, sc.Bucket)
	case "s3":
		return NewS3(ctx, cfg.S3, sc.Bucket)
	case "supabase":
		return NewSupabase(cfg.Supabase.ProjectID, cfg.Supabase.ServiceKey, sc.Bucket), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", sc.Driver)
	}
}

// KeyFromURL recovers the object key from a public URL produced by s, or
// returns "" when url does not belong to s.
func KeyFromURL(s Store, url string) string {
	prefix := s.URL("")
	if prefix == "" || !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}

// checkKey rejects keys that are blank, absolute, or contain "..".
func checkKey(key string) error {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return ErrInvalidKey
		}
	}
	return nil
}
