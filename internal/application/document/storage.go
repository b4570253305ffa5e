package document

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Size        int64
	ContentType string
}

// ObjectStorage holds document contents. Implementations return a NOT_FOUND
// domain error for missing keys.
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL that names the file for the browser
	PresignGet(ctx context.Context, key, fileName string, expiry time.Duration) (string, time.Time, error)
}
