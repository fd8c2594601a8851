package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"pdfvault/internal/config"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrBucketNotFound = errors.New("bucket not found")
)

// Client is the slice of an object store the document service depends on.
type Client interface {
	// EnsureBucket creates the bucket when missing. Safe to call repeatedly.
	EnsureBucket(ctx context.Context, bucket string) error
	// Put streams size bytes from r under bucket/key.
	Put(ctx context.Context, bucket, key, contentType string, r io.Reader, size int64) error
	// Get returns the object body. A missing key yields ErrObjectNotFound.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Lister enumerates a bucket. Only reconciliation needs it.
type Lister interface {
	List(ctx context.Context, bucket string) ([]ObjectInfo, error)
}

// Store is what the backends in this package implement.
type Store interface {
	Client
	Lister
}

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// New picks a backend from cfg.ObjectStoreDriver.
func New(cfg *config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.ObjectStoreDriver {
	case "", config.DriverMinio:
		return NewMinioClient(cfg.Minio, logger)
	case config.DriverMemory:
		return NewMemoryClient(), nil
	default:
		return nil, fmt.Errorf("unsupported object store driver: %s", cfg.ObjectStoreDriver)
	}
}
