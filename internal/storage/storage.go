// Package storage abstracts the S3-compatible object store holding
// evidence files and form attachments. Implementations stream all I/O
// and never touch local disk.
//
// Key spaces in use: evidence/<control>/... for checklist uploads,
// attachments/<form>/... for form attachments.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions carries optional upload parameters. Size should be the
// exact byte count when known; -1 lets the backend buffer or chunk.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object-store client used by the evidence and form
// services. All methods take a context and operate on streams.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited download URL usable without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
