// Package storage archives generated review exports in an object store.
// The archive is write-only from the server's point of view: exports
// stream to the requesting admin and a copy lands in the bucket for
// record keeping.
package storage

import (
	"context"
	"io"
)

// Archive defines the write-side object operations shared by backends.
type Archive interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Bucket() string
}
