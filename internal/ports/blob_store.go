package ports

import (
	"context"
	"io"
)

// Stored object as reported by the blob store.
type BlobObject struct {
	URL         string
	Pathname    string
	ContentType string
	Size        int64
}

// Contract for photo/logo storage.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, body io.Reader) (BlobObject, error)
	Delete(ctx context.Context, url string) error
	// Owns reports whether url points into this store.
	Owns(url string) bool
}
