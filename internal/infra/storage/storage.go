// Package storage defines the blob store the event partitions persist to.
// The store is an opaque ordered key/value namespace; everything above it
// (paging, compression, aggregation) lives in the store and aggregate
// packages.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no blob.
var ErrNotFound = errors.New("blob not found")

// BlobStore is the durable key/value primitive partitions persist to.
type BlobStore interface {
	// Get returns the blob at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes the blob at key, overwriting any prior value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the blob at key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// DeleteAll removes every blob whose key starts with prefix.
	DeleteAll(ctx context.Context, prefix string) error
}
