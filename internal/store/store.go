// Package store defines the keyed-record storage contract shared by both
// services.  Repositories are written against this interface so the
// reservation engine and the order orchestrator can be exercised in tests
// with the in-memory implementation while production deployments run the
// MySQL-backed one behind the same contract.
package store

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no record exists under the
// requested bucket and key.
var ErrKeyNotFound = errors.New("key not found")

// Store is a minimal bucketed key-value contract.  Values are opaque
// bytes; repositories marshal their records as JSON.
type Store interface {
	// Get returns the value stored under (bucket, key) or ErrKeyNotFound.
	Get(ctx context.Context, bucket, key string) ([]byte, error)
	// Set writes the value under (bucket, key), replacing any previous value.
	Set(ctx context.Context, bucket, key string, value []byte) error
	// Delete removes the record.  Deleting a missing key is a no-op.
	Delete(ctx context.Context, bucket, key string) error
	// ForEach calls fn for every record in the bucket.  Iteration stops
	// and the error is returned when fn returns a non-nil error.
	ForEach(ctx context.Context, bucket string, fn func(key string, value []byte) error) error
}
