package store

import "context"

// KV is the storage abstraction the session store is built on. Keys are
// flat opaque strings; implementations must support prefix listing so the
// session store can enumerate an identity's records.
type KV interface {
	// Get returns the value for key, or a NotFoundError.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// ListByPrefix returns all keys starting with prefix, sorted ascending.
	ListByPrefix(ctx context.Context, prefix string) ([]string, error)
}
