// Package store provides persistence for aggregated resume records over a
// pluggable key-value backend.
package store

import "fmt"

// NotFoundError indicates there is no record (or key) to operate on.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Key)
}

// StorageError represents an I/O failure reading or writing a record. It is
// surfaced to the caller as-is; nothing in the core retries automatically.
type StorageError struct {
	Op    string
	Key   string
	Cause error
}

func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Key, e.Cause)
	}
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
