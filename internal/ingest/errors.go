package ingest

import "errors"

var (
	// ErrNotFound indicates the queue holds no item with the given ID.
	ErrNotFound = errors.New("upload item not found")
	// ErrNotRetryable indicates a retry was requested for an item that is
	// not in the error state.
	ErrNotRetryable = errors.New("upload item is not in an error state")
)
