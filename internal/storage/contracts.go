package storage

import "context"

// ObjectStore is the narrow capability the content store needs from an
// object backend. Put has upsert semantics: an existing object at the same
// path is overwritten, so retries of a failed upload need no manual cleanup.
// Remove of an absent object is a no-op, not an error.
type ObjectStore interface {
	Put(ctx context.Context, objectPath string, content []byte, contentType string) (url string, err error)
	Remove(ctx context.Context, objectPath string) error
}
