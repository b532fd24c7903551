package scanning

import "context"

// ObjectStore retrieves object content from a storage bucket. Implementations
// live in the infrastructure layer; the orchestrator depends only on this
// interface.
type ObjectStore interface {
	// Get returns the object's content bytes and byte length. A missing or
	// inaccessible object returns an error; the caller converts it into a
	// failure outcome rather than propagating.
	Get(ctx context.Context, bucket, key string) ([]byte, int64, error)
}
