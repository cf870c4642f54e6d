// Package objstore abstracts the bucket holding uploaded document files.
// Deleting a replaced profile photo removes the stored object as well as the
// database record, so the store needs both write and delete paths.
package objstore

import (
	"context"
	"io"
)

type Store interface {
	// Put writes an object and returns its public URL.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	// Delete removes an object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// KeyForURL maps a stored file URL back to its object key. Returns
	// false when the URL does not belong to this store.
	KeyForURL(url string) (string, bool)
}
