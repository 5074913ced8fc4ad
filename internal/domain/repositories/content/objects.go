package content

import (
	"context"
	"io"
)

// StoredObject is the result of writing a binary object.
type StoredObject struct {
	Location string
	URL      string
}

// ObjectStore is the binary object store holding uploaded file bytes.
type ObjectStore interface {
	// Put writes the object at path. size may be -1 when unknown.
	Put(ctx context.Context, path string, body io.Reader, size int64, contentType string) (StoredObject, error)

	// RetrievalURL issues a download URL for a stored location.
	RetrievalURL(ctx context.Context, location string) (string, error)

	// Delete removes the object. Returns domain.ErrNotFound if absent.
	Delete(ctx context.Context, location string) error
}
