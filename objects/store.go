// Package objects stores image bytes in a blob backend, keyed by storage path.
package objects

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("object not found")

// Object is a stored blob. Callers must close Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	// Size is -1 when the backend does not report it.
	Size int64
}

type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Get returns ErrNotFound when no object exists at key.
	Get(ctx context.Context, key string) (*Object, error)
	// Delete succeeds when the object is already gone.
	Delete(ctx context.Context, key string) error
}
