// Package kv adapts several key-value engines to the small surface the
// metadata index needs: put, get, prefix listing and delete.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

type Entry struct {
	Key   string
	Value []byte
}

type Backend interface {
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// List returns every entry whose key starts with prefix. Keys that vanish
	// between enumeration and read are omitted.
	List(ctx context.Context, prefix string) ([]Entry, error)
	// Delete succeeds when key is already absent.
	Delete(ctx context.Context, key string) error
}
