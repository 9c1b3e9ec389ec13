package database

import (
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// OpenBadger opens an on-disk badger database in dir, or an in-memory one when dir is empty.
func OpenBadger(dir string) (*badger.DB, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("database - OpenBadger - os.MkdirAll: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("database - OpenBadger - badger.Open: %w", err)
	}

	return db, nil
}
