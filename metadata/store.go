// Package metadata persists image records as JSON in a key-value backend
// under the "img:" namespace.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"imghost/errs"
	"imghost/kv"
	"imghost/logger"
	"imghost/models"
)

const KeyPrefix = "img:"

type Store struct {
	backend kv.Backend
	l       logger.Interface
}

func New(backend kv.Backend, l logger.Interface) *Store {
	return &Store{backend: backend, l: l}
}

func Key(id string) string {
	return KeyPrefix + id
}

// Save writes the record under its id, replacing any previous record.
func (s *Store) Save(ctx context.Context, m *models.ImageMetadata) error {
	data, err := json.Marshal(m)
	if err != nil {
		return errs.Wrap(errs.Internal, "Failed to encode image metadata", err)
	}

	if err := s.backend.Put(ctx, Key(m.ID), data); err != nil {
		s.l.Error(err, "metadata - Save")
		return errs.Wrap(errs.StoreFailure, "Failed to save image metadata", err)
	}
	return nil
}

// Get returns (nil, nil) when no record exists for id.
func (s *Store) Get(ctx context.Context, id string) (*models.ImageMetadata, error) {
	data, err := s.backend.Get(ctx, Key(id))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.l.Error(err, "metadata - Get")
		return nil, errs.Wrap(errs.StoreFailure, "Failed to read image metadata", err)
	}

	var m models.ImageMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		s.l.Warn("metadata - Get - undecodable record %q: %v", id, err)
		return nil, nil
	}
	return &m, nil
}

// ListAll returns every decodable record in backend order. Entries that fail to
// decode are logged and skipped.
func (s *Store) ListAll(ctx context.Context) ([]models.ImageMetadata, error) {
	entries, err := s.backend.List(ctx, KeyPrefix)
	if err != nil {
		s.l.Error(err, "metadata - ListAll")
		return nil, errs.Wrap(errs.StoreFailure, "Failed to list image metadata", err)
	}

	records := make([]models.ImageMetadata, 0, len(entries))
	for _, e := range entries {
		var m models.ImageMetadata
		if err := json.Unmarshal(e.Value, &m); err != nil {
			s.l.Warn("metadata - ListAll - skipping %q: %v", e.Key, err)
			continue
		}
		if m.ID == "" {
			m.ID = strings.TrimPrefix(e.Key, KeyPrefix)
		}
		records = append(records, m)
	}
	return records, nil
}

// Delete is a no-op for unknown ids.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, Key(id)); err != nil {
		s.l.Error(err, "metadata - Delete")
		return errs.Wrap(errs.StoreFailure, "Failed to delete image metadata", err)
	}
	return nil
}
