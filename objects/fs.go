package objects

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexjoedt/blobfs"
)

// contentTypeSuffix names the sidecar blob holding the declared content type,
// since blobfs only records the type it sniffs from the first bytes.
const contentTypeSuffix = ".content-type"

// FSStore keeps objects on the local filesystem.
type FSStore struct {
	storage *blobfs.Storage
}

var _ Store = (*FSStore)(nil)

func NewFSStore(root string) (*FSStore, error) {
	storage, err := blobfs.NewStorage(root)
	if err != nil {
		return nil, fmt.Errorf("objects - NewFSStore - blobfs.NewStorage: %w", err)
	}
	return &FSStore{storage: storage}, nil
}

func (s *FSStore) Put(ctx context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if err := s.storage.Put(ctx, key, body); err != nil {
		return fmt.Errorf("objects - FSStore - Put - s.storage.Put: %w", err)
	}
	if contentType == "" {
		return nil
	}
	if err := s.storage.Put(ctx, key+contentTypeSuffix, strings.NewReader(contentType)); err != nil {
		return fmt.Errorf("objects - FSStore - Put - content type: %w", err)
	}
	return nil
}

func (s *FSStore) Get(ctx context.Context, key string) (*Object, error) {
	meta, err := s.storage.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, blobfs.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("objects - FSStore - Get - s.storage.Stat: %w", err)
	}

	body, err := s.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, blobfs.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("objects - FSStore - Get - s.storage.Get: %w", err)
	}

	contentType := meta.ContentType
	if declared, ok := s.declaredType(ctx, key); ok {
		contentType = declared
	}

	return &Object{
		Body:        body,
		ContentType: contentType,
		Size:        meta.Size,
	}, nil
}

func (s *FSStore) Delete(ctx context.Context, key string) error {
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("objects - FSStore - Delete - s.storage.Delete: %w", err)
	}
	if err := s.storage.Delete(ctx, key+contentTypeSuffix); err != nil {
		return fmt.Errorf("objects - FSStore - Delete - content type: %w", err)
	}
	return nil
}

func (s *FSStore) declaredType(ctx context.Context, key string) (string, bool) {
	rc, err := s.storage.Get(ctx, key+contentTypeSuffix)
	if err != nil {
		return "", false
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(rc, 256)); err != nil {
		return "", false
	}
	return strings.TrimSpace(buf.String()), buf.Len() > 0
}
