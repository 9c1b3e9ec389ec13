package objects

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

type MinioStore struct {
	client *minio.Client
	bucket string
}

var _ Store = (*MinioStore)(nil)

func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

func (s *MinioStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("objects - MinioStore - Put - s.client.PutObject: %w", err)
	}
	return nil
}

func (s *MinioStore) Get(ctx context.Context, key string) (*Object, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("objects - MinioStore - Get - s.client.GetObject: %w", err)
	}

	// GetObject is lazy; Stat performs the request.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if isMinioNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("objects - MinioStore - Get - obj.Stat: %w", err)
	}

	return &Object{
		Body:        obj,
		ContentType: info.ContentType,
		Size:        info.Size,
	}, nil
}

func (s *MinioStore) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && !isMinioNotFound(err) {
		return fmt.Errorf("objects - MinioStore - Delete - s.client.RemoveObject: %w", err)
	}
	return nil
}

func isMinioNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
