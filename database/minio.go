package database

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ConnectMinio returns a client for endpoint and creates bucket when it does not exist yet.
func ConnectMinio(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool, timeout time.Duration) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("database - ConnectMinio - minio.New: %w", err)
	}

	if timeout <= 0 {
		timeout = connectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("database - ConnectMinio - client.BucketExists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("database - ConnectMinio - client.MakeBucket: %w", err)
		}
	}

	return client, nil
}
