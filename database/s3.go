package database

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"imghost/logger"
)

const (
	_defaultConnAttempts = 5
	_defaultConnBackoff  = time.Second
)

type S3Options struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	Bucket       string
	UsePathStyle bool
	Timeout      time.Duration
}

// ConnectS3 builds a client for any S3-compatible endpoint (R2, garage, AWS) and
// checks that the bucket is reachable, retrying a few times while the endpoint starts.
func ConnectS3(ctx context.Context, opts S3Options, l logger.Interface) (*s3.Client, error) {
	var (
		client *s3.Client
		err    error
	)

	for attempts := _defaultConnAttempts; attempts > 0; attempts-- {
		client, err = connectS3(ctx, opts)
		if err == nil {
			return client, nil
		}

		l.Warn("S3 is trying to connect, attempts left: %d", attempts-1)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(_defaultConnBackoff):
		}
	}

	return nil, fmt.Errorf("database - ConnectS3 - attempts exhausted: %w", err)
}

func connectS3(ctx context.Context, opts S3Options) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("database - connectS3 - config.LoadDefaultConfig: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		o.BaseEndpoint = aws.String(opts.Endpoint)
	})

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = connectTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(opts.Bucket)}); err != nil {
		return nil, fmt.Errorf("database - connectS3 - client.HeadBucket: %w", err)
	}

	return client, nil
}
