package app

import (
	"context"
	"fmt"

	"imghost/config"
	"imghost/database"
	"imghost/kv"
	"imghost/logger"
	"imghost/objects"
)

type closer func() error

func noopCloser() error { return nil }

func newMetadataBackend(ctx context.Context, cfg config.Metadata) (kv.Backend, closer, error) {
	switch cfg.Backend {
	case "redis":
		client, err := database.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return kv.NewRedisBackend(client), client.Close, nil

	case "mongo":
		client, err := database.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		collection := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		return kv.NewMongoBackend(collection), func() error {
			return client.Disconnect(context.Background())
		}, nil

	case "badger", "":
		db, err := database.OpenBadger(cfg.BadgerDir)
		if err != nil {
			return nil, nil, err
		}
		return kv.NewBadgerBackend(db), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("app - newMetadataBackend: unknown backend %q", cfg.Backend)
	}
}

func newObjectStore(ctx context.Context, cfg config.Objects, l logger.Interface) (objects.Store, closer, error) {
	switch cfg.Backend {
	case "s3":
		client, err := database.ConnectS3(ctx, database.S3Options{
			Endpoint:     cfg.S3Endpoint,
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Bucket:       cfg.S3Bucket,
			UsePathStyle: cfg.S3PathStyle,
			Timeout:      cfg.ConnectTimeout,
		}, l)
		if err != nil {
			return nil, nil, err
		}
		return objects.NewS3Store(client, cfg.S3Bucket), noopCloser, nil

	case "minio":
		client, err := database.ConnectMinio(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey,
			cfg.MinioBucket, cfg.MinioUseSSL, cfg.ConnectTimeout)
		if err != nil {
			return nil, nil, err
		}
		return objects.NewMinioStore(client, cfg.MinioBucket), noopCloser, nil

	case "fs", "":
		store, err := objects.NewFSStore(cfg.FSRoot)
		if err != nil {
			return nil, nil, err
		}
		return store, noopCloser, nil

	default:
		return nil, nil, fmt.Errorf("app - newObjectStore: unknown backend %q", cfg.Backend)
	}
}
