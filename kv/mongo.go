package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoBackend keeps one document per key: {_id: key, value: <bytes>}.
type MongoBackend struct {
	collection *mongo.Collection
}

type mongoEntry struct {
	Key   string `bson:"_id"`
	Value []byte `bson:"value"`
}

var _ Backend = (*MongoBackend)(nil)

func NewMongoBackend(collection *mongo.Collection) *MongoBackend {
	return &MongoBackend{collection: collection}
}

func (m *MongoBackend) Put(ctx context.Context, key string, value []byte) error {
	_, err := m.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoEntry{Key: key, Value: value},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("kv - mongo - Put: %w", err)
	}
	return nil
}

func (m *MongoBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var entry mongoEntry
	err := m.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv - mongo - Get: %w", err)
	}
	return entry.Value, nil
}

func (m *MongoBackend) List(ctx context.Context, prefix string) ([]Entry, error) {
	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}

	cursor, err := m.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("kv - mongo - List - find: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []Entry
	for cursor.Next(ctx) {
		var entry mongoEntry
		if err := cursor.Decode(&entry); err != nil {
			// Foreign documents sharing the prefix are not ours to interpret.
			continue
		}
		entries = append(entries, Entry{Key: entry.Key, Value: entry.Value})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("kv - mongo - List - cursor: %w", err)
	}
	return entries, nil
}

func (m *MongoBackend) Delete(ctx context.Context, key string) error {
	if _, err := m.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("kv - mongo - Delete: %w", err)
	}
	return nil
}
