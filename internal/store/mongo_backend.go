package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoBlob struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoBackend implements Backend on a "blobs" collection keyed by _id
type MongoBackend struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoBackend creates a new MongoBackend on db.
func NewMongoBackend(client *mongo.Client, db *mongo.Database) *MongoBackend {
	return &MongoBackend{client: client, collection: db.Collection("blobs")}
}

func (b *MongoBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var blob mongoBlob
	err := b.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&blob)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("key %q: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return blob.Value, nil
}

func (b *MongoBackend) Set(ctx context.Context, key string, value []byte) error {
	update := bson.M{"$set": bson.M{"value": value, "updated_at": time.Now()}}
	_, err := b.collection.UpdateOne(ctx, bson.M{"_id": key}, update, options.Update().SetUpsert(true))
	return err
}

func (b *MongoBackend) Remove(ctx context.Context, key string) error {
	_, err := b.collection.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (b *MongoBackend) Close(ctx context.Context) error {
	if b.client == nil {
		return nil
	}
	return b.client.Disconnect(ctx)
}
