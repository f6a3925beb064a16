// Package mongodb holds shared plumbing for the MongoDB adapters: client
// construction and index bootstrap.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection  = "users"
	TripsCollection  = "trips"
	PhotosCollection = "userPhotos"
)

// Connect opens a client, verifies connectivity and returns a handle to the
// named database.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	if uri == "" {
		return nil, errors.New("empty mongodb uri")
	}
	if dbName == "" {
		return nil, errors.New("empty mongodb database name")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client.Database(dbName), nil
}

// EnsureIndexes creates the unique indexes the repositories rely on for
// constraint arbitration. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	_, err = db.Collection(PhotosCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "tripId", Value: 1},
			{Key: "imageUrl", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("photos_asset_unique"),
	})
	if err != nil {
		return fmt.Errorf("photos asset index: %w", err)
	}

	_, err = db.Collection(TripsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("trips_user_created"),
	})
	if err != nil {
		return fmt.Errorf("trips user index: %w", err)
	}
	return nil
}
