// Package testutil opens an indexed MongoDB database for adapter contract
// tests. Tests are skipped unless TEST_MONGO_URL points at a disposable
// server.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	mongodb "github.com/wayfarelabs/travel-planner-api/internal/adapters/mongo"
)

func OpenIndexedDatabase(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URL")
	if uri == "" {
		t.Skip("TEST_MONGO_URL not set; skipping mongodb contract tests")
	}

	ctx := context.Background()
	dbName := fmt.Sprintf("travelplanner_test_%d", time.Now().UnixNano())
	db, err := mongodb.Connect(ctx, uri, dbName)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = db.Client().Disconnect(context.Background())
	})

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return db
}
