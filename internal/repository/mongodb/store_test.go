package mongodb

import (
	"context"
	"os"
	"testing"
	"time"

	"estate/internal/domain"
	"estate/internal/repository/storetest"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// setupTestDB connects to MONGO_URI (default localhost) and skips the test
// when no server answers.
func setupTestDB(t *testing.T) (*Store, func()) {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	database := "estate_test_" + primitive.NewObjectID().Hex()
	store, err := Connect(ctx, uri, database, 0, zap.NewNop())
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.db.Drop(ctx); err != nil {
			t.Logf("Failed to drop database: %v", err)
		}
		if err := store.Close(ctx); err != nil {
			t.Logf("Failed to disconnect from MongoDB: %v", err)
		}
	}
	return store, cleanup
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		store, cleanup := setupTestDB(t)
		t.Cleanup(cleanup)
		return store
	})
}
