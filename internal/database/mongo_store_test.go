package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testConnectionString = "mongodb://localhost:27017"
	testDBName           = "bookmarksync_test"
)

func setupTestStore(t *testing.T) *MongoStore {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := NewMongoStore(ctx, testConnectionString, testDBName)
	if err != nil {
		t.Skipf("Skipping MongoDB integration test: %v", err)
	}

	// Clean up database before test
	err = store.database.Drop(ctx)
	require.NoError(t, err)

	return store
}

func teardownTestStore(t *testing.T, store *MongoStore) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Clean up database after test
	err := store.database.Drop(ctx)
	assert.NoError(t, err)

	err = store.Close(ctx)
	assert.NoError(t, err)
}

func TestMongoStore(t *testing.T) {
	store := setupTestStore(t)
	defer teardownTestStore(t, store)

	testKVStore(t, store)
}
