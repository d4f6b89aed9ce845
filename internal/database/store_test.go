package database

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"bookmarksync/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKVStore runs the KVStore contract against a freshly created, empty store.
func testKVStore(t *testing.T, store KVStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("EmptyStore", func(t *testing.T) {
		records, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)

		single, err := store.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, single)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		err := store.Set(ctx, Records{
			"a": json.RawMessage(`{"bookmarkId":"1","includePattern":"^https://a\\.com/"}`),
			"b": json.RawMessage(`{"bookmarkId":"2","includePattern":"^https://b\\.com/"}`),
		})
		require.NoError(t, err)

		records, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.JSONEq(t, `{"bookmarkId":"1","includePattern":"^https://a\\.com/"}`, string(records["a"]))

		single, err := store.Get(ctx, "b")
		require.NoError(t, err)
		require.Contains(t, single, "b")
		assert.JSONEq(t, `{"bookmarkId":"2","includePattern":"^https://b\\.com/"}`, string(single["b"]))
	})

	t.Run("SetReplaces", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, Records{"a": json.RawMessage(`{"bookmarkId":"9"}`)}))

		single, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.JSONEq(t, `{"bookmarkId":"9"}`, string(single["a"]))
	})

	t.Run("RemoveIsIdempotent", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, "a"))
		require.NoError(t, store.Remove(ctx, "a"))

		records, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Contains(t, records, "b")
	})

	t.Run("KeysWithSeparators", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, Records{"../odd/key": json.RawMessage(`{}`)}))

		single, err := store.Get(ctx, "../odd/key")
		require.NoError(t, err)
		assert.Contains(t, single, "../odd/key")
		require.NoError(t, store.Remove(ctx, "../odd/key"))
	})
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close(context.Background())

	testKVStore(t, store)
}

func TestRedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := NewRedisStore(context.Background(), mr.Addr(), "", 0, "bookmarksync:rules")
	require.NoError(t, err)
	defer store.Close(context.Background())

	testKVStore(t, store)
	assert.True(t, mr.Exists("bookmarksync:rules"))
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "db", "rules.db"))
	require.NoError(t, err)
	defer store.Close(context.Background())

	testKVStore(t, store)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("File", func(t *testing.T) {
		store, err := Open(ctx, config.StorageConfig{Type: "file", File: config.FileStoreConfig{Path: t.TempDir()}})
		require.NoError(t, err)
		assert.IsType(t, &FileStore{}, store)
	})

	t.Run("SQLite", func(t *testing.T) {
		store, err := Open(ctx, config.StorageConfig{Type: "sqlite", SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "rules.db")}})
		require.NoError(t, err)
		assert.IsType(t, &SQLiteStore{}, store)
		assert.NoError(t, store.Close(ctx))
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := Open(ctx, config.StorageConfig{Type: "etcd"})
		assert.Error(t, err)
	})
}
