package rules

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bookmarksync/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockKVStore is a mock for the database.KVStore interface
type MockKVStore struct {
	mock.Mock
}

func (m *MockKVStore) GetAll(ctx context.Context) (database.Records, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(database.Records), args.Error(1)
}

func (m *MockKVStore) Get(ctx context.Context, key string) (database.Records, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(database.Records), args.Error(1)
}

func (m *MockKVStore) Set(ctx context.Context, records database.Records) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockKVStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockKVStore) Close(ctx context.Context) error {
	return nil
}

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func sequentialIDs(ids ...string) IDGenerator {
	i := 0
	return IDGeneratorFunc(func() string {
		id := ids[i]
		i++
		return id
	})
}

func newFileBackedStore(t *testing.T, ids ...string) (*Store, *database.FileStore) {
	t.Helper()
	kv, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	opts := []Option{WithClock(func() time.Time { return fixedNow })}
	if len(ids) > 0 {
		opts = append(opts, WithIDGenerator(sequentialIDs(ids...)))
	}
	return NewStore(kv, opts...), kv
}

func TestStore_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		store, _ := newFileBackedStore(t, "0f8fad5b-d9cb-469f-a165-70867728950e")

		id, err := store.Add(ctx, "42", "", `^https://example\.com/`, "")
		require.NoError(t, err)
		assert.Equal(t, "0f8fad5b-d9cb-469f-a165-70867728950e", id)

		rule, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, Rule{
			BookmarkID:     "42",
			Name:           "Rule 0f8fad5b",
			IncludePattern: `^https://example\.com/`,
			Enabled:        true,
			LastUpdated:    fixedNow,
		}, rule)
	})

	t.Run("UUIDByDefault", func(t *testing.T) {
		kv, err := database.NewFileStore(t.TempDir())
		require.NoError(t, err)
		store := NewStore(kv)

		first, err := store.Add(ctx, "1", "a", "a", "")
		require.NoError(t, err)
		second, err := store.Add(ctx, "1", "b", "b", "")
		require.NoError(t, err)

		assert.Len(t, first, 36)
		assert.NotEqual(t, first, second)
	})

	t.Run("MissingIncludePattern", func(t *testing.T) {
		mockKV := new(MockKVStore)
		store := NewStore(mockKV)

		_, err := store.Add(ctx, "42", "Docs", "", "")

		assert.ErrorIs(t, err, ErrValidation)
		mockKV.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	})

	t.Run("WhitespaceIncludePatternAccepted", func(t *testing.T) {
		store, _ := newFileBackedStore(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7")

		id, err := store.Add(ctx, "42", "Spaces", " ", "")
		require.NoError(t, err)

		rule, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, " ", rule.IncludePattern)
	})

	t.Run("MissingBookmarkID", func(t *testing.T) {
		mockKV := new(MockKVStore)
		store := NewStore(mockKV)

		_, err := store.Add(ctx, "", "Docs", "^https://", "")

		assert.ErrorIs(t, err, ErrValidation)
		mockKV.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
	})

	t.Run("StorageError", func(t *testing.T) {
		mockKV := new(MockKVStore)
		store := NewStore(mockKV)
		mockKV.On("Set", ctx, mock.AnythingOfType("database.Records")).Return(errors.New("disk full")).Once()

		_, err := store.Add(ctx, "42", "Docs", "^https://", "")

		assert.ErrorIs(t, err, ErrStorage)
		mockKV.AssertExpectations(t)
	})
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("MergesPresentFieldsOnly", func(t *testing.T) {
		store, _ := newFileBackedStore(t, "rule-1")
		id, err := store.Add(ctx, "42", "Docs", `^https://docs\.`, `/draft/`)
		require.NoError(t, err)

		name := "Docs (latest)"
		exclude := ""
		disabled := false
		updated, err := store.Update(ctx, id, Patch{Name: &name, ExcludePattern: &exclude, Enabled: &disabled})
		require.NoError(t, err)

		assert.Equal(t, "Docs (latest)", updated.Name)
		assert.Equal(t, "", updated.ExcludePattern)
		assert.False(t, updated.Enabled)
		assert.Equal(t, "42", updated.BookmarkID)
		assert.Equal(t, `^https://docs\.`, updated.IncludePattern)

		stored, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)
	})

	t.Run("NotFoundLeavesStoreUnchanged", func(t *testing.T) {
		mockKV := new(MockKVStore)
		store := NewStore(mockKV)
		mockKV.On("Get", ctx, "missing").Return(database.Records{}, nil).Once()

		name := "x"
		_, err := store.Update(ctx, "missing", Patch{Name: &name})

		assert.ErrorIs(t, err, ErrNotFound)
		mockKV.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
		mockKV.AssertExpectations(t)
	})

	t.Run("RejectsEmptyIncludePattern", func(t *testing.T) {
		store, _ := newFileBackedStore(t, "rule-2")
		id, err := store.Add(ctx, "42", "Docs", "^https://", "")
		require.NoError(t, err)

		empty := ""
		_, err = store.Update(ctx, id, Patch{IncludePattern: &empty})
		assert.ErrorIs(t, err, ErrValidation)

		stored, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "^https://", stored.IncludePattern)
	})

	t.Run("MigratesLegacyRecord", func(t *testing.T) {
		store, kv := newFileBackedStore(t)
		require.NoError(t, kv.Set(ctx, database.Records{
			"legacy": json.RawMessage(`{"bookmarkId":"7","name":"Old","pattern":"^https://old\\.example/","enabled":true}`),
		}))

		enabled := true
		updated, err := store.Update(ctx, "legacy", Patch{Enabled: &enabled})
		require.NoError(t, err)
		assert.Equal(t, `^https://old\.example/`, updated.IncludePattern)

		raw, err := kv.Get(ctx, "legacy")
		require.NoError(t, err)
		assert.Contains(t, string(raw["legacy"]), `"includePattern"`)
		assert.NotContains(t, string(raw["legacy"]), `"pattern"`)
	})
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, _ := newFileBackedStore(t, "rule-1")
	id, err := store.Add(ctx, "42", "Docs", "^https://", "")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	require.NoError(t, store.Delete(ctx, id))

	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyStore", func(t *testing.T) {
		store, _ := newFileBackedStore(t)

		rules, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, rules)
		assert.Empty(t, rules)
	})

	t.Run("NormalizesAndSkipsMalformed", func(t *testing.T) {
		store, kv := newFileBackedStore(t)
		require.NoError(t, kv.Set(ctx, database.Records{
			"current": json.RawMessage(`{"bookmarkId":"1","name":"A","includePattern":"^a","excludePattern":"b$","enabled":true,"lastUpdated":"2024-05-01T10:00:00.000Z"}`),
			"legacy":  json.RawMessage(`{"bookmarkId":"2","name":"B","pattern":"^b","enabled":false}`),
			"broken":  json.RawMessage(`{"bookmarkId":3,"includePattern":"^c"}`),
			"garbage": json.RawMessage(`not json`),
		}))

		rules, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, rules, 2)

		assert.Equal(t, "^a", rules["current"].IncludePattern)
		assert.Equal(t, "b$", rules["current"].ExcludePattern)
		assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), rules["current"].LastUpdated.UTC())

		assert.Equal(t, "^b", rules["legacy"].IncludePattern)
		assert.Empty(t, rules["legacy"].ExcludePattern)
		assert.False(t, rules["legacy"].Enabled)
	})

	t.Run("StorageError", func(t *testing.T) {
		mockKV := new(MockKVStore)
		store := NewStore(mockKV)
		mockKV.On("GetAll", ctx).Return(nil, errors.New("connection refused")).Once()

		rules, err := store.GetAll(ctx)

		assert.ErrorIs(t, err, ErrStorage)
		assert.Nil(t, rules)
		mockKV.AssertExpectations(t)
	})
}

func TestStore_GetMalformed(t *testing.T) {
	ctx := context.Background()
	store, kv := newFileBackedStore(t)
	require.NoError(t, kv.Set(ctx, database.Records{"broken": json.RawMessage(`{"enabled":true}`)}))

	_, err := store.Get(ctx, "broken")

	assert.ErrorIs(t, err, ErrStorage)
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "Rule 0f8fad5b", DefaultName("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.Equal(t, "Rule abc", DefaultName("abc"))
}
