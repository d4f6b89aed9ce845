package rules

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ImportFile(t *testing.T) {
	ctx := context.Background()

	content := `
docs:
  bookmarkId: "12"
  name: Docs
  includePattern: '^https://docs\.example\.com/'
  excludePattern: '/draft/'
  enabled: true
legacy:
  bookmarkId: "13"
  pattern: '^https://old\.example\.com/'
  enabled: true
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Run("ImportsAndNormalizes", func(t *testing.T) {
		store, _ := newFileBackedStore(t)

		n, err := store.ImportFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		rules, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, `^https://docs\.example\.com/`, rules["docs"].IncludePattern)
		assert.Equal(t, "/draft/", rules["docs"].ExcludePattern)
		assert.Equal(t, fixedNow, rules["docs"].LastUpdated.UTC())
		assert.Equal(t, `^https://old\.example\.com/`, rules["legacy"].IncludePattern)
		assert.Equal(t, "Rule legacy", rules["legacy"].Name)
	})

	t.Run("RejectsInvalidEntryWithoutWriting", func(t *testing.T) {
		store, _ := newFileBackedStore(t)

		_, err := store.Import(ctx, []byte("good:\n  bookmarkId: \"1\"\n  includePattern: a\nbad:\n  bookmarkId: \"2\"\n"))
		assert.ErrorIs(t, err, ErrValidation)

		rules, err := store.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, rules)
	})

	t.Run("MissingFile", func(t *testing.T) {
		store, _ := newFileBackedStore(t)

		_, err := store.ImportFile(ctx, filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestStore_ExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	source, _ := newFileBackedStore(t, "rule-a", "rule-b")
	_, err := source.Add(ctx, "1", "First", `^https://a\.example/`, "")
	require.NoError(t, err)
	_, err = source.Add(ctx, "2", "Second", `^https://b\.example/`, `\?preview`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, source.Export(ctx, &buf))
	assert.Contains(t, buf.String(), "rule-a:")

	target, _ := newFileBackedStore(t)
	n, err := target.Import(ctx, buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want, err := source.GetAll(ctx)
	require.NoError(t, err)
	got, err := target.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSuggestIncludePattern(t *testing.T) {
	pattern, err := SuggestIncludePattern("https://news.ycombinator.com/item?id=1")
	require.NoError(t, err)
	assert.Equal(t, `^https?://news\.ycombinator\.com`, pattern)

	_, err = SuggestIncludePattern("javascript:void(0)")
	assert.ErrorIs(t, err, ErrValidation)
}
