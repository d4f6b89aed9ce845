package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()

	t.Run("NewFileUsesPerm", func(t *testing.T) {
		path := filepath.Join(dir, "new.json")

		require.NoError(t, WriteFileAtomic(path, []byte(`{}`), 0o644))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	})

	t.Run("ExistingFileKeepsMode", func(t *testing.T) {
		path := filepath.Join(dir, "Bookmarks")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o640))
		require.NoError(t, os.Chmod(path, 0o640))

		require.NoError(t, WriteFileAtomic(path, []byte("new"), 0o600))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})

	t.Run("NoTemporaryFilesLeftBehind", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		var names []string
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		assert.ElementsMatch(t, []string{"new.json", "Bookmarks"}, names)
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		err := WriteFileAtomic(filepath.Join(dir, "absent", "x.json"), []byte(`{}`), 0o644)
		assert.Error(t, err)
	})
}
