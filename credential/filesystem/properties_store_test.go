package filesystem_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/privrepo/credential/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesFileStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("Load non-existent directory", func(t *testing.T) {
		store := filesystem.NewPropertiesFileStore(filesystem.WithDirectory(filepath.Join(t.TempDir(), "missing")))
		content, exists, err := store.Load(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
		assert.Empty(t, content)
	})

	t.Run("Load non-existent file", func(t *testing.T) {
		store := filesystem.NewPropertiesFileStore(filesystem.WithDirectory(t.TempDir()))
		_, exists, err := store.Load(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Append creates directory and file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", ".gradle")
		store := filesystem.NewPropertiesFileStore(filesystem.WithDirectory(dir))

		require.NoError(t, store.Append(ctx, []string{"a.username=alice", "a.token=tok"}))

		content, exists, err := store.Load(ctx)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, "\na.username=alice\na.token=tok", content)

		info, err := os.Stat(store.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("Append keeps existing content", func(t *testing.T) {
		dir := t.TempDir()
		existing := "org.gradle.jvmargs=-Xmx2g"
		require.NoError(t, os.WriteFile(filepath.Join(dir, filesystem.DefaultFileName), []byte(existing), 0o644))

		store := filesystem.NewPropertiesFileStore(filesystem.WithDirectory(dir))
		require.NoError(t, store.Append(ctx, []string{"b.token=tok"}))

		content, _, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, existing+"\nb.token=tok", content)
	})

	t.Run("Append nothing is a no-op", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "untouched")
		store := filesystem.NewPropertiesFileStore(filesystem.WithDirectory(dir))
		require.NoError(t, store.Append(ctx, nil))
		_, err := os.Stat(dir)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("custom file permissions", func(t *testing.T) {
		store := filesystem.NewPropertiesFileStore(
			filesystem.WithDirectory(t.TempDir()),
			filesystem.WithFilePermissions(0o640),
			filesystem.WithDirPermissions(0o700),
		)
		require.NoError(t, store.Append(ctx, []string{"k=v"}))
		info, err := os.Stat(store.Path())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})
}

func TestPropertiesFileStore_DefaultPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	store := filesystem.NewPropertiesFileStore()
	assert.Equal(t, "/home/tester/.gradle/gradle.properties", store.Path())

	store = filesystem.NewPropertiesFileStore(filesystem.WithDirectory(""))
	assert.Equal(t, "/home/tester/.gradle/gradle.properties", store.Path(), "blank directory keeps the default")
}
