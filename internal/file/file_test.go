package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopy(t *testing.T) {
	dir := t.TempDir()

	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("contents"), 0644))

	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, Copy(src, dst))

	contents, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "contents", string(contents))
}

func TestCopyMissingSource(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, Copy(filepath.Join(dir, "missing"), filepath.Join(dir, "dst")))
}

func TestRemoveFileIfExists(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "victim")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	require.NoError(t, RemoveFileIfExists(path))
	assert.NoFileExists(t, path)

	// A second removal is not an error.
	require.NoError(t, RemoveFileIfExists(path))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()

	assert.True(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "missing")))
}
