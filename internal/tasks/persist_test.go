package tasks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitCreatesFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "TASKS.md")
	require.NoError(t, Commit(path, "# Tasks\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Tasks\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	assertNoTempFiles(t, tmpDir)
}

func TestCommitReplacesExistingContent(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "TASKS.md")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("old content\n", 100)), 0600))

	require.NoError(t, Commit(path, "new"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data), "no bytes of the old document should survive")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing mode should be preserved")

	assertNoTempFiles(t, tmpDir)
}

func TestCommitFailureLeavesTargetUntouched(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	// A directory at the target path makes the final rename fail.
	target := filepath.Join(tmpDir, "TASKS.md")
	require.NoError(t, os.MkdirAll(target, 0755))
	sentinel := filepath.Join(target, "keep.txt")
	require.NoError(t, os.WriteFile(sentinel, []byte("keep"), 0644))

	err := Commit(target, "new content")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TASKS.md")

	data, err := os.ReadFile(sentinel)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	assertNoTempFiles(t, tmpDir)
}

func TestCommitMissingDirectory(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	err := Commit(filepath.Join(tmpDir, "missing", "TASKS.md"), "content")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(tmpDir, "missing"))
	assert.True(t, os.IsNotExist(statErr))
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), TempPrefix), "leftover temp file %s", e.Name())
	}
}
