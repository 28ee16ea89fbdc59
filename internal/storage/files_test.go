package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.StoreCSV("LOW,MED\nHIGH,HIGH\n")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "strategy_"))
	assert.True(t, strings.HasSuffix(path, ".csv"))

	content, err := store.ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, "LOW,MED\nHIGH,HIGH\n", content)

	require.NoError(t, store.Delete(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_DistinctNames(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	a, err := store.StoreCSV("LOW\n")
	require.NoError(t, err)
	b, err := store.StoreCSV("LOW\n")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestFileStore_RejectsOutsidePaths(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "files"))
	require.NoError(t, err)

	outside := filepath.Join(dir, "secret.csv")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	_, err = store.ReadCSV(outside)
	assert.Error(t, err)
	assert.Error(t, store.Delete(outside))

	_, err = store.ReadCSV(filepath.Join(dir, "files", "..", "secret.csv"))
	assert.Error(t, err)
}
