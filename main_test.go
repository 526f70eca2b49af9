package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveOldFiles(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "abc")
	require.NoError(t, os.MkdirAll(nested, 0755))

	old := filepath.Join(nested, "old.csv")
	fresh := filepath.Join(dir, "fresh.csv")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0644))
	past := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	removed, err := removeOldFiles(dir, time.Now().Add(-uploadMaxAge))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, fresh)

	removed, err = removeOldFiles(filepath.Join(dir, "missing"), time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}
