//go:build !integration

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/barmania-cli/internal/store"
)

const savedClips = `[
  {"id": "1", "code": "aaa", "title": "One", "duration": "2:30", "category": "Nederpop", "thumb": "images/banaan.gif"},
  {"id": "2", "code": "bbb", "title": "Two", "duration": "4:00", "category": "Après-ski"},
  {"id": "3", "title": "No code"}
]`

func TestImportCmd_Metadata(t *testing.T) {
	assert.Equal(t, "import", importCmd.Use)
	assert.NotEmpty(t, importCmd.Short)
}

func TestRunImport_SQLite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := testConfig(dir, "")
	require.NoError(t, os.WriteFile(c.Output.Path, []byte(savedClips), 0o644))

	stats, err := runImport(ctx, c, "")
	require.NoError(t, err)
	assert.Equal(t, store.ImportStats{Categories: 2, Videos: 2, Links: 2}, stats)

	// A second import replaces the first.
	stats, err = runImport(ctx, c, c.Output.Path)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Videos)

	st, err := store.Open(ctx, "sqlite", c.Store.DatabaseURL)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	n, err := st.CountVideos(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunImport_MissingClipsFile(t *testing.T) {
	dir := t.TempDir()
	c := testConfig(dir, "")

	_, err := runImport(context.Background(), c, filepath.Join(dir, "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import: read clips")
}

func TestRunImport_UnsupportedDriver(t *testing.T) {
	dir := t.TempDir()
	c := testConfig(dir, "")
	c.Store.Driver = "mysql"
	require.NoError(t, os.WriteFile(c.Output.Path, []byte(savedClips), 0o644))

	_, err := runImport(context.Background(), c, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import: open store")
}
