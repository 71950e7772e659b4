package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/ccore/internal/tucache"
)

func writeTempC(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckFileCleanTranslationUnitHasNoDiagnostics(t *testing.T) {
	path := writeTempC(t, "ok.c", "int add(int a, int b) { return a + b; }\n")
	res, err := checkFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Empty(t, res.Diags)
}

func TestCheckFileReportsUnknownIdentifier(t *testing.T) {
	path := writeTempC(t, "bad.c", "int f() { return undeclared; }\n")
	res, err := checkFile(context.Background(), path, nil)
	require.NoError(t, err)
	require.NotEmpty(t, res.Diags)
	require.NotEmpty(t, res.Messages)
	assert.Contains(t, res.Messages[0], "undeclared identifier")
}

func TestCheckFileWithCacheSkipsUnchangedContent(t *testing.T) {
	path := writeTempC(t, "ok.c", "int add(int a, int b) { return a + b; }\n")
	cachePath := filepath.Join(t.TempDir(), "tucache.db")
	cache, err := tucache.Open(cachePath, false)
	require.NoError(t, err)
	defer cache.Close()

	first, err := checkFile(context.Background(), path, cache)
	require.NoError(t, err)
	assert.False(t, first.Skipped)

	second, err := checkFile(context.Background(), path, cache)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
}

func TestDiscoverFilesWalksDirectoryForCSources(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.c"), []byte("int a;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.c"), []byte("int b;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	files, err := discoverFiles([]string{dir})
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.True(t, isCSource(f))
	}
}

func TestDiscoverFilesPassesThroughExplicitFile(t *testing.T) {
	path := writeTempC(t, "single.c", "int x;")
	files, err := discoverFiles([]string{path})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, path, files[0])
}
