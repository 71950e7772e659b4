package tucache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tucache.db")
	c, err := Open(path, false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestFreshMissingEntryIsNotFresh(t *testing.T) {
	c := newTestCache(t)
	fresh, err := c.Fresh("a.c", HashContent([]byte("int x;")))
	require.NoError(t, err)
	assert.False(t, fresh)
}

func TestRecordThenFreshMatchingHash(t *testing.T) {
	c := newTestCache(t)
	hash := HashContent([]byte("int x;"))
	require.NoError(t, c.Record("a.c", hash))

	fresh, err := c.Fresh("a.c", hash)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestFreshStaleAfterContentChanges(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Record("a.c", HashContent([]byte("int x;"))))

	fresh, err := c.Fresh("a.c", HashContent([]byte("int y;")))
	require.NoError(t, err)
	assert.False(t, fresh)
}

// TestRecordOverwritesPriorHash confirms Record is an upsert: recording a
// second hash for the same path replaces the first rather than erroring on
// a duplicate primary key.
func TestRecordOverwritesPriorHash(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Record("a.c", HashContent([]byte("int x;"))))
	require.NoError(t, c.Record("a.c", HashContent([]byte("int z;"))))

	fresh, err := c.Fresh("a.c", HashContent([]byte("int z;")))
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestHashContentIsStableAndSensitive(t *testing.T) {
	h1 := HashContent([]byte("int x;"))
	h2 := HashContent([]byte("int x;"))
	h3 := HashContent([]byte("int y;"))
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}
