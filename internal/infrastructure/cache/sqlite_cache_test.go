package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*SQLiteCache, *time.Time) {
	t.Helper()
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewSQLiteCacheAt(filepath.Join(t.TempDir(), "nested", "cache.db"))
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestPutThenGetReturnsStoredResponse(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	pairs := []struct{ model, query, response string }{
		{"openai/gpt-4o-mini", "list files?", "ls -la"},
		{"openai/gpt-4o-mini", "List files?", "ls -l"},
		{"anthropic/claude-3.5", "list files?", "ls -A"},
		{"m", "покажи диски?", "df -h"},
	}
	for _, p := range pairs {
		require.NoError(t, c.Put(ctx, p.model, p.query, p.response))
	}
	for _, p := range pairs {
		got, ok, err := c.Get(ctx, p.model, p.query, 1000*time.Hour)
		require.NoError(t, err)
		require.True(t, ok, "expected hit for %s/%s", p.model, p.query)
		assert.Equal(t, p.response, got)
	}
}

func TestGetMissesUnknownKey(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok, err := c.Get(context.Background(), "m", "nothing here?", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPutOverwritesExistingEntry(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(t)

	require.NoError(t, c.Put(ctx, "m", "q", "first"))
	*clock = clock.Add(time.Minute)
	require.NoError(t, c.Put(ctx, "m", "q", "second"))

	got, ok, err := c.Get(ctx, "m", "q", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", got)

	entries, err := c.Entries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestGetTreatsStaleEntryAsAbsentWithoutDeletingIt(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(t)

	require.NoError(t, c.Put(ctx, "m", "q", "ls"))

	*clock = clock.Add(24 * time.Hour)
	_, ok, err := c.Get(ctx, "m", "q", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "entry exactly max age old is still a hit")

	*clock = clock.Add(time.Second)
	_, ok, err = c.Get(ctx, "m", "q", 24*time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := c.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ls", entries[0].Response)
}

func TestPruneRemovesOnlyStaleRows(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestCache(t)

	require.NoError(t, c.Put(ctx, "m", "old", "a"))
	*clock = clock.Add(48 * time.Hour)
	require.NoError(t, c.Put(ctx, "m", "new", "b"))

	removed, err := c.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	entries, err := c.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Query)

	require.NoError(t, c.Clear(ctx))
	entries, err = c.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpenFailureIsReturned(t *testing.T) {
	dir := t.TempDir()
	// A directory in place of the database file cannot be opened as SQLite.
	c := NewSQLiteCacheAt(dir)

	err := c.Put(context.Background(), "m", "q", "r")
	assert.Error(t, err)
}
