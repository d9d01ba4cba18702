package archive

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreWritesFile(t *testing.T) {
	dir := t.TempDir()
	a, err := New(&Config{Dir: dir})
	require.NoError(t, err)
	require.True(t, a.Enabled())

	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	path, err := a.Store(context.Background(), "summary", "storefront", day, map[string]any{"ordersCount": 3})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "summary"), filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "storefront-2025-01-15-")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.EqualValues(t, 3, got["ordersCount"])
}

func TestStoreRerunsDoNotCollide(t *testing.T) {
	a, err := New(&Config{Dir: t.TempDir()})
	require.NoError(t, err)

	day := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	p1, err := a.Store(context.Background(), "summary", "storefront", day, "a")
	require.NoError(t, err)
	p2, err := a.Store(context.Background(), "summary", "storefront", day, "b")
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
}

func TestStoreDisabled(t *testing.T) {
	a, err := New(&Config{})
	require.NoError(t, err)
	assert.False(t, a.Enabled())

	path, err := a.Store(context.Background(), "summary", "storefront", time.Now(), "x")
	require.NoError(t, err)
	assert.Empty(t, path)
}
