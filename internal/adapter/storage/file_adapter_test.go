package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestFileAdapter_Contract(t *testing.T) {
	store, err := NewFileAdapter(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	runKVContract(t, store, "")
}

func TestFileAdapter_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileAdapter(dir, nil)
	require.NoError(t, err)
	_, err = first.Put(ctx, "siteLogo", "https://x.test/logo.png", 0)
	require.NoError(t, err)

	second, err := NewFileAdapter(dir, nil)
	require.NoError(t, err)
	e, found, err := second.Get(ctx, "siteLogo")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "https://x.test/logo.png", e.Value)
	assert.Equal(t, int64(1), e.Version)
}

func TestFileAdapter_WatchReportsForeignWrites(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	dir := t.TempDir()

	local, err := NewFileAdapter(dir, zap.NewNop())
	require.NoError(t, err)
	other, err := NewFileAdapter(dir, zap.NewNop())
	require.NoError(t, err)

	changes, err := local.Watch(ctx)
	require.NoError(t, err)

	_, err = local.Put(ctx, "orders", "[]", 0)
	require.NoError(t, err)
	_, err = other.Put(ctx, "products", "[]", 0)
	require.NoError(t, err)

	select {
	case key := <-changes:
		assert.Equal(t, "products", key)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for foreign write")
	}

	cancel()
	for range changes {
	}
}

func TestFileAdapter_KeyEscaping(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileAdapter(dir, nil)
	require.NoError(t, err)

	_, err = store.Put(ctx, "a/b c", "v", 0)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	key, ok := store.keyFromPath(filepath.Join(dir, entries[0].Name()))
	require.True(t, ok)
	assert.Equal(t, "a/b c", key)
}
