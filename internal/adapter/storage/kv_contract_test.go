package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/storefront/internal/port"
)

// runKVContract exercises the behaviour every KVStore backend must share.
// prefix keeps keys of repeated runs against a shared server apart.
func runKVContract(t *testing.T, store port.KVStore, prefix string) {
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		_, found, err := store.Get(ctx, prefix+"missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("insert then versioned update", func(t *testing.T) {
		key := prefix + "products"

		v, err := store.Put(ctx, key, `[]`, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		_, err = store.Put(ctx, key, `[1]`, 0)
		assert.ErrorIs(t, err, port.ErrOptimisticLock)

		v, err = store.Put(ctx, key, `[1,2]`, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)

		// stale version
		_, err = store.Put(ctx, key, `[9]`, 1)
		assert.ErrorIs(t, err, port.ErrOptimisticLock)

		e, found, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, `[1,2]`, e.Value)
		assert.Equal(t, int64(2), e.Version)
	})

	t.Run("unconditional write", func(t *testing.T) {
		key := prefix + "siteName"

		v, err := store.Put(ctx, key, "Shop", port.AnyVersion)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		v, err = store.Put(ctx, key, "Shop 2", port.AnyVersion)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)

		e, _, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "Shop 2", e.Value)
	})

	t.Run("concurrent writers at the same version", func(t *testing.T) {
		key := prefix + "race"
		_, err := store.Put(ctx, key, "base", 0)
		require.NoError(t, err)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.Put(ctx, key, "w", 1); err == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})
}
