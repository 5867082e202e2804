package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "req-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	fresh, err = store.MarkProcessed(ctx, "req-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, fresh)

	fresh, err = store.MarkProcessed(ctx, "req-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestInMemoryIdempotencyStore_ReleaseFreesKey(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "req-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	require.NoError(t, store.Release(ctx, "req-1"))

	fresh, err = store.MarkProcessed(ctx, "req-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)

	// Releasing an unknown key is a no-op.
	require.NoError(t, store.Release(ctx, "req-unknown"))
}

func TestInMemoryIdempotencyStore_ExpiredKeyIsReusable(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	fresh, err := store.MarkProcessed(ctx, "req-1", time.Millisecond)
	require.NoError(t, err)
	assert.True(t, fresh)

	time.Sleep(5 * time.Millisecond)

	fresh, err = store.MarkProcessed(ctx, "req-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestInMemoryIdempotencyStore_ConcurrentMarksAdmitExactlyOne(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	const workers = 32
	var wg sync.WaitGroup
	admittedCount := 0
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fresh, err := store.MarkProcessed(context.Background(), "shared-key", time.Minute)
			assert.NoError(t, err)
			if fresh {
				mu.Lock()
				admittedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, admittedCount)
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestInMemoryIdempotencyStore_CleanupRemovesExpired(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, err := store.MarkProcessed(ctx, "stale", time.Millisecond)
	require.NoError(t, err)
	_, err = store.MarkProcessed(ctx, "live", time.Hour)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
}
