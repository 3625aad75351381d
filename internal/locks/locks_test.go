package locks

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseLocker(t *testing.T, l Locker) {
	ctx := context.Background()
	key := "trip:" + uuid.NewString()

	release, err := l.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, key, time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	other, err := l.Acquire(ctx, key+":other", time.Minute)
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Acquire(ctx, key, time.Minute)
	require.NoError(t, err)
	again()
}

func TestMemoryLocker(t *testing.T) {
	exerciseLocker(t, NewMemory())
}

func TestMemoryLeaseExpires(t *testing.T) {
	m := NewMemory()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	stale, err := m.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)

	now = now.Add(2 * time.Second)
	fresh, err := m.Acquire(context.Background(), "k", time.Minute)
	require.NoError(t, err)

	// releasing the expired lease must not free the new holder's lock
	stale()
	_, err = m.Acquire(context.Background(), "k", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)
	fresh()
}

func TestMemoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory().Acquire(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryOneWinnerUnderContention(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Acquire(context.Background(), "k", time.Minute); err == nil {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; run make test-redis")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())

	exerciseLocker(t, NewRedis(client, "test:lock:", nil))
}
