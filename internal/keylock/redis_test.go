package keylock

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redisClient connects to REDIS_ADDR or skips the test.
func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, client.Ping(ctx).Err())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newTestRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	l := NewRedisLocker(client, ttl)
	l.prefix = "ielts:test:" + uuid.NewString() + ":"
	return l
}

func TestRedisLocker_SerializesSameKey(t *testing.T) {
	client := redisClient(t)
	// Two lockers on one client behave like two service instances.
	first := newTestRedisLocker(client, 5*time.Second)
	second := &RedisLocker{client: client, prefix: first.prefix, ttl: 5 * time.Second, retry: 5 * time.Millisecond}
	lockers := []*RedisLocker{first, second}

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(l *RedisLocker) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			unlock, err := l.Lock(ctx, "answer:10:S1:-:1:5")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()
			time.Sleep(5 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}(lockers[i%2])
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	n, err := client.Exists(context.Background(), first.prefix+"answer:10:S1:-:1:5").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisLocker_HonoursContextWhilePolling(t *testing.T) {
	l := newTestRedisLocker(redisClient(t), 5*time.Second)
	unlock, err := l.Lock(context.Background(), "progress:10:S1:-")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = l.Lock(ctx, "progress:10:S1:-")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestRedisLocker_StaleUnlockKeepsNewOwner(t *testing.T) {
	client := redisClient(t)
	l := newTestRedisLocker(client, 100*time.Millisecond)
	key := "result:10:S1:-:1"

	staleUnlock, err := l.Lock(context.Background(), key)
	require.NoError(t, err)

	// The first holder outlives its ttl, so a second holder takes over.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	unlock, err := l.Lock(ctx, key)
	require.NoError(t, err)
	owner, err := client.Get(context.Background(), l.prefix+key).Result()
	require.NoError(t, err)

	staleUnlock()

	got, err := client.Get(context.Background(), l.prefix+key).Result()
	require.NoError(t, err)
	assert.Equal(t, owner, got)

	unlock()
	n, err := client.Exists(context.Background(), l.prefix+key).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
