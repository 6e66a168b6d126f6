//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	appsales "github.com/livesale/backend/internal/application/sales"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func newRedisContainerClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "start redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisIntegration(t *testing.T) {
	client := newRedisContainerClient(t)
	ctx := context.Background()

	t.Run("idempotency store claim, complete, replay", func(t *testing.T) {
		store := NewRedisIdempotencyStore(client, "test:idem:")

		ok, err := store.Claim(ctx, "k1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Claim(ctx, "k1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		pending, err := store.Lookup(ctx, "k1")
		require.NoError(t, err)
		assert.Nil(t, pending)

		require.NoError(t, store.Complete(ctx, "k1", []byte(`{"ok":true}`), time.Minute))
		replay, err := store.Lookup(ctx, "k1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(replay))

		require.NoError(t, store.Release(ctx, "k1"))
		ok, err = store.Claim(ctx, "k1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("sale lease excludes a second holder until released", func(t *testing.T) {
		locker := NewRedisSaleLocker(client, 5*time.Second, 100*time.Millisecond, WithRetryInterval(10*time.Millisecond))

		unlock, err := locker.Lock(ctx, "31999990000:2026-03-09")
		require.NoError(t, err)

		_, err = locker.Lock(ctx, "31999990000:2026-03-09")
		assert.ErrorIs(t, err, appsales.ErrSaleBusy)

		unlock()
		again, err := locker.Lock(ctx, "31999990000:2026-03-09")
		require.NoError(t, err)
		again()
	})

	t.Run("stale token does not release a newer lease", func(t *testing.T) {
		locker := NewRedisSaleLocker(client, 50*time.Millisecond, time.Second, WithRetryInterval(10*time.Millisecond))

		staleUnlock, err := locker.Lock(ctx, "expiring")
		require.NoError(t, err)
		time.Sleep(80 * time.Millisecond)

		freshUnlock, err := locker.Lock(ctx, "expiring")
		require.NoError(t, err)
		staleUnlock()

		holder, err := client.Get(ctx, "livesale:sale-lock:expiring").Result()
		require.NoError(t, err)
		assert.NotEmpty(t, holder, "the newer lease survives the stale release")
		freshUnlock()
	})
}
