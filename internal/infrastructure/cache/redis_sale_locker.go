package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	appsales "github.com/livesale/backend/internal/application/sales"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the lease only when it still carries the caller's token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSaleLocker holds a short Redis lease per key so sales for the same
// customer and day are serialized across instances. The lease expires on its own
// if the holder dies.
type RedisSaleLocker struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	timeout   time.Duration
	retry     time.Duration
	logger    *zap.Logger
}

// RedisSaleLockerOption configures a RedisSaleLocker
type RedisSaleLockerOption func(*RedisSaleLocker)

// WithLockLogger sets the logger used when a release fails
func WithLockLogger(logger *zap.Logger) RedisSaleLockerOption {
	return func(l *RedisSaleLocker) { l.logger = logger }
}

// WithRetryInterval sets how often a busy lease is polled
func WithRetryInterval(d time.Duration) RedisSaleLockerOption {
	return func(l *RedisSaleLocker) { l.retry = d }
}

// NewRedisSaleLocker creates a locker with lease lifetime ttl and wait budget timeout
func NewRedisSaleLocker(client redis.UniversalClient, ttl, timeout time.Duration, opts ...RedisSaleLockerOption) *RedisSaleLocker {
	l := &RedisSaleLocker{
		client:    client,
		keyPrefix: "livesale:sale-lock:",
		ttl:       ttl,
		timeout:   timeout,
		retry:     25 * time.Millisecond,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Lock polls SET NX PX until the lease is taken or the wait budget is spent
func (l *RedisSaleLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	redisKey := l.keyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("acquire sale lease: %w", err)
		}
		if ok {
			return l.unlockFunc(redisKey, token), nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, appsales.ErrSaleBusy
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisSaleLocker) unlockFunc(redisKey, token string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warn("failed to release sale lease", zap.String("key", redisKey), zap.Error(err))
		}
	}
}

var _ appsales.SaleLocker = (*RedisSaleLocker)(nil)
