package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appsales "github.com/livesale/backend/internal/application/sales"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestKeyedLocker_SerializesSameKey(t *testing.T) {
	defer goleak.VerifyNone(t)

	locker := NewKeyedLocker(time.Second)

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "31999990000:2026-03-09")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 0, locker.Len(), "idle keys are dropped")
}

func TestKeyedLocker_DifferentKeysDoNotBlock(t *testing.T) {
	locker := NewKeyedLocker(50 * time.Millisecond)

	unlockA, err := locker.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := locker.Lock(context.Background(), "b")
	require.NoError(t, err)
	unlockB()
}

func TestKeyedLocker_TimesOutAsBusy(t *testing.T) {
	defer goleak.VerifyNone(t)

	locker := NewKeyedLocker(20 * time.Millisecond)

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	_, err = locker.Lock(context.Background(), "k")
	assert.ErrorIs(t, err, appsales.ErrSaleBusy)

	unlock()
	unlock()
	assert.Equal(t, 0, locker.Len())
}

func TestKeyedLocker_CanceledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	locker := NewKeyedLocker(0)

	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

type recordingLocker struct {
	name string
	log  *[]string
	err  error
}

func (r recordingLocker) Lock(context.Context, string) (func(), error) {
	if r.err != nil {
		return nil, r.err
	}
	*r.log = append(*r.log, "lock "+r.name)
	return func() { *r.log = append(*r.log, "unlock "+r.name) }, nil
}

func TestChainedLocker(t *testing.T) {
	t.Run("releases in reverse order", func(t *testing.T) {
		var log []string
		chain := ChainedLocker{recordingLocker{name: "local", log: &log}, recordingLocker{name: "redis", log: &log}}

		unlock, err := chain.Lock(context.Background(), "k")
		require.NoError(t, err)
		unlock()

		assert.Equal(t, []string{"lock local", "lock redis", "unlock redis", "unlock local"}, log)
	})

	t.Run("failure releases what was taken", func(t *testing.T) {
		var log []string
		boom := errors.New("redis down")
		chain := ChainedLocker{recordingLocker{name: "local", log: &log}, recordingLocker{name: "redis", log: &log, err: boom}}

		_, err := chain.Lock(context.Background(), "k")

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"lock local", "unlock local"}, log)
	})
}
