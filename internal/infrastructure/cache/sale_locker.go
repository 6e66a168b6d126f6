package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	appsales "github.com/livesale/backend/internal/application/sales"
)

// KeyedLocker serializes callers per key inside one process. Entries are
// reference counted and dropped once no caller holds or waits for them.
type KeyedLocker struct {
	mu      sync.Mutex
	entries map[string]*keyedEntry
	timeout time.Duration
}

type keyedEntry struct {
	sem  chan struct{}
	refs int
}

// NewKeyedLocker creates a locker. A positive timeout bounds how long Lock waits.
func NewKeyedLocker(timeout time.Duration) *KeyedLocker {
	return &KeyedLocker{
		entries: make(map[string]*keyedEntry),
		timeout: timeout,
	}
}

// Lock blocks until key is free, ctx ends, or the wait budget runs out
func (l *KeyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	e := l.acquireEntry(key)
	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.releaseEntry(key, e)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, appsales.ErrSaleBusy
		}
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.releaseEntry(key, e)
		})
	}, nil
}

func (l *KeyedLocker) acquireEntry(key string) *keyedEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		e = &keyedEntry{sem: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	return e
}

func (l *KeyedLocker) releaseEntry(key string, e *keyedEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// Len returns the number of keys currently held or awaited
func (l *KeyedLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// ChainedLocker takes each locker in order and releases them in reverse
type ChainedLocker []appsales.SaleLocker

// Lock acquires every lock or none
func (c ChainedLocker) Lock(ctx context.Context, key string) (func(), error) {
	unlocks := make([]func(), 0, len(c))
	release := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, locker := range c {
		unlock, err := locker.Lock(ctx, key)
		if err != nil {
			release()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

var (
	_ appsales.SaleLocker = (*KeyedLocker)(nil)
	_ appsales.SaleLocker = ChainedLocker(nil)
)
