// Package lock serialises work on a single entity (a contract, a
// contract/milestone pair) across goroutines or across processes.
package lock

import (
	"context"
	"sync"
	"time"

	dErrors "africonnect/pkg/domain-errors"
)

// Locker acquires an exclusive lock on key. The returned release function must
// be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// WithLock runs fn while holding the lock for key.
func WithLock(ctx context.Context, l Locker, key string, fn func(ctx context.Context) error) error {
	release, err := l.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}

// DefaultTimeout bounds how long a caller waits for a lock when its context
// has no deadline.
const DefaultTimeout = 5 * time.Second

// Keyed is an in-process Locker with one lock per key. Distinct keys never
// contend, so a holder of one key may acquire another.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
	timeout time.Duration
}

type entry struct {
	ch   chan struct{}
	refs int
}

func NewKeyed(timeout time.Duration) *Keyed {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Keyed{entries: make(map[string]*entry), timeout: timeout}
}

func (k *Keyed) acquire(key string) *entry {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	return e
}

func (k *Keyed) forget(key string, e *entry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
}

func (k *Keyed) Lock(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "lock aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	e := k.acquire(key)
	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		k.forget(key, e)
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "lock aborted: context cancelled")
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			k.forget(key, e)
		})
	}, nil
}
