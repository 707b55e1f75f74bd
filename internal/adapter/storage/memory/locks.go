package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mexared-ledger/pkg/apperror"
)

// lockTable hands out one exclusive lock per key. Each lock is a channel
// with capacity one: sending acquires, receiving releases.
type lockTable struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{slots: make(map[string]chan struct{})}
}

func (l *lockTable) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *lockTable) acquire(ctx context.Context, key string, timeout time.Duration) error {
	ch := l.slot(key)

	select {
	case ch <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return apperror.ErrLockTimeout(fmt.Errorf("lock %s not acquired within %s", key, timeout))
	}
}

func (l *lockTable) release(key string) {
	<-l.slot(key)
}
