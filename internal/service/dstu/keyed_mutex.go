package dstu

import (
	"context"
	"sync"
)

// keyedMutex serializes work per key with FIFO ordering: each acquirer chains
// behind the previous tail for its key, so requests sharing a key are totally
// ordered by arrival while distinct keys never block each other.
type keyedMutex struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{tails: make(map[string]chan struct{})}
}

// lock acquires the mutex for key, waiting behind any in-flight holder.
// The returned release function is safe to call exactly once and must always
// be called (defer it); a caller that errors out while holding the lock must
// not leak it to the waiters behind it.
func (k *keyedMutex) lock(ctx context.Context, key string) (release func(), err error) {
	k.mu.Lock()
	prev := k.tails[key]
	next := make(chan struct{})
	k.tails[key] = next
	k.mu.Unlock()

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			// Keep the chain intact for waiters queued behind us, and clean
			// up the map entry if the abandoned slot turns out to be the tail.
			go func() {
				<-prev
				close(next)
				k.mu.Lock()
				if k.tails[key] == next {
					delete(k.tails, key)
				}
				k.mu.Unlock()
			}()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	release = func() {
		once.Do(func() {
			close(next)
			k.mu.Lock()
			if k.tails[key] == next {
				delete(k.tails, key)
			}
			k.mu.Unlock()
		})
	}
	return release, nil
}
