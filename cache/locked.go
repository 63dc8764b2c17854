package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/IvanBrykalov/lrumap/internal/singleflight"
)

// ErrNoLoader is returned by GetOrLoad when the Locked map has no Loader.
var ErrNoLoader = errors.New("cache: no Loader provided")

// Loader fetches the value for a key missing from the map.
type Loader[K, V any] func(ctx context.Context, k K) (V, error)

// Locked wraps a Map with a mutex for callers that share one map between
// goroutines. Cursor and iterator work must go through Do so it runs
// under the lock.
type Locked[K comparable, V any] struct {
	mu     sync.Mutex
	m      Map[K, V]
	loader Loader[K, V]
	sf     singleflight.Group[K, V]
}

// NewLocked wraps m. loader may be nil if GetOrLoad is not used.
func NewLocked[K comparable, V any](m Map[K, V], loader Loader[K, V]) *Locked[K, V] {
	return &Locked[K, V]{m: m, loader: loader}
}

// Push is Map.Push under the lock.
func (l *Locked[K, V]) Push(k K, v V) Removed[K, V] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Push(k, v)
}

// Get is Map.Get under the lock.
func (l *Locked[K, V]) Get(k K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Get(k)
}

// Peek is Map.Peek under the lock.
func (l *Locked[K, V]) Peek(k K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Peek(k)
}

// Remove deletes k through its Entry and returns the removed value.
func (l *Locked[K, V]) Remove(k K) (V, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.m.Entry(k)
	if !ok {
		var zero V
		return zero, false
	}
	_, v := e.Take()
	return v, true
}

// Len is Map.Len under the lock.
func (l *Locked[K, V]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Len()
}

// Keys returns a snapshot of the keys, most recently used first.
func (l *Locked[K, V]) Keys() []K {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.m.Keys()
}

// Do runs fn with exclusive access to the map. Entries and iterators
// obtained inside fn must not escape it.
func (l *Locked[K, V]) Do(fn func(m Map[K, V])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.m)
}

// GetOrLoad returns the value for k, loading and pushing it on a miss.
// Concurrent loads of one key are coalesced; the loader runs without the
// lock held. A hit counts as a use.
func (l *Locked[K, V]) GetOrLoad(ctx context.Context, k K) (V, error) {
	if v, ok := l.Get(k); ok {
		return v, nil
	}
	if l.loader == nil {
		var zero V
		return zero, ErrNoLoader
	}
	v, err, _ := l.sf.Do(ctx, k, func() (V, error) {
		// Another flight may have filled k between our miss and now.
		if v, ok := l.Get(k); ok {
			return v, nil
		}
		v, err := l.loader(ctx, k)
		if err != nil {
			return v, fmt.Errorf("cache: load %v: %w", k, err)
		}
		l.Push(k, v)
		return v, nil
	})
	return v, err
}
