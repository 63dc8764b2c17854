// Package singleflight coalesces concurrent loads of the same key.
package singleflight

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var errGoexit = errors.New("singleflight: load called runtime.Goexit")

// Group runs fn at most once per key among concurrent callers; the others
// wait for the shared result.
//
//   - The first caller for a key becomes the leader and runs fn.
//   - Publishing (val, err) happens-before close(done), so followers that
//     return from <-done observe the final values.
//   - Cancelling ctx in a follower unblocks only that follower. The
//     leader's fn keeps running; thread ctx into fn to stop it.
//   - A panic in fn is converted into an error for followers and re-raised
//     in the leader. If fn calls runtime.Goexit, followers get an error
//     and the key is released.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

type call[V any] struct {
	done chan struct{} // closed when val/err are published
	val  V
	err  error
}

// Do runs fn once for key and returns its result to every concurrent
// caller. shared reports whether the result was produced by another call.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, error)) (v V, err error, shared bool) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()

		select {
		case <-c.done:
			return c.val, c.err, true
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err(), true
		}
	}

	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	var panicked any
	normalReturn := false
	defer func() {
		// Neither returned nor panicked: fn called runtime.Goexit.
		if !normalReturn && panicked == nil {
			c.err = errGoexit
		}
		g.finish(key, c)
		if panicked != nil {
			panic(panicked)
		}
	}()
	func() {
		defer func() {
			if !normalReturn {
				// recover returns nil while a Goexit unwinds.
				if r := recover(); r != nil {
					panicked = r
					c.err = fmt.Errorf("singleflight: load panicked: %v", r)
				}
			}
		}()
		c.val, c.err = fn()
		normalReturn = true
	}()
	return c.val, c.err, false
}

// finish wakes the followers and drops the in-flight marker.
func (g *Group[K, V]) finish(key K, c *call[V]) {
	close(c.done)
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()
}

// InFlight returns the number of keys currently being loaded.
func (g *Group[K, V]) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.m)
}
