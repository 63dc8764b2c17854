package cache

import (
	"context"
	"iter"
	"log/slog"

	"github.com/IvanBrykalov/lrumap/internal/arena"
	"github.com/IvanBrykalov/lrumap/internal/index"
)

// core binds the recency list to a key index. All recency bookkeeping
// lives in the list; core keeps the index in step with it.
// HashMap and OrderedMap embed it and differ only in their index.
type core[K, V any] struct {
	list *arena.List[K, V]
	idx  index.Index[K]
	opt  Options[K, V]
}

func newCore[K, V any](opt Options[K, V], idx index.Index[K]) *core[K, V] {
	return &core[K, V]{
		list: arena.New[K, V](opt.Capacity),
		idx:  idx,
		opt:  opt,
	}
}

// Push stores v under k and makes k the most recently used key.
//
// If k is present its value is replaced in place and the outcome is
// PreviousValue; the length does not change. Otherwise, when the map is
// full, the LRU entry is evicted first and the outcome is Evicted.
func (c *core[K, V]) Push(k K, v V) Removed[K, V] {
	if s, ok := c.idx.Lookup(k); ok {
		old := c.list.Replace(s, v)
		c.list.MoveToHead(s)
		c.opt.Metrics.Replace()
		return Removed[K, V]{Kind: PreviousValue, Key: k, Value: old}
	}

	var out Removed[K, V]
	if c.list.Full() {
		ek, ev := c.list.EvictTail()
		c.idx.Delete(ek)
		out = Removed[K, V]{Kind: Evicted, Key: ek, Value: ev}
	}
	c.idx.Insert(k, c.list.InsertAtHead(k, v))
	c.opt.Metrics.Size(c.list.Len())

	if out.Kind == Evicted {
		c.evicted(out.Key, out.Value)
	}
	return out
}

// evicted runs the eviction hooks once the map is consistent again.
func (c *core[K, V]) evicted(k K, v V) {
	c.opt.Metrics.Evict()
	if c.opt.Logger.Enabled(context.Background(), slog.LevelDebug) {
		c.opt.Logger.Debug("evicted least recently used entry",
			"key", k,
			"len", c.list.Len(),
			"generation", c.list.Generation(),
		)
	}
	if cb := c.opt.OnEvict; cb != nil {
		cb(k, v)
	}
}

// Get returns the value for k and makes k the most recently used key.
// A miss has no side effects beyond the Miss metric.
func (c *core[K, V]) Get(k K) (V, bool) {
	s, ok := c.idx.Lookup(k)
	if !ok {
		c.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	c.list.MoveToHead(s)
	c.opt.Metrics.Hit()
	return c.list.Value(s), true
}

// Peek returns the value for k without changing recency.
func (c *core[K, V]) Peek(k K) (V, bool) {
	s, ok := c.idx.Lookup(k)
	if !ok {
		var zero V
		return zero, false
	}
	return c.list.Value(s), true
}

// Contains reports whether k is present, without changing recency.
func (c *core[K, V]) Contains(k K) bool {
	_, ok := c.idx.Lookup(k)
	return ok
}

// Entry returns a cursor positioned at k. Recency is not changed.
func (c *core[K, V]) Entry(k K) (*Entry[K, V], bool) {
	s, ok := c.idx.Lookup(k)
	if !ok {
		return nil, false
	}
	return newEntry(c, s), true
}

// Head returns the most recently used key.
func (c *core[K, V]) Head() (K, bool) { return c.keyAt(c.list.Head()) }

// Tail returns the least recently used key.
func (c *core[K, V]) Tail() (K, bool) { return c.keyAt(c.list.Tail()) }

func (c *core[K, V]) keyAt(s arena.Slot, ok bool) (K, bool) {
	if !ok {
		var zero K
		return zero, false
	}
	return c.list.Key(s), true
}

// HeadEntry returns a cursor at the most recently used entry.
func (c *core[K, V]) HeadEntry() (*Entry[K, V], bool) { return c.entryAt(c.list.Head()) }

// TailEntry returns a cursor at the least recently used entry.
func (c *core[K, V]) TailEntry() (*Entry[K, V], bool) { return c.entryAt(c.list.Tail()) }

func (c *core[K, V]) entryAt(s arena.Slot, ok bool) (*Entry[K, V], bool) {
	if !ok {
		return nil, false
	}
	return newEntry(c, s), true
}

func (c *core[K, V]) Len() int      { return c.list.Len() }
func (c *core[K, V]) IsEmpty() bool { return c.list.Len() == 0 }
func (c *core[K, V]) Cap() int      { return c.list.Cap() }

// Extend pushes each pair in order. The most recently pushed pairs that
// fit in capacity remain.
func (c *core[K, V]) Extend(seq iter.Seq2[K, V]) {
	for k, v := range seq {
		c.Push(k, v)
	}
}

// Iter returns a fresh double-ended iterator over all entries.
func (c *core[K, V]) Iter() *Iter[K, V] {
	head, _ := c.list.Head()
	tail, _ := c.list.Tail()
	return newIter(c.list, head, tail)
}

// All ranges over the entries from most to least recently used.
func (c *core[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := c.Iter()
		for k, v, ok := it.Next(); ok; k, v, ok = it.Next() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Backward ranges over the entries from least to most recently used.
func (c *core[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := c.Iter()
		for k, v, ok := it.NextBack(); ok; k, v, ok = it.NextBack() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys returns the keys from most to least recently used.
func (c *core[K, V]) Keys() []K {
	out := make([]K, 0, c.list.Len())
	for k := range c.All() {
		out = append(out, k)
	}
	return out
}

// Drain removes and yields entries from most to least recently used.
func (c *core[K, V]) Drain() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		n := 0
		defer func() {
			if n > 0 && c.opt.Logger.Enabled(context.Background(), slog.LevelDebug) {
				c.opt.Logger.Debug("drained entries", "count", n, "remaining", c.list.Len())
			}
		}()
		for {
			s, ok := c.list.Head()
			if !ok {
				return
			}
			k, v, _, _ := c.take(s)
			n++
			if !yield(k, v) {
				return
			}
		}
	}
}

// take removes the node at s from both the list and the index, returning
// its payload and former neighbours (towards tail, towards head).
func (c *core[K, V]) take(s arena.Slot) (k K, v V, next, prev arena.Slot) {
	k, v, next, prev = c.list.Remove(s)
	c.idx.Delete(k)
	c.opt.Metrics.Size(c.list.Len())
	return k, v, next, prev
}
