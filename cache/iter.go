package cache

import "github.com/IvanBrykalov/lrumap/internal/arena"

// Iter is a double-ended iterator over a map's entries in recency order.
// Next consumes from the front (towards the tail), NextBack from the back
// (towards the head); the two ends meet and the iterator is then done, so
// every entry is yielded at most once. Iterating does not change recency.
//
// The map must not be mutated while an Iter is in use.
type Iter[K, V any] struct {
	list  *arena.List[K, V]
	front arena.Slot
	back  arena.Slot
	done  bool
}

func newIter[K, V any](l *arena.List[K, V], front, back arena.Slot) *Iter[K, V] {
	return &Iter[K, V]{
		list:  l,
		front: front,
		back:  back,
		done:  front == arena.None || back == arena.None,
	}
}

// Next yields the front entry and advances towards the tail.
func (it *Iter[K, V]) Next() (k K, v V, ok bool) {
	if it.done {
		return k, v, false
	}
	s := it.front
	if s == it.back {
		it.done = true
	} else {
		it.front, _ = it.list.Next(s)
	}
	return it.list.Key(s), it.list.Value(s), true
}

// NextBack yields the back entry and advances towards the head.
func (it *Iter[K, V]) NextBack() (k K, v V, ok bool) {
	if it.done {
		return k, v, false
	}
	s := it.back
	if s == it.front {
		it.done = true
	} else {
		it.back, _ = it.list.Prev(s)
	}
	return it.list.Key(s), it.list.Value(s), true
}
