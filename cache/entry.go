package cache

import "github.com/IvanBrykalov/lrumap/internal/arena"

const errConsumed = "cache: Entry used after it was removed"

// Entry is a cursor at one entry of a map. It can read the entry, walk
// towards the head or tail, touch the entry, and remove it mid-walk
// without resolving the key again.
//
// An Entry borrows its map: it stays meaningful only while the map is
// mutated through this Entry alone. Valid reports whether that held.
//
// Every removing method consumes the receiver: afterwards any call on it
// panics. Methods that move on return a new Entry for the neighbour, or
// nil when there is none.
type Entry[K, V any] struct {
	c      *core[K, V]
	slot   arena.Slot
	minted uint64 // list generation when the Entry was created
	gen    uint64 // list generation when minted or last changed through this Entry
}

func newEntry[K, V any](c *core[K, V], s arena.Slot) *Entry[K, V] {
	g := c.list.Generation()
	return &Entry[K, V]{c: c, slot: s, minted: g, gen: g}
}

func (e *Entry[K, V]) owner() *core[K, V] {
	if e == nil || e.c == nil {
		panic(errConsumed)
	}
	return e.c
}

// Key returns the entry's key.
func (e *Entry[K, V]) Key() K { return e.owner().list.Key(e.slot) }

// Value returns the entry's value without changing recency.
func (e *Entry[K, V]) Value() V { return e.owner().list.Value(e.slot) }

// Touch makes the entry the most recently used one.
func (e *Entry[K, V]) Touch() {
	c := e.owner()
	c.list.MoveToHead(e.slot)
	e.gen = c.list.Generation()
}

// Staleness returns how many structural changes the map went through
// since this Entry was created, including changes made through it. Zero
// means the map has not been mutated since.
func (e *Entry[K, V]) Staleness() uint64 { return e.owner().list.Generation() - e.minted }

// Age returns how many structural changes the map went through since the
// entry was last made most recently used. Zero means it is the product of
// the latest change; ages strictly increase from head to tail.
func (e *Entry[K, V]) Age() uint64 { return e.owner().list.Age(e.slot) }

// Valid reports whether the map has not been structurally changed, other
// than through this Entry, since the Entry was created. A false result
// means the cursor's slot may now hold an unrelated key.
func (e *Entry[K, V]) Valid() bool {
	return e != nil && e.c != nil && e.c.list.Generation() == e.gen && e.c.list.Live(e.slot)
}

// MoveNext moves to the next less recently used entry. At the tail it
// returns false and stays put.
func (e *Entry[K, V]) MoveNext() bool {
	n, ok := e.owner().list.Next(e.slot)
	if ok {
		e.slot = n
	}
	return ok
}

// MovePrevious moves to the next more recently used entry. At the head
// it returns false and stays put.
func (e *Entry[K, V]) MovePrevious() bool {
	p, ok := e.owner().list.Prev(e.slot)
	if ok {
		e.slot = p
	}
	return ok
}

// Iter returns an iterator whose front starts at this entry and whose
// back starts at the tail.
func (e *Entry[K, V]) Iter() *Iter[K, V] {
	c := e.owner()
	tail, _ := c.list.Tail()
	return newIter(c.list, e.slot, tail)
}

// Take removes the entry and returns its key and value.
func (e *Entry[K, V]) Take() (K, V) {
	k, v, _ := e.take(true)
	return k, v
}

// TakeAndMoveNext removes the entry and returns it along with a cursor at
// the entry that followed it (less recently used), or nil at the tail.
func (e *Entry[K, V]) TakeAndMoveNext() (K, V, *Entry[K, V]) { return e.take(true) }

// TakeAndMovePrevious removes the entry and returns it along with a cursor
// at the entry that preceded it (more recently used), or nil at the head.
func (e *Entry[K, V]) TakeAndMovePrevious() (K, V, *Entry[K, V]) { return e.take(false) }

// RemoveMovingNext is TakeAndMoveNext without the removed payload.
func (e *Entry[K, V]) RemoveMovingNext() *Entry[K, V] {
	_, _, next := e.take(true)
	return next
}

// RemoveMovingPrevious is TakeAndMovePrevious without the removed payload.
func (e *Entry[K, V]) RemoveMovingPrevious() *Entry[K, V] {
	_, _, prev := e.take(false)
	return prev
}

func (e *Entry[K, V]) take(towardsTail bool) (K, V, *Entry[K, V]) {
	c := e.owner()
	k, v, next, prev := c.take(e.slot)
	e.c, e.slot = nil, arena.None

	to := prev
	if towardsTail {
		to = next
	}
	if to == arena.None {
		return k, v, nil
	}
	return k, v, newEntry(c, to)
}

// EntriesEqual compares two cursors by key and value, not by position.
func EntriesEqual[K, V comparable](a, b *Entry[K, V]) bool {
	return a.Key() == b.Key() && a.Value() == b.Value()
}
