package cache

import "iter"

// Map is the contract shared by HashMap and OrderedMap: a fixed-capacity
// key/value map that evicts the least recently used key when a new key
// arrives and the map is full.
//
// Maps are sequential collections; see Locked for shared use.
// Entries and iterators borrow the map: do not mutate the map through any
// other path while one is in use.
type Map[K, V any] interface {
	// Push stores v under k and makes k the most recently used key.
	// A present key is updated in place and never causes an eviction;
	// a new key evicts the LRU entry when the map is full.
	Push(k K, v V) Removed[K, V]

	// Get returns the value for k and makes k the most recently used key.
	Get(k K) (V, bool)

	// Peek returns the value for k without changing recency.
	Peek(k K) (V, bool)

	// Contains reports whether k is present, without changing recency.
	Contains(k K) bool

	// Entry returns a cursor positioned at k without changing recency.
	Entry(k K) (*Entry[K, V], bool)

	// Head and Tail return the most and least recently used keys.
	Head() (K, bool)
	Tail() (K, bool)

	// HeadEntry and TailEntry return cursors at the list ends.
	HeadEntry() (*Entry[K, V], bool)
	TailEntry() (*Entry[K, V], bool)

	// Len returns the number of keys; Cap the fixed capacity.
	Len() int
	IsEmpty() bool
	Cap() int

	// Extend pushes every pair of seq in order, discarding the outcomes.
	Extend(seq iter.Seq2[K, V])

	// Iter returns a double-ended iterator: Next walks from the most
	// recently used entry, NextBack from the least recently used.
	Iter() *Iter[K, V]

	// All and Backward range over the entries MRU->LRU and LRU->MRU.
	All() iter.Seq2[K, V]
	Backward() iter.Seq2[K, V]

	// Keys returns the keys MRU->LRU.
	Keys() []K

	// Drain removes and yields entries MRU->LRU. Stopping early leaves
	// the remaining entries in place.
	Drain() iter.Seq2[K, V]
}

var (
	_ Map[string, int] = (*HashMap[string, int])(nil)
	_ Map[string, int] = (*OrderedMap[string, int])(nil)
)
