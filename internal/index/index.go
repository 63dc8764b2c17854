// Package index holds the key indexes the cache maps bind to the recency
// list: each maps a key to the arena slot holding that key's node.
//
// Indexes manage only key -> slot; the list owns the nodes. The map that
// owns both keeps them in step: every live slot has exactly one key in the
// index and every indexed slot is live.
package index

import "github.com/IvanBrykalov/lrumap/internal/arena"

// Index is the capability set a map variant needs from its key structure.
type Index[K any] interface {
	// Lookup resolves k to its slot.
	Lookup(k K) (arena.Slot, bool)
	// Insert maps k to s, replacing any previous mapping.
	Insert(k K, s arena.Slot)
	// Delete drops k if present.
	Delete(k K)
	// Len returns the number of mapped keys.
	Len() int
}

// Ranger is an Index that can scan keys in order between two bounds.
type Ranger[K any] interface {
	Index[K]
	// Range calls fn for every key within [lo, hi] (as the bound kinds
	// say) in ascending order until fn returns false.
	Range(lo, hi Bound[K], fn func(k K, s arena.Slot) bool)
}

// BoundKind says how a Bound constrains a range end.
type BoundKind uint8

const (
	// Unbounded leaves the range end open.
	Unbounded BoundKind = iota
	// Included keeps keys equal to the bound.
	Included
	// Excluded drops keys equal to the bound.
	Excluded
)

// Bound is one end of a key range.
type Bound[K any] struct {
	Kind BoundKind
	Key  K
}
