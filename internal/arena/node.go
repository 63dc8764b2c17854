package arena

import "math"

// Slot is a handle to a node in the arena. Handles are plain indexes into
// the node slab, so they stay valid when the slab grows and never alias
// memory outside the list.
type Slot uint32

// None is the sentinel handle: "no node" for list ends and empty lists.
const None Slot = math.MaxUint32

// MaxCapacity is the largest number of slots a List can address.
// None is reserved, so the last valid handle is MaxCapacity-1.
const MaxCapacity = int(math.MaxUint32 - 1)

// node is one slab element. A live node is linked into the recency list;
// a free node is chained through next onto the free list and holds zero
// key/value so the GC can release whatever they referenced.
type node[K, V any] struct {
	key K
	val V

	// Recency links: prev points towards the head (MRU), next towards the tail (LRU).
	prev Slot
	next Slot

	// seq is the list generation at which this node last became MRU.
	seq uint64

	live bool
}
