// Package arena implements the recency list shared by the cache maps: a
// capacity-bounded slab of nodes addressed by integer handles and threaded
// into a doubly linked MRU↔LRU list.
//
// The list knows nothing about keys beyond storing them; the key index that
// maps a key to its Slot is owned by the caller.
//
// Every structural operation (InsertAtHead, MoveToHead, EvictTail, Remove)
// bumps the list generation exactly once. Nodes record the generation at
// which they last became MRU, which lets callers compare recency of two
// nodes or compute staleness without walking the list.
//
// A List is not safe for concurrent use.
package arena

import "fmt"

// List is the arena-backed recency list. head is MRU, tail is LRU.
type List[K, V any] struct {
	nodes []node[K, V]

	head Slot
	tail Slot
	free Slot // vacant slots, chained through node.next

	len      int
	capacity int
	gen      uint64
}

// New allocates a list for at most capacity live nodes.
// It panics if capacity is outside [1, MaxCapacity]; the public
// constructors validate capacity before calling it.
func New[K, V any](capacity int) *List[K, V] {
	if capacity < 1 || capacity > MaxCapacity {
		panic(fmt.Sprintf("arena: capacity %d out of range [1, %d]", capacity, MaxCapacity))
	}
	return &List[K, V]{
		nodes:    make([]node[K, V], 0, capacity),
		head:     None,
		tail:     None,
		free:     None,
		capacity: capacity,
	}
}

// Len returns the number of live nodes.
func (l *List[K, V]) Len() int { return l.len }

// Cap returns the configured capacity.
func (l *List[K, V]) Cap() int { return l.capacity }

// Full reports whether a new node can only be inserted after an eviction.
func (l *List[K, V]) Full() bool { return l.len == l.capacity }

// Generation returns the number of structural operations performed so far.
func (l *List[K, V]) Generation() uint64 { return l.gen }

// Head returns the MRU slot.
func (l *List[K, V]) Head() (Slot, bool) { return l.head, l.head != None }

// Tail returns the LRU slot.
func (l *List[K, V]) Tail() (Slot, bool) { return l.tail, l.tail != None }

// InsertAtHead stores k/v in a free slot (recycled slots first, then fresh
// ones up to capacity) and links it as the new head. O(1).
// It panics if the list is full: callers must EvictTail first.
func (l *List[K, V]) InsertAtHead(k K, v V) Slot {
	if l.Full() {
		panic("arena: InsertAtHead on a full list")
	}
	s := l.alloc()
	l.gen++

	n := &l.nodes[s]
	n.key, n.val, n.live = k, v, true
	n.seq = l.gen
	l.linkHead(s)
	l.len++
	return s
}

// MoveToHead makes s the MRU node. Touching the head does not move it but
// still stamps a fresh sequence number: a touch is a use.
func (l *List[K, V]) MoveToHead(s Slot) {
	l.mustLive(s, "MoveToHead")
	l.gen++
	l.nodes[s].seq = l.gen
	if l.head == s {
		return
	}
	l.unlink(s)
	l.linkHead(s)
}

// EvictTail unlinks the LRU node, recycles its slot and returns its payload
// so the caller can drop the key from its index.
// It panics on an empty list.
func (l *List[K, V]) EvictTail() (K, V) {
	if l.tail == None {
		panic("arena: EvictTail on an empty list")
	}
	k, v, _, _ := l.Remove(l.tail)
	return k, v
}

// Remove unlinks an arbitrary live slot and recycles it. It returns the
// payload and the slots that were next to s (towards the tail and towards
// the head), either of which may be None.
func (l *List[K, V]) Remove(s Slot) (k K, v V, next, prev Slot) {
	l.mustLive(s, "Remove")
	n := &l.nodes[s]
	next, prev = n.next, n.prev
	l.unlink(s)

	k, v = n.key, n.val
	var (
		zk K
		zv V
	)
	n.key, n.val, n.live = zk, zv, false
	n.seq = 0
	n.prev = None
	n.next = l.free
	l.free = s

	l.len--
	l.gen++
	return k, v, next, prev
}

// Key returns the key stored at s.
func (l *List[K, V]) Key(s Slot) K {
	l.mustLive(s, "Key")
	return l.nodes[s].key
}

// Value returns the value stored at s.
func (l *List[K, V]) Value(s Slot) V {
	l.mustLive(s, "Value")
	return l.nodes[s].val
}

// Replace swaps the value stored at s and returns the old one.
// It is not a structural change: recency and generation are untouched.
func (l *List[K, V]) Replace(s Slot, v V) V {
	l.mustLive(s, "Replace")
	old := l.nodes[s].val
	l.nodes[s].val = v
	return old
}

// Next returns the neighbour of s towards the tail (less recently used).
func (l *List[K, V]) Next(s Slot) (Slot, bool) {
	l.mustLive(s, "Next")
	n := l.nodes[s].next
	return n, n != None
}

// Prev returns the neighbour of s towards the head (more recently used).
func (l *List[K, V]) Prev(s Slot) (Slot, bool) {
	l.mustLive(s, "Prev")
	p := l.nodes[s].prev
	return p, p != None
}

// Seq returns the generation at which s last became MRU.
func (l *List[K, V]) Seq(s Slot) uint64 {
	l.mustLive(s, "Seq")
	return l.nodes[s].seq
}

// Age returns how many structural operations happened since s last
// became MRU. Zero means s is the result of the latest operation.
func (l *List[K, V]) Age(s Slot) uint64 {
	return l.gen - l.Seq(s)
}

// Live reports whether s currently holds a node in the list.
func (l *List[K, V]) Live(s Slot) bool {
	return int(s) < len(l.nodes) && l.nodes[s].live
}

// Validate walks the list in both directions and checks the structural
// invariants. It is O(capacity) and meant for tests.
func (l *List[K, V]) Validate() error {
	if len(l.nodes) > l.capacity {
		return fmt.Errorf("arena: %d slots allocated for capacity %d", len(l.nodes), l.capacity)
	}
	if (l.head == None) != (l.tail == None) {
		return fmt.Errorf("arena: head=%d tail=%d disagree on emptiness", l.head, l.tail)
	}

	forward := 0
	prev := None
	var lastSeq uint64
	for s := l.head; s != None; s = l.nodes[s].next {
		n := &l.nodes[s]
		if !n.live {
			return fmt.Errorf("arena: free slot %d linked into the list", s)
		}
		if n.prev != prev {
			return fmt.Errorf("arena: slot %d prev=%d, want %d", s, n.prev, prev)
		}
		if forward > 0 && n.seq >= lastSeq {
			return fmt.Errorf("arena: slot %d seq %d not below predecessor seq %d", s, n.seq, lastSeq)
		}
		if n.seq > l.gen {
			return fmt.Errorf("arena: slot %d seq %d ahead of generation %d", s, n.seq, l.gen)
		}
		lastSeq = n.seq
		prev = s
		forward++
		if forward > l.len {
			return fmt.Errorf("arena: forward walk exceeds len %d (cycle?)", l.len)
		}
	}
	if prev != l.tail {
		return fmt.Errorf("arena: forward walk ended at %d, tail is %d", prev, l.tail)
	}
	if forward != l.len {
		return fmt.Errorf("arena: forward walk visited %d nodes, len is %d", forward, l.len)
	}

	backward := 0
	for s := l.tail; s != None; s = l.nodes[s].prev {
		backward++
		if backward > l.len {
			return fmt.Errorf("arena: backward walk exceeds len %d (cycle?)", l.len)
		}
	}
	if backward != l.len {
		return fmt.Errorf("arena: backward walk visited %d nodes, len is %d", backward, l.len)
	}

	vacant := 0
	for s := l.free; s != None; s = l.nodes[s].next {
		if l.nodes[s].live {
			return fmt.Errorf("arena: live slot %d on the free list", s)
		}
		vacant++
		if vacant > len(l.nodes) {
			return fmt.Errorf("arena: free list cycle")
		}
	}
	if vacant+l.len != len(l.nodes) {
		return fmt.Errorf("arena: %d free + %d live != %d allocated", vacant, l.len, len(l.nodes))
	}
	return nil
}

// ---- internals ----

// alloc pops the free list or grows the slab by one slot.
func (l *List[K, V]) alloc() Slot {
	if s := l.free; s != None {
		l.free = l.nodes[s].next
		l.nodes[s].next = None
		return s
	}
	l.nodes = append(l.nodes, node[K, V]{prev: None, next: None})
	return Slot(len(l.nodes) - 1)
}

// linkHead links an unlinked slot in front of the current head.
func (l *List[K, V]) linkHead(s Slot) {
	n := &l.nodes[s]
	n.prev = None
	n.next = l.head
	if l.head != None {
		l.nodes[l.head].prev = s
	} else {
		l.tail = s
	}
	l.head = s
}

// unlink detaches s from its neighbours and fixes head/tail.
func (l *List[K, V]) unlink(s Slot) {
	n := &l.nodes[s]
	if n.prev != None {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != None {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = None, None
}

func (l *List[K, V]) mustLive(s Slot, op string) {
	if !l.Live(s) {
		panic(fmt.Sprintf("arena: %s on dead slot %d", op, s))
	}
}
