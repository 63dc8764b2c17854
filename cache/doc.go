// Package cache provides fixed-capacity maps that evict the least recently
// used key when full: HashMap (hash-indexed) and OrderedMap (B-tree
// indexed, with recency-aware range queries). Both implement Map.
//
// Design
//
//   - Storage: entries live in an arena, a slab of at most Capacity nodes
//     addressed by integer slots rather than pointers. The nodes are
//     threaded into an MRU↔LRU doubly linked list; splicing, eviction and
//     removal are O(1) and reuse freed slots, so the slab never grows past
//     Capacity.
//
//   - Indexing: each map variant keeps its own key -> slot index (a Go map
//     or a Swiss table for HashMap, a B-tree for OrderedMap). The index
//     resolves keys; the list does all recency bookkeeping.
//
//   - Recency stamps: every structural change (insert, touch, eviction,
//     removal) advances a generation counter, and each entry records the
//     generation at which it last became most recently used. This gives
//     OrderedMap.MostRecentInRange a cheap comparison and Entry.Age its
//     meaning. Entry.Staleness counts changes since the Entry was created.
//
//   - Outcomes: Push reports what it displaced as a Removed value tagged
//     NothingRemoved, PreviousValue or Evicted.
//
//   - Cursors: Entry reads, touches, walks and removes entries in place.
//     Removing through an Entry consumes it; the removal methods hand back
//     a new Entry at the neighbour when there is one.
//
// Basic usage
//
//	m, err := cache.NewHash(cache.Options[string, int]{Capacity: 3})
//	if err != nil {
//	    return err
//	}
//	m.Push("a", 1)
//	m.Push("b", 2)
//	m.Push("c", 3)
//	r := m.Push("d", 4) // r.Kind == cache.Evicted, r.Key == "a"
//	v, ok := m.Get("b") // "b" is now the most recently used key
//
// Range queries
//
//	files, _ := cache.NewOrdered(cache.Options[uint64, *os.File]{Capacity: 512})
//	// The most recently used open file among ids 100..199:
//	if e, ok := files.MostRecentInRange(cache.Between[uint64](100, 199)); ok {
//	    _ = e.Value()
//	}
//
// Removing while walking
//
//	e, ok := m.TailEntry()
//	for ok && e != nil {
//	    if shouldDrop(e.Key()) {
//	        e = e.RemoveMovingPrevious()
//	        continue
//	    }
//	    ok = e.MovePrevious()
//	}
//
// Thread-safety & complexity
//
// Maps are not safe for concurrent use; wrap one in Locked to share it.
// HashMap operations are O(1) expected, OrderedMap operations O(log n);
// MostRecentInRange is proportional to the number of keys in the range.
// Observability hooks are in Options: Metrics (see metrics/prom for a
// Prometheus adapter), Logger (log/slog, Debug level only) and OnEvict.
package cache
