package cache

import (
	"cmp"
	"iter"

	"github.com/IvanBrykalov/lrumap/internal/arena"
	"github.com/IvanBrykalov/lrumap/internal/index"
)

// OrderedMap is an LRU map whose keys are kept in a B-tree, which adds
// range queries that respect recency. Lookups cost O(log n).
type OrderedMap[K, V any] struct {
	*core[K, V]
	tree index.Ranger[K]
}

// NewOrdered builds an OrderedMap for naturally ordered keys.
func NewOrdered[K cmp.Ordered, V any](opt Options[K, V]) (*OrderedMap[K, V], error) {
	return NewOrderedFunc(cmp.Compare[K], opt)
}

// NewOrderedFunc builds an OrderedMap ordered by compare, which must be a
// total order returning <0, 0 or >0 like cmp.Compare.
func NewOrderedFunc[K, V any](compare func(a, b K) int, opt Options[K, V]) (*OrderedMap[K, V], error) {
	if compare == nil {
		return nil, ErrNilCompare
	}
	opt, err := opt.withDefaults()
	if err != nil {
		return nil, err
	}
	tree := index.NewBTree(opt.Degree, compare)
	return &OrderedMap[K, V]{core: newCore[K, V](opt, tree), tree: tree}, nil
}

// MostRecentInRange returns a cursor at the most recently used entry whose
// key lies in r, or false if no key does. It does not change recency.
// The scan visits only the keys in r.
func (m *OrderedMap[K, V]) MostRecentInRange(r Range[K]) (*Entry[K, V], bool) {
	return m.MostRecentInRangeWhere(r, nil)
}

// MostRecentInRangeWhere is MostRecentInRange restricted to entries for
// which cond returns true. A nil cond accepts every entry.
func (m *OrderedMap[K, V]) MostRecentInRangeWhere(r Range[K], cond func(k K, v V) bool) (*Entry[K, V], bool) {
	best := arena.None
	var bestSeq uint64
	m.tree.Range(r.Lower.bound(), r.Upper.bound(), func(k K, s arena.Slot) bool {
		if cond != nil && !cond(k, m.list.Value(s)) {
			return true
		}
		if seq := m.list.Seq(s); best == arena.None || seq > bestSeq {
			best, bestSeq = s, seq
		}
		return true
	})
	if best == arena.None {
		return nil, false
	}
	return newEntry(m.core, best), true
}

// Ascend ranges over the entries with keys in r in ascending key order,
// without changing recency.
func (m *OrderedMap[K, V]) Ascend(r Range[K]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.tree.Range(r.Lower.bound(), r.Upper.bound(), func(k K, s arena.Slot) bool {
			return yield(k, m.list.Value(s))
		})
	}
}

// Bound is one end of a Range.
type Bound[K any] struct {
	kind index.BoundKind
	key  K
}

// Included bounds a range at k, keeping k.
func Included[K any](k K) Bound[K] { return Bound[K]{kind: index.Included, key: k} }

// Excluded bounds a range at k, dropping k.
func Excluded[K any](k K) Bound[K] { return Bound[K]{kind: index.Excluded, key: k} }

// Unbounded leaves a range end open.
func Unbounded[K any]() Bound[K] { return Bound[K]{} }

func (b Bound[K]) bound() index.Bound[K] { return index.Bound[K]{Kind: b.kind, Key: b.key} }

// Range is a key interval for OrderedMap queries.
type Range[K any] struct {
	Lower Bound[K]
	Upper Bound[K]
}

// Between is the closed range [lo, hi].
func Between[K any](lo, hi K) Range[K] { return Range[K]{Included(lo), Included(hi)} }

// HalfOpen is the range [lo, hi).
func HalfOpen[K any](lo, hi K) Range[K] { return Range[K]{Included(lo), Excluded(hi)} }

// AtLeast is the range [lo, ∞).
func AtLeast[K any](lo K) Range[K] { return Range[K]{Lower: Included(lo)} }

// AtMost is the range (-∞, hi].
func AtMost[K any](hi K) Range[K] { return Range[K]{Upper: Included(hi)} }

// Below is the range (-∞, hi).
func Below[K any](hi K) Range[K] { return Range[K]{Upper: Excluded(hi)} }

// Everything is the unbounded range.
func Everything[K any]() Range[K] { return Range[K]{} }
