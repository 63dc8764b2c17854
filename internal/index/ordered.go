package index

import (
	"github.com/google/btree"

	"github.com/IvanBrykalov/lrumap/internal/arena"
)

// DefaultDegree is the B-tree degree used when none is configured.
const DefaultDegree = 32

// BTree indexes keys in comparator order with a B-tree.
type BTree[K any] struct {
	t       *btree.BTreeG[item[K]]
	compare func(a, b K) int
}

type item[K any] struct {
	key  K
	slot arena.Slot
}

// NewBTree builds an ordered index. compare must define a total order:
// negative if a < b, zero if equal, positive if a > b.
func NewBTree[K any](degree int, compare func(a, b K) int) *BTree[K] {
	if degree < 2 {
		degree = DefaultDegree
	}
	less := func(a, b item[K]) bool { return compare(a.key, b.key) < 0 }
	return &BTree[K]{t: btree.NewG[item[K]](degree, less), compare: compare}
}

func (b *BTree[K]) Lookup(k K) (arena.Slot, bool) {
	it, ok := b.t.Get(item[K]{key: k})
	if !ok {
		return arena.None, false
	}
	return it.slot, true
}

func (b *BTree[K]) Insert(k K, s arena.Slot) { b.t.ReplaceOrInsert(item[K]{key: k, slot: s}) }
func (b *BTree[K]) Delete(k K)               { b.t.Delete(item[K]{key: k}) }
func (b *BTree[K]) Len() int                 { return b.t.Len() }

// Range visits keys within the bounds in ascending order. The scan starts
// at the lower bound and stops at the first key past the upper bound, so
// its cost is proportional to the keys in range. An inverted range visits
// nothing.
func (b *BTree[K]) Range(lo, hi Bound[K], fn func(k K, s arena.Slot) bool) {
	visit := func(it item[K]) bool {
		if lo.Kind == Excluded && b.compare(it.key, lo.Key) == 0 {
			return true
		}
		if hi.Kind != Unbounded {
			c := b.compare(it.key, hi.Key)
			if c > 0 || (c == 0 && hi.Kind == Excluded) {
				return false
			}
		}
		return fn(it.key, it.slot)
	}
	if lo.Kind == Unbounded {
		b.t.Ascend(visit)
		return
	}
	b.t.AscendGreaterOrEqual(item[K]{key: lo.Key}, visit)
}

var _ Ranger[int] = (*BTree[int])(nil)
