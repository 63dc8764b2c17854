package cache

import (
	"fmt"
	"iter"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// variant builds one map flavour; the contract tests run against each.
type variant[V any] struct {
	name string
	mk   func(capacity int) (Map[int, V], error)
}

func variants[V any]() []variant[V] {
	return []variant[V]{
		{"hash", func(c int) (Map[int, V], error) { return NewHash(Options[int, V]{Capacity: c}) }},
		{"hash-fnv", func(c int) (Map[int, V], error) {
			return NewHash(Options[int, V]{Capacity: c, Hasher: FNV[int]})
		}},
		{"hash-xxhash", func(c int) (Map[int, V], error) {
			return NewHash(Options[int, V]{Capacity: c, Hasher: XXHash[int]})
		}},
		{"ordered", func(c int) (Map[int, V], error) { return NewOrdered(Options[int, V]{Capacity: c}) }},
		{"ordered-deg2", func(c int) (Map[int, V], error) {
			return NewOrdered(Options[int, V]{Capacity: c, Degree: 2})
		}},
	}
}

// forEach runs fn as a parallel subtest per variant.
func forEach[V any](t *testing.T, capacity int, fn func(t *testing.T, m Map[int, V])) {
	t.Helper()
	for _, v := range variants[V]() {
		t.Run(v.name, func(t *testing.T) {
			t.Parallel()
			m, err := v.mk(capacity)
			if err != nil {
				t.Fatalf("construct: %v", err)
			}
			fn(t, m)
			checkConsistent(t, m)
		})
	}
}

// checkConsistent verifies the arena invariants and the index/list bijection.
func checkConsistent[V any](t *testing.T, m Map[int, V]) {
	t.Helper()
	var c *core[int, V]
	switch mm := m.(type) {
	case *HashMap[int, V]:
		c = mm.core
	case *OrderedMap[int, V]:
		c = mm.core
	default:
		t.Fatalf("unknown map type %T", m)
	}
	if err := c.list.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.idx.Len() != c.list.Len() {
		t.Fatalf("index has %d keys, list %d", c.idx.Len(), c.list.Len())
	}
	for k := range m.All() {
		s, ok := c.idx.Lookup(k)
		if !ok || c.list.Key(s) != k {
			t.Fatalf("key %d not indexed to its own slot", k)
		}
	}
}

// pairs turns k1, v1, k2, v2, ... into an ordered sequence.
func pairs(kv ...int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i := 0; i+1 < len(kv); i += 2 {
			if !yield(kv[i], kv[i+1]) {
				return
			}
		}
	}
}

// identity yields (1,1)..(n,n).
func identity(n int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for i := 1; i <= n; i++ {
			if !yield(i, i) {
				return
			}
		}
	}
}

func values(m Map[int, int]) []int {
	var out []int
	for _, v := range m.All() {
		out = append(out, v)
	}
	return out
}

func wantRemoved[K comparable, V comparable](t *testing.T, got, want Removed[K, V]) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Removed mismatch (-want +got):\n%s", diff)
	}
}

// Push/Get/Peek/Entry staleness on a capacity-2 map.
func TestMap_Basics(t *testing.T) {
	t.Parallel()
	forEach(t, 2, func(t *testing.T, m Map[int, int]) {
		if !m.IsEmpty() {
			t.Fatal("new map must be empty")
		}
		wantRemoved(t, m.Push(1, 1), Removed[int, int]{})
		wantRemoved(t, m.Push(2, 2), Removed[int, int]{})
		if m.Len() != 2 {
			t.Fatalf("len = %d", m.Len())
		}
		// A new key on a full map evicts the first push.
		wantRemoved(t, m.Push(3, 3), Removed[int, int]{Kind: Evicted, Key: 1, Value: 1})
		// Replacing 2 returns the previous value and makes 2 the MRU key...
		wantRemoved(t, m.Push(2, 22), Removed[int, int]{Kind: PreviousValue, Key: 2, Value: 2})
		// ...so the next new key evicts 3.
		wantRemoved(t, m.Push(4, 4), Removed[int, int]{Kind: Evicted, Key: 3, Value: 3})

		if v, ok := m.Get(2); !ok || v != 22 {
			t.Fatalf("Get(2) = %d,%v", v, ok)
		}
		if v, ok := m.Peek(4); !ok || v != 4 {
			t.Fatalf("Peek(4) = %d,%v", v, ok)
		}
		e2, _ := m.Entry(2)
		if a := e2.Age(); a != 0 {
			t.Fatalf("age(2) = %d, want 0", a)
		}
		e4, _ := m.Entry(4)
		if a := e4.Age(); a != 1 {
			t.Fatalf("age(4) = %d, want 1", a)
		}
		wantRemoved(t, m.Push(5, 5), Removed[int, int]{Kind: Evicted, Key: 4, Value: 4})
		if v, ok := m.Get(5); !ok || v != 5 {
			t.Fatalf("Get(5) on head = %d,%v", v, ok)
		}
		if k, _ := m.Head(); k != 5 {
			t.Fatalf("head = %d, want 5", k)
		}
	})
}

// Reordering from each list position, then age per key, then Drain.
func TestMap_Reordering(t *testing.T) {
	t.Parallel()
	forEach(t, 5, func(t *testing.T, m Map[int, int]) {
		m.Extend(identity(5))

		m.Get(2) // second to last
		if diff := cmp.Diff([]int{2, 5, 4, 3, 1}, values(m)); diff != "" {
			t.Fatalf("after Get(2):\n%s", diff)
		}
		m.Get(4) // middle
		if diff := cmp.Diff([]int{4, 2, 5, 3, 1}, values(m)); diff != "" {
			t.Fatalf("after Get(4):\n%s", diff)
		}
		m.Get(2) // second

		// Eight structural changes so far: five inserts and three touches.
		for k, want := range map[int]uint64{2: 0, 4: 1, 5: 3, 3: 5, 1: 7} {
			e, ok := m.Entry(k)
			if !ok {
				t.Fatalf("entry %d missing", k)
			}
			if got := e.Age(); got != want {
				t.Fatalf("age(%d) = %d, want %d", k, got, want)
			}
			if e.Staleness() != 0 {
				t.Fatalf("fresh cursor at %d reports staleness %d", k, e.Staleness())
			}
		}

		var drained []int
		for _, v := range m.Drain() {
			drained = append(drained, v)
		}
		if diff := cmp.Diff([]int{2, 4, 5, 3, 1}, drained); diff != "" {
			t.Fatalf("drain order:\n%s", diff)
		}
		if !m.IsEmpty() {
			t.Fatalf("drain left %d entries", m.Len())
		}
	})
}

// Stopping a Drain early leaves the rest in place.
func TestMap_DrainStopsEarly(t *testing.T) {
	t.Parallel()
	forEach(t, 4, func(t *testing.T, m Map[int, int]) {
		m.Extend(identity(4))
		for k := range m.Drain() {
			if k == 3 {
				break
			}
		}
		if diff := cmp.Diff([]int{2, 1}, m.Keys()); diff != "" {
			t.Fatalf("remaining keys:\n%s", diff)
		}
	})
}

// Cursor navigation at and between the list ends.
func TestEntry_Navigation(t *testing.T) {
	t.Parallel()
	forEach(t, 3, func(t *testing.T, m Map[int, int]) {
		if _, ok := m.HeadEntry(); ok {
			t.Fatal("empty map has no head entry")
		}

		m.Push(1, 1)
		e, _ := m.HeadEntry()
		if e.Key() != 1 || e.MoveNext() || e.MovePrevious() || e.Key() != 1 {
			t.Fatal("single entry: cursor must stay on 1")
		}

		m.Push(2, 2)
		e, _ = m.HeadEntry()
		steps := []struct {
			move func() bool
			ok   bool
			key  int
		}{
			{e.MoveNext, true, 1},
			{e.MoveNext, false, 1},
			{e.MovePrevious, true, 2},
			{e.MovePrevious, false, 2},
		}
		for i, s := range steps {
			if got := s.move(); got != s.ok || e.Key() != s.key || e.Value() != s.key {
				t.Fatalf("step %d: moved=%v key=%d, want %v %d", i, got, e.Key(), s.ok, s.key)
			}
		}

		m.Push(3, 3)
		e, _ = m.TailEntry()
		if e.Key() != 1 {
			t.Fatalf("tail = %d", e.Key())
		}
		e.Touch() // 1 becomes the head
		if e.MovePrevious() {
			t.Fatal("touched entry must be the head")
		}
		for _, want := range []int{3, 2} {
			if !e.MoveNext() || e.Key() != want {
				t.Fatalf("walk expected %d, at %d", want, e.Key())
			}
		}
		if e.MoveNext() {
			t.Fatal("walk must stop at the tail")
		}
	})
}

// Double-ended iteration, including an entry-anchored iterator.
func TestIter_DoubleEnded(t *testing.T) {
	t.Parallel()
	forEach(t, 5, func(t *testing.T, m Map[int, int]) {
		m.Extend(identity(5))

		var fwd, back []int
		for k := range m.All() {
			fwd = append(fwd, k)
		}
		for k := range m.Backward() {
			back = append(back, k)
		}
		if diff := cmp.Diff([]int{5, 4, 3, 2, 1}, fwd); diff != "" {
			t.Fatalf("forward:\n%s", diff)
		}
		if diff := cmp.Diff([]int{1, 2, 3, 4, 5}, back); diff != "" {
			t.Fatalf("backward:\n%s", diff)
		}

		// Both ends consume towards each other and meet once.
		it := m.Iter()
		if k, _, _ := it.NextBack(); k != 1 {
			t.Fatalf("first NextBack = %d", k)
		}
		if k, _, _ := it.Next(); k != 5 {
			t.Fatalf("first Next = %d", k)
		}
		var middle []int
		for k, _, ok := it.Next(); ok; k, _, ok = it.Next() {
			middle = append(middle, k)
		}
		if diff := cmp.Diff([]int{4, 3, 2}, middle); diff != "" {
			t.Fatalf("middle:\n%s", diff)
		}
		if _, _, ok := it.NextBack(); ok {
			t.Fatal("exhausted iterator must stay exhausted")
		}

		// Iterating does not reorder.
		if k, _ := m.Head(); k != 5 {
			t.Fatalf("head moved to %d", k)
		}

		e, _ := m.Entry(3)
		var from3 []int
		it3 := e.Iter()
		for k, _, ok := it3.Next(); ok; k, _, ok = it3.Next() {
			from3 = append(from3, k)
		}
		if diff := cmp.Diff([]int{3, 2, 1}, from3); diff != "" {
			t.Fatalf("entry iterator:\n%s", diff)
		}
		if k, _, _ := e.Iter().NextBack(); k != 1 {
			t.Fatalf("entry iterator back end = %d, want tail 1", k)
		}
	})
}

func TestIter_Empty(t *testing.T) {
	t.Parallel()
	forEach(t, 2, func(t *testing.T, m Map[int, int]) {
		it := m.Iter()
		if _, _, ok := it.Next(); ok {
			t.Fatal("Next on empty map")
		}
		if _, _, ok := it.NextBack(); ok {
			t.Fatal("NextBack on empty map")
		}
	})
}

// Removing through cursors, in both directions and at both ends.
func TestEntry_Removal(t *testing.T) {
	t.Parallel()
	forEach(t, 3, func(t *testing.T, m Map[int, int]) {
		m.Extend(identity(3))

		e, _ := m.HeadEntry()
		if next := e.RemoveMovingPrevious(); next != nil {
			t.Fatal("removing the head towards the head must return nil")
		}
		if _, ok := m.Get(3); ok || m.Len() != 2 {
			t.Fatalf("3 must be gone, len=%d", m.Len())
		}

		e, _ = m.TailEntry()
		if next := e.RemoveMovingNext(); next != nil {
			t.Fatal("removing the tail towards the tail must return nil")
		}
		if _, ok := m.Get(1); ok || m.Len() != 1 {
			t.Fatalf("1 must be gone, len=%d", m.Len())
		}

		e, _ = m.HeadEntry()
		if k, _ := e.Take(); k != 2 {
			t.Fatalf("took %d, want 2", k)
		}
		if !m.IsEmpty() {
			t.Fatal("map must be empty")
		}
		if _, ok := m.Head(); ok {
			t.Fatal("empty map has no head")
		}
		if _, ok := m.Tail(); ok {
			t.Fatal("empty map has no tail")
		}

		m.Extend(identity(3))
		e, _ = m.HeadEntry()
		e = e.RemoveMovingNext()
		if e == nil || e.Key() != 2 {
			t.Fatal("removing 3 towards the tail must land on 2")
		}
		e, _ = m.TailEntry()
		e = e.RemoveMovingPrevious()
		if e == nil || e.Key() != 2 {
			t.Fatal("removing 1 towards the head must land on 2")
		}
		k, v, next := e.TakeAndMoveNext()
		if k != 2 || v != 2 || next != nil {
			t.Fatalf("TakeAndMoveNext = %d,%d,%v", k, v, next)
		}
		if !m.IsEmpty() {
			t.Fatal("map must be empty")
		}
	})
}

// Remove-while-iterating: drop even keys walking from the tail.
func TestEntry_RemoveWhileWalking(t *testing.T) {
	t.Parallel()
	forEach(t, 8, func(t *testing.T, m Map[int, int]) {
		m.Extend(identity(8))

		var taken []int
		e, ok := m.TailEntry()
		for ok && e != nil {
			if e.Key()%2 == 0 {
				var k int
				k, _, e = e.TakeAndMovePrevious()
				taken = append(taken, k)
				continue
			}
			ok = e.MovePrevious()
		}
		if diff := cmp.Diff([]int{2, 4, 6, 8}, taken); diff != "" {
			t.Fatalf("taken:\n%s", diff)
		}
		if diff := cmp.Diff([]int{7, 5, 3, 1}, m.Keys()); diff != "" {
			t.Fatalf("kept:\n%s", diff)
		}
	})
}

// A consumed cursor panics instead of reading a recycled slot.
func TestEntry_ConsumedPanics(t *testing.T) {
	t.Parallel()
	forEach(t, 2, func(t *testing.T, m Map[int, int]) {
		m.Push(1, 1)
		e, _ := m.Entry(1)
		e.Take()
		m.Push(2, 2) // reuses the freed slot

		defer func() {
			if r := recover(); r != errConsumed {
				t.Fatalf("recover() = %v, want %q", r, errConsumed)
			}
		}()
		_ = e.Key()
	})
}

// Valid tracks mutations made behind the cursor's back.
func TestEntry_Valid(t *testing.T) {
	t.Parallel()
	forEach(t, 3, func(t *testing.T, m Map[int, int]) {
		m.Extend(identity(2))
		e, _ := m.Entry(1)
		if !e.Valid() {
			t.Fatal("fresh cursor must be valid")
		}
		e.Touch()
		m.Peek(2) // reads are not mutations
		if !e.Valid() {
			t.Fatal("own touch and peeks keep the cursor valid")
		}
		m.Push(3, 3)
		if e.Valid() {
			t.Fatal("a push behind the cursor must invalidate it")
		}
	})
}

// Staleness counts structural changes since the cursor was created.
func TestEntry_Staleness(t *testing.T) {
	t.Parallel()
	forEach(t, 3, func(t *testing.T, m Map[int, int]) {
		m.Extend(identity(3))
		e, _ := m.Entry(1)
		if e.Staleness() != 0 {
			t.Fatalf("fresh cursor: staleness %d, want 0", e.Staleness())
		}

		m.Peek(2)
		m.Get(42) // miss
		m.Contains(3)
		if e.Staleness() != 0 {
			t.Fatalf("reads must not count: staleness %d", e.Staleness())
		}

		m.Push(2, 20) // replace: one change
		if e.Staleness() != 1 {
			t.Fatalf("after one push: staleness %d, want 1", e.Staleness())
		}
		m.Get(3) // touch: one change
		if e.Staleness() != 2 {
			t.Fatalf("after a touch: staleness %d, want 2", e.Staleness())
		}
		e.Touch()
		if e.Staleness() != 3 || e.Age() != 0 {
			t.Fatalf("after own touch: staleness %d age %d, want 3 and 0", e.Staleness(), e.Age())
		}
		m.Push(4, 4) // evict then insert: two changes
		if e.Staleness() != 5 {
			t.Fatalf("after evicting push: staleness %d, want 5", e.Staleness())
		}
	})
}

// Cursor equality is by key and value.
func TestEntriesEqual(t *testing.T) {
	t.Parallel()
	forEach(t, 3, func(t *testing.T, m Map[int, int]) {
		m.Extend(pairs(1, 10, 2, 20))
		a, _ := m.Entry(1)
		b, _ := m.TailEntry()
		c, _ := m.HeadEntry()
		if !EntriesEqual(a, b) {
			t.Fatal("cursors at the same key/value must be equal")
		}
		if EntriesEqual(a, c) {
			t.Fatal("cursors at different keys must differ")
		}
	})
}

// Capacity 3 with string values: pushing a fourth key evicts the first.
func TestMap_EvictsOldest(t *testing.T) {
	t.Parallel()
	forEach(t, 3, func(t *testing.T, m Map[int, string]) {
		m.Push(1, "one")
		m.Push(2, "two")
		m.Push(3, "three")
		wantRemoved(t, m.Push(4, "four"), Removed[int, string]{Kind: Evicted, Key: 1, Value: "one"})
		if k, _ := m.Head(); k != 4 {
			t.Fatalf("head = %d", k)
		}
		if k, _ := m.Tail(); k != 2 {
			t.Fatalf("tail = %d", k)
		}
	})
}

// Pushing a present key on a full map updates in place.
func TestMap_UpdateNeverEvicts(t *testing.T) {
	t.Parallel()
	forEach(t, 2, func(t *testing.T, m Map[int, string]) {
		wantRemoved(t, m.Push(1, "a"), Removed[int, string]{})
		wantRemoved(t, m.Push(1, "b"), Removed[int, string]{Kind: PreviousValue, Key: 1, Value: "a"})
		if m.Len() != 1 {
			t.Fatalf("len = %d, want 1", m.Len())
		}
		m.Push(2, "c")
		r := m.Push(1, "d")
		if r.Kind != PreviousValue || m.Len() != 2 {
			t.Fatalf("update on full map: %v len=%d", r.Kind, m.Len())
		}
		if k, _ := m.Tail(); k != 2 {
			t.Fatalf("update must make 1 the MRU key; tail = %d", k)
		}
	})
}

func TestMap_CapacityOne(t *testing.T) {
	t.Parallel()
	forEach(t, 1, func(t *testing.T, m Map[int, int]) {
		m.Push(1, 1)
		wantRemoved(t, m.Push(2, 2), Removed[int, int]{Kind: Evicted, Key: 1, Value: 1})
		h, _ := m.Head()
		tl, _ := m.Tail()
		if h != 2 || tl != 2 || m.Len() != 1 || m.Cap() != 1 {
			t.Fatalf("head=%d tail=%d len=%d", h, tl, m.Len())
		}
	})
}

// Extend keeps the most recently pushed pairs that fit.
func TestMap_Extend(t *testing.T) {
	t.Parallel()
	forEach(t, 3, func(t *testing.T, m Map[int, int]) {
		m.Extend(identity(4))
		if diff := cmp.Diff([]int{4, 3, 2}, m.Keys()); diff != "" {
			t.Fatalf("keys:\n%s", diff)
		}
		m.Extend(pairs(2, 200, 9, 9))
		if diff := cmp.Diff([]int{9, 2, 4}, m.Keys()); diff != "" {
			t.Fatalf("keys after second extend:\n%s", diff)
		}
		if v, _ := m.Peek(2); v != 200 {
			t.Fatalf("2 = %d, want 200", v)
		}
	})
}

// Lookups on an empty map all come back empty.
func TestMap_Empty(t *testing.T) {
	t.Parallel()
	forEach(t, 4, func(t *testing.T, m Map[int, int]) {
		if _, ok := m.Head(); ok {
			t.Fatal("Head")
		}
		if _, ok := m.Tail(); ok {
			t.Fatal("Tail")
		}
		if _, ok := m.Get(1); ok {
			t.Fatal("Get")
		}
		if _, ok := m.Entry(1); ok {
			t.Fatal("Entry")
		}
		if m.Contains(1) || m.Len() != 0 || len(m.Keys()) != 0 {
			t.Fatal("empty map reports content")
		}
	})
}

// Get of an absent key leaves the order alone; Peek never reorders.
func TestMap_GetMissAndPeekKeepOrder(t *testing.T) {
	t.Parallel()
	forEach(t, 3, func(t *testing.T, m Map[int, int]) {
		m.Extend(identity(3))
		m.Get(42)
		m.Peek(1)
		m.Entry(1)
		m.Contains(2)
		if diff := cmp.Diff([]int{3, 2, 1}, m.Keys()); diff != "" {
			t.Fatalf("order changed:\n%s", diff)
		}
	})
}

// Cursor round-trip: Take returns what Peek saw and shrinks the map by one.
func TestEntry_TakeRoundTrip(t *testing.T) {
	t.Parallel()
	forEach(t, 4, func(t *testing.T, m Map[int, string]) {
		for i := 1; i <= 4; i++ {
			m.Push(i, fmt.Sprint("v", i))
		}
		want, _ := m.Peek(3)
		e, _ := m.Entry(3)
		k, v := e.Take()
		if k != 3 || v != want {
			t.Fatalf("Take = (%d,%q), want (3,%q)", k, v, want)
		}
		if _, ok := m.Get(3); ok || m.Len() != 3 {
			t.Fatalf("3 still present or len=%d", m.Len())
		}
	})
}
