package index

import (
	"github.com/cockroachdb/swiss"

	"github.com/IvanBrykalov/lrumap/internal/arena"
)

// Builtin indexes keys with a Go map.
type Builtin[K comparable] struct {
	m map[K]arena.Slot
}

// NewBuiltin sizes the map for capacity keys up front; the owning list
// never holds more.
func NewBuiltin[K comparable](capacity int) *Builtin[K] {
	return &Builtin[K]{m: make(map[K]arena.Slot, capacity)}
}

func (b *Builtin[K]) Lookup(k K) (arena.Slot, bool) {
	s, ok := b.m[k]
	return s, ok
}

func (b *Builtin[K]) Insert(k K, s arena.Slot) { b.m[k] = s }
func (b *Builtin[K]) Delete(k K)               { delete(b.m, k) }
func (b *Builtin[K]) Len() int                 { return len(b.m) }

// Hashed indexes keys in a Swiss table driven by a caller-supplied hash
// function. The table is sized once from capacity since the owning list is
// capacity-bounded.
type Hashed[K comparable] struct {
	m *swiss.Map[K, arena.Slot]
}

// NewHashed builds a table for at most capacity keys using hash. The
// table's per-map seed is folded into every hash.
func NewHashed[K comparable](capacity int, hash func(K) uint64) *Hashed[K] {
	seeded := func(k *K, seed uintptr) uintptr {
		return uintptr(hash(*k) ^ uint64(seed))
	}
	return &Hashed[K]{m: swiss.New(capacity, swiss.WithHash[K, arena.Slot](seeded))}
}

func (h *Hashed[K]) Lookup(k K) (arena.Slot, bool) {
	s, ok := h.m.Get(k)
	if !ok {
		return arena.None, false
	}
	return s, true
}

func (h *Hashed[K]) Insert(k K, s arena.Slot) { h.m.Put(k, s) }
func (h *Hashed[K]) Delete(k K)               { h.m.Delete(k) }
func (h *Hashed[K]) Len() int                 { return h.m.Len() }

var (
	_ Index[string] = (*Builtin[string])(nil)
	_ Index[string] = (*Hashed[string])(nil)
)
