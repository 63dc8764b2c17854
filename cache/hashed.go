package cache

import (
	"github.com/IvanBrykalov/lrumap/internal/index"
	"github.com/IvanBrykalov/lrumap/internal/util"
)

// HashMap is an LRU map whose keys are indexed by hashing.
// Lookups cost one hash-table probe plus O(1) list splicing.
type HashMap[K comparable, V any] struct {
	*core[K, V]
}

// NewHash builds a HashMap holding at most opt.Capacity keys.
// opt.Hasher picks the hash strategy; nil uses a Go map.
func NewHash[K comparable, V any](opt Options[K, V]) (*HashMap[K, V], error) {
	opt, err := opt.withDefaults()
	if err != nil {
		return nil, err
	}
	var idx index.Index[K]
	if opt.Hasher != nil {
		idx = index.NewHashed[K](opt.Capacity, opt.Hasher)
	} else {
		idx = index.NewBuiltin[K](opt.Capacity)
	}
	return &HashMap[K, V]{core: newCore(opt, idx)}, nil
}

// FNV hashes common key types with 64-bit FNV-1a. It panics on key types
// it does not know (anything but strings, byte arrays, integers and
// fmt.Stringer).
func FNV[K comparable](k K) uint64 { return util.Fnv64a(k) }

// XXHash hashes the same key types as FNV with xxHash64.
func XXHash[K comparable](k K) uint64 { return util.XXHash64(k) }
