// Package util contains internal key hashing helpers.
//
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Fnv64a hashes common key types using 64-bit FNV-1a.
// Supported: string, [16|32|64]byte, all int/uint widths, uintptr, fmt.Stringer.
// Panicking on unsupported types is deliberate to avoid silently poor hashing.
func Fnv64a[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return fnv64aFromBytes([]byte(v))
	case fmt.Stringer:
		return fnv64aFromBytes([]byte(v.String()))
	}
	if u, ok := asUint64(k); ok {
		return fnv64aFromUint64(u)
	}
	if b, ok := asBytes(k); ok {
		return fnv64aFromBytes(b)
	}
	panic(unsupported("Fnv64a", k))
}

// XXHash64 hashes the same key types as Fnv64a with xxHash64.
// It is the faster choice for long string keys.
func XXHash64[K comparable](k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return xxhash.Sum64String(v)
	case fmt.Stringer:
		return xxhash.Sum64String(v.String())
	}
	if u, ok := asUint64(k); ok {
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], u)
		return xxhash.Sum64(buf[:])
	}
	if b, ok := asBytes(k); ok {
		return xxhash.Sum64(b)
	}
	panic(unsupported("XXHash64", k))
}

// asUint64 widens integer-like keys; signed values keep their two's-complement bits.
func asUint64[K comparable](k K) (uint64, bool) {
	switch v := any(k).(type) {
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case uintptr:
		return uint64(v), true
	case int8:
		return uint64(uint8(v)), true
	case int16:
		return uint64(uint16(v)), true
	case int32:
		return uint64(uint32(v)), true
	case int64:
		return uint64(v), true
	case int:
		return uint64(v), true
	}
	return 0, false
}

func asBytes[K comparable](k K) ([]byte, bool) {
	switch v := any(k).(type) {
	case [16]byte:
		return v[:], true
	case [32]byte:
		return v[:], true
	case [64]byte:
		return v[:], true
	}
	return nil, false
}

func unsupported(fn string, k any) string {
	return fmt.Sprintf("util.%s: unsupported key type %T; convert the key or supply a custom Hasher", fn, k)
}

const (
	fnvOffset64 = 1469598103934665603
	fnvPrime64  = 1099511628211
)

func fnv64aFromBytes(b []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

func fnv64aFromUint64(u uint64) uint64 {
	// Hash the 8 little-endian bytes of u without allocating.
	h := uint64(fnvOffset64)
	for i := 0; i < 8; i++ {
		h ^= uint64(byte(u))
		h *= fnvPrime64
		u >>= 8
	}
	return h
}
