package cache

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/IvanBrykalov/lrumap/internal/arena"
)

var (
	// ErrInvalidCapacity is returned by constructors when Capacity < 1.
	ErrInvalidCapacity = errors.New("cache: capacity must be at least 1")
	// ErrCapacityTooLarge is returned when Capacity exceeds MaxCapacity.
	ErrCapacityTooLarge = errors.New("cache: capacity exceeds MaxCapacity")
	// ErrNilCompare is returned by NewOrderedFunc when no comparator is given.
	ErrNilCompare = errors.New("cache: nil compare function")
)

// MaxCapacity is the largest supported Capacity.
const MaxCapacity = arena.MaxCapacity

// Metrics exposes map-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Hit and Miss are reported by Get.
	Hit()
	Miss()
	// Evict is reported when Push drops the LRU entry to make room.
	Evict()
	// Replace is reported when Push overwrites the value of a present key.
	Replace()
	// Size reports the entry count after a structural change.
	Size(entries int)
}

// Hasher is a hash strategy for HashMap. See FNV and XXHash.
type Hasher[K any] func(K) uint64

// Options configures a map. Zero values are safe except Capacity;
// defaults are applied by the constructors:
//   - nil Hasher  => Go built-in map (HashMap only)
//   - Degree < 2  => 32 (OrderedMap only)
//   - nil Metrics => NoopMetrics
//   - nil Logger  => discard
type Options[K, V any] struct {
	// Capacity is the fixed entry limit. Must be >= 1.
	Capacity int

	// Hasher selects the hash strategy of a HashMap. With a Hasher the
	// index is a Swiss table sized from Capacity; without one it is a
	// Go map with the runtime's seeded hashing.
	Hasher Hasher[K]

	// Degree is the B-tree degree of an OrderedMap's key index.
	Degree int

	// OnEvict is called synchronously for every entry Push evicts.
	// It must not mutate the map.
	OnEvict func(k K, v V)

	Metrics Metrics
	Logger  *slog.Logger
}

// withDefaults validates Capacity and fills in defaults.
func (o Options[K, V]) withDefaults() (Options[K, V], error) {
	if o.Capacity < 1 {
		return o, fmt.Errorf("%w: got %d", ErrInvalidCapacity, o.Capacity)
	}
	if o.Capacity > MaxCapacity {
		return o, fmt.Errorf("%w: got %d, max %d", ErrCapacityTooLarge, o.Capacity, MaxCapacity)
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o, nil
}
