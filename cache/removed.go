package cache

// RemovedKind tags what a Push did to state that was already in the map.
type RemovedKind uint8

const (
	// NothingRemoved: the key was new and there was room for it.
	NothingRemoved RemovedKind = iota
	// PreviousValue: the key was present; its old value was replaced.
	PreviousValue
	// Evicted: the key was new and the LRU entry was dropped to make room.
	Evicted
)

func (k RemovedKind) String() string {
	switch k {
	case PreviousValue:
		return "previous-value"
	case Evicted:
		return "evicted"
	default:
		return "none"
	}
}

// Removed is the outcome of Push.
//
// For PreviousValue, Key is the pushed key and Value the value it held
// before. For Evicted, Key and Value are the dropped entry. For
// NothingRemoved both are zero.
type Removed[K, V any] struct {
	Kind  RemovedKind
	Key   K
	Value V
}

// Any reports whether Push displaced anything.
func (r Removed[K, V]) Any() bool { return r.Kind != NothingRemoved }
