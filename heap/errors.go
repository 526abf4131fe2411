package heap

import "fmt"

// CorruptionKind classifies memory-corruption errors. These are programmer
// errors, not runtime conditions: the heap detects them and stops loudly
// rather than degrading.
type CorruptionKind uint8

const (
	// UseAfterFree: a release or retain reached an object whose refcount
	// had already hit zero (or whose table slot is already gone).
	UseAfterFree CorruptionKind = iota
	// DoubleFree: a decrement produced a negative count. Should be
	// unreachable given the UseAfterFree check, but both checks are kept.
	DoubleFree
	// NoActivePool: autorelease called with an empty pool stack. The
	// object is guaranteed to leak since no pool will ever release it.
	NoActivePool
	// PoolImbalance: more pool pops than pushes observed.
	PoolImbalance
	// OutOfMemory: the underlying allocation path failed (here: handle ID
	// space exhausted).
	OutOfMemory
)

var corruptionNames = map[CorruptionKind]string{
	UseAfterFree:  "use-after-free",
	DoubleFree:    "double-free",
	NoActivePool:  "no-active-pool",
	PoolImbalance: "pool-imbalance",
	OutOfMemory:   "out-of-memory",
}

func (k CorruptionKind) String() string {
	if s, ok := corruptionNames[k]; ok {
		return s
	}
	return "invalid"
}

// CorruptionError reports a detected memory-management bug. The heap
// panics with a *CorruptionError; callers that embed the heap may recover
// at a scope boundary, but must treat the heap as poisoned afterward.
type CorruptionError struct {
	Kind   CorruptionKind
	Handle uint64 // object ID, when one is involved
	Type   Type   // object type, when known
	RC     int32  // refcount observed at detection time
}

func (e *CorruptionError) Error() string {
	if e.Handle != 0 {
		return fmt.Sprintf("heap: %s on %s object id=%d (rc=%d)",
			e.Kind, e.Type, e.Handle, e.RC)
	}
	return fmt.Sprintf("heap: %s", e.Kind)
}
