// Package dump defines the CBOR wire encoding for heap-census snapshots.
//
// A snapshot is a point-in-time picture of every live object, the pool
// stack, and the allocation counters: the raw material for offline leak
// hunting on an embedded target. Capturing and encoding a snapshot reads
// the heap only; it retains nothing and has no effect on any memory
// contract.
package dump

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/embla/heap"
)

// cborEncMode uses canonical options so identical heap states encode to
// identical bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dump: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// ObjectRecord describes one live heap object.
type ObjectRecord struct {
	ID       uint64 `cbor:"id"`
	Type     string `cbor:"type"`
	RefCount int32  `cbor:"rc"`
	Len      int    `cbor:"len,omitempty"`
}

// PoolRecord describes one autorelease pool frame, top of stack first.
type PoolRecord struct {
	Depth   int `cbor:"depth"`
	Entries int `cbor:"entries"`
}

// Counters carries the allocation statistics at capture time.
type Counters struct {
	Live         int    `cbor:"live"`
	PeakLive     int    `cbor:"peak-live"`
	Autoreleases uint64 `cbor:"autoreleases"`
	PoolPushes   uint64 `cbor:"pool-pushes"`
	PoolPops     uint64 `cbor:"pool-pops"`
}

// Snapshot is a complete heap census.
type Snapshot struct {
	Objects  []ObjectRecord `cbor:"objects"`
	Pools    []PoolRecord   `cbor:"pools,omitempty"`
	Counters Counters       `cbor:"counters"`
}

// Capture takes a census of h and packages it as a Snapshot. Objects come
// back ordered by ID, pools from the top of the stack down.
func Capture(h *heap.Heap) *Snapshot {
	objs, pools := h.Census()
	stats := h.Stats()

	s := &Snapshot{
		Objects: make([]ObjectRecord, len(objs)),
		Counters: Counters{
			Live:         stats.Live,
			PeakLive:     stats.PeakLive,
			Autoreleases: stats.Autoreleases,
			PoolPushes:   stats.PoolPushes,
			PoolPops:     stats.PoolPops,
		},
	}
	for i, o := range objs {
		s.Objects[i] = ObjectRecord{
			ID:       o.ID,
			Type:     o.Type,
			RefCount: o.RefCount,
			Len:      o.Len,
		}
	}
	for _, p := range pools {
		s.Pools = append(s.Pools, PoolRecord{Depth: p.Depth, Entries: p.Entries})
	}
	return s
}

// MarshalSnapshot serializes a Snapshot to CBOR bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("dump: unmarshal snapshot: %w", err)
	}
	return &s, nil
}
