package heap

import (
	"sort"

	"github.com/tliron/commonlog"
)

// Heap owns every piece of memory-model state: the object table, the
// autorelease pool stack, the singleton registry, the symbol intern table,
// and the allocation statistics. One Heap per interpreter instance.
//
// The interpreter is single-threaded and cooperative; the Heap performs no
// locking and must not be shared across goroutines.
type Heap struct {
	cfg Config
	log commonlog.Logger

	// objects maps handle IDs to live headers. An ID absent from the table
	// belongs to an object that has been finalized (IDs are never reused).
	objects map[uint64]*Object
	nextID  uint64

	poolTop   *Pool
	poolCount int

	symbols map[string]Value

	// Canonical singletons: rc pinned at zero, never finalized.
	emptyVector Value
	emptyList   Value
	emptyString Value

	// parentKey is the reserved interned symbol that links a map to its
	// parent for chained lookup.
	parentKey Value

	stats Stats
}

// New constructs a heap with the given configuration and installs the
// singleton registry. All allocation entry points require the returned
// heap; there is no package-level ambient instance.
func New(cfg Config) *Heap {
	cfg.applyDefaults()
	h := &Heap{
		cfg:     cfg,
		log:     commonlog.GetLogger("embla.heap"),
		objects: make(map[uint64]*Object),
		symbols: make(map[string]Value),
	}
	h.initSingletons()
	h.parentKey = h.Intern(ParentKeyName)
	return h
}

// NewDefault constructs a heap with default configuration.
func NewDefault() *Heap {
	return New(DefaultConfig())
}

// Close is the process-teardown hook. Leftover pools are drained (a
// non-empty stack at teardown is a leak, not a crash) and, when leak
// reporting is enabled, surviving objects are logged.
func (h *Heap) Close() {
	h.PoolCleanupAll()
	if h.cfg.LeakReport {
		leaked := 0
		for id, obj := range h.objects {
			if h.isSingletonObject(obj) || obj.Type == TypeSymbol {
				continue
			}
			h.log.Errorf("leak: %s object id=%d rc=%d", obj.Type, id, obj.rc)
			leaked++
		}
		if leaked > 0 {
			h.log.Errorf("teardown leaked %d objects (live=%d peak=%d)",
				leaked, h.stats.Live, h.stats.PeakLive)
		}
	}
}

// RefCount returns the live reference count of v: 0 for immediates and
// singletons, the current count otherwise. Pure; no side effects.
func (h *Heap) RefCount(v Value) int {
	obj := h.object(v)
	if obj == nil {
		return 0
	}
	if h.isSingletonObject(obj) {
		return 0
	}
	return int(obj.rc)
}

// IsImmediate reports whether v is encoded entirely in the value slot.
func (h *Heap) IsImmediate(v Value) bool {
	return v.IsImmediate()
}

// IsSingleton reports whether v is one of the canonical refcount-immune
// singletons (empty vector, empty list, empty string). Identity against
// the registered instances is the one canonical predicate; backing-store
// heuristics are not consulted.
func (h *Heap) IsSingleton(v Value) bool {
	return v == h.emptyVector || v == h.emptyList || v == h.emptyString
}

func (h *Heap) isSingletonObject(obj *Object) bool {
	return obj != nil && obj.singleton
}

// Stats returns a copy of the allocation statistics.
func (h *Heap) Stats() Stats {
	return h.stats
}

// ---------------------------------------------------------------------------
// Census (diagnostics)
// ---------------------------------------------------------------------------

// ObjectInfo describes one live object for diagnostics snapshots.
type ObjectInfo struct {
	ID       uint64
	Type     string
	RefCount int32
	Len      int // element/entry/byte count, where meaningful
}

// PoolInfo describes one autorelease pool frame, top of stack first.
type PoolInfo struct {
	Depth   int
	Entries int
}

// Census returns every live object ordered by ID, plus the pool stack from
// top to bottom. Diagnostic only; has no effect on any memory contract.
func (h *Heap) Census() ([]ObjectInfo, []PoolInfo) {
	objs := make([]ObjectInfo, 0, len(h.objects))
	for id, obj := range h.objects {
		info := ObjectInfo{ID: id, Type: obj.Type.String(), RefCount: obj.rc}
		switch obj.Type {
		case TypeString:
			info.Len = len(obj.str)
		case TypeByteArray:
			info.Len = len(obj.bytes)
		case TypeVector, TypeWeakVector:
			info.Len = obj.vec.count
		case TypeMap:
			info.Len = obj.mapd.count
		}
		objs = append(objs, info)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].ID < objs[j].ID })

	var pools []PoolInfo
	depth := h.poolCount
	for p := h.poolTop; p != nil; p = p.prev {
		entries := 0
		if vec := h.object(p.backing); vec != nil {
			entries = vec.vec.count
		}
		pools = append(pools, PoolInfo{Depth: depth, Entries: entries})
		depth--
	}
	return objs, pools
}
