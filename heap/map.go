package heap

// ParentKeyName is the reserved symbol linking a map to its parent for
// chained lookup. The pair is stored (and counted, and retained) like any
// ordinary entry, but the public lookup never reports it.
const ParentKeyName = "__parent__"

// NewMap allocates a persistent map with room for capacity entries. Maps
// have no canonical empty singleton; a zero capacity defers the backing
// array to the first assoc.
func (h *Heap) NewMap(capacity int) Value {
	m := &mapData{}
	if capacity > 0 {
		m.pairs = make([]Value, capacity*2)
	}
	return h.alloc(&Object{Type: TypeMap, mapd: m})
}

func (h *Heap) mustMap(v Value) (*Object, *mapData) {
	obj := h.mustObject(v, TypeMap)
	return obj, obj.mapd
}

// MapCount returns the number of entries, the parent-link pair included.
func (h *Heap) MapCount(v Value) int {
	_, m := h.mustMap(v)
	return m.count
}

// mapFind returns the entry index of key within the local entries, or -1.
// The reserved parent key only matches itself here; callers on the public
// lookup path must exclude it.
func (h *Heap) mapFind(m *mapData, key Value) int {
	for i := 0; i < m.count; i++ {
		if h.Equal(m.pairs[2*i], key) {
			return i
		}
	}
	return -1
}

// MapGet looks key up in m, falling through to the parent chain on a local
// miss. Local entries always shadow identically-keyed parent entries. The
// reserved parent-link key itself is invisible: looking it up returns not
// found even though the pair is stored and counted.
func (h *Heap) MapGet(v Value, key Value) (Value, bool) {
	if key == h.parentKey {
		return Nil, false
	}
	_, m := h.mustMap(v)
	if i := h.mapFind(m, key); i >= 0 {
		return m.pairs[2*i+1], true
	}
	if i := h.mapFind(m, h.parentKey); i >= 0 {
		return h.MapGet(m.pairs[2*i+1], key)
	}
	return Nil, false
}

// MapContains reports whether key is reachable through MapGet.
func (h *Heap) MapContains(v Value, key Value) bool {
	_, ok := h.MapGet(v, key)
	return ok
}

// mapAssocInplace sets key to value in m's own backing array, growing it
// by doubling (minimum 4 entries) when full. Replacing an existing entry
// releases the old value; new entries retain both key and value.
func (h *Heap) mapAssocInplace(m *mapData, key Value, value Value) {
	if i := h.mapFind(m, key); i >= 0 {
		old := m.pairs[2*i+1]
		m.pairs[2*i+1] = h.Retain(value)
		h.Release(old)
		return
	}
	if m.count*2 >= len(m.pairs) {
		newcap := m.count * 2
		if newcap < minVectorCapacity {
			newcap = minVectorCapacity
		}
		grown := make([]Value, newcap*2)
		copy(grown, m.pairs[:m.count*2])
		m.pairs = grown
	}
	m.pairs[2*m.count] = h.Retain(key)
	m.pairs[2*m.count+1] = h.Retain(value)
	m.count++
}

// AssocCOW sets key to value in m under the copy-on-write discipline.
//
// Refcount one means the caller holds the only reference (aliases sitting
// unretained in an autorelease pool deliberately do not count as sharing),
// so the entry table is mutated in place and the same handle returned,
// with no allocation beyond possible backing growth.
//
// A higher count means a second holder exists (a closure captured the
// environment, say): a shallow copy is built, retaining every key and
// value it carries over (the parent link included), the mutation lands on
// the copy, and a distinct handle comes back. The original keeps its
// entries, its parent link, and its refcount untouched.
//
// The result feeds directly into the next AssocCOW for chained updates.
func (h *Heap) AssocCOW(v Value, key Value, value Value) Value {
	obj, m := h.mustMap(v)
	if obj.rc == 1 {
		h.mapAssocInplace(m, key, value)
		return v
	}

	capacity := m.count + 1
	if capacity < minVectorCapacity {
		capacity = minVectorCapacity
	}
	clone := h.NewMap(capacity)
	cloneMap := h.object(clone).mapd
	for i := 0; i < m.count*2; i++ {
		cloneMap.pairs[i] = h.Retain(m.pairs[i])
	}
	cloneMap.count = m.count
	h.mapAssocInplace(cloneMap, key, value)
	return clone
}

// MapSetParent links child to parent through the reserved key. Equivalent
// to AssocCOW with the parent symbol; provided for readability at the
// environment-construction sites.
func (h *Heap) MapSetParent(child Value, parent Value) Value {
	return h.AssocCOW(child, h.parentKey, parent)
}

// MapRemove deletes key from m's local entries in place, releasing the
// stored key and value. Parent entries are not touched; removing a key
// that only a parent holds is a no-op on the child.
func (h *Heap) MapRemove(v Value, key Value) {
	_, m := h.mustMap(v)
	i := h.mapFind(m, key)
	if i < 0 {
		return
	}
	oldKey := m.pairs[2*i]
	oldValue := m.pairs[2*i+1]
	copy(m.pairs[2*i:], m.pairs[2*(i+1):2*m.count])
	m.count--
	m.pairs[2*m.count] = Nil
	m.pairs[2*m.count+1] = Nil
	h.Release(oldKey)
	h.Release(oldValue)
}

// MapKeys returns the local keys as a fresh vector, the reserved parent
// key excluded. Each key is retained by the vector.
func (h *Heap) MapKeys(v Value) Value {
	_, m := h.mustMap(v)
	keys := make([]Value, 0, m.count)
	for i := 0; i < m.count; i++ {
		if k := m.pairs[2*i]; k != h.parentKey {
			keys = append(keys, k)
		}
	}
	return h.VectorFromItems(keys...)
}

// MapVals returns the local values as a fresh vector, the parent link
// excluded. Each value is retained by the vector.
func (h *Heap) MapVals(v Value) Value {
	_, m := h.mustMap(v)
	vals := make([]Value, 0, m.count)
	for i := 0; i < m.count; i++ {
		if m.pairs[2*i] != h.parentKey {
			vals = append(vals, m.pairs[2*i+1])
		}
	}
	return h.VectorFromItems(vals...)
}
