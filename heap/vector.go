package heap

// minVectorCapacity is the smallest backing array a growing vector or map
// allocates. Growth always doubles.
const minVectorCapacity = 4

// NewVector allocates a persistent vector with the given capacity. A
// capacity of zero (or less) yields the empty-vector singleton: do not
// retain or release it.
func (h *Heap) NewVector(capacity int, mutable bool) Value {
	if capacity <= 0 {
		return h.emptyVector
	}
	return h.alloc(&Object{Type: TypeVector, vec: &vectorData{
		mutable: mutable,
		elems:   make([]Value, capacity),
	}})
}

// NewWeakVector allocates a vector whose element slots are not retained.
// Used exclusively as the backing store of autorelease pools: the pool
// defers objects it does not own, so its storage must not own them either.
func (h *Heap) NewWeakVector(capacity int) Value {
	if capacity < minVectorCapacity {
		capacity = minVectorCapacity
	}
	return h.alloc(&Object{Type: TypeWeakVector, vec: &vectorData{
		mutable: true,
		elems:   make([]Value, capacity),
	}})
}

// mustVector resolves a handle to live vector data, strong or weak.
func (h *Heap) mustVector(v Value) (*Object, *vectorData) {
	if !v.IsHandle() {
		panic("heap: expected a vector handle, got an immediate")
	}
	obj := h.objects[v.id()]
	if obj == nil {
		panic(&CorruptionError{Kind: UseAfterFree, Handle: v.id(), Type: TypeVector})
	}
	if obj.Type != TypeVector && obj.Type != TypeWeakVector {
		panic("heap: expected a vector handle, got " + obj.Type.String())
	}
	return obj, obj.vec
}

// VectorLen returns the element count of a vector.
func (h *Heap) VectorLen(v Value) int {
	_, vec := h.mustVector(v)
	return vec.count
}

// VectorGet returns the element at index i.
func (h *Heap) VectorGet(v Value, i int) Value {
	_, vec := h.mustVector(v)
	if i < 0 || i >= vec.count {
		panic("heap: vector index out of range")
	}
	return vec.elems[i]
}

// vectorPushInplace appends item to the vector's backing array, growing it
// by doubling (minimum 4) when full. Growth moves existing elements to the
// larger array without re-retaining them: ownership simply moves with
// them. Strong vectors retain the appended item; weak vectors never do.
func (h *Heap) vectorPushInplace(v Value, item Value) {
	obj, vec := h.mustVector(v)
	if vec.count >= len(vec.elems) {
		newcap := len(vec.elems) * 2
		if newcap < minVectorCapacity {
			newcap = minVectorCapacity
		}
		grown := make([]Value, newcap)
		copy(grown, vec.elems[:vec.count])
		vec.elems = grown
	}
	vec.elems[vec.count] = item
	vec.count++
	if obj.Type != TypeWeakVector {
		h.Retain(item)
	}
}

// VectorAppend appends item to vec under the copy-on-write discipline:
//
// With a refcount of exactly one the caller holds the only reference
// (pooled-but-unretained aliases deliberately do not count as sharing),
// so the append mutates in place and returns the same handle. With any
// other count (a second holder exists, or vec is the immutable singleton)
// a shallow copy is built, retaining every element it carries over; the
// append lands on the copy, and a distinct handle comes back while the
// original is left byte-for-byte unchanged.
//
// Either way the result feeds directly into the next VectorAppend; the
// typical pattern rebinds the caller's variable to the return value.
func (h *Heap) VectorAppend(v Value, item Value) Value {
	obj, vec := h.mustVector(v)
	if obj.Type == TypeWeakVector {
		panic("heap: VectorAppend on a weak vector")
	}
	if !obj.singleton && obj.rc == 1 {
		h.vectorPushInplace(v, item)
		return v
	}

	capacity := vec.count + 1
	if capacity < minVectorCapacity {
		capacity = minVectorCapacity
	}
	clone := h.NewVector(capacity, vec.mutable)
	cloneVec := h.object(clone).vec
	for i := 0; i < vec.count; i++ {
		cloneVec.elems[i] = h.Retain(vec.elems[i])
	}
	cloneVec.count = vec.count
	h.vectorPushInplace(clone, item)
	return clone
}

// VectorFromItems builds a strong vector containing the given values,
// retaining each. Empty input yields the singleton.
func (h *Heap) VectorFromItems(items ...Value) Value {
	if len(items) == 0 {
		return h.emptyVector
	}
	v := h.NewVector(len(items), false)
	for _, item := range items {
		h.vectorPushInplace(v, item)
	}
	return v
}
