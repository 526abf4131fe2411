package heap

// Retain increments the reference count of v by exactly one and returns v.
// No-op for immediates, singletons, and interned symbols. Retaining a
// handle whose object has already been finalized is a use-after-free.
//
// No upper bound is enforced; overflowing the counter is an unchecked
// precondition violation, not defined behavior.
func (h *Heap) Retain(v Value) Value {
	if !v.IsHandle() {
		return v
	}
	id := v.id()
	obj := h.objects[id]
	if obj == nil {
		panic(&CorruptionError{Kind: UseAfterFree, Handle: id})
	}
	if obj.singleton || obj.Type == TypeSymbol {
		return v
	}
	obj.rc++
	if h.cfg.Trace {
		h.log.Debugf("retain %s id=%d rc=%d", obj.Type, id, obj.rc)
	}
	return v
}

// Release decrements the reference count of v, deep-finalizing and
// deallocating the object when the count reaches zero. No-op for
// immediates, singletons, interned symbols, and native function wrappers
// (which are process-wide statics).
//
// Releasing past zero is detected twice: a zero count before the decrement
// is a use-after-free; a negative count after it is a double free. The
// second check should be unreachable given the first, but both are kept.
func (h *Heap) Release(v Value) {
	if !v.IsHandle() {
		return
	}
	id := v.id()
	obj := h.objects[id]
	if obj == nil {
		panic(&CorruptionError{Kind: UseAfterFree, Handle: id})
	}
	if obj.singleton || obj.Type == TypeSymbol || obj.Type == TypeFunc {
		return
	}
	if obj.rc == 0 {
		panic(&CorruptionError{Kind: UseAfterFree, Handle: id, Type: obj.Type})
	}
	obj.rc--
	if obj.rc < 0 {
		panic(&CorruptionError{Kind: DoubleFree, Handle: id, Type: obj.Type, RC: obj.rc})
	}
	if h.cfg.Trace {
		h.log.Debugf("release %s id=%d rc=%d", obj.Type, id, obj.rc)
	}
	if obj.rc == 0 {
		h.finalize(obj)
		delete(h.objects, id)
		h.stats.trackFree(obj.Type)
	}
}

// releasePooled is the pool-drain release path. An entry whose object is
// already gone is tolerated silently: the same object may have been
// autoreleased into the pool more than once, and the first drain release
// already finalized it. Never-reused handle IDs make this distinguishable
// from a genuine use-after-free.
func (h *Heap) releasePooled(v Value) {
	if !v.IsHandle() {
		return
	}
	if h.objects[v.id()] == nil {
		return
	}
	h.Release(v)
}
