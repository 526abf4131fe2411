package heap

// finalize performs the type-specific recursive release of an object's
// owned children. Invoked exactly once, when a non-singleton object's
// refcount reaches zero; the caller removes the header from the object
// table afterward.
//
// Releasing a long cons list recurses through Release one node per link.
// The depth is bounded by the list length, not by any explicit control;
// an accepted risk inherited from the design.
func (h *Heap) finalize(obj *Object) {
	switch obj.Type {
	case TypeString:
		obj.str = ""

	case TypeSymbol:
		// Interned; never individually finalized.

	case TypeVector:
		// Only the owning (strong) vector releases its elements.
		for i := 0; i < obj.vec.count; i++ {
			if e := obj.vec.elems[i]; e != Nil {
				h.Release(e)
			}
		}
		obj.vec.elems = nil

	case TypeWeakVector:
		// A weak vector never retained its elements: they belong to the
		// pool-drain path, which releases them directly. Drop the backing
		// array only.
		obj.vec.elems = nil

	case TypeMap:
		// Every key and value, the parent-link pair included.
		for i := 0; i < obj.mapd.count*2; i++ {
			if e := obj.mapd.pairs[i]; e != Nil {
				h.Release(e)
			}
		}
		obj.mapd.pairs = nil

	case TypeList:
		h.Release(obj.list.first)
		h.Release(obj.list.rest)

	case TypeFunc:
		// Process-wide static; unreachable through Release, kept for the
		// dispatch table's completeness.

	case TypeException:
		h.Release(obj.exc.data)

	case TypeByteArray:
		obj.bytes = nil

	default:
		// Unknown type: nothing owned.
	}
}
