package heap

// NewList allocates a cons node, retaining first and taking ownership of
// (retaining) rest. rest must be a list handle, the empty-list singleton
// for the last node.
func (h *Heap) NewList(first Value, rest Value) Value {
	h.Retain(first)
	h.Retain(rest)
	return h.alloc(&Object{Type: TypeList, list: &listData{
		first: first,
		rest:  rest,
	}})
}

// ListPrepend returns a new node with first at the head and list as the
// tail. Cons lists are never mutated in place: there is no interior
// mutation operation, so prepending is always a fresh node and the
// copy-on-write discipline does not apply.
func (h *Heap) ListPrepend(first Value, list Value) Value {
	h.mustList(list)
	return h.NewList(first, list)
}

// ListFirst returns the head element of a cons node; Nil for the empty
// list.
func (h *Heap) ListFirst(v Value) Value {
	return h.mustList(v).list.first
}

// ListRest returns the tail of a cons node; Nil for the empty list.
func (h *Heap) ListRest(v Value) Value {
	return h.mustList(v).list.rest
}

// ListLen walks the list and returns its length.
func (h *Heap) ListLen(v Value) int {
	n := 0
	for v != h.emptyList {
		v = h.mustList(v).list.rest
		n++
	}
	return n
}

func (h *Heap) mustList(v Value) *Object {
	return h.mustObject(v, TypeList)
}

// ListFromItems builds a list of the given values, last item deepest.
func (h *Heap) ListFromItems(items ...Value) Value {
	list := h.emptyList
	for i := len(items) - 1; i >= 0; i-- {
		next := h.NewList(items[i], list)
		if list != h.emptyList {
			// The new node took ownership; drop the constructor's reference.
			h.Release(list)
		}
		list = next
	}
	return list
}
