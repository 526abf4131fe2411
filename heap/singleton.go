package heap

// initSingletons constructs the canonical empty vector, empty list, and
// empty string. They live in the object table like any other object (so
// handles resolve uniformly) but carry no backing storage, keep rc pinned
// at zero, and are immune to retain, release, and autorelease. Every code
// path that would otherwise allocate a zero-capacity instance returns
// these instead, so exactly one canonical empty instance per collection
// kind exists.
func (h *Heap) initSingletons() {
	h.emptyVector = h.allocSingleton(&Object{
		Type: TypeVector,
		vec:  &vectorData{},
	})
	h.emptyList = h.allocSingleton(&Object{
		Type: TypeList,
		list: &listData{first: Nil, rest: Nil},
	})
	h.emptyString = h.allocSingleton(&Object{
		Type: TypeString,
	})
}

func (h *Heap) allocSingleton(obj *Object) Value {
	v := h.alloc(obj)
	obj.rc = 0
	obj.singleton = true
	h.stats.untrack(obj.Type)
	return v
}

// EmptyVector returns the canonical empty vector.
func (h *Heap) EmptyVector() Value { return h.emptyVector }

// EmptyList returns the canonical empty list.
func (h *Heap) EmptyList() Value { return h.emptyList }

// EmptyString returns the canonical empty string.
func (h *Heap) EmptyString() Value { return h.emptyString }
