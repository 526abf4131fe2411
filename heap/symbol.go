package heap

// Intern returns the canonical symbol object for name, allocating it on
// first use. Symbols are interned for the life of the heap and are
// refcount-immune: the intern table holds their single pinned reference,
// retain and release pass them through, and the finalizer never sees them.
//
// Full namespace-aware interning belongs to the namespace collaborator;
// the heap keeps only the flat table the memory model itself needs (the
// reserved map parent key is an interned symbol).
func (h *Heap) Intern(name string) Value {
	if v, ok := h.symbols[name]; ok {
		return v
	}
	v := h.alloc(&Object{Type: TypeSymbol, sym: &symbolData{name: name}})
	h.symbols[name] = v
	return v
}

// SymbolName returns the name of a symbol object.
func (h *Heap) SymbolName(v Value) string {
	return h.mustObject(v, TypeSymbol).sym.name
}

// Equal reports value equality as the map key lookup sees it: immediates
// compare by encoding, interned symbols by identity, strings by contents,
// and every other heap object by identity.
func (h *Heap) Equal(a, b Value) bool {
	if a == b {
		return true
	}
	if !a.IsHandle() || !b.IsHandle() {
		return false
	}
	ao, bo := h.object(a), h.object(b)
	if ao == nil || bo == nil || ao.Type != bo.Type {
		return false
	}
	if ao.Type == TypeString {
		return ao.str == bo.str
	}
	return false
}
