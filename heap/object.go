package heap

// Type tags every heap object. The tag drives the deep finalizer and the
// release-immunity rules (symbols and native functions are never
// individually finalized).
type Type uint8

const (
	TypeUnknown Type = iota
	TypeString
	TypeSymbol
	TypeVector
	TypeWeakVector
	TypeMap
	TypeList
	TypeFunc
	TypeException
	TypeByteArray

	typeCount
)

var typeNames = [typeCount]string{
	TypeUnknown:    "unknown",
	TypeString:     "string",
	TypeSymbol:     "symbol",
	TypeVector:     "vector",
	TypeWeakVector: "weak-vector",
	TypeMap:        "map",
	TypeList:       "list",
	TypeFunc:       "func",
	TypeException:  "exception",
	TypeByteArray:  "byte-array",
}

func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return "invalid"
}

// NativeFn is the signature of a native function wrapper. Native functions
// are process-wide statics: release is a no-op on them and they are never
// deep-finalized.
type NativeFn func(args []Value) Value

// Object is the header of every heap-allocated value: a type tag, a
// reference count, and a type-discriminated payload. Exactly one payload
// field is populated, selected by Type.
//
// Invariant: rc is never observed negative. An rc of zero means the object
// is either one of the canonical singletons or has just been finalized;
// a live, shared object always has rc >= 1.
type Object struct {
	Type Type
	rc   int32

	// singleton marks the canonical empty-collection instances. Their rc
	// is pinned at zero and they are immune to every memory operation.
	singleton bool

	str   string         // TypeString
	bytes []byte         // TypeByteArray
	vec   *vectorData    // TypeVector, TypeWeakVector
	mapd  *mapData       // TypeMap
	list  *listData      // TypeList
	sym   *symbolData    // TypeSymbol
	fn    NativeFn       // TypeFunc
	exc   *exceptionData // TypeException
}

// vectorData backs persistent vectors. elems is the owned backing array;
// len(elems) is the capacity, count the number of live slots. A weak
// vector shares this layout but never retains its elements (it is the
// backing store of an autorelease pool, which does not own what it defers).
type vectorData struct {
	count   int
	mutable bool
	elems   []Value
}

// mapData backs persistent maps: a flat key/value pair array scanned
// linearly. pairs holds
// 2*capacity slots; entry i lives at pairs[2i] (key) and pairs[2i+1]
// (value). The parent link, when present, is an ordinary entry keyed by
// the reserved parent symbol.
type mapData struct {
	count int
	pairs []Value
}

// listData is a cons node. Immutable by convention once constructed.
type listData struct {
	first Value
	rest  Value
}

type symbolData struct {
	name string
}

type exceptionData struct {
	kind    string
	message string
	data    Value
}

// ---------------------------------------------------------------------------
// Allocation
// ---------------------------------------------------------------------------

// alloc registers obj in the object table under a fresh ID and returns its
// handle. The caller owns the sole reference (rc=1). IDs are monotonic and
// never reused, so handles to finalized objects stay detectable.
func (h *Heap) alloc(obj *Object) Value {
	if h.nextID >= payloadMask {
		panic(&CorruptionError{Kind: OutOfMemory, Type: obj.Type})
	}
	h.nextID++
	obj.rc = 1
	h.objects[h.nextID] = obj
	h.stats.trackAlloc(obj.Type)
	v := fromID(h.nextID)
	if h.cfg.Trace {
		h.log.Debugf("alloc %s id=%d", obj.Type, h.nextID)
	}
	return v
}

// object resolves a handle to its live header. Returns nil for immediates
// and for handles whose object has already been finalized.
func (h *Heap) object(v Value) *Object {
	if !v.IsHandle() {
		return nil
	}
	return h.objects[v.id()]
}

// NewString allocates a string object, or returns the empty-string
// singleton for "".
func (h *Heap) NewString(s string) Value {
	if len(s) == 0 {
		return h.emptyString
	}
	return h.alloc(&Object{Type: TypeString, str: s})
}

// StringValue returns the contents of a string object.
func (h *Heap) StringValue(v Value) string {
	obj := h.mustObject(v, TypeString)
	return obj.str
}

// NewByteArray allocates a byte-array object owning buf.
func (h *Heap) NewByteArray(buf []byte) Value {
	return h.alloc(&Object{Type: TypeByteArray, bytes: buf})
}

// Bytes returns the owned buffer of a byte-array object.
func (h *Heap) Bytes(v Value) []byte {
	obj := h.mustObject(v, TypeByteArray)
	return obj.bytes
}

// NewFunc allocates a native function wrapper. The wrapper participates in
// the object table for uniform handling but is release-immune.
func (h *Heap) NewFunc(fn NativeFn) Value {
	return h.alloc(&Object{Type: TypeFunc, fn: fn})
}

// Func returns the native function behind a func object.
func (h *Heap) Func(v Value) NativeFn {
	obj := h.mustObject(v, TypeFunc)
	return obj.fn
}

// NewException allocates an exception object. data may be Nil; when it is
// a heap value it is retained for the exception's lifetime.
func (h *Heap) NewException(kind, message string, data Value) Value {
	h.Retain(data)
	return h.alloc(&Object{Type: TypeException, exc: &exceptionData{
		kind:    kind,
		message: message,
		data:    data,
	}})
}

// ExceptionKind returns the kind tag of an exception object.
func (h *Heap) ExceptionKind(v Value) string {
	return h.mustObject(v, TypeException).exc.kind
}

// ExceptionMessage returns the message of an exception object.
func (h *Heap) ExceptionMessage(v Value) string {
	return h.mustObject(v, TypeException).exc.message
}

// ExceptionData returns the payload value of an exception object.
func (h *Heap) ExceptionData(v Value) Value {
	return h.mustObject(v, TypeException).exc.data
}

// mustObject resolves a handle that the caller requires to be a live
// object of the given type. A handle to an already-finalized object is a
// use-after-free; a wrong type is API misuse.
func (h *Heap) mustObject(v Value, t Type) *Object {
	if !v.IsHandle() {
		panic("heap: expected a " + t.String() + " handle, got an immediate")
	}
	obj := h.objects[v.id()]
	if obj == nil {
		panic(&CorruptionError{Kind: UseAfterFree, Handle: v.id(), Type: t})
	}
	if obj.Type != t {
		panic("heap: expected a " + t.String() + " handle, got " + obj.Type.String())
	}
	return obj
}
