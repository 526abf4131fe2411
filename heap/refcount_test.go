package heap

import (
	"testing"
)

// expectCorruption runs fn and fails the test unless it panics with a
// CorruptionError of the given kind.
func expectCorruption(t *testing.T, kind CorruptionKind, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected %s panic, got none", kind)
		}
		ce, ok := r.(*CorruptionError)
		if !ok {
			t.Fatalf("expected *CorruptionError, got %T: %v", r, r)
		}
		if ce.Kind != kind {
			t.Fatalf("expected %s, got %s", kind, ce.Kind)
		}
	}()
	fn()
}

// ---------------------------------------------------------------------------
// Retain/release symmetry
// ---------------------------------------------------------------------------

func TestRetainReleaseSymmetry(t *testing.T) {
	h := NewDefault()
	defer h.Close()

	s := h.NewString("payload")
	if rc := h.RefCount(s); rc != 1 {
		t.Fatalf("fresh object rc = %d, want 1", rc)
	}

	h.Retain(s)
	if rc := h.RefCount(s); rc != 2 {
		t.Errorf("after retain rc = %d, want 2", rc)
	}

	h.Release(s)
	if rc := h.RefCount(s); rc != 1 {
		t.Errorf("after matching release rc = %d, want 1", rc)
	}
	h.Release(s)
}

func TestRetainReturnsSameValue(t *testing.T) {
	h := NewDefault()
	defer h.Close()

	s := h.NewString("x")
	if h.Retain(s) != s {
		t.Error("Retain must return its argument")
	}
	h.Release(s)
	h.Release(s)
}

func TestRetainReleaseNoOpOnImmediates(t *testing.T) {
	h := NewDefault()
	defer h.Close()

	for _, v := range []Value{Nil, True, False, FromSmallInt(9), FromChar('q'), FromFloat64(2.5), FromFixed(1.25)} {
		h.Retain(v)
		h.Release(v)
		if rc := h.RefCount(v); rc != 0 {
			t.Errorf("immediate %#x rc = %d, want 0", uint64(v), rc)
		}
	}
}

func TestReleaseFinalizesAtZero(t *testing.T) {
	h := NewDefault()
	defer h.Close()

	before := h.Stats().FinalizeCount(TypeString)
	s := h.NewString("gone")
	h.Release(s)
	if got := h.Stats().FinalizeCount(TypeString); got != before+1 {
		t.Errorf("finalize count = %d, want %d", got, before+1)
	}
	if rc := h.RefCount(s); rc != 0 {
		t.Errorf("finalized object rc = %d, want 0", rc)
	}
}

// ---------------------------------------------------------------------------
// Corruption detection
// ---------------------------------------------------------------------------

func TestUseAfterFreeDetected(t *testing.T) {
	h := NewDefault()
	defer h.Close()

	s := h.NewString("once")
	h.Release(s)
	expectCorruption(t, UseAfterFree, func() {
		h.Release(s)
	})
}

func TestRetainAfterFreeDetected(t *testing.T) {
	h := NewDefault()
	defer h.Close()

	s := h.NewString("once")
	h.Release(s)
	expectCorruption(t, UseAfterFree, func() {
		h.Retain(s)
	})
}

func TestFinalizeExactlyOnce(t *testing.T) {
	h := NewDefault()
	defer h.Close()

	v := h.NewVector(2, false)
	elem := h.NewString("elem")
	h.vectorPushInplace(v, elem)
	h.Release(elem) // vector now sole owner

	before := h.Stats().FinalizeCount(TypeString)
	h.Release(v)
	if got := h.Stats().FinalizeCount(TypeString); got != before+1 {
		t.Errorf("element finalized %d times, want once", got-before)
	}
}

// ---------------------------------------------------------------------------
// Release immunity
// ---------------------------------------------------------------------------

func TestNativeFuncReleaseImmune(t *testing.T) {
	h := NewDefault()
	defer h.Close()

	fn := h.NewFunc(func(args []Value) Value { return Nil })
	for i := 0; i < 5; i++ {
		h.Release(fn)
	}
	if h.object(fn) == nil {
		t.Fatal("native func wrapper must survive release")
	}
	if h.Func(fn) == nil {
		t.Error("func payload lost")
	}
}

func TestSymbolRefcountImmune(t *testing.T) {
	h := NewDefault()
	defer h.Close()

	sym := h.Intern("x")
	h.Retain(sym)
	h.Release(sym)
	h.Release(sym)
	if h.object(sym) == nil {
		t.Fatal("interned symbol must survive release")
	}
	if h.Intern("x") != sym {
		t.Error("interning is not idempotent")
	}
	if h.SymbolName(sym) != "x" {
		t.Error("symbol name lost")
	}
}

func TestExceptionOwnsData(t *testing.T) {
	h := NewDefault()
	defer h.Close()

	data := h.NewString("context")
	exc := h.NewException("ArityError", "wrong arity", data)
	if rc := h.RefCount(data); rc != 2 {
		t.Fatalf("exception data rc = %d, want 2", rc)
	}
	h.Release(data)

	before := h.Stats().FinalizeCount(TypeString)
	h.Release(exc)
	if got := h.Stats().FinalizeCount(TypeString); got != before+1 {
		t.Errorf("exception data not released on finalize")
	}
}
