package heap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigParsesFile(t *testing.T) {
	dir := t.TempDir()
	content := "trace = true\npool-capacity = 64\nleak-report = false\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Trace {
		t.Error("trace not parsed")
	}
	if cfg.PoolCapacity != 64 {
		t.Errorf("pool-capacity = %d, want 64", cfg.PoolCapacity)
	}
	if cfg.LeakReport {
		t.Error("leak-report not parsed")
	}
}

func TestLoadConfigRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("trace = {"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Error("malformed config must not parse")
	}
}

func TestConfigDefaultsApplied(t *testing.T) {
	h := New(Config{PoolCapacity: -5})
	defer h.Close()

	p := h.PoolPush()
	// A nonsense capacity falls back to the default; the pool must work.
	h.Autorelease(h.NewString("works"))
	h.PoolPop(p)
}

// The trace toggle must have zero effect on the functional contracts.
func TestTraceDoesNotChangeSemantics(t *testing.T) {
	h := New(Config{Trace: true, PoolCapacity: 8})
	defer h.Close()

	m := h.NewMap(2)
	if h.AssocCOW(m, FromSmallInt(1), FromSmallInt(10)) != m {
		t.Error("COW semantics changed under tracing")
	}
	h.Retain(m)
	clone := h.AssocCOW(m, FromSmallInt(2), FromSmallInt(20))
	if clone == m {
		t.Error("sharing detection changed under tracing")
	}
	h.Release(clone)
	h.Release(m)
	h.Release(m)
}
