package heap

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the diagnostics configuration file looked up next to
// the embedding application.
const ConfigFileName = "embla.toml"

// Config carries the heap's diagnostic tuning. None of these settings have
// any effect on the functional memory contracts: tracing only logs, the
// pool capacity only sizes the initial backing array, and the leak report
// only runs at teardown.
type Config struct {
	// Trace logs every retain, release, autorelease, and pool transition.
	Trace bool `toml:"trace"`

	// PoolCapacity is the initial backing-store size of a freshly pushed
	// autorelease pool, sized for one evaluation scope's temporaries.
	PoolCapacity int `toml:"pool-capacity"`

	// LeakReport logs every object still live at Close.
	LeakReport bool `toml:"leak-report"`
}

// DefaultConfig returns the settings used when no embla.toml is present.
func DefaultConfig() Config {
	return Config{
		Trace:        false,
		PoolCapacity: 16,
		LeakReport:   true,
	}
}

func (c *Config) applyDefaults() {
	if c.PoolCapacity <= 0 {
		c.PoolCapacity = DefaultConfig().PoolCapacity
	}
}

// LoadConfig parses embla.toml from the given directory. A missing file is
// not an error: the defaults come back.
func LoadConfig(dir string) (Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse error in %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}
