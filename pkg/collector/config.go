package collector

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so it can be read from a config file either
// as a duration string ("2s", "250ms") or as a bare integer number of
// milliseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var ms int64
	if err := value.Decode(&ms); err == nil {
		d.Duration = time.Duration(ms) * time.Millisecond
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("decode duration: %w", err)
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}

	d.Duration = parsed

	return nil
}

// Config holds the connection parameters and the per-category collection
// toggles. It is fixed for the collector's lifetime: every scrape consults
// the same immutable set of toggles.
type Config struct {
	// Socket is the filesystem path of the knot control socket.
	Socket string `yaml:"socket"`

	// Timeout bounds every control-channel operation within a scrape.
	Timeout Duration `yaml:"timeout"`

	// ProcessName is the executable name whose resident set sizes the
	// memory category reports.
	ProcessName string `yaml:"process-name"`

	Memory      bool `yaml:"memory"`
	GlobalStats bool `yaml:"global-stats"`
	ZoneStats   bool `yaml:"zone-stats"`
	ZoneStatus  bool `yaml:"zone-status"`
	ZoneConfig  bool `yaml:"zone-config"`
}

// DefaultConfig returns the configuration used when nothing overrides it:
// every category enabled, the conventional socket location, and a 2 second
// per-operation timeout.
func DefaultConfig() Config {
	return Config{
		Socket:      "/run/knot/knot.sock",
		Timeout:     Duration{2 * time.Second},
		ProcessName: "knotd",
		Memory:      true,
		GlobalStats: true,
		ZoneStats:   true,
		ZoneStatus:  true,
		ZoneConfig:  true,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config '%s': %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config '%s': %w", path, err)
	}

	return cfg, nil
}

// Validate checks the parts of the configuration that have no sane zero
// value.
func (c Config) Validate() error {
	if c.Socket == "" {
		return fmt.Errorf("socket must not be empty")
	}

	if c.Timeout.Duration <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout.Duration)
	}

	if c.Memory && c.ProcessName == "" {
		return fmt.Errorf("process-name must not be empty when memory collection is enabled")
	}

	return nil
}
