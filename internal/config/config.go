// Package config loads sindacc.yaml, the generator's on-disk configuration:
// arithmetic mode, extra mangling guards, and the optional fragment cache
// and remote codegen service settings. Modeled on internal/ext's
// funxy.yaml loader — a plain yaml.v3-tagged struct plus a Load function,
// no builder/validator layering beyond what the fields need.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMangleGuard lists identifiers that collide with reserved C words
// or generated-name conventions beyond the fixed C keyword set the
// mangler already guards; sindacc.yaml's mangle_guard list is appended to
// this, not a replacement for it.
var DefaultMangleGuard = []string{
	"NULL", "true", "false", "bool", "size_t", "ssize_t",
}

// Config is the top-level sindacc.yaml document.
type Config struct {
	// ArithmeticMode selects the generator's integer overflow discipline:
	// "checked" (default) traps on overflow, "unchecked" wraps silently.
	ArithmeticMode string `yaml:"arithmetic_mode,omitempty"`

	// OutputPath overrides the CLI's default output location.
	OutputPath string `yaml:"output_path,omitempty"`

	// MangleGuard lists extra identifiers that EffectiveMangleGuard appends
	// to DefaultMangleGuard. The generator does not consult that list:
	// GuardCIdent guards only the fixed C keyword set.
	MangleGuard []string `yaml:"mangle_guard,omitempty"`

	Cache   CacheConfig   `yaml:"cache,omitempty"`
	Service ServiceConfig `yaml:"service,omitempty"`
}

// CacheConfig controls the optional fragment cache (internal/cache).
type CacheConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// ServiceConfig controls the remote codegen service (cmd/sindaccd).
type ServiceConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// Default returns a Config populated with the generator's defaults —
// what a unit compiles under when no sindacc.yaml is present.
func Default() *Config {
	return &Config{
		ArithmeticMode: "checked",
		Cache:          CacheConfig{Path: ":memory:"},
		Service:        ServiceConfig{Listen: "127.0.0.1:7674"},
	}
}

// Load reads and parses a sindacc.yaml file at path, filling in defaults
// for any field the file omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.ArithmeticMode != "checked" && cfg.ArithmeticMode != "unchecked" {
		return nil, fmt.Errorf("config %s: arithmetic_mode must be \"checked\" or \"unchecked\", got %q", path, cfg.ArithmeticMode)
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = ":memory:"
	}
	return cfg, nil
}

// EffectiveMangleGuard is the full guard list: the generator's fixed
// identifiers plus whatever sindacc.yaml added.
func (c *Config) EffectiveMangleGuard() []string {
	if c == nil {
		return DefaultMangleGuard
	}
	return append(append([]string{}, DefaultMangleGuard...), c.MangleGuard...)
}
