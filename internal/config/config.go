// Package config loads poolboard settings: embedded YAML defaults overlaid
// with an optional user file and a few environment variables.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"poolboard/internal/columns"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// FeedPortEnv overrides Feed.Listen with ":<port>".
const FeedPortEnv = "POOLBOARD_FEED_PORT"

// Config is the full settings tree.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Log       LogConfig       `yaml:"log"`
	Feed      FeedConfig      `yaml:"feed"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	UI        UIConfig        `yaml:"ui"`
	// Presets are added to the built-in presets.
	Presets []PresetConfig `yaml:"presets"`
}

type AppConfig struct {
	Preset          string        `yaml:"preset"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	NotifyDuration  time.Duration `yaml:"notify_duration"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

type FeedConfig struct {
	PoolsFile string        `yaml:"pools_file"`
	SourceURL string        `yaml:"source_url"`
	Listen    string        `yaml:"listen"`
	Timeout   time.Duration `yaml:"timeout"`
}

type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

type UIConfig struct {
	Filter string `yaml:"filter"`
	Mouse  bool   `yaml:"mouse"`
}

// PresetConfig declares an extra column preset.
type PresetConfig struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

// DefaultConfigYAML returns a copy of the embedded defaults.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default returns the embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode embedded default config: %w", err)
	}
	return cfg, nil
}

// Load reads the defaults, overlays the file at path when path is not
// empty, and applies environment overrides.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := Merge(&cfg, data); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Merge overlays the YAML document data onto cfg. Keys absent from data keep
// their current values.
func Merge(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// ApplyEnv applies environment overrides.
func (c *Config) ApplyEnv() error {
	if s := os.Getenv(FeedPortEnv); s != "" {
		p, err := strconv.Atoi(s)
		if err != nil || p <= 0 || p >= 65536 {
			return fmt.Errorf("%s: invalid port %q", FeedPortEnv, s)
		}
		c.Feed.Listen = fmt.Sprintf(":%d", p)
	}
	return nil
}

// Catalog builds the preset catalog: built-ins followed by the configured
// extras, all validated against reg.
func (c Config) Catalog(reg *columns.Registry) (*columns.Presets, error) {
	presets := columns.BuiltinPresets(reg)
	for _, p := range c.Presets {
		presets = append(presets, columns.Preset{Name: p.Name, Titles: p.Columns})
	}
	return columns.NewPresets(reg, presets...)
}

// Validate checks settings that cannot be corrected at runtime. The start
// preset must exist in presets.
func (c Config) Validate(presets *columns.Presets) error {
	var errs []error
	if err := presets.Require(c.App.Preset); err != nil {
		errs = append(errs, err)
	}
	if c.App.RefreshInterval < 0 {
		errs = append(errs, fmt.Errorf("app.refresh_interval must not be negative"))
	}
	if c.Feed.PoolsFile != "" && c.Feed.SourceURL != "" {
		errs = append(errs, fmt.Errorf("feed.pools_file and feed.source_url are mutually exclusive"))
	}
	return errors.Join(errs...)
}
