// Package config loads the project configuration file and environment
// overrides for the sitepipe CLI. The engine itself is configured
// programmatically; this package only maps the on-disk format onto
// engine setters.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk project configuration (sitepipe.yaml).
type Config struct {
	Source      string   `yaml:"source"`
	Destination string   `yaml:"destination"`
	Clean       bool     `yaml:"clean"`
	Frontmatter *bool    `yaml:"frontmatter"` // nil means enabled
	Ignore      []string `yaml:"ignore"`

	Stages StagesConfig `yaml:"stages"`
	Watch  WatchConfig  `yaml:"watch"`
}

// StagesConfig toggles the built-in reference stages.
type StagesConfig struct {
	// Markdown renders markdown bodies to HTML and rekeys to .html.
	Markdown bool `yaml:"markdown"`
	// Metadata fills default title/date front matter fields.
	Metadata bool `yaml:"metadata"`
	// GitMeta annotates files with the source repository's HEAD commit.
	GitMeta bool `yaml:"gitmeta"`
	// Serialize re-embeds front matter into the written output.
	Serialize bool `yaml:"serialize"`
}

// WatchConfig tunes watch mode. Durations use Go syntax ("500ms", "1m").
type WatchConfig struct {
	// Debounce coalesces bursts of filesystem events into one rebuild.
	Debounce string `yaml:"debounce"`
	// Interval triggers an unconditional periodic rebuild when set.
	Interval string `yaml:"interval"`
	// MetricsAddr exposes Prometheus metrics over HTTP when set,
	// e.g. ":9090".
	MetricsAddr string `yaml:"metrics_addr"`

	debounce time.Duration
	interval time.Duration
}

// DebounceDuration returns the parsed debounce window.
func (w WatchConfig) DebounceDuration() time.Duration { return w.debounce }

// IntervalDuration returns the parsed periodic rebuild interval, zero
// when disabled.
func (w WatchConfig) IntervalDuration() time.Duration { return w.interval }

// Default returns the empty-but-valid configuration: current directory
// as source, ./public as destination, front matter parsing enabled.
func Default() *Config {
	enabled := true
	return &Config{
		Source:      ".",
		Destination: "public",
		Frontmatter: &enabled,
		Watch:       WatchConfig{debounce: 500 * time.Millisecond},
	}
}

// Load reads the configuration file at path, applying defaults,
// environment variable overrides, and validation. A missing file yields
// the default configuration so flag-only invocations work without one.
//
// Environment variables are loaded from .env / .env.local first
// (existing process environment wins), then SITEPIPE_SOURCE,
// SITEPIPE_DESTINATION, and SITEPIPE_CLEAN override the file values.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	cfg := Default()
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fall through to env overrides on the defaults.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FrontmatterEnabled reports whether metadata blocks should be parsed.
func (c *Config) FrontmatterEnabled() bool {
	return c.Frontmatter == nil || *c.Frontmatter
}

func loadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SITEPIPE_SOURCE"); v != "" {
		c.Source = v
	}
	if v := os.Getenv("SITEPIPE_DESTINATION"); v != "" {
		c.Destination = v
	}
	if v := os.Getenv("SITEPIPE_CLEAN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Clean = b
		}
	}
}

func (c *Config) normalize() {
	if c.Source == "" {
		c.Source = "."
	}
	if c.Destination == "" {
		c.Destination = "public"
	}
	if c.Frontmatter == nil {
		enabled := true
		c.Frontmatter = &enabled
	}
	if c.Watch.debounce <= 0 {
		c.Watch.debounce = 500 * time.Millisecond
	}
}

func (c *Config) validate() error {
	if c.Source == c.Destination {
		return fmt.Errorf("source and destination must differ, both are %q", c.Source)
	}
	if c.Watch.Debounce != "" {
		d, err := time.ParseDuration(c.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("watch.debounce: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("watch.debounce must be positive, got %s", d)
		}
		c.Watch.debounce = d
	}
	if c.Watch.Interval != "" {
		d, err := time.ParseDuration(c.Watch.Interval)
		if err != nil {
			return fmt.Errorf("watch.interval: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("watch.interval must be positive, got %s", d)
		}
		c.Watch.interval = d
	}
	return nil
}
