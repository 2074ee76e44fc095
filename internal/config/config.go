// Package config loads the reachkb manifest: where the sources live, where
// the filter cache lives, and how verbosely to log.
//
// Structural thresholds are not configurable; they live in package policy.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/roach88/reachkb/internal/ingest"
)

// Config is the complete manifest.
type Config struct {
	// DataDir is the base for relative source paths. A relative DataDir is
	// resolved against the manifest's directory.
	DataDir string         `yaml:"data_dir"`
	Sources ingest.Sources `yaml:"sources"`
	Cache   CacheConfig    `yaml:"cache"`
	Log     LogConfig      `yaml:"log"`
}

// MemoryCachePath selects a process-local cache that is never written to disk.
const MemoryCachePath = ":memory:"

// CacheConfig locates the SQLite filter cache.
type CacheConfig struct {
	// Path is the database file (empty = no cache, ":memory:" = process-local)
	Path string `yaml:"path"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is a zap level name: debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig returns the conventional file layout under the current
// directory, without a cache.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".",
		Sources: ingest.Sources{
			Classes:           "classes.json",
			Morphology:        "morphology.json",
			Transitions:       "transitions.json",
			Contexts:          "contexts.json",
			Zones:             "zones.json",
			ContextVocabulary: "context_vocabulary.json",
			Regimes:           "regimes.json",
			Completeness:      "completeness.json",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	required := []struct{ name, path string }{
		{ingest.SourceClasses, c.Sources.Classes},
		{ingest.SourceMorphology, c.Sources.Morphology},
		{ingest.SourceTransitions, c.Sources.Transitions},
		{ingest.SourceContexts, c.Sources.Contexts},
	}
	for _, r := range required {
		if r.path == "" {
			return fmt.Errorf("sources.%s is required", r.name)
		}
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ResolvedSources returns the source paths joined onto DataDir. Absent
// optional sources stay empty.
func (c *Config) ResolvedSources() ingest.Sources {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.DataDir, p)
	}
	s := c.Sources
	return ingest.Sources{
		Classes:           resolve(s.Classes),
		Morphology:        resolve(s.Morphology),
		Transitions:       resolve(s.Transitions),
		Contexts:          resolve(s.Contexts),
		Zones:             resolve(s.Zones),
		ContextVocabulary: resolve(s.ContextVocabulary),
		Regimes:           resolve(s.Regimes),
		Completeness:      resolve(s.Completeness),
	}
}

// LoadFromFile loads a manifest on top of the defaults. Relative data_dir
// and cache.path values are resolved against the manifest's directory.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	base := filepath.Dir(path)
	if !filepath.IsAbs(config.DataDir) {
		config.DataDir = filepath.Join(base, config.DataDir)
	}
	if p := config.Cache.Path; p != "" && p != MemoryCachePath && !filepath.IsAbs(p) {
		config.Cache.Path = filepath.Join(base, p)
	}
	return config, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge overlays other onto c; non-zero fields of other win.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}

	dst, src := &c.Sources, other.Sources
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&dst.Classes, src.Classes},
		{&dst.Morphology, src.Morphology},
		{&dst.Transitions, src.Transitions},
		{&dst.Contexts, src.Contexts},
		{&dst.Zones, src.Zones},
		{&dst.ContextVocabulary, src.ContextVocabulary},
		{&dst.Regimes, src.Regimes},
		{&dst.Completeness, src.Completeness},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}

	if other.Cache.Path != "" {
		c.Cache.Path = other.Cache.Path
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
