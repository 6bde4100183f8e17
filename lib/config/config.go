// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the config file used by [Load].
const EnvironmentVariable = "FACTVIEW_CONFIG"

// Config is the master configuration for factview.
type Config struct {
	// Language is the preferred label language (for example "en" or
	// "fr-CA"). Reports without it fall back to their first language.
	Language string `yaml:"language"`

	// ListenSocket is the Unix socket on which SHOW_FACT messages are
	// accepted. Empty disables the listener.
	// Default: ${XDG_RUNTIME_DIR:-/tmp}/factview.sock
	ListenSocket string `yaml:"listen_socket"`

	// IdentityFile is the age identity used to open ".age" snapshots.
	IdentityFile string `yaml:"identity_file"`

	// Watch reloads the report when its file changes.
	// Default: true
	Watch bool `yaml:"watch"`

	// LogLevel is one of debug, info, warn, error.
	// Default: info
	LogLevel string `yaml:"log_level"`

	// LogOutput is an optional file receiving JSON log records in
	// addition to the status bar.
	LogOutput string `yaml:"log_output"`

	// Search weights the fields of the fact search index.
	Search SearchConfig `yaml:"search"`
}

// SearchConfig holds per-field BM25 weights. A zero weight removes the
// field from scoring.
type SearchConfig struct {
	LabelWeight         int `yaml:"label_weight"`
	ConceptWeight       int `yaml:"concept_weight"`
	DimensionWeight     int `yaml:"dimension_weight"`
	PeriodWeight        int `yaml:"period_weight"`
	DocumentationWeight int `yaml:"documentation_weight"`
}

// Default returns the default configuration. Values in a loaded file
// replace these field by field.
func Default() *Config {
	return &Config{
		Language:     "en",
		ListenSocket: "${XDG_RUNTIME_DIR:-/tmp}/factview.sock",
		Watch:        true,
		LogLevel:     "info",
		Search: SearchConfig{
			LabelWeight:         4,
			ConceptWeight:       2,
			DimensionWeight:     2,
			PeriodWeight:        1,
			DocumentationWeight: 1,
		},
	}
}

// Load loads configuration from the file named by FACTVIEW_CONFIG. When
// the variable is unset the defaults are returned (expanded).
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		cfg := Default()
		cfg.expandVariables()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// [Default].
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	// Unknown keys are errors; an empty file means all defaults.
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME":            os.Getenv("HOME"),
		"XDG_RUNTIME_DIR": os.Getenv("XDG_RUNTIME_DIR"),
	}
	c.ListenSocket = expandVars(c.ListenSocket, vars)
	c.IdentityFile = expandVars(c.IdentityFile, vars)
	c.LogOutput = expandVars(c.LogOutput, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns. Provided vars
// are consulted before the environment.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name := parts[1]
		defaultValue := parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// SlogLevel returns LogLevel as a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Language == "" {
		errs = append(errs, fmt.Errorf("language is required"))
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	weights := []struct {
		name  string
		value int
	}{
		{"search.label_weight", c.Search.LabelWeight},
		{"search.concept_weight", c.Search.ConceptWeight},
		{"search.dimension_weight", c.Search.DimensionWeight},
		{"search.period_weight", c.Search.PeriodWeight},
		{"search.documentation_weight", c.Search.DocumentationWeight},
	}
	total := 0
	for _, weight := range weights {
		if weight.value < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", weight.name))
		}
		total += weight.value
	}
	if total <= 0 {
		errs = append(errs, fmt.Errorf("at least one search weight must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
