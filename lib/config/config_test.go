// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "factview.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return configPath
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Language != "en" {
		t.Errorf("expected language=en, got %s", cfg.Language)
	}
	if !cfg.Watch {
		t.Error("expected watch=true")
	}
	if cfg.Search.LabelWeight != 4 {
		t.Errorf("expected label_weight=4, got %v", cfg.Search.LabelWeight)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_WithoutConfigUsesDefaults(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.ListenSocket != "/run/user/1000/factview.sock" {
		t.Errorf("expected expanded listen_socket, got %s", cfg.ListenSocket)
	}
}

func TestLoad_WithConfigVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, writeConfig(t, "language: fr\nwatch: false\n"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Language != "fr" {
		t.Errorf("expected language=fr, got %s", cfg.Language)
	}
	if cfg.Watch {
		t.Error("expected watch=false")
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HOME", "/home/analyst")
	configPath := writeConfig(t, `
language: de
listen_socket: /tmp/viewer.sock
identity_file: ${HOME}/.config/factview/key.txt
log_level: debug
log_output: ${FACTVIEW_LOGS:-/var/log}/factview.jsonl

search:
  label_weight: 8
  period_weight: 0
`)

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Language != "de" {
		t.Errorf("expected language=de, got %s", cfg.Language)
	}
	if cfg.ListenSocket != "/tmp/viewer.sock" {
		t.Errorf("expected listen_socket=/tmp/viewer.sock, got %s", cfg.ListenSocket)
	}
	if cfg.IdentityFile != "/home/analyst/.config/factview/key.txt" {
		t.Errorf("expected expanded identity_file, got %s", cfg.IdentityFile)
	}
	if cfg.LogOutput != "/var/log/factview.jsonl" {
		t.Errorf("expected default-expanded log_output, got %s", cfg.LogOutput)
	}
	if cfg.Search.LabelWeight != 8 || cfg.Search.PeriodWeight != 0 {
		t.Errorf("unexpected search weights: %+v", cfg.Search)
	}
	// Unset keys keep their defaults.
	if cfg.Search.ConceptWeight != 2 {
		t.Errorf("expected concept_weight default 2, got %v", cfg.Search.ConceptWeight)
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, %v", level, err)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Language != "en" {
		t.Errorf("expected default language, got %s", cfg.Language)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "langauge: en\n", "field langauge not found"},
		{"bad type", "watch: sometimes\n", "parsing"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, test.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q does not contain %q", err, test.want)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"missing language", func(c *Config) { c.Language = "" }, "language is required"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"negative weight", func(c *Config) { c.Search.ConceptWeight = -1 }, "search.concept_weight must not be negative"},
		{"all weights zero", func(c *Config) { c.Search = SearchConfig{} }, "at least one search weight"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q does not contain %q", err, test.want)
			}
		})
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("FACTVIEW_TEST_SET", "/set")
	vars := map[string]string{"HOME": "/home/analyst", "EMPTY": ""}

	tests := []struct {
		input string
		want  string
	}{
		{"${HOME}/x", "/home/analyst/x"},
		{"${FACTVIEW_TEST_SET}/y", "/set/y"},
		{"${FACTVIEW_TEST_UNSET:-/fallback}", "/fallback"},
		{"${EMPTY:-/fallback}", "/fallback"},
		{"plain", "plain"},
	}
	for _, test := range tests {
		if got := expandVars(test.input, vars); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}
