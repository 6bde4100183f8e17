// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/factview/lib/config"
	"github.com/bureau-foundation/factview/lib/postmessage"
	"github.com/bureau-foundation/factview/lib/testutil"
)

func TestSplitReportArgument(t *testing.T) {
	tests := []struct {
		argument     string
		wantPath     string
		wantFragment string
	}{
		{"acme.json", "acme.json", ""},
		{"acme.json#f-f-rev-2020", "acme.json", "#f-f-rev-2020"},
		{"dir#2/acme.json.zst#f-fn-1", "dir#2/acme.json.zst", "#f-fn-1"},
		{"notes#draft.json", "notes#draft.json", ""},
	}
	for _, test := range tests {
		path, fragment := splitReportArgument(test.argument)
		if path != test.wantPath || fragment != test.wantFragment {
			t.Errorf("splitReportArgument(%q) = %q, %q, want %q, %q",
				test.argument, path, fragment, test.wantPath, test.wantFragment)
		}
	}
}

func TestToolErrorHintAndExitCode(t *testing.T) {
	err := Validation("missing report argument").WithHint("Pass a report path.")
	if err.Error() != "missing report argument\n\nPass a report path." {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.ExitCode() != 2 {
		t.Errorf("validation exit code = %d, want 2", err.ExitCode())
	}
	if code := NotFound("gone").ExitCode(); code != 1 {
		t.Errorf("not-found exit code = %d, want 1", code)
	}

	wrapped := fmt.Errorf("startup: %w", Transient("%w", os.ErrDeadlineExceeded))
	var toolError *ToolError
	if !errors.As(wrapped, &toolError) || toolError.Category != CategoryTransient {
		t.Fatal("errors.As should find the ToolError")
	}
	if !errors.Is(wrapped, os.ErrDeadlineExceeded) {
		t.Error("the inner error should survive wrapping")
	}
}

func TestRunRequiresReport(t *testing.T) {
	t.Setenv(config.EnvironmentVariable, "")
	err := run(nil)
	var toolError *ToolError
	if !errors.As(err, &toolError) || toolError.Category != CategoryValidation {
		t.Fatalf("run() = %v, want a validation error", err)
	}
	if err := run([]string{"a.json", "b.json"}); err == nil || !strings.Contains(err.Error(), "unexpected argument: b.json") {
		t.Errorf("run(two reports) = %v", err)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "factview.yaml")
	contents := "language: fr\nlisten_socket: /tmp/configured.sock\nwatch: true\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(viewerOptions{configPath: configPath})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Language != "fr" || cfg.ListenSocket != "/tmp/configured.sock" {
		t.Errorf("config file values not applied: %+v", cfg)
	}

	cfg, err = loadConfig(viewerOptions{configPath: configPath, language: "de", listenSocket: "none"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Language != "de" {
		t.Errorf("--language should override, got %q", cfg.Language)
	}
	if cfg.ListenSocket != "" {
		t.Errorf("--listen none should disable the socket, got %q", cfg.ListenSocket)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "factview.yaml")
	if err := os.WriteFile(configPath, []byte("log_level: loud\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := loadConfig(viewerOptions{configPath: configPath})
	var toolError *ToolError
	if !errors.As(err, &toolError) || toolError.Category != CategoryValidation {
		t.Errorf("loadConfig = %v, want a validation error", err)
	}
}

func TestSearchWeights(t *testing.T) {
	weights := searchWeights(config.Default().Search)
	if weights.Label != 4 || weights.Concept != 2 || weights.Documentation != 1 {
		t.Errorf("weights = %+v", weights)
	}
}

func TestSendShowFact(t *testing.T) {
	socketPath := filepath.Join(testutil.SocketDir(t), "viewer.sock")
	received := make(chan string, 1)

	ctx, cancel := context.WithCancel(context.Background())
	listener := postmessage.NewListener(socketPath, func(message []byte) {
		received <- string(message)
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	done := make(chan error, 1)
	go func() { done <- listener.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		testutil.RequireReceive(t, done, 5*time.Second, "listener shutdown")
	})
	testutil.RequireClosed(t, listener.Ready(), 5*time.Second, "listener ready")

	if err := runShow([]string{"--socket", socketPath, "f-rev-2019"}); err != nil {
		t.Fatalf("runShow: %v", err)
	}
	got := testutil.RequireReceive(t, received, 5*time.Second, "show message")
	if got != `{"task":"SHOW_FACT","factId":"f-rev-2019"}` {
		t.Errorf("received %q", got)
	}
}

func TestSendShowFactWithoutViewer(t *testing.T) {
	socketPath := filepath.Join(testutil.SocketDir(t), "absent.sock")
	err := sendShowFact(context.Background(), socketPath, "f-rev-2019")
	var toolError *ToolError
	if !errors.As(err, &toolError) || toolError.Category != CategoryTransient {
		t.Fatalf("sendShowFact = %v, want a transient error", err)
	}
	if !strings.Contains(toolError.Hint, socketPath) {
		t.Errorf("hint should name the socket: %q", toolError.Hint)
	}
}

func TestShowRequiresOneID(t *testing.T) {
	if err := runShow([]string{"--socket", "/tmp/x.sock"}); err == nil {
		t.Error("show without an id should fail")
	}
}

type recordingHandler struct {
	level   slog.Level
	records *[]string
}

func (handler recordingHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

func (handler recordingHandler) Handle(_ context.Context, record slog.Record) error {
	*handler.records = append(*handler.records, record.Message)
	return nil
}

func (handler recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return handler }
func (handler recordingHandler) WithGroup(string) slog.Handler      { return handler }

func TestFanoutHandlerRespectsLevels(t *testing.T) {
	var quiet, verbose []string
	logger := slog.New(fanoutHandler{
		recordingHandler{level: slog.LevelWarn, records: &quiet},
		recordingHandler{level: slog.LevelDebug, records: &verbose},
	})

	logger.Debug("index built")
	logger.Warn("watch failed")

	if len(quiet) != 1 || quiet[0] != "watch failed" {
		t.Errorf("warn handler got %v", quiet)
	}
	if len(verbose) != 2 {
		t.Errorf("debug handler got %v", verbose)
	}
}

func TestOpenFileLogHandler(t *testing.T) {
	path := filepath.Join(t.TempDir(), "factview.log")
	handler, closeFile, err := openFileLogHandler(path, slog.LevelInfo)
	if err != nil {
		t.Fatalf("openFileLogHandler: %v", err)
	}
	slog.New(handler).Info("report reloaded", "changed", 2)
	closeFile()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"report reloaded"`) || !strings.Contains(string(data), `"changed":2`) {
		t.Errorf("log file = %s", data)
	}
}
