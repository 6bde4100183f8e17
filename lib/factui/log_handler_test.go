// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/factview/lib/testutil"
)

func testRecord(level slog.Level, message string, attrs ...slog.Attr) slog.Record {
	record := slog.NewRecord(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), level, message, 0)
	record.AddAttrs(attrs...)
	return record
}

func TestTUILogHandlerEnabled(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be below a warn threshold")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should pass a warn threshold")
	}
}

func TestTUILogHandlerWithoutProgramDrops(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelDebug)
	if err := handler.Handle(context.Background(), testRecord(slog.LevelWarn, "dropped")); err != nil {
		t.Errorf("Handle without a program = %v", err)
	}
}

func TestTUILogHandlerMessage(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelDebug)
	derived := handler.WithAttrs([]slog.Attr{slog.String("report", "acme.json")}).(*TUILogHandler)

	message := derived.message(testRecord(slog.LevelWarn, "malformed message", slog.String("error", "bad json")))
	want := "malformed message (report=acme.json, error=bad json)"
	if message.Summary != want {
		t.Errorf("Summary = %q, want %q", message.Summary, want)
	}
	if message.Level != slog.LevelWarn {
		t.Errorf("Level = %v", message.Level)
	}

	var structured map[string]string
	if err := json.Unmarshal([]byte(message.Structured), &structured); err != nil {
		t.Fatalf("Structured is not JSON: %v", err)
	}
	if structured["msg"] != "malformed message" || structured["level"] != "WARN" || structured["report"] != "acme.json" {
		t.Errorf("Structured = %v", structured)
	}
	if structured["time"] != "2026-03-01T12:00:00Z" {
		t.Errorf("time = %q", structured["time"])
	}

	if len(handler.attrs) != 0 {
		t.Error("WithAttrs must not modify the parent handler")
	}
}

func TestTUILogHandlerWithGroup(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelDebug)
	grouped := handler.WithGroup("watch").WithAttrs([]slog.Attr{slog.Int("attempt", 2)}).(*TUILogHandler)

	message := grouped.message(testRecord(slog.LevelError, "reload failed", slog.String("path", "r.json")))
	want := "reload failed (watch.attempt=2, watch.path=r.json)"
	if message.Summary != want {
		t.Errorf("Summary = %q, want %q", message.Summary, want)
	}
	if handler.WithGroup("") != handler {
		t.Error("an empty group name should return the handler itself")
	}
	if grouped.forwarder != handler.forwarder {
		t.Error("derived handlers should share the forwarder")
	}
}

func TestTUILogHandlerDeliversInOrder(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelDebug)
	delivered := make(chan tea.Msg, logQueueSize)
	handler.forwarder.start(func(message tea.Msg) { delivered <- message })

	logger := slog.New(handler.WithAttrs([]slog.Attr{slog.String("report", "acme.json")}))
	for attempt := range 20 {
		logger.Warn("reload failed", "attempt", attempt)
	}

	for attempt := range 20 {
		message := testutil.RequireReceive(t, delivered, 5*time.Second, "log record").(LogRecordMsg)
		want := fmt.Sprintf("reload failed (report=acme.json, attempt=%d)", attempt)
		if message.Summary != want {
			t.Fatalf("record %d = %q, want %q", attempt, message.Summary, want)
		}
	}
}

func TestLogForwarderDropsWhenFull(t *testing.T) {
	forwarder := newLogForwarder()
	if forwarder.enqueue(LogRecordMsg{Summary: "early"}) {
		t.Error("a record before start should be dropped")
	}

	release := make(chan struct{})
	forwarder.start(func(tea.Msg) { <-release })
	defer close(release)

	// One record may already be held by the delivering goroutine.
	accepted := 0
	for range logQueueSize + 2 {
		if forwarder.enqueue(LogRecordMsg{Summary: "queued"}) {
			accepted++
		}
	}
	if accepted < logQueueSize || accepted > logQueueSize+1 {
		t.Errorf("accepted %d records, want %d or %d", accepted, logQueueSize, logQueueSize+1)
	}
}
