// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// LogRecordMsg delivers a slog record to the model for display in the
// status bar.
type LogRecordMsg struct {
	// Summary is the one-line form shown in the status bar.
	Summary string

	// Structured is the full record as JSON.
	Structured string

	Level slog.Level
}

// logRecordFadeMsg clears a log record from the status bar. The
// sequence number identifies the record it was scheduled for, so a
// newer record is not cleared early.
type logRecordFadeMsg struct {
	sequence int
}

// logRecordFadeDelay is how long a log record stays in the status bar.
const logRecordFadeDelay = 5 * time.Second

// logQueueSize bounds the records waiting for the program. Records
// beyond it are dropped rather than blocking the logger.
const logQueueSize = 64

// logForwarder delivers queued records to the program from a single
// goroutine, so they arrive in the order they were logged.
type logForwarder struct {
	queue   chan LogRecordMsg
	running atomic.Bool
	once    sync.Once
}

func newLogForwarder() *logForwarder {
	return &logForwarder{queue: make(chan LogRecordMsg, logQueueSize)}
}

// start begins delivering records through send. Only the first call
// has an effect.
func (forwarder *logForwarder) start(send func(tea.Msg)) {
	forwarder.once.Do(func() {
		go func() {
			for message := range forwarder.queue {
				send(message)
			}
		}()
		forwarder.running.Store(true)
	})
}

// enqueue queues a record without blocking. It reports false when the
// record was dropped, either because nothing is delivering yet or
// because the queue is full.
func (forwarder *logForwarder) enqueue(message LogRecordMsg) bool {
	if !forwarder.running.Load() {
		return false
	}
	select {
	case forwarder.queue <- message:
		return true
	default:
		return false
	}
}

// TUILogHandler is a slog.Handler that routes records into a bubbletea
// program as [LogRecordMsg] values. Writing to stderr would corrupt
// the alt-screen display.
//
// Create the handler before the program, then call SetProgram.
// Records arriving earlier are dropped. Handlers derived through
// WithAttrs and WithGroup share one forwarder.
type TUILogHandler struct {
	level     slog.Level
	forwarder *logForwarder
	attrs     []slog.Attr
	prefix    string
}

// NewTUILogHandler creates a handler for records at or above level.
func NewTUILogHandler(level slog.Level) *TUILogHandler {
	return &TUILogHandler{
		level:     level,
		forwarder: newLogForwarder(),
	}
}

// SetProgram sets the program that receives records. Safe to call
// from any goroutine; only the first program is used.
func (handler *TUILogHandler) SetProgram(program *tea.Program) {
	handler.forwarder.start(program.Send)
}

// Enabled reports whether records at level are delivered.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level
}

// Handle queues the record for the program, or drops it when no
// program is set. Records are logged from inside Update, where a
// synchronous Send would block on the loop itself.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	if !handler.forwarder.running.Load() {
		return nil
	}
	handler.forwarder.enqueue(handler.message(record))
	return nil
}

// WithAttrs returns a handler with attrs appended.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.attrs = append(slices.Clone(handler.attrs), handler.qualify(attrs)...)
	return &derived
}

// WithGroup returns a handler whose later attribute keys are qualified
// with name.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := *handler
	derived.attrs = slices.Clone(handler.attrs)
	derived.prefix = handler.prefix + name + "."
	return &derived
}

func (handler *TUILogHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if handler.prefix == "" {
		return attrs
	}
	qualified := make([]slog.Attr, len(attrs))
	for index, attr := range attrs {
		qualified[index] = slog.Attr{Key: handler.prefix + attr.Key, Value: attr.Value}
	}
	return qualified
}

// message formats a record as "message (key=value, ...)" plus its JSON
// form.
func (handler *TUILogHandler) message(record slog.Record) LogRecordMsg {
	attrs := slices.Clone(handler.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		attrs = append(attrs, handler.qualify([]slog.Attr{attr})...)
		return true
	})

	summary := record.Message
	if len(attrs) > 0 {
		parts := make([]string, len(attrs))
		for index, attr := range attrs {
			parts[index] = fmt.Sprintf("%s=%s", attr.Key, attr.Value)
		}
		summary += " (" + strings.Join(parts, ", ") + ")"
	}

	fields := map[string]any{
		"time":  record.Time.Format(time.RFC3339),
		"level": record.Level.String(),
		"msg":   record.Message,
	}
	for _, attr := range attrs {
		fields[attr.Key] = attr.Value.String()
	}
	structured, err := json.Marshal(fields)
	if err != nil {
		structured = fmt.Appendf(nil, `{"msg":%q,"error":"marshal failed"}`, record.Message)
	}

	return LogRecordMsg{Summary: summary, Structured: string(structured), Level: record.Level}
}
