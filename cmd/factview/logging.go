// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/bureau-foundation/factview/lib/factui"
)

// newViewerLogger routes records into the status bar through
// tuiHandler and, when logOutput is set, to a JSON log file as well.
// The returned function closes the file.
func newViewerLogger(tuiHandler *factui.TUILogHandler, logOutput string, level slog.Level) (*slog.Logger, func(), error) {
	if logOutput == "" {
		return slog.New(tuiHandler), func() {}, nil
	}
	fileHandler, closeFile, err := openFileLogHandler(logOutput, level)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(fanoutHandler{tuiHandler, fileHandler}), closeFile, nil
}

// openFileLogHandler creates a slog.JSONHandler writing to path, which
// is created or truncated.
func openFileLogHandler(path string, level slog.Level) (slog.Handler, func(), error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return handler, func() { file.Close() }, nil
}

// fanoutHandler sends each record to every sub-handler enabled for its
// level.
type fanoutHandler []slog.Handler

func (handlers fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (handlers fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (handlers fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithAttrs(attrs)
	}
	return derived
}

func (handlers fanoutHandler) WithGroup(name string) slog.Handler {
	derived := make(fanoutHandler, len(handlers))
	for index, handler := range handlers {
		derived[index] = handler.WithGroup(name)
	}
	return derived
}
