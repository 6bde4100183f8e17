// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the terminal user interface building blocks of
// factview. Built on bubbletea (Elm architecture) and lipgloss, these
// components cover the theme, dropdown overlays, scrollbars, change
// animation after a report reload, and ANSI-aware overlay splicing.
//
// The viewer in lib/factui owns layout, data and domain rendering;
// this package holds only what is independent of reports.
package tui
