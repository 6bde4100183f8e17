// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/factview/lib/highlight"
)

// Theme defines the color palette of the viewer. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
//
// Besides chrome (text, borders, cursor) the palette carries the three
// highlight layers a document tag can show: selected, linked (hovered
// from elsewhere) and related (matched by the current search).
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Cursor row.
	CursorBackground lipgloss.Color
	CursorForeground lipgloss.Color

	// Highlight layers, strongest first.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color
	LinkedBackground   lipgloss.Color
	RelatedBackground  lipgloss.Color

	// Hidden facts appear in a dedicated section.
	HiddenForeground lipgloss.Color

	// Period-over-period direction.
	IncreaseForeground lipgloss.Color
	DecreaseForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	FocusAccent      lipgloss.Color
	HelpText         lipgloss.Color

	// Status bar log records.
	WarningForeground lipgloss.Color
	ErrorForeground   lipgloss.Color

	// HotAccentChanged tints tags whose value changed in a reload;
	// HotAccentAdded tints tags that are new in it.
	HotAccentChanged lipgloss.Color
	HotAccentAdded   lipgloss.Color

	// Fuzzy match characters in search results.
	MatchForeground lipgloss.Color

	// Clickable fact links in the inspector.
	LinkForeground lipgloss.Color

	// Overlay boxes (dropdown, no-match feedback).
	OverlayForeground lipgloss.Color
	OverlayBackground lipgloss.Color
}

// RegionBackground returns the background for a region's highlight
// state and whether any layer applies. Selected wins over linked, and
// linked over related.
func (theme Theme) RegionBackground(state highlight.RegionState) (lipgloss.Color, bool) {
	switch {
	case state.Selected:
		return theme.SelectedBackground, true
	case state.Linked:
		return theme.LinkedBackground, true
	case state.Related:
		return theme.RelatedBackground, true
	default:
		return "", false
	}
}

// DirectionColor returns the color for a signed change.
func (theme Theme) DirectionColor(negative bool) lipgloss.Color {
	if negative {
		return theme.DecreaseForeground
	}
	return theme.IncreaseForeground
}

// DefaultTheme is the built-in dark-terminal color scheme, tuned for
// 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	CursorBackground: lipgloss.Color("236"),
	CursorForeground: lipgloss.Color("255"),

	SelectedBackground: lipgloss.Color("25"),  // deep blue
	SelectedForeground: lipgloss.Color("255"), // white
	LinkedBackground:   lipgloss.Color("94"),  // dark orange
	RelatedBackground:  lipgloss.Color("58"),  // dark amber

	HiddenForeground: lipgloss.Color("141"), // light purple

	IncreaseForeground: lipgloss.Color("114"), // green
	DecreaseForeground: lipgloss.Color("203"), // soft red

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	FocusAccent:      lipgloss.Color("220"), // amber
	HelpText:         lipgloss.Color("241"),

	WarningForeground: lipgloss.Color("220"),
	ErrorForeground:   lipgloss.Color("196"),

	HotAccentChanged: lipgloss.Color("58"),
	HotAccentAdded:   lipgloss.Color("22"), // dark green

	MatchForeground: lipgloss.Color("214"),

	LinkForeground: lipgloss.Color("75"), // blue

	OverlayForeground: lipgloss.Color("252"),
	OverlayBackground: lipgloss.Color("237"),
}
