// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// DropdownOption is a single selectable item in a dropdown overlay.
type DropdownOption struct {
	Label string // Display text.
	Value string // Value applied on selection.
}

// DropdownOverlay is a floating menu anchored at a screen position.
// While open it captures keyboard input (up/down, enter, escape); the
// owning model routes input to it.
type DropdownOverlay struct {
	Options []DropdownOption
	Cursor  int
	AnchorX int
	AnchorY int

	// Purpose names what the selection applies to, for example
	// "period".
	Purpose string
}

// NewDropdown opens a dropdown with the cursor on the option whose
// value is current, or on the first option.
func NewDropdown(purpose string, options []DropdownOption, current string, anchorX, anchorY int) *DropdownOverlay {
	dropdown := &DropdownOverlay{Options: options, AnchorX: anchorX, AnchorY: anchorY, Purpose: purpose}
	for index, option := range options {
		if option.Value == current {
			dropdown.Cursor = index
			break
		}
	}
	return dropdown
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (dropdown *DropdownOverlay) MoveUp() {
	dropdown.Cursor--
	if dropdown.Cursor < 0 {
		dropdown.Cursor = len(dropdown.Options) - 1
	}
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (dropdown *DropdownOverlay) MoveDown() {
	dropdown.Cursor++
	if dropdown.Cursor >= len(dropdown.Options) {
		dropdown.Cursor = 0
	}
}

// Selected returns the highlighted option.
func (dropdown *DropdownOverlay) Selected() DropdownOption {
	return dropdown.Options[dropdown.Cursor]
}

// Width returns the rendered width in columns: " > LABEL " plus one
// column of padding.
func (dropdown *DropdownOverlay) Width() int {
	widest := 0
	for _, option := range dropdown.Options {
		widest = max(widest, ansi.StringWidth(option.Label))
	}
	return 3 + widest + 2
}

// Contains reports whether the screen coordinate falls within the
// dropdown.
func (dropdown *DropdownOverlay) Contains(x, y int) bool {
	return dropdown.OptionAtY(y) >= 0 && x >= dropdown.AnchorX && x < dropdown.AnchorX+dropdown.Width()
}

// OptionAtY returns the option index at screen row y, or -1.
func (dropdown *DropdownOverlay) OptionAtY(y int) int {
	index := y - dropdown.AnchorY
	if index < 0 || index >= len(dropdown.Options) {
		return -1
	}
	return index
}

// Render produces equal-width lines for [SpliceOverlay]. The
// highlighted option uses the cursor colors.
func (dropdown *DropdownOverlay) Render(theme Theme) []string {
	totalWidth := dropdown.Width()
	innerWidth := totalWidth - 2

	background := lipgloss.NewStyle().
		Background(theme.OverlayBackground).
		Foreground(theme.OverlayForeground)
	highlighted := lipgloss.NewStyle().
		Background(theme.CursorBackground).
		Foreground(theme.CursorForeground)

	lines := make([]string, 0, len(dropdown.Options))
	for index, option := range dropdown.Options {
		style, marker := background, "  "
		if index == dropdown.Cursor {
			style, marker = highlighted, "> "
		}
		lines = append(lines, PadOverlayLine(style.Render(marker+option.Label), innerWidth, totalWidth, style))
	}
	return lines
}
