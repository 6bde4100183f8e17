// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Scroll describes a scrolled list: total rows, visible rows and the
// index of the first visible row.
type Scroll struct {
	Total   int
	Visible int
	Offset  int
}

// Thumb returns the thumb's first row and size on a track of the given
// height. Content that fits yields a thumb spanning the whole track.
func (scroll Scroll) Thumb(height int) (offset, size int) {
	if scroll.Total <= scroll.Visible || scroll.Total <= 0 {
		return 0, height
	}
	size = max(1, height*scroll.Visible/scroll.Total)
	scrollable := scroll.Total - scroll.Visible
	track := height - size
	if scrollable > 0 && track > 0 {
		offset = scroll.Offset * track / scrollable
	}
	return min(offset, height-size), size
}

// RenderScrollbar produces a single-column scrollbar of the given
// height. The thumb uses the focus accent when focused.
func RenderScrollbar(theme Theme, height int, scroll Scroll, focused bool) string {
	if height <= 0 {
		return ""
	}

	thumbColor := theme.BorderColor
	if focused {
		thumbColor = theme.FocusAccent
	}
	trackStyle := lipgloss.NewStyle().Foreground(theme.BorderColor)
	thumbStyle := lipgloss.NewStyle().Foreground(thumbColor)

	thumbOffset, thumbSize := scroll.Thumb(height)
	lines := make([]string, height)
	for index := range lines {
		if index >= thumbOffset && index < thumbOffset+thumbSize {
			lines[index] = thumbStyle.Render("┃")
		} else {
			lines[index] = trackStyle.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}
