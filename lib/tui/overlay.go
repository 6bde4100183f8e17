// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay lines placed from (anchorX, anchorY). Truncation is
// ANSI-aware, so styling on both sides of the overlay survives.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := ansi.StringWidth(overlayLines[0])

	for index, overlayLine := range overlayLines {
		viewLineIndex := anchorY + index
		if viewLineIndex < 0 || viewLineIndex >= len(viewLines) {
			continue
		}

		viewLine := viewLines[viewLineIndex]
		viewLineWidth := ansi.StringWidth(viewLine)

		// prefix + reset + overlay + reset + suffix
		var result strings.Builder
		if anchorX > 0 {
			result.WriteString(ansi.Truncate(viewLine, anchorX, ""))
		}
		result.WriteString("\x1b[0m" + overlayLine + "\x1b[0m")
		if suffixStart := anchorX + overlayWidth; suffixStart < viewLineWidth {
			result.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
		}

		viewLines[viewLineIndex] = result.String()
	}

	return strings.Join(viewLines, "\n")
}

// OverlayBold applies bold to a column range of one view line. The
// inspector uses it for the fact link under the mouse.
// Bold is re-asserted after every escape inside the range, since
// lipgloss ends each styled segment with a full SGR reset.
func OverlayBold(view string, screenY, startX, endX int) string {
	if startX >= endX {
		return view
	}

	viewLines := strings.Split(view, "\n")
	if screenY < 0 || screenY >= len(viewLines) {
		return view
	}

	line := viewLines[screenY]
	lineWidth := ansi.StringWidth(line)
	if startX >= lineWidth {
		return view
	}

	var result strings.Builder
	result.Grow(len(line) + 40)

	column := 0
	inBold := false
	var state byte
	for remaining := line; len(remaining) > 0; {
		sequence, displayWidth, byteCount, newState := ansi.DecodeSequence(remaining, state, nil)
		state = newState
		remaining = remaining[byteCount:]

		if displayWidth == 0 {
			result.WriteString(sequence)
			if inBold {
				result.WriteString("\x1b[1m")
			}
			continue
		}
		switch {
		case inBold && column >= endX:
			result.WriteString("\x1b[22m")
			inBold = false
		case !inBold && column >= startX && column < endX:
			result.WriteString("\x1b[1m")
			inBold = true
		}
		result.WriteString(sequence)
		column += displayWidth
	}
	if inBold {
		result.WriteString("\x1b[22m")
	}

	viewLines[screenY] = result.String()
	return strings.Join(viewLines, "\n")
}

// PadOverlayLine pads styled content to the overlay width with
// background-colored spaces: one column on the left, the rest on the
// right.
func PadOverlayLine(styledContent string, innerWidth, totalWidth int, backgroundStyle lipgloss.Style) string {
	rightPad := max(0, innerWidth-ansi.StringWidth(styledContent))
	return backgroundStyle.Render(" ") +
		styledContent +
		backgroundStyle.Render(strings.Repeat(" ", rightPad+1))
}

// ExtractExcerpt returns the first maxLines non-blank lines of body,
// each truncated to maxWidth.
func ExtractExcerpt(body string, maxWidth, maxLines int) []string {
	var result []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if ansi.StringWidth(trimmed) > maxWidth {
			trimmed = ansi.Truncate(trimmed, maxWidth-1, "…")
		}
		result = append(result, trimmed)
		if len(result) >= maxLines {
			break
		}
	}
	return result
}

// RenderBox renders a titled message box for [SpliceOverlay]: a bold
// title line followed by body lines, padded to a common width on the
// overlay background.
func RenderBox(theme Theme, title string, body []string) []string {
	innerWidth := ansi.StringWidth(title)
	for _, line := range body {
		innerWidth = max(innerWidth, ansi.StringWidth(line))
	}
	totalWidth := innerWidth + 2

	background := lipgloss.NewStyle().Background(theme.OverlayBackground).Foreground(theme.OverlayForeground)
	titleStyle := background.Bold(true).Foreground(theme.HeaderForeground)
	faint := background.Foreground(theme.FaintText)

	blank := background.Render(strings.Repeat(" ", totalWidth))
	lines := []string{blank, PadOverlayLine(titleStyle.Render(title), innerWidth, totalWidth, background)}
	for _, line := range body {
		lines = append(lines, PadOverlayLine(faint.Render(line), innerWidth, totalWidth, background))
	}
	return append(lines, blank)
}

// CenterAnchor returns the top-left position that centers overlay
// lines in a view of the given size.
func CenterAnchor(lines []string, width, height int) (int, int) {
	if len(lines) == 0 {
		return 0, 0
	}
	overlayWidth := ansi.StringWidth(lines[0])
	return max(0, (width-overlayWidth)/2), max(0, (height-len(lines))/2)
}
