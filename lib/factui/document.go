// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/factview/lib/highlight"
	"github.com/bureau-foundation/factview/lib/report"
	"github.com/bureau-foundation/factview/lib/tui"
)

// documentRow is one line of the document pane: a section title, a tag
// or a blank separator.
type documentRow struct {
	title string
	tag   int // Index into DocumentPane.tags; -1 for titles and blanks.
}

// documentTag is a tagged place in the document. A tag covers one id,
// or several when facts are nested at the same place; the first id is
// the outermost item.
type documentTag struct {
	ids    []string
	region highlight.Region
	row    int
}

// DocumentPane renders the report's sections and their tags and is
// the inspector's Document. Each tag is a region on the highlight bus,
// so its background follows the selected, linked and related layers.
// The keyboard cursor and the mouse share one pointer: whichever moved
// last hovers its tag.
type DocumentPane struct {
	theme  tui.Theme
	bus    *highlight.Bus
	heat   *tui.HeatTracker
	report *report.Report

	group   *highlight.Group
	pointer *highlight.Pointer

	rows []documentRow
	tags []documentTag

	cursor       int // Index into tags.
	scrollOffset int
	width        int
	height       int

	// highlighted is the id the inspector last highlighted.
	highlighted string
}

// NewDocumentPane creates an empty document pane on the bus.
func NewDocumentPane(theme tui.Theme, bus *highlight.Bus, heat *tui.HeatTracker) *DocumentPane {
	return &DocumentPane{
		theme:   theme,
		bus:     bus,
		heat:    heat,
		group:   bus.NewGroup(),
		pointer: bus.NewPointer(),
	}
}

// SetReport lays out a report, replacing the previous layout and its
// regions. The cursor stays on the tag holding the same first id when
// that tag still exists.
func (pane *DocumentPane) SetReport(source *report.Report) {
	var cursorID string
	if tag, ok := pane.CursorTag(); ok {
		cursorID = tag.IDs[0]
	}

	pane.pointer.Leave()
	pane.group.Reset()
	pane.report = source
	pane.rows = nil
	pane.tags = nil
	pane.cursor = 0

	for sectionIndex, section := range source.Sections() {
		if sectionIndex > 0 {
			pane.rows = append(pane.rows, documentRow{tag: -1})
		}
		pane.rows = append(pane.rows, documentRow{title: section.Title, tag: -1})
		for _, tag := range section.Tags {
			if tag.IDs[0] == cursorID && cursorID != "" {
				pane.cursor = len(pane.tags)
				cursorID = ""
			}
			pane.tags = append(pane.tags, documentTag{
				ids:    slices.Clone(tag.IDs),
				region: pane.group.Register(tag.IDs...),
				row:    len(pane.rows),
			})
			pane.rows = append(pane.rows, documentRow{tag: len(pane.tags) - 1})
		}
	}
	if pane.highlighted != "" && pane.tagIndexOf(pane.highlighted) < 0 {
		pane.highlighted = ""
	}
	pane.ensureCursorVisible()
}

// SetSize sets the pane dimensions.
func (pane *DocumentPane) SetSize(width, height int) {
	pane.width = width
	pane.height = height
	pane.ensureCursorVisible()
}

// ShowItem moves the cursor to the first tag holding id and scrolls it
// into view. Unknown ids leave the pane unchanged.
func (pane *DocumentPane) ShowItem(id string) {
	index := pane.tagIndexOf(id)
	if index < 0 {
		return
	}
	if index != pane.cursor {
		pane.cursor = index
		pane.pointer.Leave()
	}
	pane.ensureCursorVisible()
}

// HighlightItem marks the tag of the selected item.
func (pane *DocumentPane) HighlightItem(id string) { pane.highlighted = id }

// ClearHighlighting removes the selected mark.
func (pane *DocumentPane) ClearHighlighting() { pane.highlighted = "" }

// Highlighted returns the id marked by HighlightItem, or "".
func (pane *DocumentPane) Highlighted() string { return pane.highlighted }

// TagCount returns the number of tags laid out.
func (pane *DocumentPane) TagCount() int { return len(pane.tags) }

// CursorTag returns the tag under the cursor.
func (pane *DocumentPane) CursorTag() (report.Tag, bool) {
	if pane.cursor < 0 || pane.cursor >= len(pane.tags) {
		return report.Tag{}, false
	}
	return report.Tag{IDs: pane.tags[pane.cursor].ids}, true
}

// MoveCursor moves the cursor by delta tags, clamped, and hovers the
// new tag.
func (pane *DocumentPane) MoveCursor(delta int) {
	pane.MoveCursorTo(pane.cursor + delta)
}

// MoveCursorTo moves the cursor to a tag index, clamped, and hovers
// it.
func (pane *DocumentPane) MoveCursorTo(index int) {
	if len(pane.tags) == 0 {
		return
	}
	pane.cursor = max(0, min(index, len(pane.tags)-1))
	pane.pointer.Move(pane.tags[pane.cursor].ids...)
	pane.ensureCursorVisible()
}

// JumpHighlighted moves the cursor to the next (or previous) tag that
// is linked or related, wrapping around the document. Reports whether
// such a tag exists.
func (pane *DocumentPane) JumpHighlighted(forward bool) bool {
	count := len(pane.tags)
	if count == 0 {
		return false
	}
	step := 1
	if !forward {
		step = count - 1
	}
	for offset, index := 1, pane.cursor; offset <= count; offset++ {
		index = (index + step) % count
		state := pane.bus.RegionState(pane.tags[index].region)
		if (state.Related || state.Linked) && !slices.Equal(pane.tags[index].ids, pane.pointer.IDs()) {
			pane.MoveCursorTo(index)
			return true
		}
	}
	return false
}

// PointAt hovers the tag at a row relative to the pane top, or
// releases the hover when the row holds no tag.
func (pane *DocumentPane) PointAt(row int) {
	index, ok := pane.tagAtRow(row)
	if !ok {
		pane.pointer.Leave()
		return
	}
	pane.pointer.Move(pane.tags[index].ids...)
}

// ClickAt moves the cursor to the tag at a row relative to the pane
// top and returns it.
func (pane *DocumentPane) ClickAt(row int) (report.Tag, bool) {
	index, ok := pane.tagAtRow(row)
	if !ok {
		return report.Tag{}, false
	}
	pane.MoveCursorTo(index)
	return pane.CursorTag()
}

// LeavePointer releases the pane's hover.
func (pane *DocumentPane) LeavePointer() { pane.pointer.Leave() }

// Scroll moves the view by delta rows without moving the cursor.
func (pane *DocumentPane) Scroll(delta int) {
	pane.scrollOffset = max(0, min(pane.scrollOffset+delta, pane.maxOffset()))
}

// PageSize returns the number of visible rows.
func (pane *DocumentPane) PageSize() int { return max(1, pane.height) }

func (pane *DocumentPane) tagAtRow(row int) (int, bool) {
	line := pane.scrollOffset + row
	if row < 0 || line >= len(pane.rows) {
		return 0, false
	}
	index := pane.rows[line].tag
	return index, index >= 0
}

func (pane *DocumentPane) tagIndexOf(id string) int {
	return slices.IndexFunc(pane.tags, func(tag documentTag) bool {
		return slices.Contains(tag.ids, id)
	})
}

func (pane *DocumentPane) maxOffset() int {
	return max(0, len(pane.rows)-pane.height)
}

func (pane *DocumentPane) ensureCursorVisible() {
	if pane.height <= 0 || len(pane.tags) == 0 {
		return
	}
	row := pane.tags[pane.cursor].row
	// Keep the section title above the first tag in view.
	top := row
	if top > 0 && pane.rows[top-1].tag < 0 {
		top--
	}
	if top < pane.scrollOffset {
		pane.scrollOffset = top
	}
	if row >= pane.scrollOffset+pane.height {
		pane.scrollOffset = row - pane.height + 1
	}
	pane.scrollOffset = max(0, min(pane.scrollOffset, pane.maxOffset()))
}

// View renders the visible rows with a scrollbar on the right.
func (pane *DocumentPane) View(focused bool, now time.Time) string {
	if pane.height <= 0 || pane.width <= 2 {
		return ""
	}
	contentWidth := pane.width - 1
	lines := make([]string, 0, pane.height)
	for line := pane.scrollOffset; line < len(pane.rows) && len(lines) < pane.height; line++ {
		row := pane.rows[line]
		switch {
		case row.tag >= 0:
			lines = append(lines, pane.renderTag(row.tag, contentWidth, focused, now))
		case row.title != "":
			style := lipgloss.NewStyle().Bold(true).Foreground(pane.theme.HeaderForeground)
			lines = append(lines, style.Width(contentWidth).MaxWidth(contentWidth).Render(ansi.Truncate(row.title, contentWidth, "…")))
		default:
			lines = append(lines, strings.Repeat(" ", contentWidth))
		}
	}
	for len(lines) < pane.height {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}

	scrollbar := tui.RenderScrollbar(pane.theme, pane.height, tui.Scroll{
		Total:   len(pane.rows),
		Visible: pane.height,
		Offset:  pane.scrollOffset,
	}, focused)
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(lines, "\n"), scrollbar)
}

// renderTag renders one tag row: a gutter marker, the label on the
// left and the value on the right.
func (pane *DocumentPane) renderTag(index, width int, focused bool, now time.Time) string {
	tag := pane.tags[index]
	label, value, hidden := pane.describe(tag.ids)

	style := lipgloss.NewStyle().Foreground(pane.theme.NormalText)
	if hidden {
		style = style.Foreground(pane.theme.HiddenForeground)
	}
	state := pane.bus.RegionState(tag.region)
	if background, ok := pane.theme.RegionBackground(state); ok {
		style = style.Background(background)
		if state.Selected {
			style = style.Foreground(pane.theme.SelectedForeground)
		}
	} else if accent, hot := pane.heat.Accent(pane.theme, tag.ids[0], now); hot {
		style = style.Background(accent)
	} else if focused && index == pane.cursor {
		style = style.Background(pane.theme.CursorBackground).Foreground(pane.theme.CursorForeground)
	}

	gutter := " "
	switch {
	case index == pane.cursor && focused:
		gutter = lipgloss.NewStyle().Foreground(pane.theme.FocusAccent).Render("▌")
	case slices.Contains(tag.ids, pane.highlighted) && pane.highlighted != "":
		gutter = lipgloss.NewStyle().Foreground(pane.theme.SelectedBackground).Render("▸")
	}

	inner := width - 1
	valueWidth := min(ansi.StringWidth(value), inner/2)
	value = ansi.Truncate(value, valueWidth, "…")
	labelWidth := max(0, inner-valueWidth-1)
	label = ansi.Truncate(label, labelWidth, "…")
	padding := max(1, inner-ansi.StringWidth(label)-ansi.StringWidth(value))
	return gutter + style.Render(label+strings.Repeat(" ", padding)+value)
}

// describe returns the label and value shown for a tag and whether the
// outermost item is a hidden fact.
func (pane *DocumentPane) describe(ids []string) (string, string, bool) {
	item, err := pane.report.Item(ids[0])
	if err != nil {
		return ids[0], "", false
	}
	nested := ""
	if len(ids) > 1 {
		nested = fmt.Sprintf(" [+%d]", len(ids)-1)
	}
	switch item := item.(type) {
	case *report.Fact:
		return item.Label(report.RoleStandard) + nested, item.ReadableValue(), item.IsHidden()
	case *report.Footnote:
		return "Footnote" + nested, item.ReadableValue(), false
	}
	return ids[0], "", false
}
