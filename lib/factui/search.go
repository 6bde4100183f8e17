// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/factview/lib/factsearch"
	"github.com/bureau-foundation/factview/lib/highlight"
	"github.com/bureau-foundation/factview/lib/inspector"
	"github.com/bureau-foundation/factview/lib/report"
	"github.com/bureau-foundation/factview/lib/tui"
)

// searchHeaderRows is the number of rows above the result list: the
// query input, the filter bar and the result count.
const searchHeaderRows = 3

// SearchControl identifies a clickable control in the filter bar.
type SearchControl int

const (
	ControlNone SearchControl = iota
	ControlVisible
	ControlHidden
	ControlPeriod
	ControlConceptType
	ControlReset
)

// SearchHit is the outcome of a click in the search pane.
type SearchHit struct {
	// Control is set for clicks on the filter bar.
	Control SearchControl

	// ControlX is the column where the clicked control starts, for
	// anchoring the period dropdown.
	ControlX int

	// Result is the index of a clicked result row, or -1.
	Result int

	// More is set for a click on the "show more" row.
	More bool

	// Input is set for a click on the query line.
	Input bool
}

type controlRange struct {
	startX  int
	endX    int
	control SearchControl
}

// SearchPane is the inspector pane in search mode: a query input, the
// filter bar and the revealed results of the paginator. Typing edits
// the query and re-runs the search on every keystroke.
type SearchPane struct {
	theme     tui.Theme
	paginator *inspector.Paginator
	bus       *highlight.Bus
	group     *highlight.Group
	pointer   *highlight.Pointer

	// Input is the query text. Active is true while keystrokes go to
	// the input.
	Input  string
	Active bool

	regions      []highlight.Region
	cursor       int // Index into results, or len(results) for the "more" row.
	scrollOffset int
	width        int
	height       int

	controlRanges []controlRange
}

// NewSearchPane creates a search pane over the paginator's results.
func NewSearchPane(theme tui.Theme, paginator *inspector.Paginator, bus *highlight.Bus) *SearchPane {
	return &SearchPane{
		theme:     theme,
		paginator: paginator,
		bus:       bus,
		group:     bus.NewGroup(),
		pointer:   bus.NewPointer(),
		Input:     paginator.Controls().SearchString,
	}
}

// SetSize sets the pane dimensions.
func (pane *SearchPane) SetSize(width, height int) {
	pane.width = width
	pane.height = height
	pane.ensureCursorVisible()
}

// HandleRune appends a character to the query and re-runs the search.
func (pane *SearchPane) HandleRune(character rune) {
	pane.Input += string(character)
	pane.runQuery()
}

// HandleBackspace removes the last character of the query. Returns
// true if the query changed.
func (pane *SearchPane) HandleBackspace() bool {
	if pane.Input == "" {
		return false
	}
	runes := []rune(pane.Input)
	pane.Input = string(runes[:len(runes)-1])
	pane.runQuery()
	return true
}

// ClearInput empties the query and re-runs the search.
func (pane *SearchPane) ClearInput() {
	pane.Input = ""
	pane.runQuery()
}

func (pane *SearchPane) runQuery() {
	controls := pane.paginator.Controls()
	controls.SearchString = pane.Input
	pane.apply(controls)
}

// ToggleVisible flips the visible-facts filter.
func (pane *SearchPane) ToggleVisible() {
	controls := pane.paginator.Controls()
	controls.ShowVisibleFacts = !controls.ShowVisibleFacts
	pane.apply(controls)
}

// ToggleHidden flips the hidden-facts filter.
func (pane *SearchPane) ToggleHidden() {
	controls := pane.paginator.Controls()
	controls.ShowHiddenFacts = !controls.ShowHiddenFacts
	pane.apply(controls)
}

// CycleConceptType steps the concept type filter through any, numeric
// and text.
func (pane *SearchPane) CycleConceptType() {
	controls := pane.paginator.Controls()
	switch controls.ConceptTypeFilter {
	case factsearch.AnyConceptType:
		controls.ConceptTypeFilter = factsearch.ConceptTypeNumeric
	case factsearch.ConceptTypeNumeric:
		controls.ConceptTypeFilter = factsearch.ConceptTypeText
	default:
		controls.ConceptTypeFilter = factsearch.AnyConceptType
	}
	pane.apply(controls)
}

// SetPeriod sets the period filter to a period key.
func (pane *SearchPane) SetPeriod(key string) {
	controls := pane.paginator.Controls()
	controls.PeriodFilter = key
	pane.apply(controls)
}

// ResetFilters restores the default filters, keeping the query.
func (pane *SearchPane) ResetFilters() {
	pane.paginator.ResetFilters()
	pane.cursor = 0
	pane.scrollOffset = 0
	pane.Refresh()
}

// ShowMore reveals the next page of results.
func (pane *SearchPane) ShowMore() {
	pane.paginator.ShowMore()
	pane.Refresh()
}

// Run re-runs the search with the current controls.
func (pane *SearchPane) Run() {
	pane.apply(pane.paginator.Controls())
}

func (pane *SearchPane) apply(controls inspector.Controls) {
	pane.paginator.SetControls(controls)
	pane.cursor = 0
	pane.scrollOffset = 0
	pane.Refresh()
}

// Refresh re-registers the result rows after the paginator's results
// changed, for example when the search index was replaced.
func (pane *SearchPane) Refresh() {
	pane.pointer.Leave()
	pane.group.Reset()
	revealed := pane.paginator.Revealed()
	pane.regions = make([]highlight.Region, len(revealed))
	for index, result := range revealed {
		pane.regions[index] = pane.group.Register(result.Fact.ID())
	}
	pane.cursor = max(0, min(pane.cursor, pane.RowCount()-1))
	pane.ensureCursorVisible()
}

// PeriodDropdown opens the period filter options anchored at a screen
// position.
func (pane *SearchPane) PeriodDropdown(anchorX, anchorY int) *tui.DropdownOverlay {
	periods := pane.paginator.PeriodOptions()
	options := make([]tui.DropdownOption, len(periods))
	for index, period := range periods {
		options[index] = tui.DropdownOption{Label: period.Label, Value: period.Key}
	}
	return tui.NewDropdown("period", options, pane.paginator.Controls().PeriodFilter, anchorX, anchorY)
}

// RowCount returns the number of list rows: the revealed results plus
// the "show more" row when more results remain.
func (pane *SearchPane) RowCount() int {
	count := len(pane.paginator.Revealed())
	if pane.paginator.HasMore() {
		count++
	}
	return count
}

// Cursor returns the cursor row index.
func (pane *SearchPane) Cursor() int { return pane.cursor }

// MoveCursor moves the cursor by delta rows, clamped, and hovers the
// result under it.
func (pane *SearchPane) MoveCursor(delta int) {
	pane.MoveCursorTo(pane.cursor + delta)
}

// MoveCursorTo moves the cursor to a row, clamped.
func (pane *SearchPane) MoveCursorTo(index int) {
	count := pane.RowCount()
	if count == 0 {
		return
	}
	pane.cursor = max(0, min(index, count-1))
	pane.hoverRow(pane.cursor)
	pane.ensureCursorVisible()
}

// Activate acts on the cursor row: it returns the result's fact id, or
// reveals the next page when the cursor is on the "show more" row.
func (pane *SearchPane) Activate() (string, bool) {
	revealed := pane.paginator.Revealed()
	if pane.cursor < len(revealed) {
		return revealed[pane.cursor].Fact.ID(), true
	}
	if pane.paginator.HasMore() {
		pane.ShowMore()
	}
	return "", false
}

// PointAt hovers the result at a row relative to the list top.
func (pane *SearchPane) PointAt(row int) {
	index := pane.scrollOffset + row
	if row < 0 || index >= len(pane.regions) {
		pane.pointer.Leave()
		return
	}
	pane.hoverRow(index)
}

// LeavePointer releases the pane's hover.
func (pane *SearchPane) LeavePointer() { pane.pointer.Leave() }

func (pane *SearchPane) hoverRow(index int) {
	revealed := pane.paginator.Revealed()
	if index < 0 || index >= len(revealed) {
		pane.pointer.Leave()
		return
	}
	pane.pointer.Move(revealed[index].Fact.ID())
}

// Scroll moves the result list by delta rows without moving the
// cursor.
func (pane *SearchPane) Scroll(delta int) {
	pane.scrollOffset = max(0, min(pane.scrollOffset+delta, pane.maxOffset()))
}

// HitTest resolves a click at a position relative to the pane.
func (pane *SearchPane) HitTest(x, y int) SearchHit {
	hit := SearchHit{Result: -1}
	switch {
	case y == 0:
		hit.Input = true
	case y == 1:
		for _, span := range pane.controlRanges {
			if x >= span.startX && x < span.endX {
				hit.Control = span.control
				hit.ControlX = span.startX
			}
		}
	case y >= searchHeaderRows:
		index := pane.scrollOffset + y - searchHeaderRows
		revealed := pane.paginator.Revealed()
		switch {
		case index < len(revealed):
			hit.Result = index
		case index == len(revealed) && pane.paginator.HasMore():
			hit.More = true
		}
	}
	return hit
}

func (pane *SearchPane) listHeight() int {
	return max(0, pane.height-searchHeaderRows)
}

func (pane *SearchPane) maxOffset() int {
	return max(0, pane.RowCount()-pane.listHeight())
}

func (pane *SearchPane) ensureCursorVisible() {
	visible := pane.listHeight()
	if visible <= 0 {
		return
	}
	if pane.cursor < pane.scrollOffset {
		pane.scrollOffset = pane.cursor
	}
	if pane.cursor >= pane.scrollOffset+visible {
		pane.scrollOffset = pane.cursor - visible + 1
	}
	pane.scrollOffset = max(0, min(pane.scrollOffset, pane.maxOffset()))
}

// View renders the pane: header rows, results and a scrollbar beside
// the list. A no-match box is drawn over an empty list.
func (pane *SearchPane) View(focused bool) string {
	if pane.height <= 0 || pane.width <= 2 {
		return ""
	}
	contentWidth := pane.width - 1
	lines := []string{
		padRight(pane.renderInput(contentWidth), contentWidth),
		padRight(pane.renderFilterBar(contentWidth), contentWidth),
		padRight(pane.renderSummary(contentWidth), contentWidth),
	}

	revealed := pane.paginator.Revealed()
	visible := pane.listHeight()
	for row := pane.scrollOffset; row < pane.RowCount() && len(lines)-searchHeaderRows < visible; row++ {
		if row < len(revealed) {
			lines = append(lines, pane.renderResult(row, revealed[row], contentWidth, focused))
			continue
		}
		style := lipgloss.NewStyle().Foreground(pane.theme.LinkForeground).Underline(true)
		label := fmt.Sprintf("Show more results (%d of %d shown)", len(revealed), pane.paginator.Total())
		if focused && row == pane.cursor && !pane.Active {
			style = style.Background(pane.theme.CursorBackground)
		}
		lines = append(lines, " "+padRight(style.Render(ansi.Truncate(label, contentWidth-1, "…")), contentWidth-1))
	}
	for len(lines) < pane.height {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}
	lines = lines[:pane.height]

	body := strings.Join(lines, "\n")
	if feedback := pane.paginator.Feedback(); feedback != nil && visible > 0 {
		box := tui.RenderBox(pane.theme, feedback.Title, []string{feedback.Hint})
		anchorX, anchorY := tui.CenterAnchor(box, contentWidth, visible)
		body = tui.SpliceOverlay(body, box, anchorX, anchorY+searchHeaderRows)
	}

	headerGutter := strings.Repeat(" \n", searchHeaderRows)
	scrollbar := headerGutter + tui.RenderScrollbar(pane.theme, visible, tui.Scroll{
		Total:   pane.RowCount(),
		Visible: visible,
		Offset:  pane.scrollOffset,
	}, focused)
	return lipgloss.JoinHorizontal(lipgloss.Top, body, strings.TrimSuffix(scrollbar, "\n"))
}

func (pane *SearchPane) renderInput(width int) string {
	prompt := lipgloss.NewStyle().Foreground(pane.theme.FocusAccent).Bold(true).Render("/ ")
	if pane.Input == "" && !pane.Active {
		return prompt + lipgloss.NewStyle().Foreground(pane.theme.FaintText).Render("Search facts")
	}
	text := pane.Input
	if pane.Active {
		text += "▏"
	}
	// Keep the end of a long query in view.
	if overflow := ansi.StringWidth(text) - (width - 2); overflow > 0 {
		text = "…" + ansi.TruncateLeft(text, overflow+1, "")
	}
	return prompt + lipgloss.NewStyle().Foreground(pane.theme.NormalText).Render(text)
}

// renderFilterBar renders the filter controls and records their
// column ranges for clicks.
func (pane *SearchPane) renderFilterBar(width int) string {
	controls := pane.paginator.Controls()
	label := lipgloss.NewStyle().Foreground(pane.theme.HelpText)
	value := lipgloss.NewStyle().Foreground(pane.theme.NormalText)

	periodLabel := inspector.AllPeriodsLabel
	for _, option := range pane.paginator.PeriodOptions() {
		if option.Key == controls.PeriodFilter {
			periodLabel = option.Label
		}
	}
	conceptType := controls.ConceptTypeFilter
	if conceptType == factsearch.AnyConceptType {
		conceptType = "any"
	}

	parts := []struct {
		control SearchControl
		text    string
	}{
		{ControlVisible, checkbox(controls.ShowVisibleFacts) + " Visible"},
		{ControlHidden, checkbox(controls.ShowHiddenFacts) + " Hidden"},
		{ControlPeriod, "Period: " + periodLabel + " ▾"},
		{ControlConceptType, "Type: " + conceptType},
		{ControlReset, "Reset"},
	}

	pane.controlRanges = pane.controlRanges[:0]
	var bar strings.Builder
	x := 0
	for index, part := range parts {
		if index > 0 {
			bar.WriteString("  ")
			x += 2
		}
		partWidth := ansi.StringWidth(part.text)
		if x+partWidth > width {
			break
		}
		pane.controlRanges = append(pane.controlRanges, controlRange{startX: x, endX: x + partWidth, control: part.control})
		if name, rest, found := strings.Cut(part.text, ": "); found {
			bar.WriteString(label.Render(name+": ") + value.Render(rest))
		} else {
			bar.WriteString(value.Render(part.text))
		}
		x += partWidth
	}
	return bar.String()
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func (pane *SearchPane) renderSummary(width int) string {
	faint := lipgloss.NewStyle().Foreground(pane.theme.FaintText)
	switch {
	case !pane.paginator.Ready():
		return faint.Render("Building search index…")
	case pane.paginator.Feedback() != nil:
		return ""
	}
	total := pane.paginator.Total()
	noun := "facts"
	if total == 1 {
		noun = "fact"
	}
	return faint.Render(ansi.Truncate(fmt.Sprintf("%d %s", total, noun), width, "…"))
}

// renderResult renders one result: the label with the query's fuzzy
// matches emphasized, then the period and the value on the right.
func (pane *SearchPane) renderResult(index int, result factsearch.Result, width int, focused bool) string {
	fact := result.Fact
	style := lipgloss.NewStyle().Foreground(pane.theme.NormalText)
	if fact.IsHidden() {
		style = style.Foreground(pane.theme.HiddenForeground)
	}
	// Every result is related, so only the selected and linked layers
	// distinguish rows here.
	state := pane.bus.RegionState(pane.regions[index])
	state.Related = false
	if background, ok := pane.theme.RegionBackground(state); ok {
		style = style.Background(background)
	} else if focused && index == pane.cursor && !pane.Active {
		style = style.Background(pane.theme.CursorBackground).Foreground(pane.theme.CursorForeground)
	}

	gutter := " "
	if focused && index == pane.cursor && !pane.Active {
		gutter = lipgloss.NewStyle().Foreground(pane.theme.FocusAccent).Render("▌")
	}

	inner := width - 1
	trailing := fact.Period().String() + "  " + fact.ReadableValue()
	trailingWidth := min(ansi.StringWidth(trailing), inner/2)
	trailing = ansi.Truncate(trailing, trailingWidth, "…")
	labelWidth := max(0, inner-trailingWidth-1)
	label := ansi.Truncate(fact.Label(report.RoleStandard), labelWidth, "…")
	padding := max(1, inner-ansi.StringWidth(label)-trailingWidth)

	return gutter + pane.emphasize(label, style) + style.Render(strings.Repeat(" ", padding)+trailing)
}

// emphasize renders text in style with the characters fuzzily matched
// by the query drawn in the match color.
func (pane *SearchPane) emphasize(text string, style lipgloss.Style) string {
	matched := pane.matchedRunes(text)
	if len(matched) == 0 {
		return style.Render(text)
	}
	emphasis := style.Foreground(pane.theme.MatchForeground).Bold(true)
	var builder strings.Builder
	for position, character := range []rune(text) {
		if matched[position] {
			builder.WriteString(emphasis.Render(string(character)))
		} else {
			builder.WriteString(style.Render(string(character)))
		}
	}
	return builder.String()
}

// matchedRunes returns the rune offsets in text that the query
// fuzzily matches.
func (pane *SearchPane) matchedRunes(text string) map[int]bool {
	if strings.TrimSpace(pane.Input) == "" {
		return nil
	}
	match := factsearch.FuzzyMatch(text, []rune(strings.TrimSpace(pane.Input)), nil)
	if len(match.Positions) == 0 {
		return nil
	}
	matched := make(map[int]bool, len(match.Positions))
	for _, position := range match.Positions {
		matched[position] = true
	}
	return matched
}
