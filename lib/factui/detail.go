// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/factview/lib/inspector"
	"github.com/bureau-foundation/factview/lib/report"
	"github.com/bureau-foundation/factview/lib/tui"
)

// fieldNameWidth is the width of the name column of fact properties.
const fieldNameWidth = 12

// TargetKind says what clicking a [ClickTarget] does.
type TargetKind int

const (
	// TargetAlternate switches to another item at the selected
	// location.
	TargetAlternate TargetKind = iota
	// TargetLink follows a fact link: its primary fact is selected
	// with the link's ids as alternates.
	TargetLink
	// TargetItem selects a single item (a footnote of the fact, or a
	// fact of the footnote).
	TargetItem
	// TargetCalculation expands a calculation role.
	TargetCalculation
)

// ClickTarget maps a span of a body line to an action.
type ClickTarget struct {
	Line   int // 0-based line in the body.
	StartX int // Inclusive.
	EndX   int // Exclusive.
	Kind   TargetKind

	// ID is the item id for alternates and items, or the role for
	// calculations.
	ID string

	// Link is the followed link for TargetLink.
	Link inspector.FactLink
}

// HoverIDs returns the ids linked while the target is under the
// pointer.
func (target ClickTarget) HoverIDs() []string {
	switch target.Kind {
	case TargetLink:
		return target.Link.IDs
	case TargetAlternate, TargetItem:
		return []string{target.ID}
	default:
		return nil
	}
}

// DetailPane is the inspector pane in detail mode and the inspector's
// Presenter. Every selection transition re-renders it from the
// presented state.
type DetailPane struct {
	viewport viewport.Model
	theme    tui.Theme
	report   *report.Report
	state    inspector.State
	width    int
	height   int

	// role is the expanded calculation role of the current fact.
	role    string
	targets []ClickTarget
}

// NewDetailPane creates an empty detail pane.
func NewDetailPane(theme tui.Theme) *DetailPane {
	return &DetailPane{theme: theme}
}

// SetReport sets the report the presented items come from.
func (pane *DetailPane) SetReport(source *report.Report) {
	pane.report = source
	pane.rerender()
}

// Present implements inspector.Presenter.
func (pane *DetailPane) Present(state inspector.State) {
	changed := state.CurrentID() != pane.state.CurrentID()
	pane.state = state
	if changed {
		pane.role = pane.bestRole()
	}
	pane.rerender()
	if changed {
		pane.viewport.GotoTop()
	}
}

// State returns the last presented state.
func (pane *DetailPane) State() inspector.State { return pane.state }

// SetSize sets the pane dimensions and re-renders at the new width.
func (pane *DetailPane) SetSize(width, height int) {
	resized := width != pane.width
	pane.width = width
	pane.height = height
	pane.viewport.Width = pane.contentWidth()
	pane.viewport.Height = max(1, height)
	if resized {
		pane.rerender()
	}
}

func (pane *DetailPane) contentWidth() int {
	// One column of left padding and one for the scrollbar.
	return max(10, pane.width-2)
}

// CalculationRole returns the expanded calculation role, or "".
func (pane *DetailPane) CalculationRole() string { return pane.role }

// ExpandCalculation expands the named role of the current fact.
func (pane *DetailPane) ExpandCalculation(role string) {
	pane.role = role
	pane.rerender()
}

// NextCalculation expands the role after the expanded one, wrapping.
func (pane *DetailPane) NextCalculation() {
	fact, ok := pane.state.Current.(*report.Fact)
	if !ok || pane.report == nil {
		return
	}
	roles := pane.report.Calculation(fact).ELRs
	if len(roles) == 0 {
		return
	}
	index := slices.Index(roles, pane.role)
	pane.ExpandCalculation(roles[(index+1)%len(roles)])
}

// bestRole picks the role whose contributors best overlap the section
// the current fact appears in.
func (pane *DetailPane) bestRole() string {
	fact, ok := pane.state.Current.(*report.Fact)
	if !ok || pane.report == nil {
		return ""
	}
	calculation := pane.report.Calculation(fact)
	return calculation.BestELR(pane.report.SectionFacts(pane.report.SectionOf(fact.ID())))
}

// Targets returns the click targets of the rendered body.
func (pane *DetailPane) Targets() []ClickTarget { return pane.targets }

// TargetAt returns the target at a viewport-relative position. x is
// relative to the content area, after the left padding.
func (pane *DetailPane) TargetAt(viewportY, x int) (ClickTarget, bool) {
	line := pane.viewport.YOffset + viewportY
	for _, target := range pane.targets {
		if target.Line == line && x >= target.StartX && x < target.EndX {
			return target, true
		}
	}
	return ClickTarget{}, false
}

// TargetOfKind returns the first target of a kind.
func (pane *DetailPane) TargetOfKind(kind TargetKind) (ClickTarget, bool) {
	for _, target := range pane.targets {
		if target.Kind == kind {
			return target, true
		}
	}
	return ClickTarget{}, false
}

// ScrollUp scrolls up half a page.
func (pane *DetailPane) ScrollUp() { pane.viewport.HalfViewUp() }

// ScrollDown scrolls down half a page.
func (pane *DetailPane) ScrollDown() { pane.viewport.HalfViewDown() }

// LineUp scrolls up by n lines.
func (pane *DetailPane) LineUp(n int) { pane.viewport.LineUp(n) }

// LineDown scrolls down by n lines.
func (pane *DetailPane) LineDown(n int) { pane.viewport.LineDown(n) }

// GotoTop scrolls to the first line.
func (pane *DetailPane) GotoTop() { pane.viewport.GotoTop() }

// GotoBottom scrolls to the last line.
func (pane *DetailPane) GotoBottom() { pane.viewport.GotoBottom() }

func (pane *DetailPane) rerender() {
	if pane.report == nil || pane.state.Current == nil {
		pane.targets = nil
		pane.viewport.SetContent("")
		return
	}
	previousOffset := pane.viewport.YOffset

	builder := &bodyBuilder{theme: pane.theme, width: pane.contentWidth()}
	builder.alternates(pane.state)
	switch current := pane.state.Current.(type) {
	case *report.Fact:
		builder.fact(pane.report, current, pane.role)
	case *report.Footnote:
		builder.footnote(current)
	}

	pane.targets = builder.targets
	pane.viewport.SetContent(strings.Join(builder.lines, "\n"))
	maxOffset := max(0, pane.viewport.TotalLineCount()-pane.viewport.Height)
	pane.viewport.SetYOffset(min(previousOffset, maxOffset))
}

// View renders the pane with a left padding column and a scrollbar.
func (pane *DetailPane) View(focused bool) string {
	contentWidth := pane.contentWidth()
	paddingStyle := lipgloss.NewStyle().PaddingLeft(1).Width(pane.width - 1).Height(pane.height)

	if pane.state.Current == nil {
		empty := lipgloss.NewStyle().Foreground(pane.theme.FaintText).
			Render("Select a tagged value in the document to inspect it")
		content := paddingStyle.Render(lipgloss.Place(contentWidth, pane.height, lipgloss.Center, lipgloss.Center, empty))
		return lipgloss.JoinHorizontal(lipgloss.Top, content, tui.RenderScrollbar(pane.theme, pane.height, tui.Scroll{}, focused))
	}

	content := paddingStyle.Render(pane.viewport.View())
	scrollbar := tui.RenderScrollbar(pane.theme, pane.height, tui.Scroll{
		Total:   pane.viewport.TotalLineCount(),
		Visible: pane.viewport.Height,
		Offset:  pane.viewport.YOffset,
	}, focused)
	return lipgloss.JoinHorizontal(lipgloss.Top, content, scrollbar)
}

// bodyBuilder accumulates body lines and the click targets on them.
type bodyBuilder struct {
	theme   tui.Theme
	width   int
	lines   []string
	targets []ClickTarget
}

func (builder *bodyBuilder) line(text string) {
	builder.lines = append(builder.lines, ansi.Truncate(text, builder.width, "…"))
}

func (builder *bodyBuilder) blank() {
	builder.lines = append(builder.lines, "")
}

// heading renders "── Title ────" across the width after a blank line.
func (builder *bodyBuilder) heading(title string) {
	builder.blank()
	rule := lipgloss.NewStyle().Foreground(builder.theme.BorderColor)
	text := lipgloss.NewStyle().Bold(true).Foreground(builder.theme.HeaderForeground)
	remaining := max(0, builder.width-ansi.StringWidth(title)-4)
	builder.line(rule.Render("── ") + text.Render(title) + " " + rule.Render(strings.Repeat("─", remaining)))
}

// field renders a property with its value wrapped under the value
// column.
func (builder *bodyBuilder) field(name, value string) {
	nameStyle := lipgloss.NewStyle().Foreground(builder.theme.FaintText)
	valueWidth := max(1, builder.width-fieldNameWidth)
	wrapped := strings.Split(ansi.Wrap(value, valueWidth, " ,.;-+|"), "\n")
	for index, part := range wrapped {
		label := ""
		if index == 0 {
			label = ansi.Truncate(name, fieldNameWidth-1, "…")
		}
		builder.line(nameStyle.Render(padRight(label, fieldNameWidth)) + part)
	}
}

// link renders prefix followed by a clickable label and records the
// target over the label.
func (builder *bodyBuilder) link(prefix, label string, target ClickTarget) {
	startX := ansi.StringWidth(prefix)
	if startX >= builder.width {
		builder.line(prefix)
		return
	}
	label = ansi.Truncate(label, builder.width-startX, "…")
	style := lipgloss.NewStyle().Foreground(builder.theme.LinkForeground).Underline(true)
	target.Line = len(builder.lines)
	target.StartX = startX
	target.EndX = startX + ansi.StringWidth(label)
	builder.targets = append(builder.targets, target)
	builder.line(prefix + style.Render(label))
}

// alternates lists the items at the selected location when there is
// more than one, marking the current one.
func (builder *bodyBuilder) alternates(state inspector.State) {
	if len(state.Items) < 2 {
		return
	}
	faint := lipgloss.NewStyle().Foreground(builder.theme.FaintText)
	builder.line(faint.Render(fmt.Sprintf("%d items at this location", len(state.Items))))
	for _, item := range state.Items {
		marker := "  "
		if item.ID() == state.CurrentID() {
			marker = lipgloss.NewStyle().Foreground(builder.theme.FocusAccent).Render("▸ ")
		}
		builder.link(marker, itemTitle(item), ClickTarget{Kind: TargetAlternate, ID: item.ID()})
	}
	builder.blank()
}

func (builder *bodyBuilder) fact(source *report.Report, fact *report.Fact, role string) {
	title := lipgloss.NewStyle().Bold(true).Foreground(builder.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(builder.theme.FaintText)
	builder.line(title.Render(fact.Label(report.RoleStandard)))
	builder.line(faint.Render(fact.Concept()))
	builder.blank()

	builder.field("Value", fact.ReadableValue())
	builder.field("Accuracy", fact.ReadableAccuracy())
	builder.field("Period", fact.Period().String())
	builder.field("Entity", fact.Entity().String())
	for _, dimension := range fact.Dimensions() {
		builder.field(dimension.Label, dimension.ValueLabel)
	}
	if fact.IsHidden() {
		builder.field("Hidden", "yes")
	}
	if section := source.SectionOf(fact.ID()); section != "" {
		builder.field("Section", section)
	}

	change := inspector.ComputePeriodChange(source, fact)
	if change.HasLink() {
		prefix := lipgloss.NewStyle().Foreground(builder.theme.FaintText).Render(padRight("Change", fieldNameWidth))
		text := change.Prefix()
		if change.Kind == inspector.ChangePercent {
			text = lipgloss.NewStyle().Foreground(builder.theme.DirectionColor(change.Percent.IsNegative())).Render(text)
		}
		builder.link(prefix+text, change.Link.Label, ClickTarget{Kind: TargetLink, Link: change.Link})
	} else {
		builder.field("Change", change.Describe())
	}

	if duplicates := inspector.Duplicates(source, fact); duplicates.Len() > 1 {
		builder.field("Duplicates", duplicates.String()+faint.Render("  [ and ] to cycle"))
	}

	builder.calculation(source, fact, role)

	if footnotes := source.FootnotesOf(fact); len(footnotes) > 0 {
		builder.heading("Footnotes")
		for _, footnote := range footnotes {
			builder.link("  ", footnote.ReadableValue(), ClickTarget{Kind: TargetItem, ID: footnote.ID()})
		}
	}

	if documentation := fact.Label(report.RoleDocumentation); documentation != "" {
		builder.heading("Documentation")
		for _, part := range strings.Split(ansi.Wrap(documentation, builder.width, " ,.;-+|"), "\n") {
			builder.line(part)
		}
	}

	if concept, ok := source.Concept(fact.Concept()); ok && len(concept.References) > 0 {
		builder.heading("References")
		for _, reference := range concept.References {
			parts := make([]string, 0, len(reference))
			for _, part := range reference {
				parts = append(parts, part.Part+" "+part.Value)
			}
			builder.line("  " + strings.Join(parts, ", "))
		}
	}
}

// calculation lists the fact's calculation roles with the expanded one
// showing its weighted contributors.
func (builder *bodyBuilder) calculation(source *report.Report, fact *report.Fact, role string) {
	calculation := source.Calculation(fact)
	if !calculation.HasCalculation() {
		return
	}
	builder.heading("Calculation")
	faint := lipgloss.NewStyle().Foreground(builder.theme.FaintText)
	for _, elr := range calculation.ELRs {
		marker := "▸ "
		if elr == role {
			marker = "▾ "
		}
		builder.link(marker, source.RoleLabel(elr), ClickTarget{Kind: TargetCalculation, ID: elr})
		if elr != role {
			continue
		}
		for _, line := range calculation.Lines[elr] {
			prefix := "    " + line.Sign() + " "
			label := source.Label(line.Concept, report.RoleStandard)
			if label == "" {
				label = line.Concept
			}
			if len(line.Facts) == 0 {
				builder.line(prefix + label + faint.Render("  not reported"))
				continue
			}
			ids := make([]string, len(line.Facts))
			for index, contributor := range line.Facts {
				ids[index] = contributor.ID()
			}
			link := inspector.FactLink{Label: label, Primary: ids[0], IDs: ids}
			value := line.Facts[0].ReadableValue()
			if len(line.Facts) > 1 {
				value += fmt.Sprintf(" (%d facts)", len(line.Facts))
			}
			builder.link(prefix, label+"  "+value, ClickTarget{Kind: TargetLink, Link: link})
		}
	}
}

func (builder *bodyBuilder) footnote(footnote *report.Footnote) {
	title := lipgloss.NewStyle().Bold(true).Foreground(builder.theme.HeaderForeground)
	builder.line(title.Render("Footnote " + footnote.ID()))
	builder.blank()
	for _, line := range strings.Split(renderMarkdown(footnote.Text(), builder.theme, builder.width), "\n") {
		builder.line(line)
	}

	facts := footnote.Facts()
	if len(facts) == 0 {
		return
	}
	builder.heading("Facts")
	for _, fact := range facts {
		label := fact.Label(report.RoleStandard) + "  " + fact.Period().String() + "  " + fact.ReadableValue()
		builder.link("  ", label, ClickTarget{Kind: TargetItem, ID: fact.ID()})
	}
}

// itemTitle names an item in lists of items.
func itemTitle(item report.Item) string {
	switch item := item.(type) {
	case *report.Fact:
		return item.Label(report.RoleStandard) + " (" + item.Period().String() + ")"
	case *report.Footnote:
		return "Footnote " + item.ID()
	default:
		return item.ID()
	}
}

func padRight(text string, width int) string {
	return text + strings.Repeat(" ", max(0, width-ansi.StringWidth(text)))
}
