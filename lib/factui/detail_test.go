// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factui

import (
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/factview/lib/inspector"
	"github.com/bureau-foundation/factview/lib/report"
	"github.com/bureau-foundation/factview/lib/report/reporttest"
	"github.com/bureau-foundation/factview/lib/tui"
)

func presentFact(t *testing.T, sample *report.Report, id string) *DetailPane {
	t.Helper()
	pane := NewDetailPane(tui.DefaultTheme)
	pane.SetSize(80, 200)
	pane.SetReport(sample)
	fact := reporttest.Fact(t, sample, id)
	pane.Present(inspector.State{Current: fact, Items: []report.Item{fact}})
	return pane
}

func detailText(pane *DetailPane) string {
	return ansi.Strip(pane.viewport.View())
}

func TestDetailPaneEmptyState(t *testing.T) {
	pane := NewDetailPane(tui.DefaultTheme)
	pane.SetSize(60, 10)
	pane.SetReport(reporttest.Build(t))

	view := ansi.Strip(pane.View(false))
	if !strings.Contains(view, "Select a tagged value") {
		t.Errorf("empty pane should explain how to select, got:\n%s", view)
	}
	if len(pane.Targets()) != 0 {
		t.Errorf("empty pane has %d targets", len(pane.Targets()))
	}
}

func TestDetailPaneFactProperties(t *testing.T) {
	sample := reporttest.Build(t)
	pane := presentFact(t, sample, reporttest.Revenue2020)
	text := detailText(pane)

	for _, want := range []string{
		"Revenue",
		"ex:Revenue",
		"1 Jan 2020 to 31 Dec 2020",
		"ACME",
		"increase on",
		"1 of 2",
		"Income statement",
		"Income arising from ordinary activities.",
		"IFRS",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("detail should contain %q:\n%s", want, text)
		}
	}
}

func TestDetailPaneChangeLink(t *testing.T) {
	sample := reporttest.Build(t)
	pane := presentFact(t, sample, reporttest.Revenue2020)

	target, ok := pane.TargetOfKind(TargetLink)
	if !ok {
		t.Fatal("change description should end in a link")
	}
	if target.Link.Primary != reporttest.Revenue2019 {
		t.Errorf("link primary = %q, want %q", target.Link.Primary, reporttest.Revenue2019)
	}
	if !slices.Equal(target.HoverIDs(), target.Link.IDs) {
		t.Errorf("hovering a link should link its ids, got %v", target.HoverIDs())
	}

	line := strings.Split(detailText(pane), "\n")[target.Line]
	label := ansi.Cut(line, target.StartX, target.EndX)
	if label != target.Link.Label {
		t.Errorf("target span covers %q, want %q", label, target.Link.Label)
	}

	found, ok := pane.TargetAt(target.Line, target.StartX)
	if !ok || found.Link.Primary != target.Link.Primary {
		t.Error("TargetAt should resolve the link span")
	}
	if _, ok := pane.TargetAt(target.Line, target.EndX); ok {
		t.Error("EndX is exclusive")
	}
}

func TestDetailPaneNoPriorFact(t *testing.T) {
	sample := reporttest.Build(t)
	pane := presentFact(t, sample, reporttest.Revenue2018)
	if !strings.Contains(detailText(pane), "No prior fact in this report") {
		t.Errorf("earliest fact should have no prior:\n%s", detailText(pane))
	}
	if _, ok := pane.TargetOfKind(TargetLink); ok {
		t.Error("no change link expected")
	}
}

func TestDetailPaneCalculation(t *testing.T) {
	sample := reporttest.Build(t)
	pane := presentFact(t, sample, reporttest.Profit2020)

	if pane.CalculationRole() != reporttest.IncomeStatementRole {
		t.Fatalf("expanded role = %q, want %q", pane.CalculationRole(), reporttest.IncomeStatementRole)
	}
	text := detailText(pane)
	for _, want := range []string{"Calculation", "▾ Income statement", "+ Revenue", "- Cost of sales"} {
		if !strings.Contains(text, want) {
			t.Errorf("calculation should contain %q:\n%s", want, text)
		}
	}

	var lineLinks []inspector.FactLink
	for _, target := range pane.Targets() {
		if target.Kind == TargetLink {
			lineLinks = append(lineLinks, target.Link)
		}
	}
	if len(lineLinks) != 2 {
		t.Fatalf("got %d calculation line links, want 2", len(lineLinks))
	}
	if !slices.Contains(lineLinks[0].IDs, reporttest.Revenue2020) || !slices.Contains(lineLinks[0].IDs, reporttest.Revenue2020Copy) {
		t.Errorf("revenue line should cover both duplicates, got %v", lineLinks[0].IDs)
	}

	// A single role wraps onto itself.
	pane.NextCalculation()
	if pane.CalculationRole() != reporttest.IncomeStatementRole {
		t.Errorf("NextCalculation with one role = %q", pane.CalculationRole())
	}
	pane.ExpandCalculation("")
	if strings.Contains(detailText(pane), "+ Revenue") {
		t.Error("collapsed role should hide its lines")
	}
}

func TestDetailPaneFootnotes(t *testing.T) {
	sample := reporttest.Build(t)
	pane := presentFact(t, sample, reporttest.Revenue2019)

	target, ok := pane.TargetOfKind(TargetItem)
	if !ok || target.ID != reporttest.Footnote {
		t.Fatalf("fact should link its footnote, got %+v (found %v)", target, ok)
	}

	footnote, err := sample.Item(reporttest.Footnote)
	if err != nil {
		t.Fatal(err)
	}
	pane.Present(inspector.State{Current: footnote, Items: []report.Item{footnote}})
	text := detailText(pane)
	if !strings.Contains(text, "Restated for the change in segment reporting.") {
		t.Errorf("footnote text should render without markdown markers:\n%s", text)
	}
	target, ok = pane.TargetOfKind(TargetItem)
	if !ok || target.ID != reporttest.Revenue2019 {
		t.Errorf("footnote should link its fact, got %+v", target)
	}
}

func TestDetailPaneAlternates(t *testing.T) {
	sample := reporttest.Build(t)
	pane := NewDetailPane(tui.DefaultTheme)
	pane.SetSize(80, 100)
	pane.SetReport(sample)

	first := reporttest.Fact(t, sample, reporttest.Revenue2020)
	second := reporttest.Fact(t, sample, reporttest.Revenue2020Copy)
	pane.Present(inspector.State{Current: second, Items: []report.Item{first, second}})

	text := detailText(pane)
	if !strings.Contains(text, "2 items at this location") {
		t.Errorf("alternates header missing:\n%s", text)
	}
	var alternates []string
	for _, target := range pane.Targets() {
		if target.Kind == TargetAlternate {
			alternates = append(alternates, target.ID)
		}
	}
	if !slices.Equal(alternates, []string{reporttest.Revenue2020, reporttest.Revenue2020Copy}) {
		t.Errorf("alternate targets = %v", alternates)
	}
	if !strings.Contains(text, "2 of 2") {
		t.Errorf("duplicate position should follow the current fact:\n%s", text)
	}
}

func TestDetailPaneKeepsScrollForSameItem(t *testing.T) {
	sample := reporttest.Build(t)
	pane := NewDetailPane(tui.DefaultTheme)
	pane.SetSize(80, 5)
	pane.SetReport(sample)
	fact := reporttest.Fact(t, sample, reporttest.Revenue2020)
	state := inspector.State{Current: fact, Items: []report.Item{fact}}
	pane.Present(state)

	pane.LineDown(3)
	pane.Present(state)
	if pane.viewport.YOffset != 3 {
		t.Errorf("re-presenting the same item should keep the scroll, got offset %d", pane.viewport.YOffset)
	}

	other := reporttest.Fact(t, sample, reporttest.Cost2020)
	pane.Present(inspector.State{Current: other, Items: []report.Item{other}})
	if pane.viewport.YOffset != 0 {
		t.Errorf("a new item should scroll to the top, got offset %d", pane.viewport.YOffset)
	}
}

func TestDetailPaneHiddenFact(t *testing.T) {
	sample := reporttest.Build(t)
	pane := presentFact(t, sample, reporttest.Policy)
	text := detailText(pane)
	if !strings.Contains(text, "Hidden") {
		t.Errorf("hidden fact should say so:\n%s", text)
	}
	if !strings.Contains(text, "n/a") {
		t.Errorf("text fact change should be n/a:\n%s", text)
	}
}
