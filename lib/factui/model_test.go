// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factui

import (
	"log/slog"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/factview/lib/inspector"
	"github.com/bureau-foundation/factview/lib/report"
	"github.com/bureau-foundation/factview/lib/report/reporttest"
)

func newTestModel(t *testing.T, fragment string) Model {
	t.Helper()
	model := NewModel(Config{
		Report:   reporttest.Build(t),
		Location: inspector.NewMemoryLocation(fragment),
		Reload: func(language string) (*report.Report, error) {
			return report.Build(reporttest.Snapshot(), report.Options{Language: language})
		},
		Logger: slog.New(slog.DiscardHandler),
	})
	return send(model, tea.WindowSizeMsg{Width: 120, Height: 30})
}

func send(model Model, message tea.Msg) Model {
	updated, _ := model.Update(message)
	return updated.(Model)
}

// press sends each key in turn. Single characters are sent as runes;
// "enter", "esc" and "tab" as their special keys.
func press(model Model, keys ...string) Model {
	for _, name := range keys {
		var message tea.KeyMsg
		switch name {
		case "enter":
			message = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			message = tea.KeyMsg{Type: tea.KeyEscape}
		case "tab":
			message = tea.KeyMsg{Type: tea.KeyTab}
		default:
			message = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
		}
		model = send(model, message)
	}
	return model
}

func currentID(model Model) string {
	return model.Inspector().Selection.State().CurrentID()
}

// withIndex runs the Init command and delivers the built index.
func withIndex(t *testing.T, model Model) Model {
	t.Helper()
	command := model.Init()
	if command == nil {
		t.Fatal("Init should build the search index")
	}
	return send(model, command())
}

func TestModelLoadingView(t *testing.T) {
	model := NewModel(Config{Report: reporttest.Build(t), Logger: slog.New(slog.DiscardHandler)})
	if model.View() != "Loading..." {
		t.Errorf("before the first resize View = %q", model.View())
	}

	model = send(model, tea.WindowSizeMsg{Width: 120, Height: 30})
	view := ansi.Strip(model.View())
	for _, want := range []string{"factview", "[DOC]", "Income statement", "Select a tagged"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}
	if lines := strings.Split(view, "\n"); len(lines) != 30 {
		t.Errorf("view has %d lines, want 30", len(lines))
	}
}

func TestModelDeepLink(t *testing.T) {
	model := newTestModel(t, "#f-"+reporttest.Cost2020)
	if currentID(model) != reporttest.Cost2020 {
		t.Errorf("deep link selected %q, want %s", currentID(model), reporttest.Cost2020)
	}
	if model.document.Highlighted() != reporttest.Cost2020 {
		t.Error("deep link should highlight the tag")
	}
}

func TestModelUnknownDeepLink(t *testing.T) {
	model := newTestModel(t, "#f-missing")
	if currentID(model) != "" {
		t.Errorf("unknown deep link selected %q", currentID(model))
	}
}

func TestModelSelectWithKeyboard(t *testing.T) {
	model := newTestModel(t, "")
	model = press(model, "j", "enter")

	if currentID(model) != reporttest.Revenue2019 {
		t.Fatalf("selected %q, want %s", currentID(model), reporttest.Revenue2019)
	}
	if fragment := model.location.Fragment(); fragment != inspector.FragmentFor(reporttest.Revenue2019) {
		t.Errorf("fragment = %q", fragment)
	}
	if !strings.Contains(ansi.Strip(model.View()), "Revenue") {
		t.Error("inspector should show the selected fact")
	}

	model = press(model, "esc")
	if currentID(model) != "" {
		t.Error("escape outside search should deselect")
	}
}

func TestModelPostMessage(t *testing.T) {
	model := newTestModel(t, "")
	model = send(model, PostMessageMsg{Data: []byte(`{"task":"SHOW_FACT","factId":"f-profit-2020"}`)})
	if currentID(model) != reporttest.Profit2020 {
		t.Errorf("message selected %q, want %s", currentID(model), reporttest.Profit2020)
	}

	model = send(model, PostMessageMsg{Data: []byte(`{"task":`)})
	model = send(model, PostMessageMsg{Data: []byte(`{"task":"SHOW_FACT","factId":"unknown"}`)})
	if currentID(model) != reporttest.Profit2020 {
		t.Error("malformed and unknown messages should leave the selection unchanged")
	}
}

func TestModelSearchFlow(t *testing.T) {
	model := withIndex(t, newTestModel(t, ""))

	model = press(model, "/")
	if !model.Searching() || model.Focus() != FocusSearchInput {
		t.Fatalf("slash should open search input, focus %v", model.Focus())
	}
	if !strings.Contains(ansi.Strip(model.View()), "11 facts") {
		t.Error("an empty query should list every fact")
	}

	model = press(model, "cost")
	if model.search.Input != "cost" || model.search.RowCount() != 1 {
		t.Fatalf("query %q matched %d rows", model.search.Input, model.search.RowCount())
	}

	model = press(model, "enter")
	if model.Focus() != FocusSearchResults {
		t.Fatalf("enter should move to the results, focus %v", model.Focus())
	}
	model = press(model, "enter")
	if currentID(model) != reporttest.Cost2020 {
		t.Errorf("selected %q, want %s", currentID(model), reporttest.Cost2020)
	}
	if model.Searching() || model.Focus() != FocusInspector {
		t.Errorf("selecting a result should close search and focus the inspector, focus %v", model.Focus())
	}
}

func TestModelSearchEscape(t *testing.T) {
	model := withIndex(t, newTestModel(t, ""))
	model = press(model, "/", "x", "esc")
	if !model.Searching() || model.search.Input != "" {
		t.Fatalf("first escape should clear the query, got %q", model.search.Input)
	}
	model = press(model, "esc")
	if model.Searching() || model.Focus() != FocusDocument {
		t.Errorf("second escape should close search, focus %v", model.Focus())
	}
}

func TestModelSearchKeysDoNotTriggerCommands(t *testing.T) {
	model := withIndex(t, newTestModel(t, ""))
	model = press(model, "/", "q", "n")
	if model.search.Input != "qn" {
		t.Errorf("query = %q, keys in the input should be typed", model.search.Input)
	}
}

func TestModelFocusToggle(t *testing.T) {
	model := newTestModel(t, "")
	model = press(model, "tab")
	if model.Focus() != FocusInspector {
		t.Errorf("tab should focus the inspector, got %v", model.Focus())
	}
	model = press(model, "tab")
	if model.Focus() != FocusDocument {
		t.Errorf("tab should return to the document, got %v", model.Focus())
	}
}

func TestModelFollowPrior(t *testing.T) {
	model := newTestModel(t, "#f-"+reporttest.Revenue2020)
	model = press(model, "p")
	if currentID(model) != reporttest.Revenue2019 {
		t.Errorf("p selected %q, want the prior period %s", currentID(model), reporttest.Revenue2019)
	}
	model = press(model, "p")
	if currentID(model) != reporttest.Revenue2018 {
		t.Errorf("p selected %q, want %s", currentID(model), reporttest.Revenue2018)
	}
}

func TestModelFollowFootnote(t *testing.T) {
	model := newTestModel(t, "#f-"+reporttest.Revenue2019)
	model = press(model, "f")
	if currentID(model) != reporttest.Footnote {
		t.Fatalf("f selected %q, want the footnote", currentID(model))
	}
	model = press(model, "f")
	if currentID(model) != reporttest.Revenue2019 {
		t.Errorf("f on a footnote selected %q, want its fact", currentID(model))
	}
}

func TestModelDuplicates(t *testing.T) {
	model := newTestModel(t, "#f-"+reporttest.Revenue2020)
	model = press(model, "]")
	if currentID(model) != reporttest.Revenue2020Copy {
		t.Errorf("] selected %q, want the duplicate", currentID(model))
	}
	model = press(model, "[")
	if currentID(model) != reporttest.Revenue2020 {
		t.Errorf("[ selected %q", currentID(model))
	}
}

func TestModelNextLanguage(t *testing.T) {
	model := newTestModel(t, "#f-"+reporttest.Revenue2020)
	updated, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'L'}})
	model = updated.(Model)
	if command == nil {
		t.Fatal("L should start a reload")
	}
	model = send(model, command())
	if model.report.Language() != "fr" {
		t.Errorf("language = %q, want fr", model.report.Language())
	}
	if currentID(model) != reporttest.Revenue2020 {
		t.Error("a language switch should keep the selection")
	}
	if !strings.Contains(ansi.Strip(model.View()), "Chiffre d'affaires") {
		t.Error("labels should be in the new language")
	}
}

func TestModelQuit(t *testing.T) {
	model := newTestModel(t, "")
	_, command := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if command == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := command().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModelMouseClickSelects(t *testing.T) {
	model := newTestModel(t, "")
	// Row 0 of the document is the section title, row 2 the second tag.
	model = send(model, tea.MouseMsg{
		X:      5,
		Y:      model.contentStartY() + 2,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	if currentID(model) != reporttest.Revenue2019 {
		t.Errorf("click selected %q, want %s", currentID(model), reporttest.Revenue2019)
	}
}

func TestModelMouseHoverLinks(t *testing.T) {
	model := newTestModel(t, "")
	model = send(model, tea.MouseMsg{
		X:      5,
		Y:      model.contentStartY() + 1,
		Action: tea.MouseActionMotion,
		Button: tea.MouseButtonNone,
	})
	if !model.Inspector().Bus().IsLinked(reporttest.Revenue2020) {
		t.Error("hovering a tag should link it")
	}
	model = send(model, tea.MouseMsg{
		X:      model.inspectorX() + 4,
		Y:      model.contentStartY() + 1,
		Action: tea.MouseActionMotion,
		Button: tea.MouseButtonNone,
	})
	if model.Inspector().Bus().IsLinked(reporttest.Revenue2020) {
		t.Error("leaving the document should release the tag")
	}
}

func TestReportChanges(t *testing.T) {
	previous := reporttest.Build(t)
	snapshot := reporttest.Snapshot()
	snapshot.Facts[0].Value = "1300"
	added := snapshot.Facts[1]
	added.ID = "f-rev-2017"
	added.Period = "2017-01-01/2018-01-01"
	snapshot.Facts = append(snapshot.Facts, added)
	next, err := report.Build(snapshot, report.Options{Language: "en"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	changedIDs, addedIDs := ReportChanges(previous, next)
	if !slices.Equal(changedIDs, []string{reporttest.Revenue2020}) {
		t.Errorf("changed = %v", changedIDs)
	}
	if !slices.Equal(addedIDs, []string{"f-rev-2017"}) {
		t.Errorf("added = %v", addedIDs)
	}

	if _, addedIDs := ReportChanges(nil, next); len(addedIDs) != len(next.Facts()) {
		t.Error("every fact is new without a previous report")
	}
}

func TestModelReloadKeepsSelection(t *testing.T) {
	model := newTestModel(t, "#f-"+reporttest.Cost2020)
	snapshot := reporttest.Snapshot()
	snapshot.Facts[0].Value = "1300"
	next, err := report.Build(snapshot, report.Options{Language: "en"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	updated, command := model.Update(ReportMsg{Report: next})
	model = updated.(Model)
	if command == nil {
		t.Error("reload should rebuild the index")
	}
	if currentID(model) != reporttest.Cost2020 {
		t.Errorf("selection after reload = %q", currentID(model))
	}
	if !model.tickRunning {
		t.Error("a changed fact should start the heat tick")
	}
	if !strings.Contains(ansi.Strip(model.View()), "1,300") {
		t.Error("the document should show the reloaded value")
	}
}

func TestModelStaleIndexIgnored(t *testing.T) {
	model := newTestModel(t, "")
	stale := model.Init()
	model = send(model, ReportMsg{Report: reporttest.Build(t)})
	model = send(model, stale())
	if model.Inspector().Search.Ready() {
		t.Error("an index built for a replaced report should be discarded")
	}
}

func TestModelLogRecordShown(t *testing.T) {
	model := newTestModel(t, "")
	updated, command := model.Update(LogRecordMsg{Summary: "watch failed (path=r.json)", Level: slog.LevelWarn})
	model = updated.(Model)
	if command == nil {
		t.Error("a log record should schedule its fade")
	}
	if !strings.Contains(ansi.Strip(model.View()), "watch failed") {
		t.Error("status bar should show the record")
	}
	model = send(model, logRecordFadeMsg{sequence: model.logSequence})
	if model.logRecord != nil {
		t.Error("fade should clear the record")
	}
}
