// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/factview/lib/highlight"
)

func TestScrollThumb(t *testing.T) {
	tests := []struct {
		name       string
		scroll     Scroll
		height     int
		wantOffset int
		wantSize   int
	}{
		{"fits", Scroll{Total: 5, Visible: 10}, 10, 0, 10},
		{"empty", Scroll{}, 4, 0, 4},
		{"top", Scroll{Total: 100, Visible: 10, Offset: 0}, 10, 0, 1},
		{"bottom", Scroll{Total: 100, Visible: 10, Offset: 90}, 10, 9, 1},
		{"half", Scroll{Total: 40, Visible: 20, Offset: 10}, 20, 5, 10},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			offset, size := test.scroll.Thumb(test.height)
			if offset != test.wantOffset || size != test.wantSize {
				t.Errorf("Thumb(%d) = (%d, %d), want (%d, %d)", test.height, offset, size, test.wantOffset, test.wantSize)
			}
		})
	}
}

func TestRenderScrollbarHeight(t *testing.T) {
	rendered := RenderScrollbar(DefaultTheme, 6, Scroll{Total: 60, Visible: 6, Offset: 30}, true)
	lines := strings.Split(ansi.Strip(rendered), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6", len(lines))
	}
	thumbs := strings.Count(ansi.Strip(rendered), "┃")
	if thumbs != 1 {
		t.Errorf("got %d thumb rows, want 1", thumbs)
	}
	if RenderScrollbar(DefaultTheme, 0, Scroll{}, false) != "" {
		t.Error("zero height should render nothing")
	}
}

func TestDropdown(t *testing.T) {
	options := []DropdownOption{
		{Label: "All periods", Value: ""},
		{Label: "2020", Value: "2020"},
		{Label: "2019", Value: "2019"},
	}
	dropdown := NewDropdown("period", options, "2019", 4, 2)
	if dropdown.Cursor != 2 {
		t.Fatalf("cursor = %d, want 2 (current value)", dropdown.Cursor)
	}

	dropdown.MoveDown()
	if dropdown.Selected().Value != "" {
		t.Errorf("MoveDown at bottom should wrap to first, got %q", dropdown.Selected().Value)
	}
	dropdown.MoveUp()
	if dropdown.Selected().Value != "2019" {
		t.Errorf("MoveUp at top should wrap to last, got %q", dropdown.Selected().Value)
	}

	if width := dropdown.Width(); width != 3+len("All periods")+2 {
		t.Errorf("Width = %d", width)
	}
	if !dropdown.Contains(4, 2) || dropdown.Contains(3, 2) || dropdown.Contains(4, 5) {
		t.Error("Contains does not match the dropdown rectangle")
	}
	if index := dropdown.OptionAtY(3); index != 1 {
		t.Errorf("OptionAtY(3) = %d, want 1", index)
	}

	lines := dropdown.Render(DefaultTheme)
	if len(lines) != len(options) {
		t.Fatalf("got %d lines, want %d", len(lines), len(options))
	}
	for index, line := range lines {
		if width := ansi.StringWidth(line); width != dropdown.Width() {
			t.Errorf("line %d width %d, want %d", index, width, dropdown.Width())
		}
	}
	if !strings.Contains(ansi.Strip(lines[2]), "> 2019") {
		t.Errorf("cursor row should carry the marker: %q", ansi.Strip(lines[2]))
	}
}

func TestNewDropdownUnknownCurrent(t *testing.T) {
	dropdown := NewDropdown("type", []DropdownOption{{Label: "a", Value: "a"}}, "missing", 0, 0)
	if dropdown.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", dropdown.Cursor)
	}
}

func TestSpliceOverlay(t *testing.T) {
	view := "0123456789\nabcdefghij\nABCDEFGHIJ"
	result := SpliceOverlay(view, []string{"XX", "YY"}, 3, 1)
	lines := strings.Split(ansi.Strip(result), "\n")
	want := []string{"0123456789", "abcXXfghij", "ABCYYFGHIJ"}
	for index := range want {
		if lines[index] != want[index] {
			t.Errorf("line %d = %q, want %q", index, lines[index], want[index])
		}
	}

	if SpliceOverlay(view, nil, 0, 0) != view {
		t.Error("empty overlay should leave the view unchanged")
	}
	clipped := ansi.Strip(SpliceOverlay(view, []string{"ZZ", "ZZ"}, 0, 2))
	if strings.Count(clipped, "ZZ") != 1 {
		t.Errorf("rows past the view should be dropped: %q", clipped)
	}
}

func TestOverlayBold(t *testing.T) {
	view := "first\nsecond line"
	result := OverlayBold(view, 1, 0, 6)
	if ansi.Strip(result) != view {
		t.Errorf("bold must not change visible text: %q", ansi.Strip(result))
	}
	line := strings.Split(result, "\n")[1]
	if !strings.HasPrefix(line, "\x1b[1m") || !strings.Contains(line, "\x1b[22m") {
		t.Errorf("expected bold on and off sequences: %q", line)
	}
	if OverlayBold(view, 5, 0, 3) != view {
		t.Error("row out of range should leave the view unchanged")
	}
	if OverlayBold(view, 0, 3, 3) != view {
		t.Error("empty range should leave the view unchanged")
	}
}

func TestExtractExcerpt(t *testing.T) {
	body := "\n  first line  \n\nsecond line is rather long\nthird\n"
	lines := ExtractExcerpt(body, 10, 2)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "first line" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if ansi.StringWidth(lines[1]) > 10 || !strings.HasSuffix(lines[1], "…") {
		t.Errorf("line 1 should be truncated with an ellipsis: %q", lines[1])
	}
}

func TestRenderBoxAndCenterAnchor(t *testing.T) {
	lines := RenderBox(DefaultTheme, "No matching facts", []string{"Try a broader search", "or reset the filters"})
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5 (blank, title, 2 body, blank)", len(lines))
	}
	width := ansi.StringWidth(lines[0])
	for index, line := range lines {
		if ansi.StringWidth(line) != width {
			t.Errorf("line %d width %d, want %d", index, ansi.StringWidth(line), width)
		}
	}
	if !strings.Contains(ansi.Strip(lines[1]), "No matching facts") {
		t.Errorf("title line: %q", ansi.Strip(lines[1]))
	}

	x, y := CenterAnchor(lines, 80, 25)
	if x != (80-width)/2 || y != 10 {
		t.Errorf("CenterAnchor = (%d, %d)", x, y)
	}
	if x, y := CenterAnchor(lines, 2, 2); x != 0 || y != 0 {
		t.Errorf("oversized overlay should anchor at origin, got (%d, %d)", x, y)
	}
}

func TestRegionBackgroundPriority(t *testing.T) {
	theme := DefaultTheme
	tests := []struct {
		state highlight.RegionState
		want  string
		ok    bool
	}{
		{highlight.RegionState{}, "", false},
		{highlight.RegionState{Related: true}, string(theme.RelatedBackground), true},
		{highlight.RegionState{Related: true, Linked: true}, string(theme.LinkedBackground), true},
		{highlight.RegionState{Related: true, Linked: true, Selected: true}, string(theme.SelectedBackground), true},
	}
	for _, test := range tests {
		color, ok := theme.RegionBackground(test.state)
		if ok != test.ok || string(color) != test.want {
			t.Errorf("RegionBackground(%+v) = (%q, %v), want (%q, %v)", test.state, color, ok, test.want, test.ok)
		}
	}
}

func TestHeatTracker(t *testing.T) {
	tracker := NewHeatTracker()
	start := time.Unix(1000, 0)

	tracker.Ignite("f-1", HeatChanged, start)
	tracker.Ignite("f-2", HeatAdded, start)

	if heat := tracker.Heat("f-1", start); heat != 1.0 {
		t.Errorf("heat at ignition = %v, want 1", heat)
	}
	if heat := tracker.Heat("f-1", start.Add(HeatDecayDuration/2)); heat < 0.49 || heat > 0.51 {
		t.Errorf("heat at half decay = %v, want 0.5", heat)
	}
	if heat := tracker.Heat("unknown", start); heat != 0 {
		t.Errorf("unknown fact heat = %v", heat)
	}

	accent, hot := tracker.Accent(DefaultTheme, "f-2", start)
	if !hot || accent != DefaultTheme.HotAccentAdded {
		t.Errorf("Accent(f-2) = (%q, %v)", accent, hot)
	}
	accent, hot = tracker.Accent(DefaultTheme, "f-1", start)
	if !hot || accent != DefaultTheme.HotAccentChanged {
		t.Errorf("Accent(f-1) = (%q, %v)", accent, hot)
	}

	if !tracker.HasHot(start.Add(time.Second)) {
		t.Error("HasHot should be true while decaying")
	}
	if tracker.HasHot(start.Add(HeatDecayDuration)) {
		t.Error("HasHot should be false after full decay")
	}
	if tracker.Len() != 0 {
		t.Errorf("decayed entries should be dropped, %d remain", tracker.Len())
	}
	if _, hot := tracker.Accent(DefaultTheme, "f-1", start.Add(HeatDecayDuration)); hot {
		t.Error("decayed fact should not be hot")
	}
}
