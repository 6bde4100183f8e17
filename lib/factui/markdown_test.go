// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/factview/lib/tui"
)

func renderPlain(input string, width int) string {
	return ansi.Strip(renderMarkdown(input, tui.DefaultTheme, width))
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if result := renderMarkdown("  \n ", tui.DefaultTheme, 40); result != "" {
		t.Errorf("blank input should render nothing, got %q", result)
	}
}

func TestRenderMarkdownParagraphs(t *testing.T) {
	result := renderPlain("First paragraph\ncontinues here.\n\nSecond paragraph.", 80)
	want := "First paragraph continues here.\n\nSecond paragraph."
	if result != want {
		t.Errorf("got %q, want %q", result, want)
	}
}

func TestRenderMarkdownEmphasis(t *testing.T) {
	styled := renderMarkdown("Restated for **segment** reporting.", tui.DefaultTheme, 80)
	if ansi.Strip(styled) != "Restated for segment reporting." {
		t.Errorf("markers should be removed, got %q", ansi.Strip(styled))
	}
	if !strings.Contains(styled, "\x1b[1") {
		t.Errorf("strong text should be bold: %q", styled)
	}
}

func TestRenderMarkdownWraps(t *testing.T) {
	result := renderPlain("one two three four five six seven eight nine ten", 20)
	for _, line := range strings.Split(result, "\n") {
		if ansi.StringWidth(line) > 20 {
			t.Errorf("line %q exceeds the width", line)
		}
	}
	if !strings.Contains(result, "\n") {
		t.Error("long paragraph should wrap")
	}
}

func TestRenderMarkdownLists(t *testing.T) {
	result := renderPlain("Changes:\n\n- first\n- second\n  1. nested\n\nAfter.", 40)
	for _, want := range []string{"• first", "• second", "  1. nested"} {
		if !strings.Contains(result, want) {
			t.Errorf("list should contain %q:\n%s", want, result)
		}
	}
	if strings.Contains(result, "• first\n\n• second") {
		t.Errorf("list items should be tight:\n%s", result)
	}
	if !strings.HasSuffix(result, "\n\nAfter.") {
		t.Errorf("a paragraph after the list should start a new block:\n%s", result)
	}
}

func TestRenderMarkdownCodeAndLinks(t *testing.T) {
	result := renderPlain("Use `total` from [the note](https://example.com/n).\n\n```go\nx := 1\n```", 60)
	if !strings.Contains(result, "Use total from the note (https://example.com/n).") {
		t.Errorf("inline code and link text:\n%s", result)
	}
	if !strings.Contains(result, "x := 1") {
		t.Errorf("fenced code should be kept:\n%s", result)
	}
}

func TestRenderMarkdownTable(t *testing.T) {
	input := "| Segment | Revenue |\n|---|---|\n| A | 300 |\n| B | 900 |"
	result := renderPlain(input, 60)
	lines := strings.Split(result, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus two rows:\n%s", len(lines), result)
	}
	if lines[0] != "Segment │ Revenue" || lines[2] != "B │ 900" {
		t.Errorf("table rows = %q", lines)
	}
}

func TestRenderMarkdownSkipsHTML(t *testing.T) {
	result := renderPlain("<div>raw</div>\n\nText.", 40)
	if strings.Contains(result, "raw") {
		t.Errorf("html should be dropped:\n%s", result)
	}
}
