// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/bureau-foundation/factview/lib/tui"
)

// The parser configuration never changes and Parse keeps its state
// per call, so one instance is shared.
var (
	footnoteParser     goldmark.Markdown
	footnoteParserOnce sync.Once
)

func markdownParser() goldmark.Markdown {
	footnoteParserOnce.Do(func() {
		footnoteParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return footnoteParser
}

// renderMarkdown renders footnote text as styled terminal lines
// wrapped to width. Soft line breaks reflow; fenced code is
// highlighted with chroma; GFM tables render one row per line.
func renderMarkdown(input string, theme tui.Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := markdownParser().Parser().Parse(text.NewReader(source))

	// Always terminal output: skip profile detection, which yields no
	// color without a TTY.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &footnoteRenderer{
		source:      source,
		theme:       theme,
		width:       max(10, width),
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)
	return strings.TrimRight(strings.Join(renderer.blocks, "\n\n"), "\n")
}

// footnoteRenderer collects inline text per block and emits each block
// wrapped. Nested lists indent by two columns per level.
type footnoteRenderer struct {
	source      []byte
	theme       tui.Theme
	width       int
	lipRenderer *lipgloss.Renderer

	blocks []string
	inline strings.Builder

	bold, italic, strike int
	lists                []listState
	bullet               string

	// openBlock starts the next emitted line as a new block even
	// inside a list or table.
	openBlock bool
}

type listState struct {
	ordered bool
	counter int
}

func (renderer *footnoteRenderer) style() lipgloss.Style {
	style := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.NormalText)
	if renderer.bold > 0 {
		style = style.Bold(true)
	}
	if renderer.italic > 0 {
		style = style.Italic(true)
	}
	if renderer.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style
}

func (renderer *footnoteRenderer) indent() string {
	if len(renderer.lists) == 0 {
		return ""
	}
	return strings.Repeat("  ", len(renderer.lists))
}

// flush wraps the inline buffer into a block. Inside a list, the
// pending bullet replaces the indentation of the first line.
func (renderer *footnoteRenderer) flush(style func(string) string) {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if strings.TrimSpace(ansi.Strip(content)) == "" {
		return
	}
	if style != nil {
		content = style(content)
	}
	indent := renderer.indent()
	lines := strings.Split(ansi.Wrap(content, renderer.width-len(indent), " ,.;-+|"), "\n")
	for index := range lines {
		prefix := indent
		if index == 0 && renderer.bullet != "" {
			prefix = renderer.bullet
			renderer.bullet = ""
		}
		lines[index] = prefix + lines[index]
	}
	renderer.emit(strings.Join(lines, "\n"))
}

// emit appends a block. List items and table rows stay tight: they
// join the previous block without a blank line.
func (renderer *footnoteRenderer) emit(block string) {
	if len(renderer.lists) > 0 && len(renderer.blocks) > 0 && !renderer.openBlock {
		renderer.blocks[len(renderer.blocks)-1] += "\n" + block
		return
	}
	renderer.openBlock = false
	renderer.blocks = append(renderer.blocks, block)
}

func (renderer *footnoteRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if !entering {
			renderer.flush(nil)
		}

	case *ast.Heading:
		if !entering {
			header := renderer.lipRenderer.NewStyle().Bold(true).Foreground(renderer.theme.HeaderForeground)
			renderer.flush(func(content string) string { return header.Render(ansi.Strip(content)) })
		}

	case *ast.FencedCodeBlock:
		if entering {
			renderer.emit(renderer.highlight(renderer.blockText(node.Lines()), string(node.Language(renderer.source))))
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			renderer.emit(renderer.highlight(renderer.blockText(node.Lines()), ""))
			return ast.WalkSkipChildren, nil
		}

	case *ast.List:
		if entering {
			renderer.flush(nil)
			renderer.openBlock = len(renderer.lists) == 0
			renderer.lists = append(renderer.lists, listState{ordered: node.IsOrdered(), counter: node.Start})
		} else {
			renderer.lists = renderer.lists[:len(renderer.lists)-1]
		}

	case *ast.ListItem:
		if entering {
			renderer.flush(nil)
			list := &renderer.lists[len(renderer.lists)-1]
			marker := "• "
			if list.ordered {
				marker = strconv.Itoa(list.counter) + ". "
				list.counter++
			}
			renderer.bullet = strings.Repeat("  ", len(renderer.lists)-1) + marker
		} else {
			renderer.flush(nil)
		}

	case *ast.ThematicBreak:
		if entering {
			rule := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.BorderColor)
			renderer.emit(rule.Render(strings.Repeat("─", renderer.width)))
		}

	case *ast.Text:
		if entering {
			renderer.inline.WriteString(renderer.style().Render(string(node.Segment.Value(renderer.source))))
			switch {
			case node.HardLineBreak():
				renderer.inline.WriteString("\n")
			case node.SoftLineBreak():
				renderer.inline.WriteString(" ")
			}
		}

	case *ast.String:
		if entering {
			renderer.inline.WriteString(renderer.style().Render(string(node.Value)))
		}

	case *ast.Emphasis:
		delta := 1
		if !entering {
			delta = -1
		}
		if node.Level >= 2 {
			renderer.bold += delta
		} else {
			renderer.italic += delta
		}

	case *extast.Strikethrough:
		if entering {
			renderer.strike++
		} else {
			renderer.strike--
		}

	case *ast.CodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if segment, ok := child.(*ast.Text); ok {
					code.Write(segment.Segment.Value(renderer.source))
				}
			}
			style := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.MatchForeground)
			renderer.inline.WriteString(style.Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Link:
		if !entering {
			style := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.FaintText)
			renderer.inline.WriteString(style.Render(" (" + string(node.Destination) + ")"))
		}

	case *ast.AutoLink:
		if entering {
			style := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.LinkForeground).Underline(true)
			renderer.inline.WriteString(style.Render(string(node.URL(renderer.source))))
			return ast.WalkSkipChildren, nil
		}

	case *extast.Table:
		if entering {
			renderer.flush(nil)
			renderer.openBlock = true
		}

	case *extast.TableHeader:
		if entering {
			renderer.bold++
		} else {
			renderer.bold--
			renderer.flushRow()
		}

	case *extast.TableRow:
		if !entering {
			renderer.flushRow()
		}

	case *extast.TableCell:
		if entering && node.PreviousSibling() != nil {
			renderer.inline.WriteString(renderer.lipRenderer.NewStyle().Foreground(renderer.theme.BorderColor).Render(" │ "))
		}

	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

// flushRow emits a table row as one truncated line. Rows after the
// first join the table's block.
func (renderer *footnoteRenderer) flushRow() {
	row := ansi.Truncate(renderer.inline.String(), renderer.width, "…")
	renderer.inline.Reset()
	if !renderer.openBlock && len(renderer.blocks) > 0 {
		renderer.blocks[len(renderer.blocks)-1] += "\n" + row
		return
	}
	renderer.openBlock = false
	renderer.blocks = append(renderer.blocks, row)
}

func (renderer *footnoteRenderer) blockText(lines *text.Segments) string {
	var code strings.Builder
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(renderer.source))
	}
	return strings.TrimRight(code.String(), "\n")
}

// highlight renders code with chroma, falling back to faint plain text
// for unknown languages.
func (renderer *footnoteRenderer) highlight(code, language string) string {
	faint := renderer.lipRenderer.NewStyle().Foreground(renderer.theme.FaintText)
	if language == "" {
		return faint.Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return faint.Render(code)
	}
	return strings.TrimRight(buffer.String(), "\n")
}
