// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the viewer.
type KeyMap struct {
	// Navigation (context-sensitive: document cursor, inspector
	// scrolling or result list depending on focus).
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Select the tag or result under the cursor.
	Select key.Binding
	// Clear the selection.
	Deselect key.Binding

	// Jump between highlighted tags in the document.
	NextHighlight     key.Binding
	PreviousHighlight key.Binding

	// Focus switching between the document and the inspector.
	FocusToggle key.Binding

	// Inspector.
	NextAlternate     key.Binding // Cycle the items at the selected location.
	NextDuplicate     key.Binding
	PreviousDuplicate key.Binding
	FollowPrior       key.Binding // Select the prior-period fact.
	NextCalculation   key.Binding // Expand the next calculation role.
	FollowFootnote    key.Binding // Footnote of a fact, or first fact of a footnote.

	// Search.
	SearchActivate key.Binding
	SearchClose    key.Binding
	ToggleVisible  key.Binding
	ToggleHidden   key.Binding
	PeriodFilter   key.Binding
	ConceptType    key.Binding
	ResetFilters   key.Binding
	ShowMore       key.Binding

	// Report language.
	NextLanguage key.Binding

	// Copy the selected item's id to the clipboard.
	CopyID key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set: vim-style movement
// alongside the arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("ctrl+u", "pgup"),
		key.WithHelp("C-u", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("ctrl+d", "pgdown"),
		key.WithHelp("C-d", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "select"),
	),
	Deselect: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear selection"),
	),
	NextHighlight: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next highlighted tag"),
	),
	PreviousHighlight: key.NewBinding(
		key.WithKeys("N"),
		key.WithHelp("N", "previous highlighted tag"),
	),
	FocusToggle: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "switch pane"),
	),
	NextAlternate: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "next item here"),
	),
	NextDuplicate: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next duplicate"),
	),
	PreviousDuplicate: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "previous duplicate"),
	),
	FollowPrior: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "prior period"),
	),
	NextCalculation: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "next calculation"),
	),
	FollowFootnote: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "footnote"),
	),
	SearchActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	SearchClose: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close search"),
	),
	ToggleVisible: key.NewBinding(
		key.WithKeys("V"),
		key.WithHelp("V", "visible facts"),
	),
	ToggleHidden: key.NewBinding(
		key.WithKeys("H"),
		key.WithHelp("H", "hidden facts"),
	),
	PeriodFilter: key.NewBinding(
		key.WithKeys("P"),
		key.WithHelp("P", "period"),
	),
	ConceptType: key.NewBinding(
		key.WithKeys("T"),
		key.WithHelp("T", "concept type"),
	),
	ResetFilters: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset filters"),
	),
	ShowMore: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "more results"),
	),
	NextLanguage: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "language"),
	),
	CopyID: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy id"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
