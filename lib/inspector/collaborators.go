// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"errors"

	"github.com/bureau-foundation/factview/lib/factsearch"
	"github.com/bureau-foundation/factview/lib/report"
)

// ErrNotInCandidates is returned when a selection names an item that is
// not among the available alternates.
var ErrNotInCandidates = errors.New("item is not among the selection candidates")

// ItemStore resolves ids and answers fact relationships. Item returns
// an error wrapping [report.ErrNotFound] for unknown ids.
// [*report.Report] implements it.
type ItemStore interface {
	Item(id string) (report.Item, error)
	Duplicates(fact *report.Fact) []*report.Fact
	AlignedFacts(fact *report.Fact, overrides ...report.AspectOverride) []*report.Fact
}

// Document is the rendered report. ShowItem scrolls the item into view;
// HighlightItem marks it as the selected tag; ClearHighlighting removes
// the selected mark.
type Document interface {
	ShowItem(id string)
	HighlightItem(id string)
	ClearHighlighting()
}

// Presenter renders the selection. It is called after every selection
// transition with the new state.
type Presenter interface {
	Present(state State)
}

// Location holds the deep-link fragment.
type Location interface {
	Fragment() string
	SetFragment(fragment string)
}

// Searcher is a built search index. [*factsearch.Index] implements it.
type Searcher interface {
	Search(spec factsearch.Spec) ([]factsearch.Result, error)
	Periods() []factsearch.PeriodOption
}
