// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"log/slog"
	"strings"

	"github.com/bureau-foundation/factview/lib/factsearch"
	"github.com/bureau-foundation/factview/lib/highlight"
)

// PageSize is how many results each "show more" reveals.
const PageSize = 100

// AllPeriodsLabel labels the "no period filter" option.
const AllPeriodsLabel = "ALL"

// Feedback is the message shown in place of an empty result list.
type Feedback struct {
	Title string
	Hint  string
}

// noMatch is shown when a search returns nothing.
var noMatch = Feedback{Title: "No Match Found", Hint: "Try again with different keywords"}

// Controls are the values of the search controls.
type Controls struct {
	SearchString      string
	ShowVisibleFacts  bool
	ShowHiddenFacts   bool
	PeriodFilter      string
	ConceptTypeFilter string
}

// DefaultControls returns an empty query with every filter open.
func DefaultControls() Controls {
	spec := factsearch.DefaultSpec()
	return Controls{
		ShowVisibleFacts:  spec.ShowVisibleFacts,
		ShowHiddenFacts:   spec.ShowHiddenFacts,
		PeriodFilter:      spec.PeriodFilter,
		ConceptTypeFilter: spec.ConceptTypeFilter,
	}
}

// Spec builds a fresh search spec from the controls.
func (controls Controls) Spec() factsearch.Spec {
	return factsearch.Spec{
		SearchString:      controls.SearchString,
		ShowVisibleFacts:  controls.ShowVisibleFacts,
		ShowHiddenFacts:   controls.ShowHiddenFacts,
		PeriodFilter:      controls.PeriodFilter,
		ConceptTypeFilter: controls.ConceptTypeFilter,
	}
}

// Paginator runs searches and reveals their results a page at a time.
// Until a searcher is attached, the latest request is held and run
// when the searcher arrives.
type Paginator struct {
	bus      *highlight.Bus
	logger   *slog.Logger
	searcher Searcher

	controls Controls
	pending  *factsearch.Spec

	results  []factsearch.Result
	revealed int
	feedback *Feedback
}

// NewPaginator returns a paginator with default controls and no
// searcher.
func NewPaginator(bus *highlight.Bus, logger *slog.Logger) *Paginator {
	return &Paginator{bus: bus, logger: logger, controls: DefaultControls()}
}

// Ready reports whether a searcher is attached.
func (paginator *Paginator) Ready() bool { return paginator.searcher != nil }

// SetSearcher attaches (or replaces) the search index and runs the
// held request, or the current controls when a previous searcher was
// replaced.
func (paginator *Paginator) SetSearcher(searcher Searcher) {
	replaced := paginator.searcher != nil
	paginator.searcher = searcher
	switch {
	case paginator.pending != nil:
		spec := *paginator.pending
		paginator.pending = nil
		paginator.Run(spec)
	case replaced:
		paginator.Run(paginator.controls.Spec())
	}
}

// Controls returns the current control values.
func (paginator *Paginator) Controls() Controls { return paginator.controls }

// SetControls replaces the control values and re-runs the search.
func (paginator *Paginator) SetControls(controls Controls) {
	paginator.controls = controls
	paginator.Run(controls.Spec())
}

// ResetFilters restores the default filters, keeping the search
// string, and re-runs the search.
func (paginator *Paginator) ResetFilters() {
	controls := DefaultControls()
	controls.SearchString = paginator.controls.SearchString
	paginator.SetControls(controls)
}

// Run executes a search. Related highlighting is replaced by the
// matched facts when the search string is non-empty.
func (paginator *Paginator) Run(spec factsearch.Spec) {
	if paginator.searcher == nil {
		paginator.pending = &spec
		return
	}

	paginator.bus.ClearRelated()
	paginator.results = nil
	paginator.revealed = 0
	paginator.feedback = nil

	results, err := paginator.searcher.Search(spec)
	if err != nil {
		paginator.logger.Warn("search failed", "error", err)
		return
	}
	if len(results) == 0 {
		feedback := noMatch
		paginator.feedback = &feedback
		return
	}

	paginator.results = results
	paginator.AddResults(0)
	// A blank query lists by filters alone, as the searcher does.
	if strings.TrimSpace(spec.SearchString) != "" {
		ids := make([]string, len(results))
		for index, result := range results {
			ids[index] = result.Fact.ID()
		}
		paginator.bus.HighlightRelated(ids...)
	}
}

// AddResults reveals results up to offset+PageSize. Reveals are
// cumulative; an offset beyond what is already revealed is clamped to
// it, so repeating a call has no further effect.
func (paginator *Paginator) AddResults(offset int) {
	offset = max(0, min(offset, paginator.revealed))
	end := min(offset+PageSize, len(paginator.results))
	paginator.revealed = max(paginator.revealed, end)
}

// ShowMore reveals the next page.
func (paginator *Paginator) ShowMore() {
	paginator.AddResults(paginator.revealed)
}

// HasMore reports whether unrevealed results remain.
func (paginator *Paginator) HasMore() bool {
	return paginator.revealed < len(paginator.results)
}

// Revealed returns the revealed results in relevance order.
func (paginator *Paginator) Revealed() []factsearch.Result {
	return paginator.results[:paginator.revealed]
}

// Total returns the size of the full result set.
func (paginator *Paginator) Total() int { return len(paginator.results) }

// Feedback returns the no-match message, or nil.
func (paginator *Paginator) Feedback() *Feedback { return paginator.feedback }

// PeriodOptions returns the period filter options: "all" followed by
// the searcher's periods. Before a searcher is attached only "all" is
// offered.
func (paginator *Paginator) PeriodOptions() []factsearch.PeriodOption {
	options := []factsearch.PeriodOption{{Key: factsearch.AllPeriods, Label: AllPeriodsLabel}}
	if paginator.searcher != nil {
		options = append(options, paginator.searcher.Periods()...)
	}
	return options
}
