// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/bureau-foundation/factview/lib/factsearch"
	"github.com/bureau-foundation/factview/lib/highlight"
	"github.com/bureau-foundation/factview/lib/report"
	"github.com/bureau-foundation/factview/lib/report/reporttest"
)

// recordingDocument records document calls as "show:<id>",
// "highlight:<id>" and "clear".
type recordingDocument struct {
	calls []string
}

func (document *recordingDocument) ShowItem(id string) {
	document.calls = append(document.calls, "show:"+id)
}

func (document *recordingDocument) HighlightItem(id string) {
	document.calls = append(document.calls, "highlight:"+id)
}

func (document *recordingDocument) ClearHighlighting() {
	document.calls = append(document.calls, "clear")
}

type recordingPresenter struct {
	states []State
}

func (presenter *recordingPresenter) Present(state State) {
	presenter.states = append(presenter.states, state)
}

func (presenter *recordingPresenter) last() State {
	if len(presenter.states) == 0 {
		return State{}
	}
	return presenter.states[len(presenter.states)-1]
}

// fakeSearcher returns a fixed result set and records the specs it
// was asked for.
type fakeSearcher struct {
	results []factsearch.Result
	err     error
	periods []factsearch.PeriodOption
	specs   []factsearch.Spec
}

func (searcher *fakeSearcher) Search(spec factsearch.Spec) ([]factsearch.Result, error) {
	searcher.specs = append(searcher.specs, spec)
	return searcher.results, searcher.err
}

func (searcher *fakeSearcher) Periods() []factsearch.PeriodOption { return searcher.periods }

// harness is an inspector over a report with recording collaborators.
type harness struct {
	report    *report.Report
	document  *recordingDocument
	presenter *recordingPresenter
	location  *MemoryLocation
	logs      *bytes.Buffer
	inspector *Inspector
}

func newHarness(t *testing.T, source *report.Report) *harness {
	t.Helper()
	logs := &bytes.Buffer{}
	h := &harness{
		report:    source,
		document:  &recordingDocument{},
		presenter: &recordingPresenter{},
		location:  NewMemoryLocation(""),
		logs:      logs,
	}
	h.inspector = New(Config{
		Store:     source,
		Document:  h.document,
		Presenter: h.presenter,
		Location:  h.location,
		Bus:       highlight.New(),
		Logger:    slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
	return h
}

func newSampleHarness(t *testing.T) *harness {
	t.Helper()
	return newHarness(t, reporttest.Build(t))
}

// buildReport builds a report from the sample snapshot after applying
// mutate.
func buildReport(t *testing.T, mutate func(*report.Snapshot)) *report.Report {
	t.Helper()
	snapshot := reporttest.Snapshot()
	mutate(snapshot)
	built, err := report.Build(snapshot, report.Options{Language: "en"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return built
}

// numericFact returns a USD fact snapshot for ex:Other with the given
// id, value and period.
func numericFact(id, value, period string) report.FactSnapshot {
	zero := 0
	return report.FactSnapshot{
		ID:       id,
		Concept:  "ex:Other",
		Value:    value,
		Decimals: &zero,
		Unit:     "iso4217:USD",
		Period:   period,
		Entity:   "ACME",
	}
}

// manyResults returns count results all wrapping the same fact; the
// paginator only counts and orders them.
func manyResults(fact *report.Fact, count int) []factsearch.Result {
	results := make([]factsearch.Result, count)
	for index := range results {
		results[index] = factsearch.Result{Fact: fact, Score: float64(count - index)}
	}
	return results
}

func itemIDs(items []report.Item) []string {
	ids := make([]string, len(items))
	for index, item := range items {
		ids[index] = item.ID()
	}
	return ids
}

func describeState(state State) string {
	return fmt.Sprintf("current=%q items=%v", state.CurrentID(), itemIDs(state.Items))
}
