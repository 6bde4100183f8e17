// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"slices"
	"testing"

	"github.com/bureau-foundation/factview/lib/report"
	"github.com/bureau-foundation/factview/lib/report/reporttest"
)

func TestPeriodChangeInSample(t *testing.T) {
	sample := reporttest.Build(t)

	tests := []struct {
		name     string
		id       string
		kind     ChangeKind
		prior    string
		describe string
	}{
		{
			name:     "increase on the previous year",
			id:       reporttest.Revenue2020,
			kind:     ChangePercent,
			prior:    reporttest.Revenue2019,
			describe: "20.0% increase on 1 Jan 2019 to 31 Dec 2019",
		},
		{
			name:     "both negative uses percent form",
			id:       reporttest.Loss2020,
			kind:     ChangePercent,
			prior:    reporttest.Loss2019,
			describe: "50.0% decrease on 1 Jan 2019 to 31 Dec 2019",
		},
		{
			name:     "earliest period has no prior",
			id:       reporttest.Revenue2018,
			kind:     ChangeNoPrior,
			describe: "No prior fact in this report",
		},
		{
			name:     "half year has no equivalent prior",
			id:       reporttest.RevenueHalfYear,
			kind:     ChangeNoPrior,
			describe: "No prior fact in this report",
		},
		{
			name:     "dimensional fact needs dimensional prior",
			id:       reporttest.RevenueSegment,
			kind:     ChangeNoPrior,
			describe: "No prior fact in this report",
		},
		{
			name:     "text fact",
			id:       reporttest.Policy,
			kind:     ChangeNotApplicable,
			describe: "n/a",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			change := ComputePeriodChange(sample, reporttest.Fact(t, sample, test.id))
			if change.Kind != test.kind {
				t.Errorf("kind = %v, want %v", change.Kind, test.kind)
			}
			if test.prior != "" && (change.Prior == nil || change.Prior.ID() != test.prior) {
				t.Errorf("prior = %v, want %s", change.Prior, test.prior)
			}
			if got := change.Describe(); got != test.describe {
				t.Errorf("Describe = %q, want %q", got, test.describe)
			}
			if change.HasLink() != (test.prior != "") {
				t.Errorf("HasLink = %v", change.HasLink())
			}
		})
	}
}

func TestPeriodChangeSignGuard(t *testing.T) {
	tests := []struct {
		name     string
		old      string
		new      string
		kind     ChangeKind
		describe string
	}{
		{"both negative", "-10", "-5", ChangePercent, "50.0% decrease on 31 Dec 2019"},
		{"sign flip", "-10", "5", ChangeAbsolute, "From -10 USD in 31 Dec 2019"},
		{"both zero", "0", "0", ChangeAbsolute, "From 0 USD in 31 Dec 2019"},
		{"zero base", "0", "-5", ChangeAbsolute, "From 0 USD in 31 Dec 2019"},
		{"positive to zero", "8", "0", ChangeAbsolute, "From 8 USD in 31 Dec 2019"},
		{"negative to zero", "-4", "0", ChangePercent, "100.0% decrease on 31 Dec 2019"},
		{"growth", "40", "50", ChangePercent, "25.0% increase on 31 Dec 2019"},
		{"no change", "40", "40", ChangePercent, "0.0% increase on 31 Dec 2019"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			source := buildReport(t, func(snapshot *report.Snapshot) {
				snapshot.Facts = append(snapshot.Facts,
					numericFact("old", test.old, "2020-01-01"),
					numericFact("new", test.new, "2021-01-01"),
				)
			})
			change := ComputePeriodChange(source, reporttest.Fact(t, source, "new"))
			if change.Kind != test.kind {
				t.Errorf("kind = %v, want %v", change.Kind, test.kind)
			}
			if got := change.Describe(); got != test.describe {
				t.Errorf("Describe = %q, want %q", got, test.describe)
			}
		})
	}
}

func TestPeriodChangePicksLatestPriorAndFirstOnTies(t *testing.T) {
	source := buildReport(t, func(snapshot *report.Snapshot) {
		snapshot.Facts = append(snapshot.Facts,
			numericFact("y2018", "100", "2018-01-01/2019-01-01"),
			numericFact("y2019-first", "110", "2019-01-01/2020-01-01"),
			numericFact("y2019-second", "110", "2019-01-01/2020-01-01"),
			numericFact("q4", "30", "2019-10-01/2020-01-01"),
			numericFact("y2020", "121", "2020-01-01/2021-01-01"),
			numericFact("y2021", "100", "2021-01-01/2022-01-01"),
		)
	})

	change := ComputePeriodChange(source, reporttest.Fact(t, source, "y2020"))
	if change.Prior == nil || change.Prior.ID() != "y2019-first" {
		t.Fatalf("prior = %v, want y2019-first", change.Prior)
	}
	if change.Link.Primary != "y2019-first" {
		t.Errorf("link primary = %q", change.Link.Primary)
	}
	if !slices.Equal(change.Link.IDs, []string{"y2019-first", "y2019-second"}) {
		t.Errorf("link ids = %v, want the prior and its duplicate", change.Link.IDs)
	}
	if change.Describe() != "10.0% increase on 1 Jan 2019 to 31 Dec 2019" {
		t.Errorf("Describe = %q", change.Describe())
	}

	// Later facts never count as prior.
	change = ComputePeriodChange(source, reporttest.Fact(t, source, "y2018"))
	if change.Kind != ChangeNoPrior {
		t.Errorf("earliest fact kind = %v, want no prior", change.Kind)
	}
}

func TestPeriodChangeSkipsNilPriors(t *testing.T) {
	source := buildReport(t, func(snapshot *report.Snapshot) {
		prior := numericFact("nil-prior", "", "2019-01-01/2020-01-01")
		prior.Nil = true
		snapshot.Facts = append(snapshot.Facts,
			numericFact("older", "50", "2018-01-01/2019-01-01"),
			prior,
			numericFact("current", "100", "2020-01-01/2021-01-01"),
		)
	})
	change := ComputePeriodChange(source, reporttest.Fact(t, source, "current"))
	if change.Prior == nil || change.Prior.ID() != "older" {
		t.Errorf("prior = %v, want older", change.Prior)
	}
	nilFact := reporttest.Fact(t, source, "nil-prior")
	if got := ComputePeriodChange(source, nilFact); got.Kind != ChangeNotApplicable {
		t.Errorf("nil fact kind = %v, want not applicable", got.Kind)
	}
}

func TestDuplicateCycle(t *testing.T) {
	source := buildReport(t, func(snapshot *report.Snapshot) {
		snapshot.Facts = append(snapshot.Facts,
			numericFact("A", "1", "2020-01-01"),
			numericFact("B", "1", "2020-01-01"),
			numericFact("C", "1", "2020-01-01"),
		)
	})

	cycle := Duplicates(source, reporttest.Fact(t, source, "B"))
	if cycle.String() != "2 of 3" {
		t.Errorf("String = %q, want \"2 of 3\"", cycle.String())
	}
	next := cycle.Next()
	if next.ID() != "C" {
		t.Fatalf("Next from B = %s, want C", next.ID())
	}
	if got := Duplicates(source, next).Next().ID(); got != "A" {
		t.Errorf("Next from C = %s, want A", got)
	}
	if got := cycle.Previous().ID(); got != "A" {
		t.Errorf("Previous from B = %s, want A", got)
	}
	if got := Duplicates(source, reporttest.Fact(t, source, "A")).Previous().ID(); got != "C" {
		t.Errorf("Previous from A = %s, want C", got)
	}
}

// staleStore answers duplicates without the fact itself.
type staleStore struct {
	*report.Report
	others []*report.Fact
}

func (store staleStore) Duplicates(*report.Fact) []*report.Fact { return store.others }

func TestDuplicateCycleMissingSelf(t *testing.T) {
	sample := reporttest.Build(t)
	copyFact := reporttest.Fact(t, sample, reporttest.Revenue2020Copy)
	store := staleStore{Report: sample, others: []*report.Fact{copyFact}}

	cycle := Duplicates(store, reporttest.Fact(t, sample, reporttest.Revenue2020))
	if cycle.Ordinal() != 1 || cycle.Len() != 1 {
		t.Errorf("cycle = %s, want ordinal 1 of 1", cycle)
	}

	empty := staleStore{Report: sample}
	lone := Duplicates(empty, copyFact)
	if lone.String() != "1 of 1" || lone.Next() != copyFact {
		t.Errorf("empty duplicate list cycle = %s", lone)
	}
}
