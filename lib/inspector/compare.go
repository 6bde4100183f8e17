// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/bureau-foundation/factview/lib/report"
)

var hundred = decimal.NewFromInt(100)

// ChangeKind classifies a [PeriodChange].
type ChangeKind int

const (
	// ChangeNotApplicable: the fact is not numeric (or is nil).
	ChangeNotApplicable ChangeKind = iota
	// ChangeNoPrior: no comparable fact for an earlier period exists.
	ChangeNoPrior
	// ChangePercent: a percentage change against the prior fact.
	ChangePercent
	// ChangeAbsolute: the prior value is quoted because a percentage
	// would be meaningless (sign change or zero base).
	ChangeAbsolute
)

// FactLink is a clickable reference to a fact. Primary is the fact the
// link selects; IDs are every id the link stands for (the fact and its
// duplicates), which become the selection alternates and are linked
// while the link is hovered.
type FactLink struct {
	Label   string
	Primary string
	IDs     []string
}

// PeriodChange describes a numeric fact against its most recent prior
// period.
type PeriodChange struct {
	Kind    ChangeKind
	Prior   *report.Fact
	Percent decimal.Decimal
	Link    FactLink
}

// Prefix returns the description text that precedes the link label.
func (change PeriodChange) Prefix() string {
	switch change.Kind {
	case ChangeNotApplicable:
		return "n/a"
	case ChangeNoPrior:
		return "No prior fact in this report"
	case ChangePercent:
		direction := "increase"
		if change.Percent.IsNegative() {
			direction = "decrease"
		}
		return fmt.Sprintf("%s%% %s on ", report.FormatNumber(change.Percent.Abs(), 1), direction)
	default:
		return "From " + change.Prior.ReadableValue() + " in "
	}
}

// HasLink reports whether the description ends in a fact link.
func (change PeriodChange) HasLink() bool { return change.Prior != nil }

// Describe returns the full description, link label included.
func (change PeriodChange) Describe() string {
	return change.Prefix() + change.Link.Label
}

// ComputePeriodChange compares a numeric fact with the most recent
// fact for an earlier period of equivalent duration that shares every
// other aspect. Ties on period end go to the first in document order.
func ComputePeriodChange(store ItemStore, fact *report.Fact) PeriodChange {
	current, ok := fact.Number()
	if !ok {
		return PeriodChange{Kind: ChangeNotApplicable}
	}

	var prior *report.Fact
	for _, candidate := range store.AlignedFacts(fact, report.FreeAspect(report.AspectPeriod)) {
		if _, numeric := candidate.Number(); !numeric {
			continue
		}
		if !candidate.Period().End().Before(fact.Period().End()) {
			continue
		}
		if !candidate.IsEquivalentDuration(fact) {
			continue
		}
		if prior == nil || candidate.Period().End().After(prior.Period().End()) {
			prior = candidate
		}
	}
	if prior == nil {
		return PeriodChange{Kind: ChangeNoPrior}
	}

	change := PeriodChange{Prior: prior, Link: linkTo(store, prior)}
	previous, _ := prior.Number()
	sameSign := current.IsPositive() == previous.IsPositive()
	if sameSign && !previous.IsZero() && previous.Abs().Add(current.Abs()).IsPositive() {
		change.Kind = ChangePercent
		change.Percent = current.Sub(previous).Mul(hundred).Div(previous)
	} else {
		change.Kind = ChangeAbsolute
	}
	return change
}

// linkTo builds a link to a fact that selects it among its duplicates.
func linkTo(store ItemStore, fact *report.Fact) FactLink {
	duplicates := store.Duplicates(fact)
	ids := make([]string, 0, len(duplicates)+1)
	for _, duplicate := range duplicates {
		ids = append(ids, duplicate.ID())
	}
	if !slices.Contains(ids, fact.ID()) {
		ids = append([]string{fact.ID()}, ids...)
	}
	return FactLink{Label: fact.Period().String(), Primary: fact.ID(), IDs: ids}
}

// DuplicateCycle is the position of a fact among the facts reporting
// the same aspects, with wrap-around navigation.
type DuplicateCycle struct {
	facts    []*report.Fact
	position int
}

// Duplicates returns the duplicate cycle of a fact. A fact missing from
// its own duplicate list is treated as the first entry.
func Duplicates(store ItemStore, fact *report.Fact) DuplicateCycle {
	facts := store.Duplicates(fact)
	if len(facts) == 0 {
		facts = []*report.Fact{fact}
	}
	position := slices.Index(facts, fact)
	if position < 0 {
		position = 0
	}
	return DuplicateCycle{facts: facts, position: position}
}

// Ordinal returns the 1-based position.
func (cycle DuplicateCycle) Ordinal() int { return cycle.position + 1 }

// Len returns the number of duplicates, the fact included.
func (cycle DuplicateCycle) Len() int { return len(cycle.facts) }

// Next returns the following duplicate, wrapping to the first.
func (cycle DuplicateCycle) Next() *report.Fact {
	return cycle.facts[(cycle.position+1)%len(cycle.facts)]
}

// Previous returns the preceding duplicate, wrapping to the last.
func (cycle DuplicateCycle) Previous() *report.Fact {
	return cycle.facts[(cycle.position-1+len(cycle.facts))%len(cycle.facts)]
}

// String returns "n of m".
func (cycle DuplicateCycle) String() string {
	return fmt.Sprintf("%d of %d", cycle.Ordinal(), cycle.Len())
}
