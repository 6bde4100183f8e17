// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"slices"
	"sort"
)

// CalculationLine is one contributor of a summation: a weighted concept
// and the facts reporting it with the total's other aspects.
type CalculationLine struct {
	Concept string
	Weight  float64
	Facts   []*Fact
}

// Sign returns "+" or "-" for the contribution weight.
func (line CalculationLine) Sign() string {
	if line.Weight < 0 {
		return "-"
	}
	return "+"
}

// Calculation groups the summation trees of one total fact, one per
// extended link role.
type Calculation struct {
	Fact  *Fact
	ELRs  []string
	Lines map[string][]CalculationLine
}

// Calculation resolves the summation relationships in which the fact is
// the total. ELRs are sorted; a fact with none yields an empty result.
func (report *Report) Calculation(fact *Fact) Calculation {
	calculation := Calculation{Fact: fact, Lines: make(map[string][]CalculationLine)}
	concept, ok := report.concepts[fact.concept]
	if !ok {
		return calculation
	}
	for elr, arcs := range concept.Calculations {
		if len(arcs) == 0 {
			continue
		}
		lines := make([]CalculationLine, 0, len(arcs))
		for _, arc := range arcs {
			lines = append(lines, CalculationLine{
				Concept: arc.Concept,
				Weight:  arc.Weight,
				Facts:   report.AlignedFacts(fact, WithAspect(AspectConcept, arc.Concept)),
			})
		}
		calculation.Lines[elr] = lines
		calculation.ELRs = append(calculation.ELRs, elr)
	}
	sort.Strings(calculation.ELRs)
	return calculation
}

// HasCalculation reports whether any ELR has contributors.
func (calculation Calculation) HasCalculation() bool {
	return len(calculation.ELRs) > 0
}

// BestELR picks the ELR whose contributing facts best overlap the given
// set (typically the facts of the table the total appears in): highest
// fraction of lines with at least one fact in the set. Ties go to the
// first ELR in sorted order. Returns "" when there are no ELRs.
func (calculation Calculation) BestELR(tableFacts []*Fact) string {
	best := ""
	bestScore := -1.0
	for _, elr := range calculation.ELRs {
		lines := calculation.Lines[elr]
		matched := 0
		for _, line := range lines {
			if slices.ContainsFunc(line.Facts, func(fact *Fact) bool {
				return slices.Contains(tableFacts, fact)
			}) {
				matched++
			}
		}
		score := float64(matched) / float64(len(lines))
		if score > bestScore {
			best = elr
			bestScore = score
		}
	}
	return best
}

// SectionFacts returns the facts tagged in the named section.
func (report *Report) SectionFacts(title string) []*Fact {
	var facts []*Fact
	for _, section := range report.sections {
		if section.Title != title {
			continue
		}
		for _, tag := range section.Tags {
			for _, id := range tag.IDs {
				if fact, ok := report.facts[id]; ok {
					facts = append(facts, fact)
				}
			}
		}
	}
	return facts
}

// SectionOf returns the title of the first section that tags the item,
// or "" when the item is not laid out.
func (report *Report) SectionOf(id string) string {
	for _, section := range report.sections {
		for _, tag := range section.Tags {
			if slices.Contains(tag.IDs, id) {
				return section.Title
			}
		}
	}
	return ""
}
