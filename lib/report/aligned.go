// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

// AspectOverride adjusts the aspect set used by [Report.AlignedFacts].
type AspectOverride struct {
	name  string
	value string
	free  bool
}

// FreeAspect matches any value (or absence) of the named aspect.
func FreeAspect(name string) AspectOverride {
	return AspectOverride{name: name, free: true}
}

// WithAspect replaces the value of the named aspect.
func WithAspect(name, value string) AspectOverride {
	return AspectOverride{name: name, value: value}
}

// AlignedFacts returns the facts whose aspects equal the given fact's
// after applying overrides, in document order. The fact itself is
// included when it matches. A fact with an extra or missing dimension
// is not aligned.
func (report *Report) AlignedFacts(fact *Fact, overrides ...AspectOverride) []*Fact {
	target := make(map[string]string)
	for _, name := range fact.aspectNames() {
		value, _ := fact.aspectValue(name)
		target[name] = value
	}
	free := make(map[string]bool)
	for _, override := range overrides {
		if override.free {
			free[override.name] = true
			delete(target, override.name)
			continue
		}
		delete(free, override.name)
		target[override.name] = override.value
	}

	candidates := report.factOrder
	if concept, ok := target[AspectConcept]; ok {
		candidates = report.byConcept[concept]
	}

	var aligned []*Fact
	for _, candidate := range candidates {
		if report.matches(candidate, target, free) {
			aligned = append(aligned, candidate)
		}
	}
	return aligned
}

func (report *Report) matches(candidate *Fact, target map[string]string, free map[string]bool) bool {
	seen := 0
	for _, name := range candidate.aspectNames() {
		if free[name] {
			continue
		}
		want, ok := target[name]
		if !ok {
			return false
		}
		value, _ := candidate.aspectValue(name)
		if value != want {
			return false
		}
		seen++
	}
	return seen == len(target)
}

// Duplicates returns every fact with exactly the same aspects as the
// given fact, itself included, in document order.
func (report *Report) Duplicates(fact *Fact) []*Fact {
	return report.AlignedFacts(fact)
}
