// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factsearch

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/factview/lib/report"
)

// Filter values.
const (
	// AllPeriods disables the period filter.
	AllPeriods = "*"
	// AnyConceptType disables the concept type filter.
	AnyConceptType = "*"
	// ConceptTypeNumeric keeps facts with a unit.
	ConceptTypeNumeric = "numeric"
	// ConceptTypeText keeps facts without a unit.
	ConceptTypeText = "text"
)

// Spec is one search request. It is a value: callers build a fresh
// one from their controls for every query.
type Spec struct {
	SearchString      string
	ShowVisibleFacts  bool
	ShowHiddenFacts   bool
	PeriodFilter      string
	ConceptTypeFilter string
}

// DefaultSpec returns an empty query with every filter open.
func DefaultSpec() Spec {
	return Spec{
		ShowVisibleFacts:  true,
		ShowHiddenFacts:   true,
		PeriodFilter:      AllPeriods,
		ConceptTypeFilter: AnyConceptType,
	}
}

// Validate reports unknown filter values.
func (spec Spec) Validate() error {
	switch spec.ConceptTypeFilter {
	case AnyConceptType, ConceptTypeNumeric, ConceptTypeText:
	default:
		return fmt.Errorf("unknown concept type filter %q", spec.ConceptTypeFilter)
	}
	if spec.PeriodFilter == "" {
		return fmt.Errorf("empty period filter (use %q for all periods)", AllPeriods)
	}
	return nil
}

// Result is one matched fact with its relevance score. Filter-only
// listings have score zero.
type Result struct {
	Fact  *report.Fact
	Score float64
}

// Weights sets the relative influence of each field on ranking. A
// weight of zero leaves the field out of the index.
type Weights struct {
	Label         int
	Concept       int
	Dimension     int
	Period        int
	Documentation int
}

// DefaultWeights favours labels over the raw concept name.
func DefaultWeights() Weights {
	return Weights{Label: 4, Concept: 2, Dimension: 2, Period: 1, Documentation: 1}
}

// PeriodOption is one entry of the period filter.
type PeriodOption struct {
	Key   string
	Label string
}

// Index searches one report.
type Index struct {
	report  *report.Report
	facts   []*report.Fact
	labels  []string
	corpus  *corpus
	periods []PeriodOption

	slabMutex sync.Mutex
	slab      *util.Slab
}

// New indexes every fact of a report.
func New(source *report.Report, weights Weights) *Index {
	facts := source.Facts()
	documents := make([][]field, len(facts))
	labels := make([]string, len(facts))
	for position, fact := range facts {
		labels[position] = fact.Label(report.RoleStandard)
		documents[position] = factDocument(fact, labels[position], weights)
	}
	return &Index{
		report:  source,
		facts:   facts,
		labels:  labels,
		corpus:  newCorpus(documents),
		periods: periodOptions(facts),
		slab:    newSlab(),
	}
}

func factDocument(fact *report.Fact, label string, weights Weights) []field {
	fields := []field{
		{text: label, weight: weights.Label},
		{text: strings.ReplaceAll(fact.Concept(), ":", " "), weight: weights.Concept},
		{text: fact.Label(report.RoleDocumentation), weight: weights.Documentation},
		{text: fact.Period().String(), weight: weights.Period},
		{text: fact.ID(), weight: 1},
	}
	for _, dimension := range fact.Dimensions() {
		fields = append(fields,
			field{text: dimension.Label, weight: weights.Dimension},
			field{text: dimension.ValueLabel, weight: weights.Dimension},
		)
	}
	if !fact.IsNumeric() {
		fields = append(fields, field{text: fact.Value(), weight: 1})
	}
	return fields
}

// periodOptions lists distinct periods, most recent end first and
// longer durations before shorter ones ending on the same day.
func periodOptions(facts []*report.Fact) []PeriodOption {
	seen := make(map[string]report.Period)
	for _, fact := range facts {
		seen[fact.Period().Key()] = fact.Period()
	}
	periods := make([]report.Period, 0, len(seen))
	for _, period := range seen {
		periods = append(periods, period)
	}
	sort.Slice(periods, func(a, b int) bool {
		left, right := periods[a], periods[b]
		if !left.End().Equal(right.End()) {
			return left.End().After(right.End())
		}
		if left.IsInstant() != right.IsInstant() {
			return right.IsInstant()
		}
		if !left.From().Equal(right.From()) {
			return left.From().Before(right.From())
		}
		return left.Key() < right.Key()
	})
	options := make([]PeriodOption, len(periods))
	for index, period := range periods {
		options[index] = PeriodOption{Key: period.Key(), Label: period.String()}
	}
	return options
}

// Report returns the report the index was built over.
func (index *Index) Report() *report.Report { return index.report }

// Periods returns the period filter options, excluding the "all"
// option.
func (index *Index) Periods() []PeriodOption { return index.periods }

// Search runs a query. Results are in descending score order with ties
// in document order; an empty query returns the filtered facts in
// document order.
func (index *Index) Search(spec Spec) ([]Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	query := strings.TrimSpace(spec.SearchString)
	if query == "" {
		var results []Result
		for _, fact := range index.facts {
			if matchesFilters(fact, spec) {
				results = append(results, Result{Fact: fact})
			}
		}
		return results, nil
	}

	scores := index.rank(query)
	var results []Result
	for position, score := range scores {
		if score > 0 && matchesFilters(index.facts[position], spec) {
			results = append(results, Result{Fact: index.facts[position], Score: score})
		}
	}
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})
	return results, nil
}

// rank scores every fact by BM25, falling back to fuzzy label matching
// when no fact matches lexically.
func (index *Index) rank(query string) []float64 {
	scores := make([]float64, len(index.facts))
	tokens := tokenize(query)
	matched := false
	if len(tokens) > 0 {
		for position := range index.facts {
			scores[position] = index.corpus.score(position, tokens)
			if scores[position] > 0 {
				matched = true
			}
		}
	}
	if matched {
		return scores
	}

	pattern := []rune(query)
	index.slabMutex.Lock()
	defer index.slabMutex.Unlock()
	for position, label := range index.labels {
		result := FuzzyMatch(label, pattern, index.slab)
		scores[position] = float64(result.Score)
	}
	return scores
}

func matchesFilters(fact *report.Fact, spec Spec) bool {
	if fact.IsHidden() && !spec.ShowHiddenFacts {
		return false
	}
	if !fact.IsHidden() && !spec.ShowVisibleFacts {
		return false
	}
	if spec.PeriodFilter != AllPeriods && fact.Period().Key() != spec.PeriodFilter {
		return false
	}
	switch spec.ConceptTypeFilter {
	case ConceptTypeNumeric:
		return fact.IsNumeric()
	case ConceptTypeText:
		return !fact.IsNumeric()
	}
	return true
}
