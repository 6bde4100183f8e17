// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Label roles.
const (
	// RoleStandard is the standard (short) label role.
	RoleStandard = "std"
	// RoleDocumentation is the documentation label role.
	RoleDocumentation = "doc"
)

// hiddenSectionTitle names the derived section that holds hidden facts
// when the snapshot has no explicit layout.
const hiddenSectionTitle = "Hidden facts"

// Language is an available label language.
type Language struct {
	Code string
	Name string
}

// Concept is the metadata of one concept.
type Concept struct {
	Name         string
	labels       map[string]map[string]string
	References   [][]ReferencePart
	Calculations map[string][]CalculationArc
}

// Section is one rendered table or text block of the document.
type Section struct {
	Title string
	Tags  []Tag
}

// Tag is one interaction point in the rendered document. It covers
// one or more items; nested facts share a tag.
type Tag struct {
	IDs []string
}

// Options control how a snapshot is turned into a [Report].
type Options struct {
	// Language selects label language. Empty or unavailable falls
	// back to the first available language in code order.
	Language string

	// Fingerprint identifies the snapshot payload; set by [Load].
	Fingerprint string
}

// Report is the item store for one document. Immutable after [Build].
type Report struct {
	facts         map[string]*Fact
	factOrder     []*Fact
	factIndex     map[string]int
	footnotes     map[string]*Footnote
	footnoteOrder []*Footnote
	concepts      map[string]*Concept
	roles         map[string]string
	languages     []Language
	language      string
	sections      []Section
	byConcept     map[string][]*Fact
	fingerprint   string
}

// Build validates a snapshot and constructs a report from it.
func Build(snapshot *Snapshot, options Options) (*Report, error) {
	report := &Report{
		facts:       make(map[string]*Fact, len(snapshot.Facts)),
		factIndex:   make(map[string]int, len(snapshot.Facts)),
		footnotes:   make(map[string]*Footnote, len(snapshot.Footnotes)),
		concepts:    make(map[string]*Concept, len(snapshot.Concepts)),
		roles:       snapshot.Roles,
		byConcept:   make(map[string][]*Fact),
		fingerprint: options.Fingerprint,
	}

	for name, concept := range snapshot.Concepts {
		report.concepts[name] = &Concept{
			Name:         name,
			labels:       concept.Labels,
			References:   concept.References,
			Calculations: concept.Calculations,
		}
	}

	for code, name := range snapshot.Languages {
		report.languages = append(report.languages, Language{Code: code, Name: name})
	}
	sort.Slice(report.languages, func(a, b int) bool {
		return report.languages[a].Code < report.languages[b].Code
	})
	report.language = report.pickLanguage(options.Language)

	for index, factSnapshot := range snapshot.Facts {
		fact, err := report.buildFact(factSnapshot)
		if err != nil {
			return nil, fmt.Errorf("fact %d: %w", index, err)
		}
		if _, exists := report.facts[fact.id]; exists {
			return nil, fmt.Errorf("fact %d: duplicate id %q", index, fact.id)
		}
		report.facts[fact.id] = fact
		report.factIndex[fact.id] = len(report.factOrder)
		report.factOrder = append(report.factOrder, fact)
		report.byConcept[fact.concept] = append(report.byConcept[fact.concept], fact)
	}

	for index, footnoteSnapshot := range snapshot.Footnotes {
		if footnoteSnapshot.ID == "" {
			return nil, fmt.Errorf("footnote %d: missing id", index)
		}
		if _, exists := report.facts[footnoteSnapshot.ID]; exists {
			return nil, fmt.Errorf("footnote %d: id %q collides with a fact", index, footnoteSnapshot.ID)
		}
		if _, exists := report.footnotes[footnoteSnapshot.ID]; exists {
			return nil, fmt.Errorf("footnote %d: duplicate id %q", index, footnoteSnapshot.ID)
		}
		footnote := &Footnote{
			id:      footnoteSnapshot.ID,
			text:    footnoteSnapshot.Text,
			factIDs: slices.Clone(footnoteSnapshot.Facts),
			report:  report,
		}
		report.footnotes[footnote.id] = footnote
		report.footnoteOrder = append(report.footnoteOrder, footnote)
	}

	// Either side may declare the relation; complete the other side so
	// it can be walked in both directions.
	for _, footnote := range report.footnoteOrder {
		for _, factID := range footnote.factIDs {
			fact, ok := report.facts[factID]
			if !ok {
				return nil, fmt.Errorf("footnote %q: unknown fact %q", footnote.id, factID)
			}
			if !slices.Contains(fact.footnoteIDs, footnote.id) {
				fact.footnoteIDs = append(fact.footnoteIDs, footnote.id)
			}
		}
	}
	for _, fact := range report.factOrder {
		for _, footnoteID := range fact.footnoteIDs {
			footnote, ok := report.footnotes[footnoteID]
			if !ok {
				return nil, fmt.Errorf("fact %q: unknown footnote %q", fact.id, footnoteID)
			}
			if !slices.Contains(footnote.factIDs, fact.id) {
				footnote.factIDs = append(footnote.factIDs, fact.id)
			}
		}
	}

	if len(snapshot.Sections) > 0 {
		for _, sectionSnapshot := range snapshot.Sections {
			section := Section{Title: sectionSnapshot.Title}
			for _, ids := range sectionSnapshot.Tags {
				if len(ids) == 0 {
					continue
				}
				for _, id := range ids {
					if _, err := report.Item(id); err != nil {
						return nil, fmt.Errorf("section %q: %w", sectionSnapshot.Title, err)
					}
				}
				section.Tags = append(section.Tags, Tag{IDs: slices.Clone(ids)})
			}
			report.sections = append(report.sections, section)
		}
	} else {
		report.sections = report.deriveSections()
	}

	return report, nil
}

func (report *Report) buildFact(snapshot FactSnapshot) (*Fact, error) {
	if snapshot.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	if snapshot.Concept == "" {
		return nil, fmt.Errorf("fact %q: missing concept", snapshot.ID)
	}
	period, err := ParsePeriod(snapshot.Period)
	if err != nil {
		return nil, fmt.Errorf("fact %q: %w", snapshot.ID, err)
	}

	fact := &Fact{
		id:          snapshot.ID,
		concept:     snapshot.Concept,
		value:       snapshot.Value,
		decimals:    snapshot.Decimals,
		unit:        snapshot.Unit,
		numeric:     snapshot.Unit != "",
		entity:      Entity{Scheme: snapshot.EntityScheme, Value: snapshot.Entity},
		period:      period,
		nilValue:    snapshot.Nil,
		hidden:      snapshot.Hidden,
		footnoteIDs: slices.Clone(snapshot.Footnotes),
		section:     snapshot.Section,
		report:      report,
	}

	if fact.numeric && !fact.nilValue {
		fact.number, err = decimal.NewFromString(strings.TrimSpace(snapshot.Value))
		if err != nil {
			return nil, fmt.Errorf("fact %q: numeric value %q: %w", snapshot.ID, snapshot.Value, err)
		}
	}

	for name, value := range snapshot.Dimensions {
		aspect := Aspect{
			Name:            name,
			Label:           report.labelOrName(name),
			TaxonomyDefined: true,
		}
		if value == nil {
			aspect.Nil = true
			aspect.ValueLabel = "nil"
		} else {
			aspect.Value = *value
			aspect.ValueLabel = report.labelOrName(*value)
		}
		fact.dimensions = append(fact.dimensions, aspect)
	}
	sort.Slice(fact.dimensions, func(a, b int) bool {
		return fact.dimensions[a].Name < fact.dimensions[b].Name
	})

	return fact, nil
}

// deriveSections groups facts by section name in order of first
// appearance, one tag per fact. Hidden facts are collected last.
func (report *Report) deriveSections() []Section {
	var sections []Section
	positions := make(map[string]int)
	var hidden Section
	for _, fact := range report.factOrder {
		if fact.hidden {
			hidden.Tags = append(hidden.Tags, Tag{IDs: []string{fact.id}})
			continue
		}
		position, ok := positions[fact.section]
		if !ok {
			title := fact.section
			if title == "" {
				title = "Document"
			}
			position = len(sections)
			positions[fact.section] = position
			sections = append(sections, Section{Title: title})
		}
		sections[position].Tags = append(sections[position].Tags, Tag{IDs: []string{fact.id}})
	}
	if len(hidden.Tags) > 0 {
		hidden.Title = hiddenSectionTitle
		sections = append(sections, hidden)
	}
	return sections
}

func (report *Report) pickLanguage(preferred string) string {
	for _, language := range report.languages {
		if strings.EqualFold(language.Code, preferred) {
			return language.Code
		}
	}
	// Accept a bare primary subtag ("en" for "en-GB") and the reverse.
	primary, _, _ := strings.Cut(preferred, "-")
	for _, language := range report.languages {
		code, _, _ := strings.Cut(language.Code, "-")
		if preferred != "" && strings.EqualFold(code, primary) {
			return language.Code
		}
	}
	if len(report.languages) > 0 {
		return report.languages[0].Code
	}
	return ""
}

// Item resolves an id to a fact or footnote. Unknown ids return an
// error wrapping [ErrNotFound].
func (report *Report) Item(id string) (Item, error) {
	if fact, ok := report.facts[id]; ok {
		return fact, nil
	}
	if footnote, ok := report.footnotes[id]; ok {
		return footnote, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
}

// Fact returns the fact with the given id.
func (report *Report) Fact(id string) (*Fact, bool) {
	fact, ok := report.facts[id]
	return fact, ok
}

// Facts returns every fact in document order. The slice is shared and
// must not be modified.
func (report *Report) Facts() []*Fact { return report.factOrder }

// Footnotes returns every footnote in document order. The slice is
// shared and must not be modified.
func (report *Report) Footnotes() []*Footnote { return report.footnoteOrder }

// FootnotesOf returns the footnotes attached to a fact.
func (report *Report) FootnotesOf(fact *Fact) []*Footnote {
	footnotes := make([]*Footnote, 0, len(fact.footnoteIDs))
	for _, id := range fact.footnoteIDs {
		footnotes = append(footnotes, report.footnotes[id])
	}
	return footnotes
}

// Sections returns the rendered document layout.
func (report *Report) Sections() []Section { return report.sections }

// Concept returns a concept's metadata.
func (report *Report) Concept(name string) (*Concept, bool) {
	concept, ok := report.concepts[name]
	return concept, ok
}

// Languages returns the available label languages sorted by code.
func (report *Report) Languages() []Language { return report.languages }

// Language returns the language labels are resolved in.
func (report *Report) Language() string { return report.language }

// Fingerprint returns the snapshot fingerprint, empty when the report
// was built directly rather than loaded.
func (report *Report) Fingerprint() string { return report.fingerprint }

// Label returns the concept label for a role in the report language,
// falling back to any language. Returns "" when no label exists.
func (report *Report) Label(conceptName string, role string) string {
	concept, ok := report.concepts[conceptName]
	if !ok {
		return ""
	}
	byLanguage := concept.labels[role]
	if label, ok := byLanguage[report.language]; ok {
		return label
	}
	codes := make([]string, 0, len(byLanguage))
	for code := range byLanguage {
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return ""
	}
	slices.Sort(codes)
	return byLanguage[codes[0]]
}

func (report *Report) labelOrName(name string) string {
	if label := report.Label(name, RoleStandard); label != "" {
		return label
	}
	return name
}

// RoleLabel returns the display label of an extended link role,
// falling back to the last path segment of the URI.
func (report *Report) RoleLabel(role string) string {
	if label, ok := report.roles[role]; ok && label != "" {
		return label
	}
	if index := strings.LastIndexAny(role, "/#"); index >= 0 && index < len(role)-1 {
		return role[index+1:]
	}
	return role
}

// DocumentIndex returns a fact's position in document order, or -1.
func (report *Report) DocumentIndex(id string) int {
	if index, ok := report.factIndex[id]; ok {
		return index
	}
	return -1
}
