// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned (wrapped with the identifier) when an item id
// does not resolve to a fact or footnote in the report.
var ErrNotFound = errors.New("item not found")

// Core aspect names. Every fact has a concept, period and entity; only
// numeric facts have a unit. Dimension aspects use the dimension's
// qualified name, which always contains a colon.
const (
	AspectConcept = "c"
	AspectPeriod  = "p"
	AspectEntity  = "e"
	AspectUnit    = "u"
)

// ItemKind discriminates the two kinds of [Item].
type ItemKind int

const (
	// KindFact identifies a [*Fact].
	KindFact ItemKind = iota
	// KindFootnote identifies a [*Footnote].
	KindFootnote
)

// String returns "fact" or "footnote".
func (kind ItemKind) String() string {
	switch kind {
	case KindFact:
		return "fact"
	case KindFootnote:
		return "footnote"
	default:
		return "unknown"
	}
}

// Item is a fact or a footnote. The interface is sealed: only types in
// this package implement it.
type Item interface {
	// ID returns the item's identifier, unique within the report.
	ID() string

	// Kind reports whether the item is a fact or a footnote.
	Kind() ItemKind

	// ReadableValue returns the value as shown to the user.
	ReadableValue() string

	sealed()
}

// Entity identifies the reporting entity of a fact.
type Entity struct {
	Scheme string
	Value  string
}

// String returns "scheme:value", or just the value when the scheme is
// empty.
func (entity Entity) String() string {
	if entity.Scheme == "" {
		return entity.Value
	}
	return entity.Scheme + ":" + entity.Value
}

// Aspect is one qualifier of a fact's context as presented to the
// user. Dimension aspects are taxonomy-defined; the core aspects are
// not.
type Aspect struct {
	// Name is the aspect key: a core aspect constant or the
	// dimension's qualified name.
	Name string

	// Label is the display label of the aspect (the dimension
	// concept's standard label).
	Label string

	// Value is the raw aspect value (a member QName or typed value).
	Value string

	// ValueLabel is the display label of the value.
	ValueLabel string

	// TaxonomyDefined is true for dimensions.
	TaxonomyDefined bool

	// Nil is true for a typed dimension whose value is nil.
	Nil bool
}

// Fact is a single reported value tagged to a concept, period and set
// of aspects.
type Fact struct {
	id          string
	concept     string
	value       string
	number      decimal.Decimal
	numeric     bool
	decimals    *int
	unit        string
	entity      Entity
	period      Period
	dimensions  []Aspect
	nilValue    bool
	hidden      bool
	footnoteIDs []string
	section     string

	report *Report
}

// ID returns the fact's identifier.
func (fact *Fact) ID() string { return fact.id }

// Kind returns [KindFact].
func (fact *Fact) Kind() ItemKind { return KindFact }

func (fact *Fact) sealed() {}

// Concept returns the concept's qualified name.
func (fact *Fact) Concept() string { return fact.concept }

// Value returns the raw value text as it appears in the snapshot.
func (fact *Fact) Value() string { return fact.value }

// Number returns the parsed numeric value. The second result is false
// for non-numeric and nil facts.
func (fact *Fact) Number() (decimal.Decimal, bool) {
	if !fact.numeric || fact.nilValue {
		return decimal.Decimal{}, false
	}
	return fact.number, true
}

// IsNumeric reports whether the fact has a unit.
func (fact *Fact) IsNumeric() bool { return fact.numeric }

// IsNil reports whether the fact is reported as nil.
func (fact *Fact) IsNil() bool { return fact.nilValue }

// IsHidden reports whether the fact is hidden in the rendered document.
func (fact *Fact) IsHidden() bool { return fact.hidden }

// Decimals returns the decimals accuracy, or nil when the fact is
// non-numeric or has infinite precision.
func (fact *Fact) Decimals() *int { return fact.decimals }

// Unit returns the unit measure (for example "iso4217:USD"), empty for
// non-numeric facts.
func (fact *Fact) Unit() string { return fact.unit }

// Entity returns the reporting entity.
func (fact *Fact) Entity() Entity { return fact.entity }

// Period returns the fact's period.
func (fact *Fact) Period() Period { return fact.period }

// Section returns the name of the rendered table the fact appears in.
func (fact *Fact) Section() string { return fact.section }

// FootnoteIDs returns the ids of footnotes attached to the fact.
func (fact *Fact) FootnoteIDs() []string { return fact.footnoteIDs }

// Dimensions returns the fact's dimension aspects in qualified-name
// order.
func (fact *Fact) Dimensions() []Aspect { return fact.dimensions }

// Aspects returns every aspect of the fact: concept, period, entity,
// unit (numeric facts only), then dimensions.
func (fact *Fact) Aspects() []Aspect {
	aspects := []Aspect{
		{Name: AspectConcept, Label: "Concept", Value: fact.concept, ValueLabel: fact.Label(RoleStandard)},
		{Name: AspectPeriod, Label: "Period", Value: fact.period.Key(), ValueLabel: fact.period.String()},
		{Name: AspectEntity, Label: "Entity", Value: fact.entity.String(), ValueLabel: fact.entity.String()},
	}
	if fact.numeric {
		aspects = append(aspects, Aspect{Name: AspectUnit, Label: "Unit", Value: fact.unit, ValueLabel: fact.unit})
	}
	return append(aspects, fact.dimensions...)
}

// aspectValue returns the raw value of the named aspect and whether
// the fact carries it.
func (fact *Fact) aspectValue(name string) (string, bool) {
	switch name {
	case AspectConcept:
		return fact.concept, true
	case AspectPeriod:
		return fact.period.Key(), true
	case AspectEntity:
		return fact.entity.String(), true
	case AspectUnit:
		return fact.unit, fact.numeric
	}
	for _, dimension := range fact.dimensions {
		if dimension.Name == name {
			return dimension.Value, true
		}
	}
	return "", false
}

// aspectNames returns the names of every aspect the fact carries.
func (fact *Fact) aspectNames() []string {
	names := []string{AspectConcept, AspectPeriod, AspectEntity}
	if fact.numeric {
		names = append(names, AspectUnit)
	}
	for _, dimension := range fact.dimensions {
		names = append(names, dimension.Name)
	}
	return names
}

// Label returns the concept label for the given role in the report's
// current language, falling back to the concept name for the standard
// role.
func (fact *Fact) Label(role string) string {
	label := fact.report.Label(fact.concept, role)
	if label == "" && role == RoleStandard {
		return fact.concept
	}
	return label
}

// IsEquivalentDuration reports whether the two facts' periods are of
// the same kind: both instants, or durations of the same length class.
func (fact *Fact) IsEquivalentDuration(other *Fact) bool {
	return fact.period.IsEquivalentDuration(other.period)
}

// ReadableValue returns the value formatted for display: grouped and
// rounded to the fact's accuracy for numeric facts, "nil" for nil
// facts, and the raw text otherwise.
func (fact *Fact) ReadableValue() string {
	if fact.nilValue {
		return "nil"
	}
	if !fact.numeric {
		return fact.value
	}
	return FormatNumber(fact.number, displayPlaces(fact.decimals, fact.number)) + unitSuffix(fact.unit)
}

// ReadableAccuracy describes the decimals attribute in words.
func (fact *Fact) ReadableAccuracy() string {
	if !fact.numeric || fact.nilValue {
		return "n/a"
	}
	return readableAccuracy(fact.decimals)
}

// Footnote is a free-text annotation attached to one or more facts.
type Footnote struct {
	id      string
	text    string
	factIDs []string

	report *Report
}

// ID returns the footnote's identifier.
func (footnote *Footnote) ID() string { return footnote.id }

// Kind returns [KindFootnote].
func (footnote *Footnote) Kind() ItemKind { return KindFootnote }

func (footnote *Footnote) sealed() {}

// Text returns the footnote body.
func (footnote *Footnote) Text() string { return footnote.text }

// ReadableValue returns the footnote body with whitespace collapsed.
func (footnote *Footnote) ReadableValue() string {
	return strings.Join(strings.Fields(footnote.text), " ")
}

// Facts returns the facts the footnote is attached to, in reference
// order.
func (footnote *Footnote) Facts() []*Fact {
	facts := make([]*Fact, 0, len(footnote.factIDs))
	for _, id := range footnote.factIDs {
		facts = append(facts, footnote.report.facts[id])
	}
	return facts
}

// FactIDs returns the ids of the facts the footnote is attached to.
func (footnote *Footnote) FactIDs() []string { return footnote.factIDs }
