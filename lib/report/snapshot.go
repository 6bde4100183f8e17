// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

// Snapshot is the serialized form of a report. It is produced by an
// extraction tool from the source document and consumed here; the
// viewer never parses the source format itself.
//
// The same struct decodes from JSON and from CBOR (via lib/codec, which
// honours json tags).
type Snapshot struct {
	// Languages maps language codes to display names.
	Languages map[string]string `json:"languages,omitempty"`

	// Roles maps extended link role URIs to display labels.
	Roles map[string]string `json:"roles,omitempty"`

	// Concepts maps qualified concept names (including dimension and
	// member concepts) to their metadata.
	Concepts map[string]ConceptSnapshot `json:"concepts,omitempty"`

	// Facts lists facts in document order.
	Facts []FactSnapshot `json:"facts"`

	// Footnotes lists footnotes in document order.
	Footnotes []FootnoteSnapshot `json:"footnotes,omitempty"`

	// Sections describes the rendered document layout. When absent,
	// a layout is derived from each fact's section name.
	Sections []SectionSnapshot `json:"sections,omitempty"`
}

// ConceptSnapshot carries labels, references and calculation
// relationships for one concept.
type ConceptSnapshot struct {
	// Labels maps label role ("std", "doc", ...) to language code to
	// label text.
	Labels map[string]map[string]string `json:"labels,omitempty"`

	// References lists authoritative references; each reference is an
	// ordered list of parts.
	References [][]ReferencePart `json:"references,omitempty"`

	// Calculations maps an extended link role to the concepts that sum
	// into this one under that role.
	Calculations map[string][]CalculationArc `json:"calculations,omitempty"`
}

// ReferencePart is one part of a taxonomy reference, such as
// {"Name", "IAS"} or {"URI", "https://..."}.
type ReferencePart struct {
	Part  string `json:"part"`
	Value string `json:"value"`
}

// CalculationArc is one contributor in a summation relationship.
type CalculationArc struct {
	Concept string  `json:"concept"`
	Weight  float64 `json:"weight"`
}

// FactSnapshot is the serialized form of a fact.
type FactSnapshot struct {
	ID      string `json:"id"`
	Concept string `json:"concept"`
	Value   string `json:"value,omitempty"`

	// Decimals is the accuracy attribute; absent means infinite
	// precision.
	Decimals *int `json:"decimals,omitempty"`

	// Unit is the unit measure; present only on numeric facts.
	Unit string `json:"unit,omitempty"`

	// Period is "YYYY-MM-DD" or "YYYY-MM-DD/YYYY-MM-DD".
	Period string `json:"period"`

	EntityScheme string `json:"entity_scheme,omitempty"`
	Entity       string `json:"entity"`

	// Dimensions maps dimension QName to member QName or typed value.
	// A null value is a nil typed dimension.
	Dimensions map[string]*string `json:"dimensions,omitempty"`

	Nil       bool     `json:"nil,omitempty"`
	Hidden    bool     `json:"hidden,omitempty"`
	Footnotes []string `json:"footnotes,omitempty"`
	Section   string   `json:"section,omitempty"`
}

// FootnoteSnapshot is the serialized form of a footnote.
type FootnoteSnapshot struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Facts []string `json:"facts,omitempty"`
}

// SectionSnapshot is one rendered table or text block. Each tag is the
// list of item ids covered by one interaction point; nested facts share
// a tag.
type SectionSnapshot struct {
	Title string     `json:"title"`
	Tags  [][]string `json:"tags"`
}
