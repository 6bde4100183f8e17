// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package reporttest provides a small, fully-featured sample report for
// tests of packages that consume [report.Report].
//
// The sample covers every relationship the viewer navigates: revenue
// over three annual periods plus a half-year, a duplicate of the
// current-year revenue in a second section, a dimensional fact, a
// calculation (profit = revenue - cost), a hidden text fact, a
// sign-negative pair, and a footnote.
package reporttest

import (
	"testing"

	"github.com/bureau-foundation/factview/lib/report"
)

// Fact ids in the sample report.
const (
	Revenue2020     = "f-rev-2020"
	Revenue2019     = "f-rev-2019"
	Revenue2018     = "f-rev-2018"
	Revenue2020Copy = "f-rev-2020-notes"
	RevenueHalfYear = "f-rev-h1"
	RevenueSegment  = "f-rev-2020-a"
	Cost2020        = "f-cost-2020"
	Profit2020      = "f-profit-2020"
	Loss2020        = "f-loss-2020"
	Loss2019        = "f-loss-2019"
	Policy          = "f-policy"
	Footnote        = "fn-1"
)

// IncomeStatementRole is the calculation ELR in the sample.
const IncomeStatementRole = "http://example.com/role/IncomeStatement"

// Snapshot returns a fresh copy of the sample snapshot.
func Snapshot() *report.Snapshot {
	zero := 0
	member := "ex:SegmentAMember"
	return &report.Snapshot{
		Languages: map[string]string{"en": "English", "fr": "Français"},
		Roles:     map[string]string{IncomeStatementRole: "Income statement"},
		Concepts: map[string]report.ConceptSnapshot{
			"ex:Revenue": {
				Labels: map[string]map[string]string{
					report.RoleStandard:      {"en": "Revenue", "fr": "Chiffre d'affaires"},
					report.RoleDocumentation: {"en": "Income arising from ordinary activities."},
				},
				References: [][]report.ReferencePart{{{Part: "Name", Value: "IFRS"}, {Part: "Number", Value: "15"}}},
			},
			"ex:Cost":    {Labels: map[string]map[string]string{report.RoleStandard: {"en": "Cost of sales"}}},
			"ex:Loss":    {Labels: map[string]map[string]string{report.RoleStandard: {"en": "Other losses"}}},
			"ex:Policy":  {Labels: map[string]map[string]string{report.RoleStandard: {"en": "Revenue recognition policy"}}},
			"ex:Segment": {Labels: map[string]map[string]string{report.RoleStandard: {"en": "Segments"}}},
			"ex:SegmentAMember": {
				Labels: map[string]map[string]string{report.RoleStandard: {"en": "Segment A"}},
			},
			"ex:Profit": {
				Labels: map[string]map[string]string{report.RoleStandard: {"en": "Gross profit"}},
				Calculations: map[string][]report.CalculationArc{
					IncomeStatementRole: {
						{Concept: "ex:Revenue", Weight: 1},
						{Concept: "ex:Cost", Weight: -1},
					},
				},
			},
		},
		Facts: []report.FactSnapshot{
			numeric(Revenue2020, "ex:Revenue", "1200", "2020-01-01/2021-01-01", "Income statement", &zero),
			numeric(Revenue2019, "ex:Revenue", "1000", "2019-01-01/2020-01-01", "Income statement", &zero),
			numeric(Cost2020, "ex:Cost", "700", "2020-01-01/2021-01-01", "Income statement", &zero),
			numeric(Profit2020, "ex:Profit", "500", "2020-01-01/2021-01-01", "Income statement", &zero),
			numeric(Loss2020, "ex:Loss", "-5", "2020-01-01/2021-01-01", "Income statement", &zero),
			numeric(Loss2019, "ex:Loss", "-10", "2019-01-01/2020-01-01", "Income statement", &zero),
			numeric(Revenue2018, "ex:Revenue", "800", "2018-01-01/2019-01-01", "Five-year summary", &zero),
			numeric(Revenue2020Copy, "ex:Revenue", "1200", "2020-01-01/2021-01-01", "Notes", &zero),
			numeric(RevenueHalfYear, "ex:Revenue", "600", "2020-01-01/2020-07-01", "Notes", &zero),
			func() report.FactSnapshot {
				fact := numeric(RevenueSegment, "ex:Revenue", "300", "2020-01-01/2021-01-01", "Notes", &zero)
				fact.Dimensions = map[string]*string{"ex:Segment": &member}
				return fact
			}(),
			{
				ID:      Policy,
				Concept: "ex:Policy",
				Value:   "Revenue is recognised when control transfers.",
				Period:  "2020-01-01/2021-01-01",
				Entity:  "ACME",
				Hidden:  true,
			},
		},
		Footnotes: []report.FootnoteSnapshot{
			{ID: Footnote, Text: "Restated for the change in **segment** reporting.", Facts: []string{Revenue2019}},
		},
	}
}

func numeric(id, concept, value, period, section string, decimals *int) report.FactSnapshot {
	return report.FactSnapshot{
		ID:           id,
		Concept:      concept,
		Value:        value,
		Decimals:     decimals,
		Unit:         "iso4217:USD",
		Period:       period,
		EntityScheme: "http://standards.iso.org/iso/17442",
		Entity:       "ACME",
		Section:      section,
	}
}

// Build returns the sample report with English labels, failing the
// test on error.
func Build(t testing.TB) *report.Report {
	t.Helper()
	sample, err := report.Build(Snapshot(), report.Options{Language: "en"})
	if err != nil {
		t.Fatalf("building sample report: %v", err)
	}
	return sample
}

// Fact returns a fact from the sample report, failing the test when it
// is missing.
func Fact(t testing.TB, sample *report.Report, id string) *report.Fact {
	t.Helper()
	fact, ok := sample.Fact(id)
	if !ok {
		t.Fatalf("sample report has no fact %q", id)
	}
	return fact
}
