// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package factsearch ranks and filters the facts of a report.
//
// [New] builds an [Index] over every fact. Each fact becomes a document
// of weighted text fields (labels, concept name, dimension labels,
// period, id) scored with Okapi BM25; field weighting repeats a field's
// tokens in proportion to its weight. Queries that BM25 cannot match
// (typos, abbreviations such as "rvn") fall back to fzf fuzzy matching
// against the fact's standard label.
//
// [Index.Search] applies a [Spec]: the free-text query plus visibility,
// period and concept-type filters. An empty query lists every fact that
// passes the filters in document order. [Index.Periods] lists the
// distinct periods for the period filter.
//
// Building the index is the slow step and is done once per report,
// typically on a background goroutine. A built index is immutable; all
// methods are safe for concurrent use except that the fuzzy fallback
// serializes on an internal scratch slab.
package factsearch
