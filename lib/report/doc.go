// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package report holds the in-memory model of one financial report:
// facts, footnotes, concepts and the relationships between them. It is
// the item store the inspector engine resolves identifiers against.
//
// Reports are loaded from a pre-extracted snapshot rather than from
// the source document. A snapshot is JSON (comments allowed) or CBOR,
// optionally wrapped in zstd or lz4 compression and age encryption:
//
//	report.json
//	report.cbor.zst
//	report.json.lz4.age
//
// Suffixes are peeled right to left by [Load]. [Watch] reloads the
// snapshot when the file is rewritten.
//
// Items form a closed sum type: [Item] is implemented only by [*Fact]
// and [*Footnote], so a type switch over the two is exhaustive.
//
// A [Report] is immutable after construction and safe for concurrent
// readers.
package report
