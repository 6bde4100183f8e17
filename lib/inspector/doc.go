// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package inspector is the selection, synchronization and comparison
// engine of the report viewer.
//
// It owns three pieces of state and nothing else:
//
//   - the selection: the current item and the alternates available at
//     the same place in the document ([Selection]),
//   - the search result set and how much of it is revealed
//     ([Paginator]),
//   - the shared highlight bus, which it drives but does not own
//     (lib/highlight).
//
// Everything it talks to is behind an interface: the report item store
// ([ItemStore]), the rendered document ([Document]), the detail view
// ([Presenter]), the deep-link fragment ([Location]) and the search
// index ([Searcher]). [Inspector] wires them together and handles
// inbound messages and deep links.
//
// The engine is single-threaded. All methods are called from the UI
// loop; background work (index builds, socket listeners) delivers its
// results to the loop rather than calling in directly.
//
// [ComputePeriodChange] and [Duplicates] are pure functions over the
// item store: the most recent prior-period comparison of a numeric
// fact, and cyclic navigation among facts reported more than once.
package inspector
