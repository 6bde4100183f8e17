// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package highlight synchronizes hover and selection highlighting across
// every view that shows the same report item.
//
// Views register a [Region] for each place they render (a tag in the
// document, a row in the search results, a line in a calculation) and
// tag it with the item ids it covers. The [Bus] keeps a many-to-many
// index between ids and regions, backed by roaring bitmaps so that the
// question "which regions light up for these ids" is a bitmap union.
//
// Three independent highlight layers exist:
//
//   - Linked: driven by pointer hover. Each id carries a reference
//     count so overlapping producers (nested tags, a link hovered while
//     the cursor rests on a tag) compose; an id is linked while its
//     count is positive. A [Pointer] pairs enter and leave for one
//     producer so counts cannot leak.
//   - Related: search matches, set in bulk and cleared together.
//   - Selected: the single id the selection engine has selected.
//
// The bus never changes selection; it only reflects it. It is not safe
// for concurrent use and is driven from the UI loop.
package highlight
