// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package factui is the terminal viewer for report snapshots. It hosts
// the inspector engine in a bubbletea program: a document pane with
// the report's sections and tags on the left, an inspector pane on the
// right that shows either the selected item or the fact search, and a
// status bar with the deep-link fragment, the report fingerprint and
// recent warnings.
//
// The panes implement the inspector's collaborator interfaces:
// [DocumentPane] is its Document and [DetailPane] its Presenter. The
// engine owns all selection and highlight state; the panes only render
// it and translate keys and mouse events into engine calls.
//
// Work that happens off the UI loop (the search index build, snapshot
// reloads from the watcher, messages from the socket listener) reaches
// the model as tea messages through [Model.Update]; nothing outside the
// loop touches engine state.
package factui
