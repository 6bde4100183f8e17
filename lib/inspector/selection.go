// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bureau-foundation/factview/lib/highlight"
	"github.com/bureau-foundation/factview/lib/report"
)

// Status is the coarse selection state.
type Status int

const (
	// NoSelection: nothing is selected.
	NoSelection Status = iota
	// FactSelected: the current item is a fact.
	FactSelected
	// FootnoteSelected: the current item is a footnote.
	FootnoteSelected
)

// String returns the status name.
func (status Status) String() string {
	switch status {
	case FactSelected:
		return "fact selected"
	case FootnoteSelected:
		return "footnote selected"
	default:
		return "no selection"
	}
}

// State is a snapshot of the selection. Current is nil when nothing is
// selected; otherwise Items contains Current.
type State struct {
	Current report.Item
	Items   []report.Item
}

// Status returns the state's coarse status.
func (state State) Status() Status {
	switch state.Current.(type) {
	case *report.Fact:
		return FactSelected
	case *report.Footnote:
		return FootnoteSelected
	default:
		return NoSelection
	}
}

// CurrentID returns the current item's id, or "".
func (state State) CurrentID() string {
	if state.Current == nil {
		return ""
	}
	return state.Current.ID()
}

// Selection is the only writer of the current item and its alternates.
// Every transition reveals and highlights the item in the document,
// marks it on the highlight bus, presents the new state and mirrors it
// into the location fragment.
type Selection struct {
	store     ItemStore
	document  Document
	bus       *highlight.Bus
	presenter Presenter
	location  Location
	logger    *slog.Logger

	current report.Item
	items   []report.Item
}

// State returns a copy of the selection state.
func (selection *Selection) State() State {
	return State{Current: selection.current, Items: slices.Clone(selection.items)}
}

// Select makes id the current item with no alternates.
func (selection *Selection) Select(id string) error {
	item, err := selection.store.Item(id)
	if err != nil {
		return err
	}
	selection.items = []report.Item{item}
	return selection.Switch(id)
}

// SelectAmong makes id the current item with candidateIDs as the
// alternates, in order. Every candidate must resolve and id must be one
// of them; on failure the selection is unchanged.
func (selection *Selection) SelectAmong(id string, candidateIDs []string) error {
	items := make([]report.Item, 0, len(candidateIDs))
	found := false
	for _, candidateID := range candidateIDs {
		if slices.ContainsFunc(items, func(item report.Item) bool { return item.ID() == candidateID }) {
			continue
		}
		item, err := selection.store.Item(candidateID)
		if err != nil {
			return err
		}
		items = append(items, item)
		if candidateID == id {
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrNotInCandidates, id)
	}
	selection.items = items
	return selection.Switch(id)
}

// Switch changes the current item to another of the alternates,
// leaving the alternates unchanged. Switching to the current item is a
// no-op apart from re-presenting.
func (selection *Selection) Switch(id string) error {
	index := slices.IndexFunc(selection.items, func(item report.Item) bool { return item.ID() == id })
	if index < 0 {
		return fmt.Errorf("%w: %q", ErrNotInCandidates, id)
	}
	selection.current = selection.items[index]
	selection.document.ShowItem(id)
	selection.document.HighlightItem(id)
	selection.bus.Select(id)
	selection.publish()
	return nil
}

// Deselect clears the selection and its alternates.
func (selection *Selection) Deselect() {
	selection.current = nil
	selection.items = nil
	selection.document.ClearHighlighting()
	selection.bus.ClearSelected()
	selection.publish()
}

// NextDuplicate selects the next fact in the current fact's duplicate
// cycle. It does nothing unless a fact with duplicates is selected.
func (selection *Selection) NextDuplicate() error {
	return selection.stepDuplicate(DuplicateCycle.Next)
}

// PreviousDuplicate selects the previous fact in the current fact's
// duplicate cycle.
func (selection *Selection) PreviousDuplicate() error {
	return selection.stepDuplicate(DuplicateCycle.Previous)
}

func (selection *Selection) stepDuplicate(step func(DuplicateCycle) *report.Fact) error {
	fact, ok := selection.current.(*report.Fact)
	if !ok {
		return nil
	}
	cycle := Duplicates(selection.store, fact)
	if cycle.Len() < 2 {
		return nil
	}
	return selection.Select(step(cycle).ID())
}

// FollowLink selects a link's primary fact with the link's ids as
// alternates.
func (selection *Selection) FollowLink(link FactLink) error {
	return selection.SelectAmong(link.Primary, link.IDs)
}

// HandleDeepLink selects the item named by the location fragment.
// Unknown ids are logged and ignored. Reports whether a selection was
// made.
func (selection *Selection) HandleDeepLink() bool {
	id, ok := ParseFragment(selection.location.Fragment())
	if !ok {
		return false
	}
	if err := selection.Select(id); err != nil {
		if errors.Is(err, report.ErrNotFound) {
			selection.logger.Debug("deep link names an unknown item", "id", id)
		} else {
			selection.logger.Warn("deep link selection failed", "id", id, "error", err)
		}
		return false
	}
	return true
}

func (selection *Selection) publish() {
	state := selection.State()
	selection.location.SetFragment(FragmentFor(state.CurrentID()))
	selection.presenter.Present(state)
}
