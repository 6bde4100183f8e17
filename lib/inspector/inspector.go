// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/bureau-foundation/factview/lib/highlight"
	"github.com/bureau-foundation/factview/lib/report"
)

// Config holds the collaborators of an [Inspector]. Bus and Location
// default to fresh instances when nil; Logger defaults to
// slog.Default().
type Config struct {
	Store     ItemStore
	Document  Document
	Presenter Presenter
	Location  Location
	Bus       *highlight.Bus
	Logger    *slog.Logger
}

// Inspector wires the selection, the search paginator and the
// highlight bus around the collaborators.
type Inspector struct {
	Selection *Selection
	Search    *Paginator

	store  ItemStore
	bus    *highlight.Bus
	logger *slog.Logger
	hover  *highlight.Pointer
}

// New builds an inspector. No search index is attached yet; see
// [Inspector.SetSearcher].
func New(config Config) *Inspector {
	if config.Bus == nil {
		config.Bus = highlight.New()
	}
	if config.Location == nil {
		config.Location = NewMemoryLocation("")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Inspector{
		Selection: &Selection{
			store:     config.Store,
			document:  config.Document,
			bus:       config.Bus,
			presenter: config.Presenter,
			location:  config.Location,
			logger:    config.Logger,
		},
		Search: NewPaginator(config.Bus, config.Logger),
		store:  config.Store,
		bus:    config.Bus,
		logger: config.Logger,
		hover:  config.Bus.NewPointer(),
	}
}

// Bus returns the highlight bus the inspector drives.
func (inspector *Inspector) Bus() *highlight.Bus { return inspector.bus }

// SetSearcher attaches the search index once it is built.
func (inspector *Inspector) SetSearcher(searcher Searcher) {
	inspector.Search.SetSearcher(searcher)
}

// HandleDeepLink selects the item named by the location fragment.
func (inspector *Inspector) HandleDeepLink() bool {
	return inspector.Selection.HandleDeepLink()
}

// HandleMessage processes one JSON task message. Malformed messages are
// logged as warnings, unknown tasks at info level, and unknown fact ids
// are ignored; none of these change the selection.
func (inspector *Inspector) HandleMessage(data []byte) {
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		inspector.logger.Warn("malformed message", "error", err)
		return
	}
	switch message.Task {
	case TaskShowFact:
		err := inspector.Selection.Select(message.FactID)
		if err != nil && !errors.Is(err, report.ErrNotFound) {
			inspector.logger.Warn("message selection failed", "fact", message.FactID, "error", err)
		}
	default:
		inspector.logger.Info("Not handling unsupported task message", "task", message.Task)
	}
}

// Hover links ids while a link, calculation line or footnote reference
// in the inspector is under the pointer. Hovering something else
// releases the previous ids.
func (inspector *Inspector) Hover(ids ...string) {
	inspector.hover.Move(ids...)
}

// LeaveHover releases the inspector's hover.
func (inspector *Inspector) LeaveHover() {
	inspector.hover.Leave()
}

// PeriodChange compares a fact with its prior period.
func (inspector *Inspector) PeriodChange(fact *report.Fact) PeriodChange {
	return ComputePeriodChange(inspector.store, fact)
}

// Duplicates returns a fact's duplicate cycle.
func (inspector *Inspector) Duplicates(fact *report.Fact) DuplicateCycle {
	return Duplicates(inspector.store, fact)
}

// Reload replaces the item store after the report changed on disk and
// reselects the current item by id, falling back to no selection when
// it no longer exists. The searcher must be replaced separately.
func (inspector *Inspector) Reload(store ItemStore) {
	previous := inspector.Selection.State()
	inspector.store = store
	inspector.Selection.store = store
	inspector.LeaveHover()
	if previous.Current == nil {
		return
	}

	var candidates []string
	for _, item := range previous.Items {
		if _, err := store.Item(item.ID()); err == nil {
			candidates = append(candidates, item.ID())
		}
	}
	if err := inspector.Selection.SelectAmong(previous.CurrentID(), candidates); err != nil {
		inspector.logger.Debug("selection dropped after reload", "id", previous.CurrentID(), "error", err)
		inspector.Selection.Deselect()
	}
}
