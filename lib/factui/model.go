// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package factui

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/factview/lib/factsearch"
	"github.com/bureau-foundation/factview/lib/highlight"
	"github.com/bureau-foundation/factview/lib/inspector"
	"github.com/bureau-foundation/factview/lib/report"
	"github.com/bureau-foundation/factview/lib/tui"
)

// FocusRegion identifies which pane has keyboard focus.
type FocusRegion int

const (
	// FocusDocument means navigation keys move the document cursor.
	FocusDocument FocusRegion = iota
	// FocusInspector means navigation keys scroll the inspector.
	FocusInspector
	// FocusSearchInput means keystrokes edit the search query.
	FocusSearchInput
	// FocusSearchResults means navigation keys move the result
	// cursor and the filter keys are live.
	FocusSearchResults
	// FocusDropdown means a dropdown overlay captures all input until
	// an option is chosen or it is dismissed.
	FocusDropdown
)

const (
	// documentSplitRatio is the fraction of the width given to the
	// document pane.
	documentSplitRatio = 0.55

	clipboardFadeDelay = 2 * time.Second

	tooltipMaxWidth = 48
	tooltipMaxLines = 4
)

// ReportMsg delivers a reloaded report from the file watcher.
type ReportMsg struct {
	Report *report.Report
}

// PostMessageMsg delivers one raw line from the message socket.
type PostMessageMsg struct {
	Data []byte
}

// indexReadyMsg carries a search index built off the UI loop. Source
// identifies the report it indexes, so an index for a report that was
// replaced in the meantime is discarded.
type indexReadyMsg struct {
	source *report.Report
	index  *factsearch.Index
}

// languageLoadedMsg carries the report reloaded in another language.
type languageLoadedMsg struct {
	source *report.Report
	err    error
}

type heatTickMsg struct{}

type clipboardFadeMsg struct{}

// Config configures a [Model].
type Config struct {
	Report *report.Report

	// Weights configures search ranking. The zero value selects
	// factsearch.DefaultWeights.
	Weights factsearch.Weights

	// Location holds the deep-link fragment, read once at startup and
	// rewritten on every selection change. Nil starts with an empty
	// in-memory fragment.
	Location inspector.Location

	// Reload loads the report again with labels in another language.
	// Nil disables language switching.
	Reload func(language string) (*report.Report, error)

	Logger *slog.Logger
}

// hoverState is the inspector link under the mouse, in screen
// coordinates.
type hoverState struct {
	target  ClickTarget
	screenY int
	startX  int
	endX    int
}

// Model is the top-level bubbletea model of the viewer: the document
// pane on the left and the inspector (detail or search) on the right.
type Model struct {
	theme  tui.Theme
	keys   KeyMap
	logger *slog.Logger

	report    *report.Report
	weights   factsearch.Weights
	reload    func(language string) (*report.Report, error)
	location  inspector.Location
	inspector *inspector.Inspector

	document *DocumentPane
	detail   *DetailPane
	search   *SearchPane
	heat     *tui.HeatTracker

	width  int
	height int
	ready  bool

	focusRegion FocusRegion
	priorFocus  FocusRegion
	searching   bool
	dropdown    *tui.DropdownOverlay
	hover       *hoverState

	tickRunning     bool
	logRecord       *LogRecordMsg
	logSequence     int
	clipboardNotice string
}

// NewModel builds the model and applies the deep link in the location
// fragment. The search index is built asynchronously from Init.
func NewModel(config Config) Model {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Weights == (factsearch.Weights{}) {
		config.Weights = factsearch.DefaultWeights()
	}
	if config.Location == nil {
		config.Location = inspector.NewMemoryLocation("")
	}

	theme := tui.DefaultTheme
	bus := highlight.New()
	heat := tui.NewHeatTracker()
	document := NewDocumentPane(theme, bus, heat)
	detail := NewDetailPane(theme)
	document.SetReport(config.Report)
	detail.SetReport(config.Report)

	engine := inspector.New(inspector.Config{
		Store:     config.Report,
		Document:  document,
		Presenter: detail,
		Location:  config.Location,
		Bus:       bus,
		Logger:    config.Logger,
	})

	model := Model{
		theme:     theme,
		keys:      DefaultKeyMap,
		logger:    config.Logger,
		report:    config.Report,
		weights:   config.Weights,
		reload:    config.Reload,
		location:  config.Location,
		inspector: engine,
		document:  document,
		detail:    detail,
		search:    NewSearchPane(theme, engine.Search, bus),
		heat:      heat,
	}
	if engine.HandleDeepLink() {
		model.logger.Debug("deep link applied", "fragment", config.Location.Fragment())
	}
	return model
}

// Init implements tea.Model. Starts building the search index.
func (model Model) Init() tea.Cmd {
	return buildIndex(model.report, model.weights)
}

func buildIndex(source *report.Report, weights factsearch.Weights) tea.Cmd {
	return func() tea.Msg {
		return indexReadyMsg{source: source, index: factsearch.New(source, weights)}
	}
}

// Inspector returns the selection engine, for tests and embedding.
func (model Model) Inspector() *inspector.Inspector { return model.inspector }

// Focus returns the focused region.
func (model Model) Focus() FocusRegion { return model.focusRegion }

// Searching reports whether the inspector is in search mode.
func (model Model) Searching() bool { return model.searching }

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		model.hover = nil
		switch model.focusRegion {
		case FocusSearchInput:
			return model.handleSearchInputKeys(message)
		case FocusDropdown:
			return model.handleDropdownKeys(message)
		}
		return model.handleKeys(message)

	case tea.MouseMsg:
		return model, model.handleMouse(message)

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.updatePaneSizes()

	case indexReadyMsg:
		if message.source != model.report {
			return model, nil
		}
		// The first index lists every fact; a replacement re-runs the
		// current query inside SetSearcher.
		attached := model.inspector.Search.Ready()
		model.inspector.SetSearcher(message.index)
		if attached {
			model.search.Refresh()
		} else {
			model.search.Run()
		}
		model.logger.Debug("search index ready", "facts", len(model.report.Facts()))

	case ReportMsg:
		return model.handleReload(message.Report, true)

	case languageLoadedMsg:
		if message.err != nil {
			model.logger.Warn("language switch failed", "error", message.err)
			return model, nil
		}
		return model.handleReload(message.source, false)

	case PostMessageMsg:
		model.inspector.HandleMessage(message.Data)

	case LogRecordMsg:
		model.logSequence++
		model.logRecord = &message
		sequence := model.logSequence
		return model, tea.Tick(logRecordFadeDelay, func(time.Time) tea.Msg {
			return logRecordFadeMsg{sequence: sequence}
		})

	case logRecordFadeMsg:
		if message.sequence == model.logSequence {
			model.logRecord = nil
		}

	case clipboardFadeMsg:
		model.clipboardNotice = ""

	case heatTickMsg:
		if model.heat.HasHot(time.Now()) {
			return model, scheduleHeatTick()
		}
		model.tickRunning = false
	}
	return model, nil
}

// handleReload swaps in a new report. With glow, facts whose value
// changed or that are new in the report are heated in the document.
func (model Model) handleReload(source *report.Report, glow bool) (tea.Model, tea.Cmd) {
	if source == nil {
		return model, nil
	}
	previous := model.report
	model.report = source
	model.document.SetReport(source)
	model.detail.SetReport(source)
	model.inspector.Reload(source)
	model.search.Refresh()
	model.hover = nil

	commands := []tea.Cmd{buildIndex(source, model.weights)}
	if glow {
		changed, added := ReportChanges(previous, source)
		now := time.Now()
		for _, id := range changed {
			model.heat.Ignite(id, tui.HeatChanged, now)
		}
		for _, id := range added {
			model.heat.Ignite(id, tui.HeatAdded, now)
		}
		model.logger.Info("report reloaded",
			"fingerprint", report.ShortFingerprint(source.Fingerprint()),
			"changed", len(changed), "added", len(added))
		if len(changed)+len(added) > 0 && !model.tickRunning {
			model.tickRunning = true
			commands = append(commands, scheduleHeatTick())
		}
	}
	return model, tea.Batch(commands...)
}

// ReportChanges lists the facts of next whose value differs from the
// fact with the same id in previous, and the facts previous lacks.
func ReportChanges(previous, next *report.Report) (changed, added []string) {
	for _, fact := range next.Facts() {
		if previous == nil {
			added = append(added, fact.ID())
			continue
		}
		old, ok := previous.Fact(fact.ID())
		switch {
		case !ok:
			added = append(added, fact.ID())
		case old.Value() != fact.Value() || old.IsNil() != fact.IsNil():
			changed = append(changed, fact.ID())
		}
	}
	return changed, added
}

func scheduleHeatTick() tea.Cmd {
	return tea.Tick(tui.HeatTickInterval, func(time.Time) tea.Msg {
		return heatTickMsg{}
	})
}

// handleKeys handles keys outside of text input and dropdowns.
func (model Model) handleKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.FocusToggle):
		if model.focusRegion == FocusDocument {
			model.focusRegion = model.inspectorFocus()
		} else {
			model.focusRegion = FocusDocument
		}

	case key.Matches(message, model.keys.SearchActivate):
		model.openSearch()

	case key.Matches(message, model.keys.Deselect):
		if model.searching {
			model.closeSearch()
		} else {
			model.inspector.Selection.Deselect()
		}

	case key.Matches(message, model.keys.NextHighlight):
		if model.document.JumpHighlighted(true) {
			model.focusRegion = FocusDocument
		}

	case key.Matches(message, model.keys.PreviousHighlight):
		if model.document.JumpHighlighted(false) {
			model.focusRegion = FocusDocument
		}

	case key.Matches(message, model.keys.NextAlternate):
		model.nextAlternate()

	case key.Matches(message, model.keys.NextDuplicate):
		model.logSelectionError(model.inspector.Selection.NextDuplicate())

	case key.Matches(message, model.keys.PreviousDuplicate):
		model.logSelectionError(model.inspector.Selection.PreviousDuplicate())

	case key.Matches(message, model.keys.FollowPrior):
		model.followPrior()

	case key.Matches(message, model.keys.NextCalculation):
		model.detail.NextCalculation()

	case key.Matches(message, model.keys.FollowFootnote):
		model.followFootnote()

	case key.Matches(message, model.keys.NextLanguage):
		return model, model.nextLanguage()

	case key.Matches(message, model.keys.CopyID):
		if id := model.inspector.Selection.State().CurrentID(); id != "" {
			model.clipboardNotice = id
			return model, copyToClipboard(id)
		}

	default:
		switch model.focusRegion {
		case FocusDocument:
			model.handleDocumentKeys(message)
		case FocusSearchResults:
			return model.handleSearchResultKeys(message)
		default:
			model.handleDetailKeys(message)
		}
	}
	return model, nil
}

func (model *Model) handleDocumentKeys(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.document.MoveCursor(-1)
	case key.Matches(message, model.keys.Down):
		model.document.MoveCursor(1)
	case key.Matches(message, model.keys.PageUp):
		model.document.MoveCursor(-model.document.PageSize())
	case key.Matches(message, model.keys.PageDown):
		model.document.MoveCursor(model.document.PageSize())
	case key.Matches(message, model.keys.Home):
		model.document.MoveCursorTo(0)
	case key.Matches(message, model.keys.End):
		model.document.MoveCursorTo(model.document.TagCount() - 1)
	case key.Matches(message, model.keys.Select):
		if tag, ok := model.document.CursorTag(); ok {
			model.selectTag(tag)
		}
	}
}

func (model *Model) handleDetailKeys(message tea.KeyMsg) {
	switch {
	case key.Matches(message, model.keys.Up):
		model.detail.LineUp(1)
	case key.Matches(message, model.keys.Down):
		model.detail.LineDown(1)
	case key.Matches(message, model.keys.PageUp):
		model.detail.ScrollUp()
	case key.Matches(message, model.keys.PageDown):
		model.detail.ScrollDown()
	case key.Matches(message, model.keys.Home):
		model.detail.GotoTop()
	case key.Matches(message, model.keys.End):
		model.detail.GotoBottom()
	}
}

func (model Model) handleSearchResultKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Up):
		if model.search.Cursor() == 0 {
			model.focusSearchInput()
		} else {
			model.search.MoveCursor(-1)
		}
	case key.Matches(message, model.keys.Down):
		model.search.MoveCursor(1)
	case key.Matches(message, model.keys.PageUp):
		model.search.MoveCursor(-model.search.listHeight())
	case key.Matches(message, model.keys.PageDown):
		model.search.MoveCursor(model.search.listHeight())
	case key.Matches(message, model.keys.Home):
		model.search.MoveCursorTo(0)
	case key.Matches(message, model.keys.End):
		model.search.MoveCursorTo(model.search.RowCount() - 1)
	case key.Matches(message, model.keys.Select):
		model.activateSearchRow()
	case key.Matches(message, model.keys.ToggleVisible):
		model.search.ToggleVisible()
	case key.Matches(message, model.keys.ToggleHidden):
		model.search.ToggleHidden()
	case key.Matches(message, model.keys.ConceptType):
		model.search.CycleConceptType()
	case key.Matches(message, model.keys.ResetFilters):
		model.search.ResetFilters()
	case key.Matches(message, model.keys.ShowMore):
		model.search.ShowMore()
	case key.Matches(message, model.keys.PeriodFilter):
		model.openPeriodDropdown(model.inspectorX(), model.contentStartY()+2)
	}
	return model, nil
}

// handleSearchInputKeys edits the query. Enter or down moves to the
// results; escape clears the query, or closes search when it is empty.
func (model Model) handleSearchInputKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit

	case key.Matches(message, model.keys.SearchClose):
		if model.search.Input != "" {
			model.search.ClearInput()
		} else {
			model.closeSearch()
		}

	case message.Type == tea.KeyEnter, message.Type == tea.KeyDown, message.Type == tea.KeyTab:
		model.search.Active = false
		model.focusRegion = FocusSearchResults
		model.search.MoveCursorTo(0)

	case message.Type == tea.KeyBackspace:
		model.search.HandleBackspace()

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		for _, character := range message.Runes {
			model.search.HandleRune(character)
		}
	}
	return model, nil
}

func (model Model) handleDropdownKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.dropdown == nil {
		model.focusRegion = model.priorFocus
		return model, nil
	}
	switch {
	case message.Type == tea.KeyCtrlC:
		return model, tea.Quit
	case key.Matches(message, model.keys.Quit), key.Matches(message, model.keys.SearchClose):
		model.dismissDropdown()
	case key.Matches(message, model.keys.Up):
		model.dropdown.MoveUp()
	case key.Matches(message, model.keys.Down):
		model.dropdown.MoveDown()
	case message.Type == tea.KeyEnter:
		model.applyDropdown(model.dropdown.Selected())
	}
	return model, nil
}

func (model *Model) openPeriodDropdown(anchorX, anchorY int) {
	model.dropdown = model.search.PeriodDropdown(anchorX, anchorY)
	if model.focusRegion != FocusDropdown {
		model.priorFocus = model.focusRegion
	}
	model.focusRegion = FocusDropdown
}

func (model *Model) applyDropdown(option tui.DropdownOption) {
	if model.dropdown != nil && model.dropdown.Purpose == "period" {
		model.search.SetPeriod(option.Value)
	}
	model.dismissDropdown()
}

func (model *Model) dismissDropdown() {
	model.dropdown = nil
	model.focusRegion = model.priorFocus
}

func (model *Model) inspectorFocus() FocusRegion {
	if model.searching {
		return FocusSearchResults
	}
	return FocusInspector
}

func (model *Model) openSearch() {
	model.searching = true
	model.inspector.LeaveHover()
	model.focusSearchInput()
}

func (model *Model) focusSearchInput() {
	model.search.Active = true
	model.focusRegion = FocusSearchInput
}

// closeSearch returns the inspector to the detail view. The query and
// its related highlighting stay until the query is cleared.
func (model *Model) closeSearch() {
	model.searching = false
	model.search.Active = false
	model.search.LeavePointer()
	model.focusRegion = FocusDocument
}

// activateSearchRow selects the result under the cursor and shows it
// in the detail view, or reveals more results.
func (model *Model) activateSearchRow() {
	id, ok := model.search.Activate()
	if !ok {
		return
	}
	model.selectResult(id)
}

func (model *Model) selectResult(id string) {
	if err := model.inspector.Selection.Select(id); err != nil {
		model.logSelectionError(err)
		return
	}
	model.closeSearch()
	model.focusRegion = FocusInspector
}

// selectTag selects the outermost item of a tag with every item nested
// there as alternates.
func (model *Model) selectTag(tag report.Tag) {
	model.logSelectionError(model.inspector.Selection.SelectAmong(tag.IDs[0], tag.IDs))
}

func (model *Model) nextAlternate() {
	state := model.inspector.Selection.State()
	if len(state.Items) < 2 {
		return
	}
	index := slices.IndexFunc(state.Items, func(item report.Item) bool {
		return item.ID() == state.CurrentID()
	})
	next := state.Items[(index+1)%len(state.Items)]
	model.logSelectionError(model.inspector.Selection.Switch(next.ID()))
}

func (model *Model) followPrior() {
	fact, ok := model.inspector.Selection.State().Current.(*report.Fact)
	if !ok {
		return
	}
	change := model.inspector.PeriodChange(fact)
	if !change.HasLink() {
		return
	}
	model.logSelectionError(model.inspector.Selection.FollowLink(change.Link))
}

// followFootnote selects the first footnote of the selected fact, or
// the first fact of the selected footnote.
func (model *Model) followFootnote() {
	switch current := model.inspector.Selection.State().Current.(type) {
	case *report.Fact:
		if footnotes := model.report.FootnotesOf(current); len(footnotes) > 0 {
			model.logSelectionError(model.inspector.Selection.Select(footnotes[0].ID()))
		}
	case *report.Footnote:
		if facts := current.Facts(); len(facts) > 0 {
			model.logSelectionError(model.inspector.Selection.Select(facts[0].ID()))
		}
	}
}

// nextLanguage reloads the report with the label language after the
// current one.
func (model *Model) nextLanguage() tea.Cmd {
	languages := model.report.Languages()
	if model.reload == nil || len(languages) < 2 {
		return nil
	}
	index := slices.IndexFunc(languages, func(language report.Language) bool {
		return language.Code == model.report.Language()
	})
	next := languages[(index+1)%len(languages)].Code
	reload := model.reload
	return func() tea.Msg {
		source, err := reload(next)
		return languageLoadedMsg{source: source, err: err}
	}
}

// activateTarget performs the action of an inspector link.
func (model *Model) activateTarget(target ClickTarget) {
	switch target.Kind {
	case TargetAlternate:
		model.logSelectionError(model.inspector.Selection.Switch(target.ID))
	case TargetLink:
		model.logSelectionError(model.inspector.Selection.FollowLink(target.Link))
	case TargetItem:
		model.logSelectionError(model.inspector.Selection.Select(target.ID))
	case TargetCalculation:
		model.detail.ExpandCalculation(target.ID)
	}
}

func (model *Model) logSelectionError(err error) {
	if err != nil {
		model.logger.Warn("selection failed", "error", err)
	}
}

// contentStartY returns the row where the panes begin, below the
// header line.
func (model Model) contentStartY() int { return 1 }

// visibleHeight returns the pane height between the header and the
// separator plus status bar.
func (model Model) visibleHeight() int {
	return max(0, model.height-model.contentStartY()-2)
}

func (model Model) documentWidth() int {
	return int(float64(model.width) * documentSplitRatio)
}

// inspectorX returns the first column of the inspector pane.
func (model Model) inspectorX() int { return model.documentWidth() + 1 }

func (model *Model) updatePaneSizes() {
	height := model.visibleHeight()
	inspectorWidth := max(10, model.width-model.documentWidth()-1)
	model.document.SetSize(model.documentWidth(), height)
	model.detail.SetSize(inspectorWidth, height)
	model.search.SetSize(inspectorWidth, height)
}

// handleMouse routes mouse events by position: motion hovers, the
// wheel scrolls the pane under the pointer, and a left press selects
// or follows what it lands on.
func (model *Model) handleMouse(message tea.MouseMsg) tea.Cmd {
	contentStart := model.contentStartY()
	inContent := message.Y >= contentStart && message.Y < contentStart+model.visibleHeight()
	inDocument := message.X < model.documentWidth()-1
	inInspector := message.X >= model.inspectorX() && message.X < model.width-1
	row := message.Y - contentStart

	if message.Action == tea.MouseActionMotion && message.Button == tea.MouseButtonNone {
		model.updateHover(message, inContent && inDocument, inContent && inInspector)
		return nil
	}

	if message.Button == tea.MouseButtonWheelUp || message.Button == tea.MouseButtonWheelDown {
		delta := 3
		if message.Button == tea.MouseButtonWheelUp {
			delta = -3
		}
		switch {
		case inDocument:
			model.document.Scroll(delta)
		case model.searching:
			model.search.Scroll(delta)
		case delta < 0:
			model.detail.LineUp(-delta)
		default:
			model.detail.LineDown(delta)
		}
		return nil
	}

	if message.Action != tea.MouseActionPress || message.Button != tea.MouseButtonLeft {
		return nil
	}
	model.hover = nil

	if model.dropdown != nil {
		if model.dropdown.Contains(message.X, message.Y) {
			if index := model.dropdown.OptionAtY(message.Y); index >= 0 {
				model.applyDropdown(model.dropdown.Options[index])
				return nil
			}
		}
		model.dismissDropdown()
		return nil
	}
	if !inContent {
		return nil
	}

	switch {
	case inDocument:
		model.focusRegion = FocusDocument
		if tag, ok := model.document.ClickAt(row); ok {
			model.selectTag(tag)
		}
	case inInspector && model.searching:
		model.clickSearch(model.search.HitTest(message.X-model.inspectorX(), row), message.Y)
	case inInspector:
		model.focusRegion = FocusInspector
		if target, ok := model.detail.TargetAt(row, message.X-model.inspectorX()-1); ok {
			model.activateTarget(target)
		}
	}
	return nil
}

func (model *Model) clickSearch(hit SearchHit, screenY int) {
	model.search.Active = false
	model.focusRegion = FocusSearchResults
	switch {
	case hit.Input:
		model.focusSearchInput()
	case hit.Control == ControlVisible:
		model.search.ToggleVisible()
	case hit.Control == ControlHidden:
		model.search.ToggleHidden()
	case hit.Control == ControlConceptType:
		model.search.CycleConceptType()
	case hit.Control == ControlReset:
		model.search.ResetFilters()
	case hit.Control == ControlPeriod:
		model.openPeriodDropdown(model.inspectorX()+hit.ControlX, screenY+1)
	case hit.More:
		model.search.ShowMore()
	case hit.Result >= 0:
		model.search.MoveCursorTo(hit.Result)
		model.activateSearchRow()
	}
}

// updateHover moves the document pointer over tags and the inspector
// hover over links. Only one of them holds ids at a time.
func (model *Model) updateHover(message tea.MouseMsg, inDocument, inInspector bool) {
	row := message.Y - model.contentStartY()
	model.hover = nil

	if !inDocument {
		model.document.LeavePointer()
	}
	if !inInspector {
		model.inspector.LeaveHover()
		model.search.LeavePointer()
	}

	switch {
	case inDocument:
		model.document.PointAt(row)

	case inInspector && model.searching:
		model.search.PointAt(row - searchHeaderRows)

	case inInspector:
		target, ok := model.detail.TargetAt(row, message.X-model.inspectorX()-1)
		if !ok {
			model.inspector.LeaveHover()
			return
		}
		model.inspector.Hover(target.HoverIDs()...)
		startX := model.inspectorX() + 1 + target.StartX
		model.hover = &hoverState{
			target:  target,
			screenY: message.Y,
			startX:  startX,
			endX:    startX + target.EndX - target.StartX,
		}
	}
}

// View implements tea.Model.
func (model Model) View() string {
	if !model.ready {
		return "Loading..."
	}
	now := time.Now()

	documentView := model.document.View(model.focusRegion == FocusDocument, now)
	var inspectorView string
	if model.searching {
		inspectorView = model.search.View(model.focusRegion == FocusSearchResults || model.focusRegion == FocusSearchInput)
	} else {
		inspectorView = model.detail.View(model.focusRegion == FocusInspector)
	}

	sections := []string{
		model.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, documentView, model.renderDivider(), inspectorView),
		lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(strings.Repeat("─", model.width)),
		model.renderHelp(),
	}
	output := strings.Join(sections, "\n")

	if model.hover != nil {
		output = tui.OverlayBold(output, model.hover.screenY, model.hover.startX, model.hover.endX)
		if lines := model.tooltipLines(model.hover.target); len(lines) > 0 {
			anchorX := min(model.hover.startX, max(0, model.width-ansi.StringWidth(lines[0])))
			anchorY := model.hover.screenY + 1
			if anchorY+len(lines) > model.height-2 {
				anchorY = max(0, model.hover.screenY-len(lines))
			}
			output = tui.SpliceOverlay(output, lines, anchorX, anchorY)
		}
	}

	if model.dropdown != nil {
		output = tui.SpliceOverlay(output, model.dropdown.Render(model.theme), model.dropdown.AnchorX, model.dropdown.AnchorY)
	}
	return output
}

// tooltipLines previews the item a hovered link leads to.
func (model Model) tooltipLines(target ClickTarget) []string {
	var id string
	switch target.Kind {
	case TargetLink:
		id = target.Link.Primary
	case TargetItem, TargetAlternate:
		id = target.ID
	default:
		return nil
	}
	item, err := model.report.Item(id)
	if err != nil {
		return nil
	}
	var body string
	switch item := item.(type) {
	case *report.Fact:
		body = item.ReadableValue() + "\n" + item.Period().String()
	case *report.Footnote:
		body = item.Text()
	}
	return tui.RenderBox(model.theme, ansi.Truncate(itemTitle(item), tooltipMaxWidth, "…"),
		tui.ExtractExcerpt(body, tooltipMaxWidth, tooltipMaxLines))
}

func (model Model) renderDivider() string {
	lines := make([]string, model.visibleHeight())
	for index := range lines {
		lines[index] = "│"
	}
	return lipgloss.NewStyle().Foreground(model.theme.BorderColor).Render(strings.Join(lines, "\n"))
}

// renderHeader renders the title line: the report's entity, label
// language and the inspector mode.
func (model Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(model.theme.HeaderForeground)
	faint := lipgloss.NewStyle().Foreground(model.theme.FaintText)

	header := title.Render(" factview")
	if facts := model.report.Facts(); len(facts) > 0 {
		header += faint.Render("  " + facts[0].Entity().String())
	}
	if language := model.report.Language(); language != "" {
		header += faint.Render("  [" + language + "]")
	}

	mode := "Detail"
	if model.searching {
		mode = "Search"
	}
	modeText := lipgloss.NewStyle().Foreground(model.theme.FocusAccent).Render(mode + " ")
	padding := max(1, model.width-ansi.StringWidth(header)-ansi.StringWidth(modeText))
	return ansi.Truncate(header+strings.Repeat(" ", padding)+modeText, model.width, "")
}

// renderHelp renders the status bar: focus, key hints, the fragment,
// the report fingerprint and the latest log record.
func (model Model) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(model.theme.HelpText)

	focusIndicator := "DOC"
	hints := "q quit  ↑↓ move  Enter select  Tab focus  / search  n/N highlights"
	switch model.focusRegion {
	case FocusInspector:
		focusIndicator = "INSPECT"
		hints = "↑↓ scroll  a item  [/] duplicates  p prior  c calculation  f footnote  L language"
	case FocusSearchInput:
		focusIndicator = "SEARCH"
		hints = "type to search  Enter results  Esc clear"
	case FocusSearchResults:
		focusIndicator = "RESULTS"
		hints = "Enter select  V/H visible/hidden  P period  T type  R reset  m more  Esc close"
	case FocusDropdown:
		focusIndicator = "SELECT"
		hints = "↑↓ choose  Enter apply  Esc cancel"
	}
	help := fmt.Sprintf(" [%s] %s", focusIndicator, hints)

	if fragment := model.location.Fragment(); fragment != "" {
		help += "  " + fragment
	}
	if fingerprint := model.report.Fingerprint(); fingerprint != "" {
		help += "  " + report.ShortFingerprint(fingerprint)
	}
	rendered := style.Render(help)

	if model.clipboardNotice != "" {
		rendered += "  " + lipgloss.NewStyle().Foreground(model.theme.IncreaseForeground).Bold(true).
			Render("Copied: "+model.clipboardNotice)
	}
	if model.logRecord != nil {
		color := model.theme.WarningForeground
		if model.logRecord.Level >= slog.LevelError {
			color = model.theme.ErrorForeground
		}
		rendered += "  " + lipgloss.NewStyle().Foreground(color).Render(model.logRecord.Summary)
	}
	return ansi.Truncate(rendered, model.width, "…")
}

// copyToClipboard writes text to the system clipboard with the OSC 52
// escape sequence, straight to /dev/tty so the renderer's output is
// untouched. Inside tmux the sequence is also sent through DCS
// passthrough.
func copyToClipboard(text string) tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			tty, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0)
			if err != nil {
				return nil
			}
			defer tty.Close()

			osc52 := fmt.Sprintf("\x1b]52;c;%s\x07", base64.StdEncoding.EncodeToString([]byte(text)))
			if os.Getenv("TMUX") != "" || strings.HasPrefix(os.Getenv("TERM"), "tmux") ||
				strings.HasPrefix(os.Getenv("TERM"), "screen") {
				fmt.Fprintf(tty, "\x1bPtmux;\x1b%s\x1b\\", osc52)
			}
			tty.WriteString(osc52)
			return nil
		},
		tea.Tick(clipboardFadeDelay, func(time.Time) tea.Msg {
			return clipboardFadeMsg{}
		}),
	)
}
