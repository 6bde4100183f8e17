// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeatDecayDuration is how long a fact glows after a reload changes
// it. Heat starts at 1.0 and decays linearly to 0.0.
const HeatDecayDuration = 5 * time.Second

// HeatTickInterval is the re-render interval while any fact is hot.
const HeatTickInterval = 100 * time.Millisecond

// HeatKind says how a reload touched a fact.
type HeatKind int

const (
	// HeatChanged marks a fact whose value differs from the previous
	// snapshot.
	HeatChanged HeatKind = iota
	// HeatAdded marks a fact absent from the previous snapshot.
	HeatAdded
)

type heatEntry struct {
	ignition time.Time
	kind     HeatKind
}

// HeatTracker maps fact ids to ignition timestamps. Ignited facts
// decay from full intensity to zero over [HeatDecayDuration].
type HeatTracker struct {
	entries map[string]heatEntry
}

// NewHeatTracker creates an empty heat tracker.
func NewHeatTracker() *HeatTracker {
	return &HeatTracker{entries: make(map[string]heatEntry)}
}

// Ignite records a change to a fact, restarting its decay.
func (tracker *HeatTracker) Ignite(factID string, kind HeatKind, now time.Time) {
	tracker.entries[factID] = heatEntry{ignition: now, kind: kind}
}

// Heat returns the current intensity for a fact: 1.0 at ignition,
// 0.0 for facts never ignited or fully decayed.
func (tracker *HeatTracker) Heat(factID string, now time.Time) float64 {
	entry, exists := tracker.entries[factID]
	if !exists {
		return 0.0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed >= HeatDecayDuration {
		return 0.0
	}
	return 1.0 - float64(elapsed)/float64(HeatDecayDuration)
}

// Kind returns the heat kind recorded for a fact.
func (tracker *HeatTracker) Kind(factID string) HeatKind {
	return tracker.entries[factID].kind
}

// HasHot reports whether any fact still has heat, which keeps the tick
// timer running. Fully decayed entries are dropped.
func (tracker *HeatTracker) HasHot(now time.Time) bool {
	hot := false
	for factID, entry := range tracker.entries {
		if now.Sub(entry.ignition) < HeatDecayDuration {
			hot = true
			continue
		}
		delete(tracker.entries, factID)
	}
	return hot
}

// Len returns the number of tracked facts, decayed or not.
func (tracker *HeatTracker) Len() int { return len(tracker.entries) }

// Accent returns the tint for a hot fact and whether the fact is hot.
func (tracker *HeatTracker) Accent(theme Theme, factID string, now time.Time) (lipgloss.Color, bool) {
	if tracker.Heat(factID, now) <= 0 {
		return "", false
	}
	if tracker.Kind(factID) == HeatAdded {
		return theme.HotAccentAdded, true
	}
	return theme.HotAccentChanged, true
}
