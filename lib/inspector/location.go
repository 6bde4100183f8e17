// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import "strings"

// fragmentPrefix introduces a fact id in a deep link.
const fragmentPrefix = "#f-"

// FragmentFor returns the deep-link fragment for an item id, or "" for
// no selection.
func FragmentFor(id string) string {
	if id == "" {
		return ""
	}
	return fragmentPrefix + id
}

// ParseFragment extracts the item id from a "#f-<id>" fragment. The
// leading "#" is optional.
func ParseFragment(fragment string) (string, bool) {
	if !strings.HasPrefix(fragment, "#") {
		fragment = "#" + fragment
	}
	id, found := strings.CutPrefix(fragment, fragmentPrefix)
	if !found || id == "" {
		return "", false
	}
	return id, true
}

// MemoryLocation is a [Location] held in memory.
type MemoryLocation struct {
	fragment string
}

// NewMemoryLocation returns a location starting at fragment.
func NewMemoryLocation(fragment string) *MemoryLocation {
	return &MemoryLocation{fragment: fragment}
}

// Fragment returns the current fragment.
func (location *MemoryLocation) Fragment() string { return location.fragment }

// SetFragment replaces the fragment.
func (location *MemoryLocation) SetFragment(fragment string) { location.fragment = fragment }
