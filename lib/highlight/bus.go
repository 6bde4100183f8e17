// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package highlight

import (
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
)

// Region is an opaque handle for one rendered place. The zero Region
// is never issued.
type Region uint32

// RegionState is the combined highlight of a region: a layer is on
// when any id tagged on the region is on in that layer.
type RegionState struct {
	Linked   bool
	Related  bool
	Selected bool
}

// Bus is the highlight index and state. The zero value is not usable;
// create one with [New].
type Bus struct {
	last    Region
	regions map[Region][]string
	index   map[string]*roaring.Bitmap

	linked   map[string]int
	related  map[string]struct{}
	selected string
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{
		regions: make(map[Region][]string),
		index:   make(map[string]*roaring.Bitmap),
		linked:  make(map[string]int),
		related: make(map[string]struct{}),
	}
}

// Register issues a new region tagged with ids.
func (bus *Bus) Register(ids ...string) Region {
	bus.last++
	region := bus.last
	bus.regions[region] = nil
	bus.Tag(region, ids...)
	return region
}

// Tag adds ids to an existing region. Unknown regions are ignored.
func (bus *Bus) Tag(region Region, ids ...string) {
	tagged, ok := bus.regions[region]
	if !ok {
		return
	}
	for _, id := range ids {
		if slices.Contains(tagged, id) {
			continue
		}
		tagged = append(tagged, id)
		bitmap, ok := bus.index[id]
		if !ok {
			bitmap = roaring.New()
			bus.index[id] = bitmap
		}
		bitmap.Add(uint32(region))
	}
	bus.regions[region] = tagged
}

// Unregister removes a region and its tags.
func (bus *Bus) Unregister(region Region) {
	for _, id := range bus.regions[region] {
		bitmap := bus.index[id]
		bitmap.Remove(uint32(region))
		if bitmap.IsEmpty() {
			delete(bus.index, id)
		}
	}
	delete(bus.regions, region)
}

// IDs returns the ids tagged on a region.
func (bus *Bus) IDs(region Region) []string { return bus.regions[region] }

// RegionsFor returns the regions tagged with id in ascending order.
func (bus *Bus) RegionsFor(id string) []Region {
	bitmap, ok := bus.index[id]
	if !ok {
		return nil
	}
	regions := make([]Region, 0, bitmap.GetCardinality())
	for _, value := range bitmap.ToArray() {
		regions = append(regions, Region(value))
	}
	return regions
}

// RegionCount returns the number of live regions.
func (bus *Bus) RegionCount() int { return len(bus.regions) }

// EnterLinked increments the linked count of each id.
func (bus *Bus) EnterLinked(ids ...string) {
	for _, id := range ids {
		bus.linked[id]++
	}
}

// LeaveLinked decrements the linked count of each id. Counts never go
// below zero; an id whose count reaches zero is forgotten.
func (bus *Bus) LeaveLinked(ids ...string) {
	for _, id := range ids {
		count, ok := bus.linked[id]
		if !ok {
			continue
		}
		if count <= 1 {
			delete(bus.linked, id)
			continue
		}
		bus.linked[id] = count - 1
	}
}

// IsLinked reports whether id has a positive linked count.
func (bus *Bus) IsLinked(id string) bool { return bus.linked[id] > 0 }

// LinkedIDs returns the currently linked ids, sorted.
func (bus *Bus) LinkedIDs() []string {
	ids := make([]string, 0, len(bus.linked))
	for id := range bus.linked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HighlightRelated adds ids to the related layer.
func (bus *Bus) HighlightRelated(ids ...string) {
	for _, id := range ids {
		bus.related[id] = struct{}{}
	}
}

// ClearRelated empties the related layer.
func (bus *Bus) ClearRelated() {
	clear(bus.related)
}

// IsRelated reports whether id is in the related layer.
func (bus *Bus) IsRelated(id string) bool {
	_, ok := bus.related[id]
	return ok
}

// RelatedCount returns the size of the related layer.
func (bus *Bus) RelatedCount() int { return len(bus.related) }

// Select marks id as the selected tag, replacing any previous one.
func (bus *Bus) Select(id string) { bus.selected = id }

// ClearSelected removes the selected tag.
func (bus *Bus) ClearSelected() { bus.selected = "" }

// Selected returns the selected id, or "" when none is.
func (bus *Bus) Selected() string { return bus.selected }

// RegionState combines the layers for every id tagged on region.
func (bus *Bus) RegionState(region Region) RegionState {
	var state RegionState
	for _, id := range bus.regions[region] {
		if bus.linked[id] > 0 {
			state.Linked = true
		}
		if _, ok := bus.related[id]; ok {
			state.Related = true
		}
		if bus.selected != "" && id == bus.selected {
			state.Selected = true
		}
	}
	return state
}

// LinkedRegions returns the union of regions tagged with any linked
// id. Renderers test membership per region instead of walking ids.
func (bus *Bus) LinkedRegions() *roaring.Bitmap {
	bitmaps := make([]*roaring.Bitmap, 0, len(bus.linked))
	for id := range bus.linked {
		if bitmap, ok := bus.index[id]; ok {
			bitmaps = append(bitmaps, bitmap)
		}
	}
	return roaring.FastOr(bitmaps...)
}
