// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package highlight

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Pointer is one producer of linked highlight, such as the document
// cursor or the mouse. It remembers what it entered so that every
// enter is paired with exactly one leave.
type Pointer struct {
	bus *Bus
	ids []string
}

// NewPointer returns a pointer over nothing.
func (bus *Bus) NewPointer() *Pointer {
	return &Pointer{bus: bus}
}

// Move leaves the previously hovered ids and enters ids. Moving to the
// same set is a no-op.
func (pointer *Pointer) Move(ids ...string) {
	if slices.Equal(pointer.ids, ids) {
		return
	}
	pointer.bus.LeaveLinked(pointer.ids...)
	pointer.ids = slices.Clone(ids)
	pointer.bus.EnterLinked(pointer.ids...)
}

// Leave releases whatever the pointer hovers.
func (pointer *Pointer) Leave() {
	pointer.bus.LeaveLinked(pointer.ids...)
	pointer.ids = nil
}

// IDs returns the ids currently hovered.
func (pointer *Pointer) IDs() []string { return pointer.ids }

// Group owns a batch of regions registered by one view render. Reset
// unregisters them together before the view renders again.
type Group struct {
	bus     *Bus
	regions *roaring.Bitmap
}

// NewGroup returns an empty group.
func (bus *Bus) NewGroup() *Group {
	return &Group{bus: bus, regions: roaring.New()}
}

// Register issues a region owned by the group.
func (group *Group) Register(ids ...string) Region {
	region := group.bus.Register(ids...)
	group.regions.Add(uint32(region))
	return region
}

// Reset unregisters every region in the group.
func (group *Group) Reset() {
	iterator := group.regions.Iterator()
	for iterator.HasNext() {
		group.bus.Unregister(Region(iterator.Next()))
	}
	group.regions.Clear()
}

// Len returns the number of regions the group owns.
func (group *Group) Len() int { return int(group.regions.GetCardinality()) }
