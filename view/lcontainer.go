package view

import (
	viewruntime "github.com/wippyai/view-runtime"
)

// LContainer is the dynamic list of embedded views inserted at a host node.
// The slot the container occupies previously held the host's value (native
// node or component view); that value moves into HostSlot so it stays
// reachable.
type LContainer struct {
	// Anchor is the native comment node embedded views are inserted
	// before.
	Anchor viewruntime.NativeElement

	// HostSlot preserves whatever the node slot held before the container
	// was attached.
	HostSlot any

	// HasTransplantedViews is set once any inserted view was declared in a
	// different view. It is never cleared; it only widens the refresh
	// search.
	HasTransplantedViews bool

	// Parent is the view holding the container's host node.
	Parent *LView

	// Next is the sibling link in the parent's child-view list
	// (*LView or *LContainer).
	Next any

	// TransplantedViewsToRefresh counts descendants whose
	// RefreshTransplantedView flag is set and whose declaration view is
	// not the insertion view. Increments and decrements are strictly
	// paired with flag transitions.
	TransplantedViewsToRefresh int

	// THost is the container node in the owning shape.
	THost *TNode

	// ViewRefs is an opaque slot for embedder-facing reference handles.
	ViewRefs any

	// MovedViews lists views declared elsewhere but inserted here, i.e.
	// the transplant bookkeeping set.
	MovedViews []*LView

	views []*LView
}

// NewLContainer creates an empty container under the given host node.
func NewLContainer(hostSlot any, parent *LView, anchor viewruntime.NativeElement, tHost *TNode) *LContainer {
	return &LContainer{
		Anchor:   anchor,
		HostSlot: hostSlot,
		Parent:   parent,
		THost:    tHost,
	}
}

// Len returns the number of inserted views.
func (c *LContainer) Len() int { return len(c.views) }

// ViewAt returns the inserted view at position i.
func (c *LContainer) ViewAt(i int) *LView { return c.views[i] }

// Views returns the inserted views in insertion order. The slice is the
// container's own; callers must not mutate it.
func (c *LContainer) Views() []*LView { return c.views }

// InsertAt places a view at position i, shifting later views up.
func (c *LContainer) InsertAt(i int, lView *LView) {
	c.views = append(c.views, nil)
	copy(c.views[i+1:], c.views[i:])
	c.views[i] = lView
}

// RemoveAt detaches and returns the view at position i.
func (c *LContainer) RemoveAt(i int) *LView {
	v := c.views[i]
	copy(c.views[i:], c.views[i+1:])
	c.views[len(c.views)-1] = nil
	c.views = c.views[:len(c.views)-1]
	return v
}

// IndexOf returns the position of a view, -1 when not inserted here.
func (c *LContainer) IndexOf(lView *LView) int {
	for i, v := range c.views {
		if v == lView {
			return i
		}
	}
	return -1
}

// TrackMovedView records a transplanted view (declared in one view,
// inserted under this container which lives in another).
func (c *LContainer) TrackMovedView(lView *LView) {
	c.HasTransplantedViews = true
	c.MovedViews = append(c.MovedViews, lView)
}

// UntrackMovedView removes a view from the transplant set.
func (c *LContainer) UntrackMovedView(lView *LView) {
	for i, v := range c.MovedViews {
		if v == lView {
			c.MovedViews = append(c.MovedViews[:i], c.MovedViews[i+1:]...)
			return
		}
	}
}
