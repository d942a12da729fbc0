package engine

import (
	"github.com/wippyai/view-runtime/view"
)

// MarkViewDirty sets Dirty on the view and every ancestor, so the next tick
// traverses down to it. It returns the root of the marked chain (for tick
// scheduling), nil when the view hangs off a detached subtree.
func MarkViewDirty(lView *view.LView) *view.LView {
	for lView != nil {
		lView.AddFlags(view.FlagDirty)
		parent := lView.Parent()
		if lView.IsRoot() && parent == nil {
			return lView
		}
		lView = parent
	}
	return nil
}

// markDirtyIfOnPush marks a child component dirty unless it is refreshed on
// every tick anyway.
func markDirtyIfOnPush(hostLView *view.LView, componentHostIdx int) {
	componentView := view.ComponentLViewAt(hostLView, componentHostIdx)
	if componentView == nil {
		return
	}
	if componentView.Flags()&view.FlagCheckAlways == 0 {
		componentView.AddFlags(view.FlagDirty)
	}
}

// updateTransplantedViewCount adjusts the insertion container's counter and
// propagates the "has work below" signal up the ancestor chain. An
// increment ripples up only while it is the first unit of work at each
// level; a decrement only while it was the last. Every +1 is paired with a
// later -1, so the counters return to zero across a full tick.
func updateTransplantedViewCount(lContainer *view.LContainer, amount int) {
	assertDev(amount == 1 || amount == -1, "transplant counter updates must be +1/-1, got %d", amount)
	lContainer.TransplantedViewsToRefresh += amount
	assertDev(lContainer.TransplantedViewsToRefresh >= 0,
		"transplant counter underflow on container")

	var node any = lContainer
	parent := parentOf(node)
	for parent != nil {
		count := counterOf(node)
		if !(amount == 1 && count == 1) && !(amount == -1 && count == 0) {
			break
		}
		addCounter(parent, amount)
		node = parent
		parent = parentOf(node)
	}
}

func parentOf(node any) any {
	switch t := node.(type) {
	case *view.LView:
		if p := t.ParentAny(); p != nil {
			return p
		}
		return nil
	case *view.LContainer:
		if t.Parent != nil {
			return t.Parent
		}
		return nil
	}
	return nil
}

func counterOf(node any) int {
	switch t := node.(type) {
	case *view.LView:
		return t.TransplantedViewsToRefresh()
	case *view.LContainer:
		return t.TransplantedViewsToRefresh
	}
	return 0
}

func addCounter(node any, amount int) {
	switch t := node.(type) {
	case *view.LView:
		t.SetTransplantedViewsToRefresh(t.TransplantedViewsToRefresh() + amount)
	case *view.LContainer:
		t.TransplantedViewsToRefresh += amount
	}
}

// markTransplantedViewsForRefresh flags, for every container declared under
// lView, the moved views not already flagged, and charges their insertion
// containers. Runs right after the declaration view's template updates so
// the insertion side knows to re-run the transplanted templates.
func markTransplantedViewsForRefresh(lView *view.LView) {
	for lContainer := firstLContainer(lView); lContainer != nil; lContainer = nextLContainer(lContainer) {
		if !lContainer.HasTransplantedViews {
			continue
		}
		for _, movedView := range lContainer.MovedViews {
			assertDev(movedView != nil, "moved view tracking lost a view")
			if movedView.Flags()&view.FlagRefreshTransplantedView != 0 {
				continue
			}
			insertionContainer := movedView.ParentContainer()
			assertDev(insertionContainer != nil, "moved view has no insertion container")
			if insertionContainer == nil {
				continue
			}
			movedView.AddFlags(view.FlagRefreshTransplantedView)
			updateTransplantedViewCount(insertionContainer, 1)
		}
	}
}

// clearViewRefreshFlag clears RefreshTransplantedView at the end of a
// refresh, paying back the insertion container's counter.
func clearViewRefreshFlag(lView *view.LView) {
	if lView.Flags()&view.FlagRefreshTransplantedView == 0 {
		return
	}
	lView.ClearFlags(view.FlagRefreshTransplantedView)
	if insertionContainer := lView.ParentContainer(); insertionContainer != nil {
		updateTransplantedViewCount(insertionContainer, -1)
	}
}

// firstLContainer / nextLContainer iterate the containers in a view's
// child list, skipping component views.
func firstLContainer(lView *view.LView) *view.LContainer {
	return nearestLContainer(lView.ChildHead())
}

func nextLContainer(lContainer *view.LContainer) *view.LContainer {
	return nearestLContainer(lContainer.Next)
}

func nearestLContainer(node any) *view.LContainer {
	for node != nil {
		if c, ok := node.(*view.LContainer); ok {
			return c
		}
		lView, ok := node.(*view.LView)
		if !ok {
			return nil
		}
		node = lView.Next()
	}
	return nil
}
