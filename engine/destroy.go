package engine

import (
	"github.com/wippyai/view-runtime/view"
)

// DestroyView tears down a view and everything below it: children first,
// then this view's destroy hooks, then the per-instance cleanup closures in
// LIFO order. Destruction is idempotent; the Destroyed flag is terminal.
func DestroyView(lView *view.LView) {
	if lView == nil || lView.IsDestroyed() {
		return
	}
	destroyViewTree(lView)
}

func destroyViewTree(lView *view.LView) {
	child := lView.ChildHead()
	for child != nil {
		switch t := child.(type) {
		case *view.LView:
			next := t.Next()
			destroyViewTree(t)
			child = next
		case *view.LContainer:
			for _, embedded := range t.Views() {
				destroyViewTree(embedded)
			}
			child = t.Next
		default:
			child = nil
		}
	}
	cleanUpView(lView)
}

func cleanUpView(lView *view.LView) {
	if lView.IsDestroyed() {
		return
	}
	tView := lView.TView()

	lView.ClearFlags(view.FlagAttached)
	lView.AddFlags(view.FlagDestroyed)

	executeDestroyHooks(tView, lView)

	cleanup := lView.TakeCleanup()
	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}
	for _, fn := range tView.Cleanup {
		fn(lView)
	}

	// A transplanted view dying mid-cycle must still repay its charge and
	// leave the declaration-side tracking.
	clearViewRefreshFlag(lView)
	if declContainer := lView.DeclarationContainer(); declContainer != nil {
		declContainer.UntrackMovedView(lView)
	}

	if tView.Type == view.TViewComponent {
		if renderer := lView.Renderer(); renderer != nil {
			renderer.Destroy()
		}
	}

	debugf("view destroyed: id=%s", lView.ID())
}
