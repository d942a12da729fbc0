package engine

import (
	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/view"
)

// RefreshView runs the update pass over one LView. The order is the
// observable contract (see the package docs); every step below is numbered
// against it. A destroyed view is a no-op.
func RefreshView(tView *view.TView, lView *view.LView, templateFn decl.TemplateFn, context any) {
	if lView.IsDestroyed() {
		return
	}
	assertDev(!lView.IsCreationMode(), "refresh should not run in creation mode")

	flags := lView.Flags()
	isInCheckNoChangesPass := checkNoChangesMode
	hooksInitPhaseCompleted := flags.InitPhase() == view.InitPhaseCompleted

	EnterView(lView)
	defer LeaveView()

	// 1. Reset hook progress; the frame already rewound the binding cursor.
	lView.SetPreOrderHooksRun(0)

	// 2. Template in update mode.
	if templateFn != nil {
		executeTemplate(tView, lView, templateFn, decl.Update, context)
	}

	// 3. Pre-order hooks (suppressed while verifying no-changes).
	if !isInCheckNoChangesPass {
		if hooksInitPhaseCompleted {
			executeCheckHooks(lView, tView.PreOrderCheckHooks)
		} else {
			executeInitAndCheckHooks(lView, tView.PreOrderHooks, view.OnInitPending)
		}
	}

	// 4. Flag transplanted views declared here, charging their insertion
	// containers.
	markTransplantedViewsForRefresh(lView)

	// 5. Embedded views inserted under this view.
	refreshEmbeddedViews(lView)

	// 6. Content queries before content hooks, so hook code observes
	// up-to-date query results.
	if len(tView.ContentQueries) > 0 {
		refreshContentQueries(tView, lView)
	}

	// 7. Content hooks.
	if !isInCheckNoChangesPass {
		if hooksInitPhaseCompleted {
			executeCheckHooks(lView, tView.ContentCheckHooks)
		} else {
			executeInitAndCheckHooks(lView, tView.ContentHooks, view.AfterContentInitPending)
		}
	}

	// 8. Host bindings before child components: their writes may feed
	// child inputs.
	processHostBindingOpCodes(tView, lView)

	// 9. Child component views.
	for _, componentIdx := range tView.Components {
		refreshComponent(lView, componentIdx)
	}

	// 10. View queries after children: a template declared here may have
	// been inserted into a child.
	if tView.ViewQuery != nil {
		executeViewQuery(tView, decl.Update, context)
	}

	// 11. View hooks.
	if !isInCheckNoChangesPass {
		if hooksInitPhaseCompleted {
			executeCheckHooks(lView, tView.ViewCheckHooks)
		} else {
			executeInitAndCheckHooks(lView, tView.ViewHooks, view.AfterViewInitPending)
		}
	}

	// 12. Seal the first update pass — on the success path only, never in
	// a deferred block: styling instructions must not observe the flag
	// cleared after a failed pass. The verification pass seals nothing.
	if tView.FirstUpdatePass && !isInCheckNoChangesPass {
		tView.FirstUpdatePass = false
	}

	// 13. The verification pass must leave dirty state observable, so a
	// view marked dirty from afterViewInit survives the current cycle.
	if !isInCheckNoChangesPass {
		lView.ClearFlags(view.FlagDirty | view.FlagFirstLViewPass)
	}

	// 14. Pay back the transplant counter if this view was flagged.
	clearViewRefreshFlag(lView)
}

// refreshEmbeddedViews refreshes every attached embedded view inserted in
// this view's containers.
func refreshEmbeddedViews(lView *view.LView) {
	for lContainer := firstLContainer(lView); lContainer != nil; lContainer = nextLContainer(lContainer) {
		for _, embedded := range lContainer.Views() {
			if !embedded.IsAttached() {
				continue
			}
			embeddedTView := embedded.TView()
			RefreshView(embeddedTView, embedded, embeddedTView.Template, embedded.Context())
		}
	}
}

// refreshComponent descends into one child component view: fully when it is
// check-always or dirty, transplant-only when the subtree has flagged views.
func refreshComponent(hostLView *view.LView, componentHostIdx int) {
	componentView := view.ComponentLViewAt(hostLView, componentHostIdx)
	if componentView == nil || !componentView.IsAttached() {
		return
	}

	flags := componentView.Flags()
	if flags&(view.FlagCheckAlways|view.FlagDirty) != 0 {
		componentTView := componentView.TView()
		RefreshView(componentTView, componentView, componentTView.Template, componentView.Context())
		return
	}

	if componentView.TransplantedViewsToRefresh() > 0 {
		refreshContainsDirtyView(componentView)
	}
}

// refreshContainsDirtyView walks a subtree refreshing only views flagged
// RefreshTransplantedView, descending where the counters say flagged views
// remain.
func refreshContainsDirtyView(lView *view.LView) {
	for lContainer := firstLContainer(lView); lContainer != nil; lContainer = nextLContainer(lContainer) {
		for _, embedded := range lContainer.Views() {
			if embedded.Flags()&view.FlagRefreshTransplantedView != 0 {
				embeddedTView := embedded.TView()
				RefreshView(embeddedTView, embedded, embeddedTView.Template, embedded.Context())
				continue
			}
			if embedded.TransplantedViewsToRefresh() > 0 {
				refreshContainsDirtyView(embedded)
			}
		}
	}

	tView := lView.TView()
	for _, componentIdx := range tView.Components {
		componentView := view.ComponentLViewAt(lView, componentIdx)
		if componentView != nil && componentView.TransplantedViewsToRefresh() > 0 {
			refreshContainsDirtyView(componentView)
		}
	}
}

// DetectChanges refreshes a view and its children synchronously.
func DetectChanges(lView *view.LView) {
	tView := lView.TView()
	RefreshView(tView, lView, tView.Template, lView.Context())
}

// CheckNoChanges re-runs the refresh with the verification flag set: any
// binding difference panics with ExpressionChangedError, hooks stay
// silent, and no dirty state is cleared.
func CheckNoChanges(lView *view.LView) {
	SetCheckNoChangesMode(true)
	defer SetCheckNoChangesMode(false)
	DetectChanges(lView)
}
