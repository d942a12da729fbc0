package engine

import (
	"github.com/wippyai/view-runtime/view"
)

// runHooks invokes a schedule in order. Hook code may mutate the view
// (mark for check, write state), so flags are re-read by callers that
// advance the init phase afterwards.
func runHooks(lView *view.LView, hooks []view.Hook) {
	for _, h := range hooks {
		h.Fn(lView, h.DirectiveIndex)
		lView.SetPreOrderHooksRun(lView.PreOrderHooksRun() + 1)
	}
}

// executeInitAndCheckHooks runs the init+check schedule when the view's
// init phase matches the wave, then advances the phase exactly once. All
// three waves complete within the view's first refresh pass.
func executeInitAndCheckHooks(lView *view.LView, hooks []view.Hook, phase view.InitPhase) {
	flags := lView.Flags()
	if flags.InitPhase() != phase {
		return
	}
	runHooks(lView, hooks)
	lView.SetFlags(lView.Flags().WithInitPhase(phase + 1))
}

// executeCheckHooks runs the check-only schedule for views past their init
// phases.
func executeCheckHooks(lView *view.LView, hooks []view.Hook) {
	runHooks(lView, hooks)
}

// executeDestroyHooks runs the destroy schedule. Slots may hold anything
// after a partial creation failure, so each target is checked.
func executeDestroyHooks(tView *view.TView, lView *view.LView) {
	for _, h := range tView.DestroyHooks {
		if lView.At(h.DirectiveIndex) == nil {
			continue
		}
		h.Fn(lView, h.DirectiveIndex)
	}
}
