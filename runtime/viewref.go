package runtime

import (
	viewruntime "github.com/wippyai/view-runtime"
	"github.com/wippyai/view-runtime/engine"
	"github.com/wippyai/view-runtime/errors"
	"github.com/wippyai/view-runtime/refs"
	"github.com/wippyai/view-runtime/view"
)

// ViewRef is the embedder's stable handle to a bootstrapped view. It drives
// change detection for the tree below it and controls attachment and
// destruction.
type ViewRef struct {
	runtime   *Runtime
	lView     *view.LView
	handle    refs.Handle
	onDestroy []func()
}

// Component returns the bootstrapped component instance.
func (v *ViewRef) Component() any {
	componentView := view.ComponentLViewAt(v.lView, view.HeaderOffset)
	if componentView == nil {
		return nil
	}
	return componentView.Context()
}

// ID returns the root view's unique id.
func (v *ViewRef) ID() string { return v.lView.ID() }

// LView exposes the root instance buffer for debug tooling. The slot layout
// is not a stable contract.
func (v *ViewRef) LView() *view.LView { return v.lView }

// Destroyed reports whether Destroy has run.
func (v *ViewRef) Destroyed() bool { return v.lView.IsDestroyed() }

// MarkForCheck marks the path from this view to its root dirty so the next
// tick refreshes it even through on-push ancestors.
func (v *ViewRef) MarkForCheck() {
	engine.MarkViewDirty(v.lView)
}

// Detach removes the view from change detection; DetectChanges on the ref
// still works, ticks skip it.
func (v *ViewRef) Detach() {
	v.lView.ClearFlags(view.FlagAttached)
}

// Reattach restores the view to change detection and marks it dirty so the
// next tick catches up on missed state.
func (v *ViewRef) Reattach() {
	v.lView.AddFlags(view.FlagAttached)
	engine.MarkViewDirty(v.lView)
}

// DetectChanges refreshes the view tree synchronously. Renderer cycle hooks
// bracket the pass on every exit path; user-code panics surface as errors
// after the installed ErrorHandler has seen them.
func (v *ViewRef) DetectChanges() (err error) {
	if v.lView.IsDestroyed() {
		return errors.ViewDestroyed(errors.PhaseRefresh, "refresh")
	}

	if hooks, ok := v.runtime.rendererFactory.(viewruntime.RenderCycleHooks); ok {
		hooks.Begin()
		defer hooks.End()
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = v.runtime.reportError(errors.PhaseRefresh, rec)
		}
	}()

	engine.DetectChanges(v.lView)
	return nil
}

// CheckNoChanges re-runs change detection in verification mode: no hooks,
// no dirty-flag clearing, an error for any binding that produced a new
// value.
func (v *ViewRef) CheckNoChanges() (err error) {
	if v.lView.IsDestroyed() {
		return errors.ViewDestroyed(errors.PhaseCheck, "verify")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = v.runtime.reportError(errors.PhaseCheck, rec)
		}
	}()

	engine.CheckNoChanges(v.lView)
	return nil
}

// OnDestroy registers a callback invoked after the view tree is torn down.
func (v *ViewRef) OnDestroy(fn func()) {
	v.onDestroy = append(v.onDestroy, fn)
}

// Destroy tears down the view tree, releases the root registration, and
// fires OnDestroy callbacks. Idempotent.
func (v *ViewRef) Destroy() {
	if v.lView.IsDestroyed() {
		return
	}
	engine.DestroyView(v.lView)
	if v.handle != 0 {
		h := v.handle
		v.handle = 0
		v.runtime.roots.Remove(h)
	}
	for _, fn := range v.onDestroy {
		fn()
	}
	v.onDestroy = nil
}

// Drop implements refs.Dropper so closing the runtime destroys remaining
// roots.
func (v *ViewRef) Drop() error {
	v.Destroy()
	return nil
}
