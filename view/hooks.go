package view

import (
	"github.com/wippyai/view-runtime/decl"
)

// wrapHook closes over a plain instance hook.
func wrapHook(fn func(dir any)) HookFn {
	return func(lView *LView, i int) {
		fn(lView.At(i))
	}
}

// wrapOnChanges closes over an OnChanges hook. The pending-change store is
// consumed on invocation; with nothing pending the hook does not run.
func wrapOnChanges(fn func(dir any, changes decl.Changes)) HookFn {
	return func(lView *LView, i int) {
		store := lView.OnChangesStore()
		changes, ok := store[i]
		if !ok || len(changes) == 0 {
			return
		}
		delete(store, i)
		fn(lView.At(i), changes)
	}
}

// RegisterPreOrderHooks schedules a directive's pre-order hooks on the
// shape. Must only run during the first creation pass; the schedules are
// append-only in directive match order, which fixes hook execution order
// for the lifetime of the TView.
func RegisterPreOrderHooks(tView *TView, def *decl.DirectiveDef, directiveIndex int) {
	if def.Hooks&decl.HasOnChanges != 0 {
		h := Hook{DirectiveIndex: directiveIndex, Fn: wrapOnChanges(def.OnChanges)}
		tView.PreOrderHooks = append(tView.PreOrderHooks, h)
		tView.PreOrderCheckHooks = append(tView.PreOrderCheckHooks, h)
	}
	if def.Hooks&decl.HasOnInit != 0 {
		tView.PreOrderHooks = append(tView.PreOrderHooks,
			Hook{DirectiveIndex: directiveIndex, Fn: wrapHook(def.OnInit)})
	}
	if def.Hooks&decl.HasDoCheck != 0 {
		h := Hook{DirectiveIndex: directiveIndex, Fn: wrapHook(def.DoCheck)}
		tView.PreOrderHooks = append(tView.PreOrderHooks, h)
		tView.PreOrderCheckHooks = append(tView.PreOrderCheckHooks, h)
	}
}

// RegisterPostOrderHooks schedules content, view and destroy hooks for every
// directive on a node. Runs at node close during the first creation pass, so
// children schedule before parents and the content/view hook waves run
// child-first, matching the traversal contract.
func RegisterPostOrderHooks(tView *TView, tNode *TNode) {
	for i := tNode.DirectiveStart; i < tNode.DirectiveEnd; i++ {
		def := tView.DirectiveDefAt(i)
		if def == nil {
			continue
		}
		if def.Hooks&decl.HasAfterContentInit != 0 {
			tView.ContentHooks = append(tView.ContentHooks,
				Hook{DirectiveIndex: i, Fn: wrapHook(def.AfterContentInit)})
		}
		if def.Hooks&decl.HasAfterContentChecked != 0 {
			h := Hook{DirectiveIndex: i, Fn: wrapHook(def.AfterContentChecked)}
			tView.ContentHooks = append(tView.ContentHooks, h)
			tView.ContentCheckHooks = append(tView.ContentCheckHooks, h)
		}
		if def.Hooks&decl.HasAfterViewInit != 0 {
			tView.ViewHooks = append(tView.ViewHooks,
				Hook{DirectiveIndex: i, Fn: wrapHook(def.AfterViewInit)})
		}
		if def.Hooks&decl.HasAfterViewChecked != 0 {
			h := Hook{DirectiveIndex: i, Fn: wrapHook(def.AfterViewChecked)}
			tView.ViewHooks = append(tView.ViewHooks, h)
			tView.ViewCheckHooks = append(tView.ViewCheckHooks, h)
		}
		if def.Hooks&decl.HasOnDestroy != 0 {
			tView.DestroyHooks = append(tView.DestroyHooks,
				Hook{DirectiveIndex: i, Fn: wrapHook(def.OnDestroy)})
		}
	}
}
