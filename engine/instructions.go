package engine

import (
	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/view"
)

// The instruction set is what compiled template functions call back into.
// Instructions always operate on the active frame; indices are relative to
// the view's decl region (slot 0 is the first node slot).

// ElementStart materializes an element node, resolves its directives on the
// first pass, and leaves it open as the current parent.
func ElementStart(index int, tag string, attrsIndex, localRefsIndex int) {
	f := activeFrame()
	tView, lView := f.tView, f.lView
	adjusted := view.HeaderOffset + index

	var tNode *view.TNode
	if tView.FirstCreatePass {
		tNode = getOrCreateTNode(tView, adjusted, view.TypeElement, tag, tView.Const(attrsIndex))
		resolveNodeDirectives(tView, lView, tNode, localRefsConst(tView, localRefsIndex))
	} else {
		tNode = tView.TNodeAt(adjusted)
		f.setCurrentTNode(tNode, true)
	}

	renderer := lView.Renderer()
	var native any
	if renderer != nil {
		native = renderer.CreateElement(tNode.Tag, "")
	}
	lView.Set(adjusted, native)

	attrs := tNode.MergedAttrs
	if attrs == nil {
		attrs = tNode.Attrs
	}
	applyStaticAttrs(renderer, native, attrs)
	appendChildNative(tView, lView, native, tNode)

	createDirectiveInstances(tView, lView, tNode)
}

// ElementEnd closes the current element and, on the first pass, schedules
// its post-order hooks.
func ElementEnd() {
	f := activeFrame()
	currentTNode := f.currentTNode
	if f.isParent {
		f.isParent = false
	} else {
		currentTNode = currentTNode.Parent
		f.setCurrentTNode(currentTNode, false)
	}

	assertTNodeType(currentTNode, view.TypeElement)
	if f.tView.FirstCreatePass {
		view.RegisterPostOrderHooks(f.tView, currentTNode)
	}
}

// Element is ElementStart immediately followed by ElementEnd.
func Element(index int, tag string, attrsIndex, localRefsIndex int) {
	ElementStart(index, tag, attrsIndex, localRefsIndex)
	ElementEnd()
}

// Text materializes a text node with static contents.
func Text(index int, value string) {
	f := activeFrame()
	tView, lView := f.tView, f.lView
	adjusted := view.HeaderOffset + index

	var tNode *view.TNode
	if tView.FirstCreatePass {
		tNode = getOrCreateTNode(tView, adjusted, view.TypeText, value, nil)
	} else {
		tNode = tView.TNodeAt(adjusted)
	}
	f.setCurrentTNode(tNode, false)

	var native any
	if renderer := lView.Renderer(); renderer != nil {
		native = renderer.CreateText(value)
	}
	lView.Set(adjusted, native)
	appendChildNative(tView, lView, native, tNode)
}

// ElementContainerStart opens a logical grouping node backed by a comment
// anchor; children attach through it to the nearest real ancestor.
func ElementContainerStart(index int, attrsIndex, localRefsIndex int) {
	f := activeFrame()
	tView, lView := f.tView, f.lView
	adjusted := view.HeaderOffset + index

	var tNode *view.TNode
	if tView.FirstCreatePass {
		tNode = getOrCreateTNode(tView, adjusted, view.TypeElementContainer, "ng-container", tView.Const(attrsIndex))
		resolveNodeDirectives(tView, lView, tNode, localRefsConst(tView, localRefsIndex))
	} else {
		tNode = tView.TNodeAt(adjusted)
		f.setCurrentTNode(tNode, true)
	}

	var native any
	if renderer := lView.Renderer(); renderer != nil {
		native = renderer.CreateComment("")
	}
	lView.Set(adjusted, native)
	appendChildNative(tView, lView, native, tNode)

	createDirectiveInstances(tView, lView, tNode)
}

// ElementContainerEnd closes the current element container.
func ElementContainerEnd() {
	f := activeFrame()
	currentTNode := f.currentTNode
	if f.isParent {
		f.isParent = false
	} else {
		currentTNode = currentTNode.Parent
		f.setCurrentTNode(currentTNode, false)
	}

	assertTNodeType(currentTNode, view.TypeElementContainer)
	if f.tView.FirstCreatePass {
		view.RegisterPostOrderHooks(f.tView, currentTNode)
	}
}

// Template declares an embedded template: a container node whose shape is
// built lazily when the first embedded view is created.
func Template(index int, templateFn decl.TemplateFn, decls, vars int, tag string, attrsIndex, localRefsIndex int) {
	f := activeFrame()
	tView, lView := f.tView, f.lView
	adjusted := view.HeaderOffset + index

	var tNode *view.TNode
	if tView.FirstCreatePass {
		tNode = getOrCreateTNode(tView, adjusted, view.TypeContainer, tag, tView.Const(attrsIndex))
		tNode.TView = view.NewTView(view.TViewEmbedded, tNode, templateFn, decls, vars,
			tView.Directives(), nil, tView.Pipes(), nil, nil, tView.Schemas,
			tView.ResolveConsts(), nil)
		resolveNodeDirectives(tView, lView, tNode, localRefsConst(tView, localRefsIndex))
		view.RegisterPostOrderHooks(tView, tNode)
	} else {
		tNode = tView.TNodeAt(adjusted)
		f.setCurrentTNode(tNode, true)
	}

	var anchor any
	if renderer := lView.Renderer(); renderer != nil {
		anchor = renderer.CreateComment("container")
	}
	lView.Set(adjusted, anchor)
	appendChildNative(tView, lView, anchor, tNode)

	lContainer := view.NewLContainer(anchor, lView, anchor, tNode)
	lView.Set(adjusted, lContainer)
	addToViewTree(lView, lContainer)

	createDirectiveInstances(tView, lView, tNode)
	f.setCurrentTNode(tNode, false)
}

// Listener wires an event handler: to matching directive outputs when the
// node declares any under this name, to the renderer otherwise. Teardown
// lands on the view's cleanup list.
func Listener(eventName string, handler func(event any)) {
	f := activeFrame()
	tView, lView := f.tView, f.lView
	tNode := f.currentTNode

	wrapped := wrapListener(lView, handler)

	if entries, ok := tNode.Outputs[eventName]; ok {
		for _, e := range entries {
			def := tView.DirectiveDefAt(e.DirectiveIndex)
			instance := lView.At(e.DirectiveIndex)
			src, ok := instance.(decl.OutputSource)
			assertDev(ok, "directive %s declares output %q but does not implement OutputSource",
				def.TypeName, e.PrivateName)
			if !ok {
				continue
			}
			emitter := src.Output(e.PrivateName)
			if emitter == nil {
				continue
			}
			lView.PushCleanup(emitter.Subscribe(wrapped))
		}
		return
	}

	if tNode.Type&view.AnyRNode != 0 {
		renderer := lView.Renderer()
		if renderer == nil {
			return
		}
		native := view.UnwrapNative(lView.At(tNode.Index))
		lView.PushCleanup(renderer.Listen(native, eventName, wrapped))
	}
}

// wrapListener marks the view tree dirty before running the handler, so an
// event always schedules the path to it for the next tick.
func wrapListener(lView *view.LView, handler func(event any)) func(any) {
	return func(event any) {
		MarkViewDirty(lView)
		handler(event)
	}
}

// Pipe instantiates a pipe into its decl slot. The registry is searched
// from the end so the most recent registration of a name wins.
func Pipe(index int, name string) {
	f := activeFrame()
	tView, lView := f.tView, f.lView
	adjusted := view.HeaderOffset + index

	var def *decl.PipeDef
	if tView.FirstCreatePass {
		pipes := tView.Pipes()
		for i := len(pipes) - 1; i >= 0; i-- {
			if pipes[i].Name == name {
				def = pipes[i]
				break
			}
		}
		assertDev(def != nil, "pipe %q not found in registry", name)
		tView.Data[adjusted] = def
		if def.OnDestroy != nil {
			onDestroy := def.OnDestroy
			tView.DestroyHooks = append(tView.DestroyHooks, view.Hook{
				DirectiveIndex: adjusted,
				Fn: func(lv *view.LView, i int) {
					onDestroy(lv.At(i))
				},
			})
		}
	} else {
		def, _ = tView.Data[adjusted].(*decl.PipeDef)
	}

	lView.Set(adjusted, def.Factory())
}

// localRefsConst reads a local-refs constant: a flat (name, export) pair
// list. Index -1 means the node declares no references.
func localRefsConst(tView *view.TView, index int) []string {
	entry := tView.Const(index)
	if entry == nil {
		return nil
	}
	refs := make([]string, 0, len(entry))
	for _, v := range entry {
		s, _ := v.(string)
		refs = append(refs, s)
	}
	return refs
}
