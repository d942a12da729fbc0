package engine

import (
	"go.uber.org/zap"

	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/resolver"
	"github.com/wippyai/view-runtime/view"
)

// RenderView runs the creation pass over an LView: view queries, template in
// create mode, static queries, then every child component view, in that
// order. CreationMode is cleared and the frame popped on every exit path.
//
// A panic during the first creation pass marks the shape incomplete before
// propagating; component factories rebuild a fresh shape on the next
// attempt, embedded views do not retry.
func RenderView(tView *view.TView, lView *view.LView, context any) {
	assertDev(lView.IsCreationMode(), "render should only be called on creation-mode views")
	EnterView(lView)
	defer func() {
		r := recover()
		lView.ClearFlags(view.FlagCreationMode)
		LeaveView()
		if r != nil {
			if tView.FirstCreatePass {
				tView.IncompleteFirstPass = true
				tView.FirstCreatePass = false
			}
			panic(r)
		}
	}()

	if tView.ViewQuery != nil {
		executeViewQuery(tView, decl.Create, context)
	}

	if tView.Template != nil {
		executeTemplate(tView, lView, tView.Template, decl.Create, context)
	}

	// The shape is complete: seal it so later instances take the fast path.
	if tView.FirstCreatePass {
		tView.FirstCreatePass = false
	}

	if tView.StaticContentQueries {
		refreshContentQueries(tView, lView)
	}
	if tView.StaticViewQueries {
		executeViewQuery(tView, decl.Update, context)
	}

	for _, componentIdx := range tView.Components {
		renderComponentView(lView, componentIdx)
	}
}

func renderComponentView(hostLView *view.LView, componentHostIdx int) {
	componentView := view.ComponentLViewAt(hostLView, componentHostIdx)
	if componentView == nil {
		return
	}
	RenderView(componentView.TView(), componentView, componentView.Context())
}

// executeTemplate invokes the template function with a clean select cursor.
// In update mode the binding cursor rewinds to the start of the binding
// region first.
func executeTemplate(tView *view.TView, lView *view.LView, templateFn decl.TemplateFn, rf decl.RenderFlags, context any) {
	f := activeFrame()
	prevSelected := f.selectedIndex
	f.selectedIndex = -1
	defer func() { f.selectedIndex = prevSelected }()

	if rf&decl.Update != 0 {
		f.bindingIndex = tView.BindingStartIndex
		if lView.Len() > view.HeaderOffset {
			// Update templates start with node 0 selected.
			f.selectedIndex = 0
		}
	}
	templateFn(rf, context)
}

func executeViewQuery(tView *view.TView, rf decl.RenderFlags, context any) {
	tView.ViewQuery(rf, context)
}

// refreshContentQueries runs every registered content query in update mode
// against its directive instance.
func refreshContentQueries(tView *view.TView, lView *view.LView) {
	for _, q := range tView.ContentQueries {
		q.Fn(decl.Update, lView.At(q.DirectiveIndex), q.DirectiveIndex)
	}
}

// getOrCreateTNode returns the node descriptor at index, creating it on the
// first pass or upgrading a placeholder left by translated-template
// processing. The cursor is left pointing at the node as a parent.
func getOrCreateTNode(tView *view.TView, index int, typ view.TNodeType, tag string, attrs []any) *view.TNode {
	f := activeFrame()
	assertIndexInDeclRange(tView, index)

	tNode := tView.TNodeAt(index)
	if tNode == nil {
		tNode = createTNodeAtIndex(tView, f, index, typ, tag, attrs)
	} else if tNode.Type == view.TypePlaceholder {
		if err := tNode.UpgradeType(typ, tag, attrs); err != nil {
			panic(err)
		}
	}
	f.setCurrentTNode(tNode, true)
	return tNode
}

// createTNodeAtIndex creates and links a node into the shape tree at the
// current cursor.
//
// Linking invariant (kept from the source, which flags it as looking
// unnecessarily complicated): when the cursor is a parent, the new node
// becomes its child only if the cursor has no child yet AND the new node
// has a parent within this view; when the cursor is a sibling, the link is
// written only if the cursor has no next. Translated templates pre-wire
// child/next links, and those links must never be overwritten.
func createTNodeAtIndex(tView *view.TView, f *frame, index int, typ view.TNodeType, tag string, attrs []any) *view.TNode {
	currentTNode := f.currentTNode
	isParent := f.isParent

	var parent *view.TNode
	if isParent {
		parent = currentTNode
	} else if currentTNode != nil {
		parent = currentTNode.Parent
	}

	tNode := view.NewTNode(typ, index, tag, attrs)
	tNode.Parent = parent
	tView.Data[index] = tNode

	if tView.FirstChild == nil {
		tView.FirstChild = tNode
	}

	if currentTNode != nil {
		if isParent {
			if currentTNode.Child == nil && tNode.Parent != nil {
				currentTNode.Child = tNode
			}
		} else if currentTNode.Next == nil {
			currentTNode.Next = tNode
		}
	}
	return tNode
}

// createDirectiveInstances fills the node's directive range with fresh
// instances and applies captured initial inputs. For component hosts the
// child view is created first so the component instance can be stored as
// its context.
func createDirectiveInstances(tView *view.TView, lView *view.LView, tNode *view.TNode) {
	if !tNode.IsDirectiveHost() {
		return
	}

	if tNode.IsComponentHost() {
		componentDef := tView.DirectiveDefAt(tNode.DirectiveStart + tNode.ComponentOffset)
		addComponentLogic(lView, tNode, componentDef.Component)
	}

	for i := tNode.DirectiveStart; i < tNode.DirectiveEnd; i++ {
		def := tView.DirectiveDefAt(i)
		instance := def.Factory()
		lView.Set(i, instance)

		if def.IsComponent() && i == tNode.DirectiveStart+tNode.ComponentOffset {
			if componentView := view.ComponentLViewAt(lView, tNode.Index); componentView != nil {
				componentView.SetContext(instance)
			}
		}

		if def.ContentQueries != nil {
			def.ContentQueries(decl.Create, instance, i)
		}

		for _, initial := range tNode.InitialInputs[i-tNode.DirectiveStart] {
			writeDirectiveInput(lView, def, i, instance, initial.Public, initial.Private, initial.Value, nil, true)
		}
	}
}

// writeDirectiveInput delivers one input value to a directive instance and,
// for OnChanges directives, records the transition for the next hook run.
func writeDirectiveInput(lView *view.LView, def *decl.DirectiveDef, directiveIndex int, instance any, public, private string, value, previous any, firstChange bool) {
	switch {
	case def.SetInput != nil:
		def.SetInput(instance, value, public, private)
	default:
		sink, ok := instance.(decl.InputSink)
		assertDev(ok, "directive %s has no SetInput and does not implement InputSink", def.TypeName)
		if ok {
			sink.SetInput(private, value)
		}
	}

	if def.Hooks&decl.HasOnChanges != 0 {
		store := lView.OnChangesStore()
		changes := store[directiveIndex]
		if changes == nil {
			changes = make(decl.Changes)
			store[directiveIndex] = changes
		}
		if pending, ok := changes[private]; ok {
			// Coalesce: keep the oldest previous value of this cycle.
			previous = pending.Previous
			firstChange = pending.FirstChange
		}
		changes[private] = decl.Change{Previous: previous, Current: value, FirstChange: firstChange}
	}
}

// addComponentLogic creates the child component view and wires it into the
// host node's slot and the parent's view-tree list.
func addComponentLogic(lView *view.LView, tNode *view.TNode, def *decl.ComponentDef) {
	componentTView := getOrCreateComponentTView(def)
	native := view.UnwrapNative(lView.At(tNode.Index))

	var renderer = lView.Renderer()
	if factory := lView.RendererFactory(); factory != nil {
		renderer = factory.CreateRenderer(native, def.RendererType)
	}

	// On-push views begin dirty so their first refresh always runs; after
	// that only input changes or explicit marking re-dirty them.
	flags := view.FlagDirty
	if !def.OnPush {
		flags = view.FlagCheckAlways
	}

	componentView := view.NewLView(lView, componentTView, nil, flags, native, tNode,
		nil, renderer, nil, nil, nil)

	lView.Set(tNode.Index, componentView)
	addToViewTree(lView, componentView)

	debugf("component view created: tag=%s node=%d", tNode.Tag, tNode.Index)
}

// getOrCreateComponentTView returns the component's cached shape, rebuilding
// it when a previous first creation pass failed partway.
func getOrCreateComponentTView(def *decl.ComponentDef) *view.TView {
	if tv, ok := def.TViewCache.(*view.TView); ok && !tv.IncompleteFirstPass {
		return tv
	}
	if tv, ok := def.TViewCache.(*view.TView); ok && tv.IncompleteFirstPass {
		Logger().Warn("discarding incomplete component shape", zap.String("component", def.TypeName))
	}
	tv := view.NewTView(view.TViewComponent, nil, def.Template, def.Decls, def.Vars,
		def.DirectiveDefs, def.DirectiveDefsFn, def.PipeDefs, def.PipeDefsFn,
		def.ViewQuery, def.Schemas, def.Consts, def.ConstsFn)
	tv.StaticViewQueries = def.StaticViewQuery
	tv.StaticContentQueries = def.StaticContentQueries
	def.TViewCache = tv
	return tv
}

// addToViewTree appends a child view or container to the parent's traversal
// list. The list is ordered by first access, not creation order, which can
// surface as out-of-order change detection for containers touched lazily;
// the behavior is kept as-is for compatibility.
func addToViewTree(lView *view.LView, stateOrContainer any) {
	if lView.ChildHead() == nil {
		lView.SetChildHead(stateOrContainer)
	} else {
		switch tail := lView.ChildTail().(type) {
		case *view.LView:
			tail.SetNext(stateOrContainer)
		case *view.LContainer:
			tail.Next = stateOrContainer
		}
	}
	lView.SetChildTail(stateOrContainer)
}

// resolveNodeDirectives runs first-pass directive resolution for a node.
// Failures surface as panics so they follow the same unwinding path as
// user-code errors; the runtime entry converts them back to errors.
func resolveNodeDirectives(tView *view.TView, lView *view.LView, tNode *view.TNode, localRefs []string) {
	assertFirstCreatePass(tView)
	if err := resolver.ResolveDirectives(tView, lView, tNode, localRefs); err != nil {
		panic(err)
	}
	assertDualBuffer(tView, lView)
}
