package view

import (
	"github.com/google/uuid"

	viewruntime "github.com/wippyai/view-runtime"
	"github.com/wippyai/view-runtime/decl"
)

// LView header slot indices. The header is followed by Decls node slots,
// then Vars binding slots, then the expando region.
const (
	HostIndex = iota
	TViewIndex
	FlagsIndex
	ParentIndex
	NextIndex
	THostIndex
	CleanupIndex
	ContextIndex
	InjectorIndex
	EmbeddedViewInjectorIndex
	RendererFactoryIndex
	RendererIndex
	SanitizerIndex
	ChildHeadIndex
	ChildTailIndex
	DeclarationViewIndex
	DeclarationComponentViewIndex
	DeclarationLContainerIndex
	PreOrderHookIndex
	OnChangesStoreIndex
	TransplantedViewsIndex
	IDIndex

	// HeaderOffset is the index of the first node slot.
	HeaderOffset
)

// LView is the per-instance slot buffer. Slot i is described by the owning
// TView's Data[i]. The struct wraps the slice so the buffer can grow while
// every holder of the *LView stays valid.
type LView struct {
	slots []any
}

// NewLView stamps a fresh instance buffer from the TView blueprint.
//
// Flags are extended with CreationMode, Attached and FirstLViewPass. The
// declaration-component view back-reference is inherited from the parent for
// embedded views and points at the view itself for component and root views.
func NewLView(
	parent *LView,
	tView *TView,
	context any,
	flags Flags,
	host viewruntime.NativeElement,
	tHostNode *TNode,
	rendererFactory viewruntime.RendererFactory,
	renderer viewruntime.Renderer,
	sanitizer viewruntime.SanitizerFn,
	injector viewruntime.Injector,
	embeddedViewInjector viewruntime.Injector,
) *LView {
	lView := &LView{slots: make([]any, len(tView.Blueprint))}
	copy(lView.slots, tView.Blueprint)

	flags |= FlagCreationMode | FlagAttached | FlagFirstLViewPass
	if embeddedViewInjector != nil {
		flags |= FlagHasEmbeddedViewInjector
	}

	lView.slots[HostIndex] = host
	lView.slots[TViewIndex] = tView
	lView.slots[FlagsIndex] = flags
	// A nil parent stays an untyped nil so the any-typed slot compares
	// equal to nil for every reader.
	if parent != nil {
		lView.slots[ParentIndex] = parent
	}
	if tHostNode != nil {
		lView.slots[THostIndex] = tHostNode
	}
	lView.slots[ContextIndex] = context
	lView.slots[IDIndex] = uuid.NewString()

	if rendererFactory != nil {
		lView.slots[RendererFactoryIndex] = rendererFactory
	} else if parent != nil {
		lView.slots[RendererFactoryIndex] = parent.slots[RendererFactoryIndex]
	}
	if renderer != nil {
		lView.slots[RendererIndex] = renderer
	} else if parent != nil {
		lView.slots[RendererIndex] = parent.slots[RendererIndex]
	}
	if sanitizer != nil {
		lView.slots[SanitizerIndex] = sanitizer
	} else if parent != nil {
		lView.slots[SanitizerIndex] = parent.slots[SanitizerIndex]
	}
	if injector != nil {
		lView.slots[InjectorIndex] = injector
	} else if parent != nil {
		lView.slots[InjectorIndex] = parent.slots[InjectorIndex]
	}
	if embeddedViewInjector != nil {
		lView.slots[EmbeddedViewInjectorIndex] = embeddedViewInjector
	}

	if tView.Type == TViewEmbedded {
		if parent != nil {
			declComponentView := parent.DeclarationComponentView()
			if declComponentView == nil {
				declComponentView = parent
			}
			lView.slots[DeclarationComponentViewIndex] = declComponentView
		}
	} else {
		lView.slots[DeclarationComponentViewIndex] = lView
	}
	if parent != nil {
		lView.slots[DeclarationViewIndex] = parent
	}

	return lView
}

// Len returns the current slot count, header included.
func (l *LView) Len() int { return len(l.slots) }

// At returns the value in slot i.
func (l *LView) At(i int) any { return l.slots[i] }

// Set stores v in slot i.
func (l *LView) Set(i int, v any) { l.slots[i] = v }

// append grows the buffer; only AllocExpando calls this so the TView arrays
// grow in lockstep.
func (l *LView) append(v any) { l.slots = append(l.slots, v) }

// Typed header accessors.

func (l *LView) Host() viewruntime.NativeElement { return l.slots[HostIndex] }
func (l *LView) SetHost(h viewruntime.NativeElement) {
	l.slots[HostIndex] = h
}

func (l *LView) TView() *TView { return l.slots[TViewIndex].(*TView) }

func (l *LView) Flags() Flags       { return l.slots[FlagsIndex].(Flags) }
func (l *LView) SetFlags(f Flags)   { l.slots[FlagsIndex] = f }
func (l *LView) AddFlags(f Flags)   { l.slots[FlagsIndex] = l.Flags() | f }
func (l *LView) ClearFlags(f Flags) { l.slots[FlagsIndex] = l.Flags() &^ f }

// ParentAny returns the raw parent link: an *LView for component views, an
// *LContainer for inserted embedded views, nil for roots.
func (l *LView) ParentAny() any { return l.slots[ParentIndex] }

// Parent returns the parent LView, unwrapping an insertion container. Nil
// for root views and for embedded views not currently inserted.
func (l *LView) Parent() *LView {
	switch p := l.slots[ParentIndex].(type) {
	case *LView:
		return p
	case *LContainer:
		return p.Parent
	}
	return nil
}

// ParentContainer returns the insertion container, nil when the view is not
// inserted in one.
func (l *LView) ParentContainer() *LContainer {
	if c, ok := l.slots[ParentIndex].(*LContainer); ok {
		return c
	}
	return nil
}

func (l *LView) SetParent(p any) { l.slots[ParentIndex] = p }

// TransplantedViewsToRefresh aggregates, over this view's subtree, how many
// transplanted views still need a refresh. Kept in step with the container
// counters by paired updates.
func (l *LView) TransplantedViewsToRefresh() int {
	if n, ok := l.slots[TransplantedViewsIndex].(int); ok {
		return n
	}
	return 0
}
func (l *LView) SetTransplantedViewsToRefresh(n int) { l.slots[TransplantedViewsIndex] = n }

// Next is the sibling link in the parent's child-view list; the value is an
// *LView or *LContainer.
func (l *LView) Next() any        { return l.slots[NextIndex] }
func (l *LView) SetNext(next any) { l.slots[NextIndex] = next }

func (l *LView) THost() *TNode {
	if n, ok := l.slots[THostIndex].(*TNode); ok {
		return n
	}
	return nil
}

func (l *LView) Context() any       { return l.slots[ContextIndex] }
func (l *LView) SetContext(ctx any) { l.slots[ContextIndex] = ctx }
func (l *LView) ID() string         { return l.slots[IDIndex].(string) }
func (l *LView) Renderer() viewruntime.Renderer {
	if r, ok := l.slots[RendererIndex].(viewruntime.Renderer); ok {
		return r
	}
	return nil
}
func (l *LView) RendererFactory() viewruntime.RendererFactory {
	if f, ok := l.slots[RendererFactoryIndex].(viewruntime.RendererFactory); ok {
		return f
	}
	return nil
}
func (l *LView) Sanitizer() viewruntime.SanitizerFn {
	if s, ok := l.slots[SanitizerIndex].(viewruntime.SanitizerFn); ok {
		return s
	}
	return nil
}
func (l *LView) Injector() viewruntime.Injector {
	if i, ok := l.slots[InjectorIndex].(viewruntime.Injector); ok {
		return i
	}
	return nil
}

// DeclarationView is the view the template was declared in. It differs from
// Parent for transplanted views.
func (l *LView) DeclarationView() *LView {
	if v, ok := l.slots[DeclarationViewIndex].(*LView); ok {
		return v
	}
	return nil
}
func (l *LView) SetDeclarationView(v *LView) { l.slots[DeclarationViewIndex] = v }

// DeclarationComponentView is the nearest component view the declaration
// belongs to.
func (l *LView) DeclarationComponentView() *LView {
	if v, ok := l.slots[DeclarationComponentViewIndex].(*LView); ok {
		return v
	}
	return nil
}

// DeclarationContainer is the container the view was declared under, used
// for template blueprint recycling.
func (l *LView) DeclarationContainer() *LContainer {
	if c, ok := l.slots[DeclarationLContainerIndex].(*LContainer); ok {
		return c
	}
	return nil
}
func (l *LView) SetDeclarationContainer(c *LContainer) { l.slots[DeclarationLContainerIndex] = c }

// ChildHead/ChildTail anchor the linked list of child views and containers
// attached under this view, in order of first access.
func (l *LView) ChildHead() any     { return l.slots[ChildHeadIndex] }
func (l *LView) SetChildHead(v any) { l.slots[ChildHeadIndex] = v }
func (l *LView) ChildTail() any     { return l.slots[ChildTailIndex] }
func (l *LView) SetChildTail(v any) { l.slots[ChildTailIndex] = v }

// Cleanup is the LIFO list of per-instance teardown closures.
func (l *LView) Cleanup() []func() {
	if c, ok := l.slots[CleanupIndex].([]func()); ok {
		return c
	}
	return nil
}
func (l *LView) PushCleanup(fn func()) {
	l.slots[CleanupIndex] = append(l.Cleanup(), fn)
}
func (l *LView) TakeCleanup() []func() {
	c := l.Cleanup()
	l.slots[CleanupIndex] = nil
	return c
}

// PreOrderHookIndex tracks how many pre-order hooks have run this pass.
func (l *LView) PreOrderHooksRun() int {
	if n, ok := l.slots[PreOrderHookIndex].(int); ok {
		return n
	}
	return 0
}
func (l *LView) SetPreOrderHooksRun(n int) { l.slots[PreOrderHookIndex] = n }

// OnChangesStore lazily allocates the per-instance store of pending input
// transitions, keyed by absolute directive slot.
func (l *LView) OnChangesStore() map[int]decl.Changes {
	if m, ok := l.slots[OnChangesStoreIndex].(map[int]decl.Changes); ok {
		return m
	}
	m := make(map[int]decl.Changes)
	l.slots[OnChangesStoreIndex] = m
	return m
}

// State predicates.

func (l *LView) IsCreationMode() bool { return l.Flags()&FlagCreationMode != 0 }
func (l *LView) IsAttached() bool     { return l.Flags()&FlagAttached != 0 }
func (l *LView) IsDestroyed() bool    { return l.Flags()&FlagDestroyed != 0 }
func (l *LView) IsDirty() bool        { return l.Flags()&FlagDirty != 0 }
func (l *LView) IsRoot() bool         { return l.Flags()&FlagIsRoot != 0 }

// UnwrapNative resolves a node slot value to the native node it fronts:
// component-host slots hold the child LView, container slots hold the
// LContainer whose anchor is the native.
func UnwrapNative(v any) viewruntime.NativeElement {
	for {
		switch t := v.(type) {
		case *LView:
			v = t.Host()
		case *LContainer:
			return t.Anchor
		default:
			return v
		}
	}
}

// ComponentLViewAt returns the child component view stored in the host
// node's slot, unwrapping a container inserted between them.
func ComponentLViewAt(lView *LView, index int) *LView {
	v := lView.At(index)
	for {
		switch t := v.(type) {
		case *LView:
			return t
		case *LContainer:
			v = t.HostSlot
		default:
			return nil
		}
	}
}
