package view

import (
	"github.com/wippyai/view-runtime/decl"
)

// TViewType classifies the template a shape table was built from.
type TViewType uint8

const (
	// TViewRoot hosts a bootstrapped component; synthesized, no template
	// function of its own.
	TViewRoot TViewType = iota
	// TViewComponent is the shape of a component's template.
	TViewComponent
	// TViewEmbedded is the shape of an inline template.
	TViewEmbedded
)

func (t TViewType) String() string {
	switch t {
	case TViewRoot:
		return "Root"
	case TViewComponent:
		return "Component"
	case TViewEmbedded:
		return "Embedded"
	}
	return "Unknown"
}

// HookFn runs one lifecycle hook for the directive at the given absolute
// slot. The wrapper closure fetches the instance from the view so hook
// scheduling stays free of user types.
type HookFn func(lView *LView, directiveIndex int)

// Hook is one scheduled lifecycle callback.
type Hook struct {
	DirectiveIndex int
	Fn             HookFn
}

// ContentQuery schedules a directive's content-query function.
type ContentQuery struct {
	DirectiveIndex int
	Fn             decl.ContentQueriesFn
}

// TView is the shape table: immutable per-template metadata shared by every
// instance. It is sealed once FirstCreatePass flips false; until then the
// append-only fields grow during the first creation pass.
type TView struct {
	Type TViewType

	// Blueprint is the template for fresh LView contents. Binding slots
	// hold the NoChange sentinel; everything else starts nil.
	Blueprint []any

	// Data parallels every attached LView: node slots hold the TNode,
	// directive slots hold the *decl.DirectiveDef, binding slots hold
	// debug metadata strings recorded on the first update pass.
	Data []any

	Template  decl.TemplateFn
	ViewQuery decl.ViewQueryFn

	// DeclTNode is the container node the template was declared on, nil
	// for component and root shapes.
	DeclTNode *TNode

	FirstCreatePass bool
	FirstUpdatePass bool
	// IncompleteFirstPass is terminal: set when the first creation pass
	// threw, telling component factories to discard and rebuild the shape.
	IncompleteFirstPass bool

	// BindingStartIndex is the slot where the binding region begins;
	// ExpandoStartIndex is where dynamically allocated slots begin.
	BindingStartIndex int
	ExpandoStartIndex int

	FirstChild *TNode

	// HostBindingOpCodes is the packed stream executed each refresh:
	// ~elementIndex selects a target, then (directiveIndex, bindingRoot,
	// fn) triples invoke host-binding functions.
	HostBindingOpCodes []any

	// Hook schedules, in execution order. The *CheckHooks variants run on
	// every pass; the init variants run only while the matching init phase
	// is pending.
	PreOrderHooks      []Hook
	PreOrderCheckHooks []Hook
	ContentHooks       []Hook
	ContentCheckHooks  []Hook
	ViewHooks          []Hook
	ViewCheckHooks     []Hook
	DestroyHooks       []Hook

	ContentQueries []ContentQuery

	// Components lists the node indices of component hosts, in creation
	// order; the refresh pass descends through them.
	Components []int

	// Cleanup holds shape-level teardown shared by all instances.
	Cleanup []func(lView *LView)

	DirectiveRegistry []*decl.DirectiveDef
	PipeRegistry      []*decl.PipeDef

	// deferred registries resolved on first use
	directiveRegistryFn func() []*decl.DirectiveDef
	pipeRegistryFn      func() []*decl.PipeDef

	Schemas []decl.SchemaMetadata

	Consts   [][]any
	constsFn func() [][]any

	StaticViewQueries    bool
	StaticContentQueries bool

	// QueriesMayChange is set when a query target can appear after the
	// creation pass, forcing re-collection each refresh.
	QueriesMayChange bool
}

// NewTView allocates a shape table and its blueprint: HeaderOffset header
// slots, decls node slots, then vars binding slots primed with NoChange.
// Construction never fails; malformed compiler output is a programmer error
// surfaced by dev-mode assertions downstream.
func NewTView(
	typ TViewType,
	declTNode *TNode,
	template decl.TemplateFn,
	decls, vars int,
	directives []*decl.DirectiveDef,
	directivesFn func() []*decl.DirectiveDef,
	pipes []*decl.PipeDef,
	pipesFn func() []*decl.PipeDef,
	viewQuery decl.ViewQueryFn,
	schemas []decl.SchemaMetadata,
	consts [][]any,
	constsFn func() [][]any,
) *TView {
	bindingStart := HeaderOffset + decls
	length := bindingStart + vars

	blueprint := make([]any, length)
	for i := bindingStart; i < length; i++ {
		blueprint[i] = NoChange
	}

	t := &TView{
		Type:                typ,
		Blueprint:           blueprint,
		Data:                make([]any, length),
		Template:            template,
		ViewQuery:           viewQuery,
		DeclTNode:           declTNode,
		FirstCreatePass:     true,
		FirstUpdatePass:     true,
		BindingStartIndex:   bindingStart,
		ExpandoStartIndex:   length,
		DirectiveRegistry:   directives,
		directiveRegistryFn: directivesFn,
		PipeRegistry:        pipes,
		pipeRegistryFn:      pipesFn,
		Schemas:             schemas,
		Consts:              consts,
		constsFn:            constsFn,
	}
	return t
}

// Directives returns the directive registry, invoking a deferred factory at
// most once.
func (t *TView) Directives() []*decl.DirectiveDef {
	if t.directiveRegistryFn != nil {
		t.DirectiveRegistry = t.directiveRegistryFn()
		t.directiveRegistryFn = nil
	}
	return t.DirectiveRegistry
}

// Pipes returns the pipe registry, invoking a deferred factory at most once.
func (t *TView) Pipes() []*decl.PipeDef {
	if t.pipeRegistryFn != nil {
		t.PipeRegistry = t.pipeRegistryFn()
		t.pipeRegistryFn = nil
	}
	return t.PipeRegistry
}

// ResolveConsts returns the constant pool, invoking a deferred factory at
// most once.
func (t *TView) ResolveConsts() [][]any {
	if t.constsFn != nil {
		t.Consts = t.constsFn()
		t.constsFn = nil
	}
	return t.Consts
}

// Const returns entry i of the constant pool, nil for a negative index.
func (t *TView) Const(i int) []any {
	if i < 0 {
		return nil
	}
	return t.ResolveConsts()[i]
}

// TNodeAt returns the node descriptor stored at a slot, nil when the slot
// holds something else.
func (t *TView) TNodeAt(index int) *TNode {
	if index < 0 || index >= len(t.Data) {
		return nil
	}
	n, _ := t.Data[index].(*TNode)
	return n
}

// DirectiveDefAt returns the directive definition stored at a slot.
func (t *TView) DirectiveDefAt(index int) *decl.DirectiveDef {
	d, _ := t.Data[index].(*decl.DirectiveDef)
	return d
}

// AllocExpando grows the dual buffers by n slots primed with initial and
// returns the index of the first new slot. The shape grows null-filled; the
// blueprint and the live view grow together so the lengths stay in
// lockstep. Expando growth only happens during the first creation pass;
// later instances receive the slots through the blueprint clone.
func AllocExpando(tView *TView, lView *LView, n int, initial any) int {
	start := len(lView.slots)
	for i := 0; i < n; i++ {
		lView.append(initial)
		tView.Blueprint = append(tView.Blueprint, initial)
		tView.Data = append(tView.Data, nil)
	}
	return start
}
