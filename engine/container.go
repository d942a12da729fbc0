package engine

import (
	viewruntime "github.com/wippyai/view-runtime"
	"github.com/wippyai/view-runtime/view"
)

// CreateEmbeddedView stamps and renders a view from the template declared
// at tNode (a container node) in declLView. The new view remembers both its
// declaration view and the declaring container; insertion elsewhere is what
// makes it transplanted.
func CreateEmbeddedView(declLView *view.LView, tNode *view.TNode, context any, injector viewruntime.Injector) *view.LView {
	assertTNodeType(tNode, view.TypeContainer)
	embeddedTView := tNode.TView
	assertDev(embeddedTView != nil, "node %d declares no template", tNode.Index)

	declContainer, _ := declLView.At(tNode.Index).(*view.LContainer)

	lView := view.NewLView(declLView, embeddedTView, context, view.FlagCheckAlways,
		nil, tNode, nil, declLView.Renderer(), nil, nil, injector)
	lView.SetDeclarationContainer(declContainer)

	RenderView(embeddedTView, lView, context)
	return lView
}

// InsertView inserts an embedded view into a container at the given
// position and attaches it to change detection. Inserting into a container
// other than the declaring one registers the view as transplanted.
func InsertView(lContainer *view.LContainer, lView *view.LView, index int) {
	assertDev(index >= 0 && index <= lContainer.Len(),
		"insert position %d outside container of %d views", index, lContainer.Len())

	if declContainer := lView.DeclarationContainer(); declContainer != nil && declContainer != lContainer {
		declContainer.TrackMovedView(lView)
	}

	lView.SetParent(lContainer)
	lContainer.InsertAt(index, lView)
	lView.AddFlags(view.FlagAttached)

	attachViewNatives(lContainer, lView)
}

// DetachView removes the view at index from the container without
// destroying it. The view leaves change detection and its natives leave
// the render tree; any outstanding transplant charge is repaid.
func DetachView(lContainer *view.LContainer, index int) *view.LView {
	if index < 0 || index >= lContainer.Len() {
		return nil
	}
	lView := lContainer.RemoveAt(index)

	if lView.Flags()&view.FlagRefreshTransplantedView != 0 {
		lView.ClearFlags(view.FlagRefreshTransplantedView)
		updateTransplantedViewCount(lContainer, -1)
	}
	if declContainer := lView.DeclarationContainer(); declContainer != nil && declContainer != lContainer {
		declContainer.UntrackMovedView(lView)
	}

	detachViewNatives(lContainer, lView)
	lView.ClearFlags(view.FlagAttached)
	lView.SetNext(nil)
	lView.SetParent(nil)
	return lView
}

// RemoveView detaches the view at index and destroys it.
func RemoveView(lContainer *view.LContainer, index int) {
	if lView := DetachView(lContainer, index); lView != nil {
		DestroyView(lView)
	}
}

// MoveView repositions an inserted view within the same container.
func MoveView(lContainer *view.LContainer, from, to int) {
	lView := DetachView(lContainer, from)
	if lView == nil {
		return
	}
	InsertView(lContainer, lView, to)
}

// attachViewNatives inserts the view's root renderer nodes before the
// container anchor.
func attachViewNatives(lContainer *view.LContainer, lView *view.LView) {
	renderer := lView.Renderer()
	if renderer == nil || lContainer.Anchor == nil {
		return
	}
	for _, native := range viewRootNatives(lView.TView(), lView) {
		renderer.InsertBefore(nil, native, lContainer.Anchor)
	}
}

// detachViewNatives removes the view's root renderer nodes.
func detachViewNatives(lContainer *view.LContainer, lView *view.LView) {
	renderer := lView.Renderer()
	if renderer == nil {
		return
	}
	for _, native := range viewRootNatives(lView.TView(), lView) {
		renderer.RemoveChild(nil, native)
	}
}
