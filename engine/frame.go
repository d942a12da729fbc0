package engine

import (
	"fmt"

	"github.com/outrigdev/goid"

	viewruntime "github.com/wippyai/view-runtime"
	"github.com/wippyai/view-runtime/view"
)

// frame is the traversal cursor for one active LView. The source keeps this
// state in module-level variables; modeling it as an explicit stack keeps
// the scoped enter/leave discipline visible and testable.
type frame struct {
	lView *view.LView
	tView *view.TView

	// currentTNode with isParent forms the shape-construction cursor:
	// when isParent is set the next node becomes a child of currentTNode,
	// otherwise a sibling.
	currentTNode *view.TNode
	isParent     bool

	// selectedIndex is the element targeted by property/attribute
	// instructions, relative to HeaderOffset. -1 means nothing selected.
	selectedIndex int

	// bindingIndex is the next binding slot the template will consume.
	bindingIndex int

	// bindingRootIndex is where the current binding region starts:
	// TView.BindingStartIndex for templates, the directive's host-var
	// root while host bindings execute.
	bindingRootIndex int

	// currentDirectiveIndex is the directive whose host bindings are
	// executing, -1 otherwise.
	currentDirectiveIndex int

	inI18n bool
}

var (
	frames []*frame

	// checkNoChangesMode is the process-wide flag for the dev-only
	// verification pass.
	checkNoChangesMode bool

	// renderGoID pins view work to one goroutine in dev mode.
	renderGoID uint64
)

// EnterView pushes a frame for lView. Re-entering an LView that already has
// an active frame is a programmer error.
func EnterView(lView *view.LView) {
	assertRenderGoroutine()
	if viewruntime.DevMode() {
		for _, f := range frames {
			if f.lView == lView {
				panic(fmt.Sprintf("view %s is already being processed", lView.ID()))
			}
		}
	}
	tView := lView.TView()
	frames = append(frames, &frame{
		lView:                 lView,
		tView:                 tView,
		selectedIndex:         -1,
		bindingIndex:          tView.BindingStartIndex,
		bindingRootIndex:      tView.BindingStartIndex,
		currentDirectiveIndex: -1,
	})
}

// LeaveView pops the active frame.
func LeaveView() {
	if len(frames) == 0 {
		panic("LeaveView without matching EnterView")
	}
	frames[len(frames)-1] = nil
	frames = frames[:len(frames)-1]
}

// activeFrame returns the current frame; calling an instruction outside a
// pass is a programmer error.
func activeFrame() *frame {
	if len(frames) == 0 {
		panic("no active view; instructions must run inside a creation or refresh pass")
	}
	return frames[len(frames)-1]
}

// CurrentLView returns the view being processed, nil outside a pass.
func CurrentLView() *view.LView {
	if len(frames) == 0 {
		return nil
	}
	return frames[len(frames)-1].lView
}

func (f *frame) setCurrentTNode(tNode *view.TNode, isParent bool) {
	f.currentTNode = tNode
	f.isParent = isParent
}

// selectedTNode returns the node targeted by the current select cursor.
func (f *frame) selectedTNode() *view.TNode {
	return f.tView.TNodeAt(view.HeaderOffset + f.selectedIndex)
}

// nextBindingIndex consumes one binding slot.
func (f *frame) nextBindingIndex() int {
	i := f.bindingIndex
	f.bindingIndex++
	return i
}

// assertRenderGoroutine pins all view work to the first goroutine that
// performed any. Dev mode only; production trusts the embedder.
func assertRenderGoroutine() {
	if !viewruntime.DevMode() {
		return
	}
	gid := goid.Get()
	if renderGoID == 0 {
		renderGoID = gid
		return
	}
	if renderGoID != gid {
		panic(fmt.Sprintf("view work on goroutine %d, but the view tree is owned by goroutine %d", gid, renderGoID))
	}
}

// SetCheckNoChangesMode flips the process-wide verification flag. Only the
// check-no-changes driver calls this.
func SetCheckNoChangesMode(on bool) {
	checkNoChangesMode = on
}

// IsCheckNoChangesMode reports whether the verification pass is active.
func IsCheckNoChangesMode() bool {
	return checkNoChangesMode
}
