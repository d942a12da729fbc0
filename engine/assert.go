package engine

import (
	"fmt"

	viewruntime "github.com/wippyai/view-runtime"
	"github.com/wippyai/view-runtime/view"
)

// Dev-mode assertions. Shape mismatches in compiled output are programmer
// errors: production behavior on violation is undefined, so every check
// compiles down to a flag test.

func assertDev(cond bool, format string, args ...any) {
	if !viewruntime.DevMode() {
		return
	}
	if !cond {
		panic("assertion failed: " + fmt.Sprintf(format, args...))
	}
}

func assertFirstCreatePass(tView *view.TView) {
	assertDev(tView.FirstCreatePass, "expected first create pass")
}

func assertIndexInRange(lView *view.LView, index int) {
	assertDev(index >= 0 && index < lView.Len(),
		"index %d out of range (view length %d)", index, lView.Len())
}

func assertIndexInDeclRange(tView *view.TView, index int) {
	assertDev(index >= view.HeaderOffset && index < tView.BindingStartIndex,
		"index %d outside decl range [%d, %d)", index, view.HeaderOffset, tView.BindingStartIndex)
}

func assertBindingIndexInRange(tView *view.TView, lView *view.LView, index int) {
	assertDev(index >= tView.BindingStartIndex && index < lView.Len(),
		"binding index %d before binding region (starts at %d)", index, tView.BindingStartIndex)
}

func assertDualBuffer(tView *view.TView, lView *view.LView) {
	assertDev(len(tView.Data) == len(tView.Blueprint),
		"shape data length %d != blueprint length %d", len(tView.Data), len(tView.Blueprint))
	assertDev(len(tView.Data) == lView.Len(),
		"shape data length %d != view length %d", len(tView.Data), lView.Len())
}

func assertTNodeType(tNode *view.TNode, mask view.TNodeType) {
	assertDev(tNode != nil && tNode.Type&mask != 0,
		"unexpected node type %v", tNode)
}
