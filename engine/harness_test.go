package engine

import (
	"testing"

	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/internal/rendertest"
	"github.com/wippyai/view-runtime/view"
)

// bootstrapComponent stamps a root view hosting def and runs the creation
// pass, mirroring what the runtime package does for real embedders.
func bootstrapComponent(t *testing.T, def *decl.ComponentDef, f *rendertest.Factory) *view.LView {
	t.Helper()

	renderer := f.CreateRenderer(nil, nil)
	host := renderer.SelectRootElement(nil, false)

	tag := "div"
	for _, sel := range def.Selectors {
		if sel.Element != "" {
			tag = sel.Element
			break
		}
	}
	rootTemplate := func(rf decl.RenderFlags, ctx any) {
		if rf&decl.Create != 0 {
			Element(0, tag, -1, -1)
		}
	}

	rootTView := view.NewTView(view.TViewRoot, nil, rootTemplate, 1, 0,
		[]*decl.DirectiveDef{def.Dir()}, nil, nil, nil, nil, def.Schemas, nil, nil)
	root := view.NewLView(nil, rootTView, nil,
		view.FlagCheckAlways|view.FlagIsRoot, host, nil, f, renderer, nil, nil, nil)

	RenderView(rootTView, root, nil)
	return root
}

// componentView returns the bootstrapped component's LView.
func componentView(t *testing.T, root *view.LView) *view.LView {
	t.Helper()
	cv := view.ComponentLViewAt(root, view.HeaderOffset)
	if cv == nil {
		t.Fatal("no component view under the root")
	}
	return cv
}

// countPrefix counts recorded ops beginning with prefix.
func countPrefix(ops []string, prefix string) int {
	n := 0
	for _, op := range ops {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}
