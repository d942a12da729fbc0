package engine

import (
	"strings"
	"testing"

	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/internal/rendertest"
	"github.com/wippyai/view-runtime/view"
)

type rowCtx struct {
	Name string
}

// templateHostDef compiles to roughly:
//
//	<div></div>
//	<ng-template let-row>{row.Name}</ng-template>
func templateHostDef(typeName, selectorStr string, onPush bool) *decl.ComponentDef {
	rowTemplate := func(rf decl.RenderFlags, c any) {
		if rf&decl.Create != 0 {
			Text(0, "")
		}
		if rf&decl.Update != 0 {
			TextInterpolate1("row:", c.(*rowCtx).Name, "")
		}
	}
	return &decl.ComponentDef{
		DirectiveDef: decl.DirectiveDef{
			TypeName:  typeName,
			Factory:   func() any { return &struct{}{} },
			Selectors: mustSel(selectorStr),
		},
		Decls:  2,
		Vars:   0,
		OnPush: onPush,
		Template: func(rf decl.RenderFlags, c any) {
			if rf&decl.Create != 0 {
				Element(0, "div", -1, -1)
				Template(1, rowTemplate, 1, 1, "ng-template", -1, -1)
			}
		},
	}
}

func containerAt(t *testing.T, lView *view.LView, index int) *view.LContainer {
	t.Helper()
	lc, ok := lView.At(view.HeaderOffset + index).(*view.LContainer)
	if !ok {
		t.Fatalf("slot %d holds %T, want *LContainer", index, lView.At(view.HeaderOffset+index))
	}
	return lc
}

func TestEmbeddedViewCreateInsertRefresh(t *testing.T) {
	f := rendertest.NewFactory()
	root := bootstrapComponent(t, templateHostDef("Host", "host-comp", false), f)
	cv := componentView(t, root)

	lc := containerAt(t, cv, 1)
	tNode := cv.TView().TNodeAt(view.HeaderOffset + 1)
	if tNode.TView == nil {
		t.Fatal("template node lost its embedded shape")
	}

	ctx := &rowCtx{Name: "one"}
	embedded := CreateEmbeddedView(cv, tNode, ctx, nil)
	if embedded.DeclarationView() != cv {
		t.Fatal("declaration view should be the component view")
	}
	if embedded.DeclarationContainer() != lc {
		t.Fatal("declaration container should be the declaring container")
	}
	InsertView(lc, embedded, 0)

	if lc.Len() != 1 || lc.ViewAt(0) != embedded {
		t.Fatal("view not inserted")
	}
	if lc.HasTransplantedViews {
		t.Fatal("insertion at the declaration site is not a transplant")
	}
	if embedded.Parent() != cv {
		t.Fatal("insertion parent should unwrap to the component view")
	}

	f.TakeOps()
	DetectChanges(root)
	ops := f.TakeOps()
	found := false
	for _, op := range ops {
		if strings.Contains(op, `"row:one"`) {
			found = true
		}
	}
	if !found {
		t.Fatalf("embedded template did not run: %v", ops)
	}

	// Instance recycling: a second view from the same template shares the
	// shape.
	second := CreateEmbeddedView(cv, tNode, &rowCtx{Name: "two"}, nil)
	if second.TView() != embedded.TView() {
		t.Fatal("embedded views of one template must share the TView")
	}
}

func TestDetachViewSkipsRefresh(t *testing.T) {
	f := rendertest.NewFactory()
	root := bootstrapComponent(t, templateHostDef("Host", "host-comp", false), f)
	cv := componentView(t, root)
	lc := containerAt(t, cv, 1)
	tNode := cv.TView().TNodeAt(view.HeaderOffset + 1)

	ctx := &rowCtx{Name: "one"}
	embedded := CreateEmbeddedView(cv, tNode, ctx, nil)
	InsertView(lc, embedded, 0)
	DetectChanges(root)

	detached := DetachView(lc, 0)
	if detached != embedded || lc.Len() != 0 {
		t.Fatal("detach failed")
	}
	if embedded.IsAttached() {
		t.Fatal("detached view still attached")
	}

	ctx.Name = "changed"
	f.TakeOps()
	DetectChanges(root)
	for _, op := range f.TakeOps() {
		if strings.Contains(op, "changed") {
			t.Fatalf("detached view was refreshed: %v", op)
		}
	}

	// Reinsert catches up.
	InsertView(lc, embedded, 0)
	DetectChanges(root)
	found := false
	for _, op := range f.TakeOps() {
		if strings.Contains(op, `"row:changed"`) {
			found = true
		}
	}
	if !found {
		t.Fatal("reinserted view did not refresh")
	}
}

// transplantApp builds an app with two children: decl-comp declares a
// template, ins-comp owns the container the embedded view is inserted into.
func transplantApp(t *testing.T) (f *rendertest.Factory, root, declView, insView *view.LView) {
	t.Helper()

	declComp := templateHostDef("DeclComp", "decl-comp", false)
	insComp := templateHostDef("InsComp", "ins-comp", true)

	app := &decl.ComponentDef{
		DirectiveDef: decl.DirectiveDef{
			TypeName:  "App",
			Factory:   func() any { return &struct{}{} },
			Selectors: mustSel("app-comp"),
		},
		Decls:         2,
		Vars:          0,
		DirectiveDefs: []*decl.DirectiveDef{declComp.Dir(), insComp.Dir()},
		Template: func(rf decl.RenderFlags, c any) {
			if rf&decl.Create != 0 {
				Element(0, "decl-comp", -1, -1)
				Element(1, "ins-comp", -1, -1)
			}
		},
	}

	f = rendertest.NewFactory()
	root = bootstrapComponent(t, app, f)
	appView := componentView(t, root)
	declView = view.ComponentLViewAt(appView, view.HeaderOffset)
	insView = view.ComponentLViewAt(appView, view.HeaderOffset+1)
	if declView == nil || insView == nil {
		t.Fatal("child component views missing")
	}
	return f, root, declView, insView
}

func TestTransplantedViewRefresh(t *testing.T) {
	f, root, declView, insView := transplantApp(t)

	// Settle both children (the on-push insertion host starts dirty).
	DetectChanges(root)

	declContainer := containerAt(t, declView, 1)
	insContainer := containerAt(t, insView, 1)

	ctx := &rowCtx{Name: "t0"}
	tNode := declView.TView().TNodeAt(view.HeaderOffset + 1)
	embedded := CreateEmbeddedView(declView, tNode, ctx, nil)
	InsertView(insContainer, embedded, 0)

	if !declContainer.HasTransplantedViews {
		t.Fatal("declaration container must flag the transplant")
	}
	if len(declContainer.MovedViews) != 1 {
		t.Fatalf("moved views = %d", len(declContainer.MovedViews))
	}
	if embedded.ParentContainer() != insContainer {
		t.Fatal("insertion container lost")
	}

	// First tick after insertion renders the transplanted content.
	DetectChanges(root)
	if insContainer.TransplantedViewsToRefresh != 0 {
		t.Fatalf("counter = %d after tick, want 0", insContainer.TransplantedViewsToRefresh)
	}

	// Now mutate and tick: the declaration side marks, the clean on-push
	// insertion side is entered only for the flagged view.
	ctx.Name = "t1"
	f.TakeOps()
	DetectChanges(root)

	found := false
	for _, op := range f.TakeOps() {
		if strings.Contains(op, `"row:t1"`) {
			found = true
		}
	}
	if !found {
		t.Fatal("transplanted view did not refresh through the insertion side")
	}

	// Counter pairing: net zero after the full tick, flag cleared.
	if insContainer.TransplantedViewsToRefresh != 0 {
		t.Fatalf("counter = %d, want 0", insContainer.TransplantedViewsToRefresh)
	}
	if embedded.Flags()&view.FlagRefreshTransplantedView != 0 {
		t.Fatal("refresh flag must clear after the refresh")
	}
	if insView.TransplantedViewsToRefresh() != 0 {
		t.Fatalf("aggregated counter = %d, want 0", insView.TransplantedViewsToRefresh())
	}
}

func TestTransplantCounterPairing(t *testing.T) {
	_, _, declView, insView := transplantApp(t)

	insContainer := containerAt(t, insView, 1)
	tNode := declView.TView().TNodeAt(view.HeaderOffset + 1)
	embedded := CreateEmbeddedView(declView, tNode, &rowCtx{Name: "x"}, nil)
	InsertView(insContainer, embedded, 0)

	// Manual mark/clear must keep the increments and decrements paired.
	markTransplantedViewsForRefresh(declView)
	if insContainer.TransplantedViewsToRefresh != 1 {
		t.Fatalf("counter after mark = %d, want 1", insContainer.TransplantedViewsToRefresh)
	}
	if insView.TransplantedViewsToRefresh() != 1 {
		t.Fatalf("aggregate after mark = %d, want 1", insView.TransplantedViewsToRefresh())
	}

	// Re-marking an already-flagged view must not double-charge.
	markTransplantedViewsForRefresh(declView)
	if insContainer.TransplantedViewsToRefresh != 1 {
		t.Fatalf("counter after re-mark = %d, want 1", insContainer.TransplantedViewsToRefresh)
	}

	clearViewRefreshFlag(embedded)
	if insContainer.TransplantedViewsToRefresh != 0 || insView.TransplantedViewsToRefresh() != 0 {
		t.Fatal("clear must pay back every level")
	}

	// Clearing an unflagged view is a no-op.
	clearViewRefreshFlag(embedded)
	if insContainer.TransplantedViewsToRefresh != 0 {
		t.Fatal("unpaired decrement")
	}
}

func TestDetachTransplantedViewRepaysCounter(t *testing.T) {
	_, _, declView, insView := transplantApp(t)

	declContainer := containerAt(t, declView, 1)
	insContainer := containerAt(t, insView, 1)
	tNode := declView.TView().TNodeAt(view.HeaderOffset + 1)
	embedded := CreateEmbeddedView(declView, tNode, &rowCtx{Name: "x"}, nil)
	InsertView(insContainer, embedded, 0)

	markTransplantedViewsForRefresh(declView)
	DetachView(insContainer, 0)

	if insContainer.TransplantedViewsToRefresh != 0 {
		t.Fatalf("counter = %d after detach, want 0", insContainer.TransplantedViewsToRefresh)
	}
	if len(declContainer.MovedViews) != 0 {
		t.Fatal("detach must untrack the moved view")
	}
}

func TestMoveView(t *testing.T) {
	f := rendertest.NewFactory()
	root := bootstrapComponent(t, templateHostDef("Host", "host-comp", false), f)
	cv := componentView(t, root)
	lc := containerAt(t, cv, 1)
	tNode := cv.TView().TNodeAt(view.HeaderOffset + 1)

	a := CreateEmbeddedView(cv, tNode, &rowCtx{Name: "a"}, nil)
	b := CreateEmbeddedView(cv, tNode, &rowCtx{Name: "b"}, nil)
	InsertView(lc, a, 0)
	InsertView(lc, b, 1)

	MoveView(lc, 0, 1)
	if lc.ViewAt(0) != b || lc.ViewAt(1) != a {
		t.Fatal("move did not reorder")
	}
}

func TestRemoveViewDestroys(t *testing.T) {
	f := rendertest.NewFactory()
	root := bootstrapComponent(t, templateHostDef("Host", "host-comp", false), f)
	cv := componentView(t, root)
	lc := containerAt(t, cv, 1)
	tNode := cv.TView().TNodeAt(view.HeaderOffset + 1)

	embedded := CreateEmbeddedView(cv, tNode, &rowCtx{Name: "a"}, nil)
	InsertView(lc, embedded, 0)
	RemoveView(lc, 0)

	if lc.Len() != 0 {
		t.Fatal("view still inserted")
	}
	if !embedded.IsDestroyed() {
		t.Fatal("removed view must be destroyed")
	}
}
