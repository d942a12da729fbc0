package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/internal/rendertest"
)

func TestDestroyRunsHooksAndCleanupLIFO(t *testing.T) {
	var order []string

	dir := &decl.DirectiveDef{
		TypeName:  "Tracked",
		Factory:   func() any { return &struct{}{} },
		Selectors: mustSel("[tracked]"),
		Hooks:     decl.HasOnDestroy,
		OnDestroy: func(any) { order = append(order, "dir.onDestroy") },
	}

	def := &decl.ComponentDef{
		DirectiveDef: decl.DirectiveDef{
			TypeName:  "Host",
			Factory:   func() any { return &struct{}{} },
			Selectors: mustSel("host-comp"),
			Hooks:     decl.HasOnDestroy,
			OnDestroy: func(any) { order = append(order, "comp.onDestroy") },
		},
		Decls:         1,
		Vars:          0,
		DirectiveDefs: []*decl.DirectiveDef{dir},
		Consts:        [][]any{{"tracked", ""}},
		Template: func(rf decl.RenderFlags, c any) {
			if rf&decl.Create != 0 {
				ElementStart(0, "button", 0, -1)
				Listener("click", func(any) {})
				ElementEnd()
			}
		},
	}

	f := rendertest.NewFactory()
	root := bootstrapComponent(t, def, f)
	cv := componentView(t, root)
	DetectChanges(root)

	cv.PushCleanup(func() { order = append(order, "cleanup.1") })
	cv.PushCleanup(func() { order = append(order, "cleanup.2") })

	DestroyView(root)

	// The component view cleans up before the view owning its host node:
	// its directive destroy hooks run first, then its cleanup closures in
	// LIFO order (the listener teardown, pushed first, runs last of
	// those), and only then the root view's schedule with the component's
	// own OnDestroy.
	want := []string{"dir.onDestroy", "cleanup.2", "cleanup.1", "comp.onDestroy"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("teardown order (-want +got):\n%s", diff)
	}

	if !root.IsDestroyed() || !cv.IsDestroyed() {
		t.Fatal("views not flagged destroyed")
	}
	if f.Destroyed == 0 {
		t.Fatal("component renderer not destroyed")
	}

	// Idempotent.
	order = nil
	DestroyView(root)
	if len(order) != 0 {
		t.Fatalf("second destroy ran teardown again: %v", order)
	}
}

func TestDestroyUnlistens(t *testing.T) {
	def := &decl.ComponentDef{
		DirectiveDef: decl.DirectiveDef{
			TypeName:  "Clicky",
			Factory:   func() any { return &struct{}{} },
			Selectors: mustSel("clicky-comp"),
		},
		Decls: 1,
		Vars:  0,
		Template: func(rf decl.RenderFlags, c any) {
			if rf&decl.Create != 0 {
				ElementStart(0, "button", -1, -1)
				Listener("click", func(any) {})
				ElementEnd()
			}
		},
	}

	f := rendertest.NewFactory()
	root := bootstrapComponent(t, def, f)

	button := f.FindByTag("button")
	if button == nil {
		t.Fatal("button missing")
	}
	DestroyView(root)
	if f.Fire(button, "click", nil) {
		t.Fatal("listener survived destruction")
	}
}

func TestDestroySubtreeChildFirst(t *testing.T) {
	var order []string
	child := hookedDef("child", &order, "child-comp", func(decl.RenderFlags, any) {}, 0, 0, false)
	parent := hookedDef("parent", &order, "parent-comp", func(rf decl.RenderFlags, c any) {
		if rf&decl.Create != 0 {
			Element(0, "child-comp", -1, -1)
		}
	}, 1, 0, false, child.Dir())

	f := rendertest.NewFactory()
	root := bootstrapComponent(t, parent, f)
	DetectChanges(root)

	order = nil
	DestroyView(root)
	want := []string{"child.onDestroy", "parent.onDestroy"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("destroy order (-want +got):\n%s", diff)
	}
}
