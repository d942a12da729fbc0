package view

import (
	"testing"

	"github.com/wippyai/view-runtime/decl"
)

func TestNewTView_Layout(t *testing.T) {
	tv := NewTView(TViewComponent, nil, nil, 3, 2, nil, nil, nil, nil, nil, nil, nil, nil)

	if tv.BindingStartIndex != HeaderOffset+3 {
		t.Fatalf("BindingStartIndex = %d, want %d", tv.BindingStartIndex, HeaderOffset+3)
	}
	if tv.ExpandoStartIndex != HeaderOffset+5 {
		t.Fatalf("ExpandoStartIndex = %d, want %d", tv.ExpandoStartIndex, HeaderOffset+5)
	}
	if len(tv.Blueprint) != len(tv.Data) {
		t.Fatalf("blueprint length %d != data length %d", len(tv.Blueprint), len(tv.Data))
	}
	if !tv.FirstCreatePass || !tv.FirstUpdatePass {
		t.Fatal("fresh TView must be in first create and first update pass")
	}

	// Binding slots prime with the sentinel, everything else nil.
	for i, v := range tv.Blueprint {
		if i >= tv.BindingStartIndex {
			if !IsNoChange(v) {
				t.Fatalf("binding slot %d = %v, want NoChange", i, v)
			}
		} else if v != nil {
			t.Fatalf("slot %d = %v, want nil", i, v)
		}
	}
}

func TestNewTView_ZeroDeclsZeroVars(t *testing.T) {
	tv := NewTView(TViewEmbedded, nil, nil, 0, 0, nil, nil, nil, nil, nil, nil, nil, nil)
	if len(tv.Blueprint) != HeaderOffset {
		t.Fatalf("blueprint length = %d, want header only (%d)", len(tv.Blueprint), HeaderOffset)
	}
}

func TestDeferredRegistries_ResolveOnce(t *testing.T) {
	directiveCalls := 0
	pipeCalls := 0
	constCalls := 0

	dir := &decl.DirectiveDef{TypeName: "Dir"}
	pipe := &decl.PipeDef{Name: "upper"}

	tv := NewTView(TViewComponent, nil, nil, 0, 0,
		nil, func() []*decl.DirectiveDef { directiveCalls++; return []*decl.DirectiveDef{dir} },
		nil, func() []*decl.PipeDef { pipeCalls++; return []*decl.PipeDef{pipe} },
		nil, nil,
		nil, func() [][]any { constCalls++; return [][]any{{"class", "x"}} })

	for i := 0; i < 3; i++ {
		if got := tv.Directives(); len(got) != 1 || got[0] != dir {
			t.Fatalf("Directives() = %v", got)
		}
		if got := tv.Pipes(); len(got) != 1 || got[0] != pipe {
			t.Fatalf("Pipes() = %v", got)
		}
		if got := tv.Const(0); len(got) != 2 {
			t.Fatalf("Const(0) = %v", got)
		}
	}
	if directiveCalls != 1 || pipeCalls != 1 || constCalls != 1 {
		t.Fatalf("factories ran %d/%d/%d times, want once each", directiveCalls, pipeCalls, constCalls)
	}
	if tv.Const(-1) != nil {
		t.Fatal("Const(-1) should be nil")
	}
}

func TestAllocExpando_Lockstep(t *testing.T) {
	tv := NewTView(TViewComponent, nil, nil, 1, 1, nil, nil, nil, nil, nil, nil, nil, nil)
	lv := newTestLView(tv)

	start := AllocExpando(tv, lv, 3, nil)
	if start != tv.ExpandoStartIndex {
		t.Fatalf("expando start = %d, want %d", start, tv.ExpandoStartIndex)
	}
	if len(tv.Data) != len(tv.Blueprint) || len(tv.Data) != lv.Len() {
		t.Fatalf("buffers out of lockstep: data=%d blueprint=%d lview=%d",
			len(tv.Data), len(tv.Blueprint), lv.Len())
	}

	start2 := AllocExpando(tv, lv, 2, NoChange)
	if start2 != start+3 {
		t.Fatalf("second expando start = %d, want %d", start2, start+3)
	}
	if !IsNoChange(lv.At(start2)) || !IsNoChange(tv.Blueprint[start2]) {
		t.Fatal("expando slots should carry the requested initial value")
	}
}

func TestNoChange_NeverEqualsUserValues(t *testing.T) {
	for _, v := range []any{nil, 0, "", false, "NO_CHANGE"} {
		if IsNoChange(v) {
			t.Fatalf("IsNoChange(%v) = true", v)
		}
	}
	if !IsNoChange(NoChange) {
		t.Fatal("IsNoChange(NoChange) = false")
	}
}

// newTestLView stamps an LView without renderer/injector collaborators.
func newTestLView(tv *TView) *LView {
	return NewLView(nil, tv, nil, FlagCheckAlways, nil, nil, nil, nil, nil, nil, nil)
}
