package runtime

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/engine"
	"github.com/wippyai/view-runtime/errors"
	"github.com/wippyai/view-runtime/internal/rendertest"
)

type counterState struct {
	Count int
	boom  bool
}

func counterDef() *decl.ComponentDef {
	return &decl.ComponentDef{
		DirectiveDef: decl.DirectiveDef{
			TypeName:  "Counter",
			Factory:   func() any { return &counterState{} },
			Selectors: mustParse("counter-comp"),
		},
		Decls: 1,
		Vars:  1,
		Template: func(rf decl.RenderFlags, c any) {
			s := c.(*counterState)
			if s.boom {
				panic("template exploded")
			}
			if rf&decl.Create != 0 {
				engine.Text(0, "")
			}
			if rf&decl.Update != 0 {
				engine.TextInterpolate1("count:", s.Count, "")
			}
		},
	}
}

func mustParse(s string) decl.SelectorList {
	list, err := decl.ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return list
}

func TestBootstrapAndTick(t *testing.T) {
	f := rendertest.NewFactory()
	rt := New(WithRendererFactory(f))
	defer rt.Close()

	ref, err := rt.Bootstrap(counterDef(), nil, nil)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if ref.Destroyed() {
		t.Fatal("fresh ref reports destroyed")
	}

	state := ref.Component().(*counterState)
	textWritten := func(want string) bool {
		for _, op := range f.Ops {
			if strings.Contains(op, want) {
				return true
			}
		}
		return false
	}
	if !textWritten(`"count:0"`) {
		t.Fatalf("bootstrap did not render initial state: %v", f.Ops)
	}

	state.Count = 7
	ref.MarkForCheck()
	if err := rt.TickAll(); err != nil {
		t.Fatalf("TickAll: %v", err)
	}
	if !textWritten(`"count:7"`) {
		t.Fatalf("tick did not propagate state: %v", f.Ops)
	}
}

func TestBootstrapValidation(t *testing.T) {
	rt := New()
	if _, err := rt.Bootstrap(counterDef(), nil, nil); err == nil {
		t.Fatal("bootstrap without renderer factory must fail")
	}

	rt = New(WithRendererFactory(rendertest.NewFactory()))
	if _, err := rt.Bootstrap(&decl.ComponentDef{}, nil, nil); err == nil {
		t.Fatal("bootstrap without template must fail")
	}
}

func TestRenderCycleHooksBracketRefresh(t *testing.T) {
	f := rendertest.NewFactory()
	rt := New(WithRendererFactory(f))
	defer rt.Close()

	ref, err := rt.Bootstrap(counterDef(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	begun, ended := f.Begun, f.Ended
	if err := ref.DetectChanges(); err != nil {
		t.Fatal(err)
	}
	if f.Begun != begun+1 || f.Ended != ended+1 {
		t.Fatalf("begin/end = %d/%d, want both incremented", f.Begun, f.Ended)
	}

	// End still runs when the pass panics out of user code.
	ref.Component().(*counterState).boom = true
	if err := ref.DetectChanges(); err == nil {
		t.Fatal("exploding template should surface an error")
	}
	if f.Ended != ended+2 {
		t.Fatal("End skipped on the failure path")
	}
}

type capturingHandler struct {
	seen []error
}

func (h *capturingHandler) HandleError(err error) {
	h.seen = append(h.seen, err)
}

func TestErrorHandlerSeesUserPanics(t *testing.T) {
	f := rendertest.NewFactory()
	handler := &capturingHandler{}
	rt := New(WithRendererFactory(f), WithErrorHandler(handler))
	defer rt.Close()

	ref, err := rt.Bootstrap(counterDef(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	ref.Component().(*counterState).boom = true
	err = ref.DetectChanges()
	if err == nil {
		t.Fatal("error should also return to the caller")
	}
	if len(handler.seen) != 1 {
		t.Fatalf("handler saw %d errors, want 1", len(handler.seen))
	}
	var rtErr *errors.Error
	if !stderrors.As(err, &rtErr) || rtErr.Kind != errors.KindUserCode {
		t.Fatalf("unexpected error: %v", err)
	}

	// The next tick starts from clean traversal state.
	ref.Component().(*counterState).boom = false
	ref.Component().(*counterState).Count = 1
	ref.MarkForCheck()
	if err := ref.DetectChanges(); err != nil {
		t.Fatalf("recovery tick failed: %v", err)
	}
}

func TestDetachReattach(t *testing.T) {
	f := rendertest.NewFactory()
	rt := New(WithRendererFactory(f))
	defer rt.Close()

	ref, err := rt.Bootstrap(counterDef(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	state := ref.Component().(*counterState)

	ref.Detach()
	state.Count = 42
	if err := rt.TickAll(); err != nil {
		t.Fatal(err)
	}
	for _, op := range f.Ops {
		if strings.Contains(op, "42") {
			t.Fatal("detached root refreshed on tick")
		}
	}

	ref.Reattach()
	if err := rt.TickAll(); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, op := range f.Ops {
		if strings.Contains(op, `"count:42"`) {
			found = true
		}
	}
	if !found {
		t.Fatal("reattached root did not catch up")
	}
}

func TestDestroyAndClose(t *testing.T) {
	f := rendertest.NewFactory()
	rt := New(WithRendererFactory(f))

	ref, err := rt.Bootstrap(counterDef(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	destroyed := 0
	ref.OnDestroy(func() { destroyed++ })

	ref.Destroy()
	if !ref.Destroyed() || destroyed != 1 {
		t.Fatalf("destroyed=%v callbacks=%d", ref.Destroyed(), destroyed)
	}
	ref.Destroy()
	if destroyed != 1 {
		t.Fatal("OnDestroy re-fired")
	}

	if err := ref.DetectChanges(); err == nil {
		t.Fatal("refresh of a destroyed ref must error")
	}
	var rtErr *errors.Error
	if !stderrors.As(ref.DetectChanges(), &rtErr) || rtErr.Kind != errors.KindViewDestroyed {
		t.Fatal("wrong error kind for destroyed view")
	}

	// Close destroys what remains.
	ref2, err := rt.Bootstrap(counterDef(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !ref2.Destroyed() {
		t.Fatal("Close left a live root")
	}
}

func TestCheckNoChangesThroughRef(t *testing.T) {
	f := rendertest.NewFactory()
	rt := New(WithRendererFactory(f))
	defer rt.Close()

	ref, err := rt.Bootstrap(counterDef(), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := ref.CheckNoChanges(); err != nil {
		t.Fatalf("stable state flagged: %v", err)
	}

	ref.Component().(*counterState).Count = 9
	err = ref.CheckNoChanges()
	if err == nil {
		t.Fatal("mutation between refreshes must be flagged")
	}
	var ece *errors.ExpressionChangedError
	if !stderrors.As(err, &ece) {
		t.Fatalf("unexpected error: %v", err)
	}
}
