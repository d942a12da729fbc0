package engine

import (
	"strings"
	"testing"

	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/internal/rendertest"
)

type upperPipe struct {
	calls int
}

func (p *upperPipe) Transform(value any, args ...any) any {
	p.calls++
	return strings.ToUpper(value.(string))
}

func TestPurePipeMemoization(t *testing.T) {
	pipeInstance := &upperPipe{}
	pipeDef := &decl.PipeDef{
		Name:    "upper",
		Pure:    true,
		Factory: func() any { return pipeInstance },
	}

	type state struct{ S string }
	// decls: text(0), pipe(1); vars: interpolation(1) + pipe arg+result(2).
	def := &decl.ComponentDef{
		DirectiveDef: decl.DirectiveDef{
			TypeName:  "Piped",
			Factory:   func() any { return &state{S: "hi"} },
			Selectors: mustSel("piped-comp"),
		},
		Decls:    2,
		Vars:     3,
		PipeDefs: []*decl.PipeDef{pipeDef},
		Template: func(rf decl.RenderFlags, c any) {
			s := c.(*state)
			if rf&decl.Create != 0 {
				Text(0, "")
				Pipe(1, "upper")
			}
			if rf&decl.Update != 0 {
				TextInterpolate(PipeBind1(1, 1, s.S))
			}
		},
	}

	f := rendertest.NewFactory()
	root := bootstrapComponent(t, def, f)
	cv := componentView(t, root)

	DetectChanges(root)
	if pipeInstance.calls != 1 {
		t.Fatalf("transform calls = %d, want 1", pipeInstance.calls)
	}
	found := false
	for _, op := range f.TakeOps() {
		if strings.Contains(op, `"HI"`) {
			found = true
		}
	}
	if !found {
		t.Fatal("pipe output not rendered")
	}

	// Unchanged argument: memoized, no second transform.
	DetectChanges(root)
	if pipeInstance.calls != 1 {
		t.Fatalf("pure pipe re-ran on unchanged input: %d calls", pipeInstance.calls)
	}

	// Changed argument re-evaluates once.
	cv.Context().(*state).S = "yo"
	DetectChanges(root)
	if pipeInstance.calls != 2 {
		t.Fatalf("transform calls = %d, want 2", pipeInstance.calls)
	}
}
