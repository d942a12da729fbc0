package main

import (
	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/engine"
)

// The demo app is a hand-compiled component pair: the definitions and
// template functions below are what a template compiler would emit for
//
//	<section class="app">
//	  <h1>{.Label} count: {.Count}</h1>
//	  <button (click)="Increment()">increment</button>
//	  <demo-badge [value]="Count"/>
//	</section>
//
// with demo-badge an on-push component carrying a host class binding.

// CounterApp is the root component state.
type CounterApp struct {
	Label string
	Count int
}

// Increment is the click handler target.
func (a *CounterApp) Increment() {
	a.Count++
}

// Badge is the on-push child component.
type Badge struct {
	Value   int
	Inits   int
	Checks  int
	Changes int
}

func mustSelector(s string) decl.SelectorList {
	sel, err := decl.ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

func badgeDef() *decl.ComponentDef {
	return &decl.ComponentDef{
		DirectiveDef: decl.DirectiveDef{
			TypeName:  "Badge",
			Token:     "demo.Badge",
			Factory:   func() any { return &Badge{} },
			Selectors: mustSelector("demo-badge"),
			Inputs:    map[string]string{"value": "Value"},
			SetInput: func(dir any, value any, public, private string) {
				dir.(*Badge).Value = value.(int)
			},
			HostVars: 1,
			HostBindings: func(rf decl.RenderFlags, dir any) {
				engine.ClassProp("hot", dir.(*Badge).Value > 9)
			},
			Hooks: decl.HasOnInit | decl.HasDoCheck | decl.HasOnChanges,
			OnInit: func(dir any) {
				dir.(*Badge).Inits++
			},
			DoCheck: func(dir any) {
				dir.(*Badge).Checks++
			},
			OnChanges: func(dir any, changes decl.Changes) {
				dir.(*Badge).Changes += len(changes)
			},
		},
		Template: badgeTemplate,
		Decls:    2,
		Vars:     1,
		OnPush:   true,
	}
}

func badgeTemplate(rf decl.RenderFlags, ctx any) {
	if rf&decl.Create != 0 {
		engine.ElementStart(0, "span", -1, -1)
		engine.Text(1, "")
		engine.ElementEnd()
	}
	if rf&decl.Update != 0 {
		badge := ctx.(*Badge)
		engine.Advance(1)
		engine.TextInterpolate1("badge:", badge.Value, "")
	}
}

func appDef() *decl.ComponentDef {
	badge := badgeDef()
	return &decl.ComponentDef{
		DirectiveDef: decl.DirectiveDef{
			TypeName:  "CounterApp",
			Token:     "demo.CounterApp",
			Factory:   func() any { return &CounterApp{Label: "demo"} },
			Selectors: mustSelector("demo-app"),
		},
		Template:      appTemplate,
		Decls:         6,
		Vars:          3,
		DirectiveDefs: []*decl.DirectiveDef{badge.Dir()},
		Consts: [][]any{
			{"class", "app"},
		},
	}
}

func appTemplate(rf decl.RenderFlags, ctx any) {
	app, _ := ctx.(*CounterApp)
	if rf&decl.Create != 0 {
		engine.ElementStart(0, "section", 0, -1)
		engine.ElementStart(1, "h1", -1, -1)
		engine.Text(2, "")
		engine.ElementEnd()
		engine.ElementStart(3, "button", -1, -1)
		engine.Listener("click", func(any) { app.Increment() })
		engine.Text(4, "increment")
		engine.ElementEnd()
		engine.Element(5, "demo-badge", -1, -1)
		engine.ElementEnd()
	}
	if rf&decl.Update != 0 {
		engine.Advance(2)
		engine.TextInterpolate2("", app.Label, " count: ", app.Count, "")
		engine.Advance(3)
		engine.Property("value", app.Count)
	}
}
