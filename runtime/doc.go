// Package runtime provides the high-level API for bootstrapping compiled
// components and driving change detection.
//
// # Quick Start
//
//	rt := runtime.New(runtime.WithRendererFactory(factory))
//	defer rt.Close()
//
//	ref, err := rt.Bootstrap(appDef, "#app", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// mutate component state, then:
//	ref.MarkForCheck()
//	rt.TickAll()
//
// # Error Handling
//
// User-code panics out of templates, hooks and host bindings unwind through
// the engine (which restores its cursors on the way) and surface here as
// errors. An installed ErrorHandler sees every such error before it is
// returned to the caller.
//
// # Thread Safety
//
// A Runtime and everything bootstrapped from it must be driven from a
// single goroutine.
package runtime
