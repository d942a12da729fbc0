// Package viewruntime provides the core of a component-based reactive view
// runtime: the data structures and traversal passes that turn compiled view
// definitions into live view trees and keep them consistent through change
// detection.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	viewruntime/         Root package with Renderer, Injector and Sanitizer interfaces
//	├── runtime/         High-level API for bootstrapping components and driving ticks
//	├── engine/          Creation/refresh passes, host-binding interpreter, instructions
//	├── view/            Shape table (TView), instance buffer (LView), nodes, containers
//	├── resolver/        Directive matching and input/output alias resolution
//	├── decl/            Compiler-produced definition contract (components, directives, pipes)
//	├── refs/            Generation-counted handle table for live view references
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
// Bootstrap a compiled component and drive change detection:
//
//	rt := runtime.New(runtime.WithRendererFactory(factory))
//	ref, err := rt.Bootstrap(appDef, hostElement, appState)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ref.Destroy()
//
//	appState.Counter++
//	ref.MarkForCheck()
//	rt.TickAll()
//
// # Shape/Instance Split
//
// A TView is built once per template and shared by every instance; an LView is
// stamped from the TView blueprint per instance. The first creation pass both
// renders the first instance and finishes populating the shared shape, so the
// first instance is the expensive one and later instances reuse everything.
//
// # Thread Safety
//
// The runtime is single-threaded by design. All passes over a view tree must
// run on one goroutine; in dev mode the traversal frame stack is pinned to its
// owning goroutine and misuse panics. Asynchronous work completes by
// scheduling a fresh tick, never by touching a view tree from another
// goroutine.
package viewruntime
