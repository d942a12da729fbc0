// Package engine implements the traversal passes of the view runtime.
//
// # Architecture
//
// The engine drives three kinds of work over the view/ data model:
//
//	RenderView   - creation pass: materializes nodes, instantiates
//	               directives, wires host state (runs once per LView)
//	RefreshView  - update pass: evaluates bindings, dispatches lifecycle
//	               hooks in contract order, descends into embedded and
//	               child component views
//	DestroyView  - teardown: destroy hooks, LIFO cleanup, subtree removal
//
// Template functions call back into the instruction set (ElementStart,
// Text, Property, Listener, ...) which operates on the active view frame.
//
// # View Frames
//
// All traversal state (current node, selected index, binding index) lives
// in an explicit frame stack. EnterView pushes a frame, LeaveView pops it;
// every pass maintains the pair in a deferred call so panics out of user
// code leave the stack clean. Exactly one frame per LView may be active at
// a time; re-entry is a programmer error caught in dev mode.
//
// # Ordering Contract
//
// Within one refresh the order is fixed and observable: template update,
// pre-order hooks, transplanted-view marking, embedded views, content
// queries, content hooks, host bindings, child components, view queries,
// view hooks. Host bindings run before child components so their outputs
// can feed child inputs; view queries run after children because a template
// declared here may have been inserted into a child.
//
// # Thread Safety
//
// The engine is single-threaded. In dev mode the frame stack is pinned to
// the goroutine that first used it and cross-goroutine access panics.
package engine
