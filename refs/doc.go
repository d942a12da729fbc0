// Package refs provides a generation-counted handle table for live view
// references.
//
// The runtime hands embedders opaque handles instead of pointers into the
// view tree. A handle encodes a table index plus a generation counter; when
// a view is destroyed and its slot reused, stale handles held by the
// embedder fail to resolve instead of reaching a recycled view.
//
//	table := refs.NewTable()
//
//	// Register a live value, get a handle
//	h := table.Insert(viewRef)
//
//	// Resolve later; fails for destroyed/recycled slots
//	v, ok := table.Get(h)
//
//	// Drop on destruction
//	table.Remove(h)
//
// Values may implement Dropper to run teardown when removed or when the
// table closes. Close runs every remaining Dropper and aggregates failures.
package refs
