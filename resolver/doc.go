// Package resolver matches directive definitions against node descriptors
// and computes the alias tables that route template inputs and outputs to
// directive instances.
//
// Resolution runs exactly once per node, during the owning shape's first
// creation pass. Its results (directive ranges, merged attributes, alias
// maps, hook schedules, host-binding opcodes) are recorded on the TView and
// TNode, so every later instance of the template reuses them without
// re-matching.
//
// # Ordering
//
// The match list is ordered so lifecycle hooks fire in the contract order:
// a component is moved to the front of its node's matches, host directives
// of a definition run before that definition, and plain directives keep
// registry order.
package resolver
