// Package decl defines the contract between the template compiler and the
// view runtime: component, directive and pipe definitions, template function
// signatures, selector lists, and attribute marker encoding.
//
// Everything in this package is produced by the compiler and treated as
// immutable by the runtime. Lifecycle hooks are declared as capability flags
// plus function fields populated from the directive type, so the runtime
// never reflects over user types.
package decl
