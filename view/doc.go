// Package view defines the dual-buffer data model of the runtime: the shape
// table (TView) shared by every instance of a template, the per-instance
// slot buffer (LView), node descriptors (TNode), and embedded-view
// containers (LContainer).
//
// # Dual-Buffer Discipline
//
// TView.Data and every attached LView are parallel arrays: slot i of the
// LView holds the live value (native node, directive instance, binding
// value) while TView.Data[i] holds the shape entry describing it (a TNode,
// a directive definition, binding metadata). Both grow only through
// AllocExpando, which extends Data, Blueprint and the instance together, so
// the lengths never drift apart.
//
// # Sealing
//
// A TView is logically immutable once its first creation pass completes.
// Until then, appends are permitted to Data, Blueprint, the hook schedules,
// HostBindingOpCodes, Cleanup and Components; the FirstCreatePass flag is
// the write gate. TNodes seal the same way: their shape never changes across
// instances, with the single documented exception of the placeholder type
// upgrade used by late-bound i18n nodes.
package view
