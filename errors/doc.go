// Package errors provides structured error types for the view-runtime library.
//
// Errors are categorized by Phase (which pass the error occurred in) and Kind
// (error category). The Error type includes rich context: the owning node's
// tag, the property involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResolve, errors.KindExportNotFound).
//		Node("div").
//		Detail("export %q not found", name).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ExportNotFound("div", "myRef")
//	err := errors.UnknownProperty("my-widget", "foo")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
