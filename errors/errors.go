package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which pass the error occurred in
type Phase string

const (
	PhaseBootstrap Phase = "bootstrap" // root view construction
	PhaseCreate    Phase = "create"    // creation pass
	PhaseRefresh   Phase = "refresh"   // refresh pass
	PhaseResolve   Phase = "resolve"   // directive matching and aliasing
	PhaseHostBind  Phase = "hostbind"  // host-binding opcode execution
	PhaseCheck     Phase = "check"     // check-no-changes verification
	PhaseDestroy   Phase = "destroy"   // view teardown
)

// Kind categorizes the error
type Kind string

const (
	KindExportNotFound     Kind = "export_not_found"
	KindMultipleComponents Kind = "multiple_components"
	KindUnknownProperty    Kind = "unknown_property"
	KindExpressionChanged  Kind = "expression_changed"
	KindViewDestroyed      Kind = "view_destroyed"
	KindInvalidInput       Kind = "invalid_input"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindNotFound           Kind = "not_found"
	KindReentry            Kind = "reentry"
	KindTypeUpgrade        Kind = "type_upgrade"
	KindInvalidOpCodes     Kind = "invalid_opcodes"
	KindUserCode           Kind = "user_code"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	NodeTag  string
	Property string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.NodeTag != "" {
		b.WriteString(" on <")
		b.WriteString(e.NodeTag)
		b.WriteByte('>')
	}

	if e.Property != "" {
		b.WriteString(" property ")
		b.WriteString(e.Property)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Node sets the owning node's tag name
func (b *Builder) Node(tag string) *Builder {
	b.err.NodeTag = tag
	return b
}

// Property sets the property name involved
func (b *Builder) Property(name string) *Builder {
	b.err.Property = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ExportNotFound reports a local-ref export name that no matched directive
// declares.
func ExportNotFound(tag, export string) *Error {
	return &Error{
		Phase:   PhaseResolve,
		Kind:    KindExportNotFound,
		NodeTag: tag,
		Detail:  fmt.Sprintf("export %q not found", export),
		Value:   export,
	}
}

// UnknownProperty reports a property binding on an element whose schema does
// not allow it.
func UnknownProperty(tag, prop string) *Error {
	return &Error{
		Phase:    PhaseRefresh,
		Kind:     KindUnknownProperty,
		NodeTag:  tag,
		Property: prop,
		Detail:   fmt.Sprintf("%q is not a known property of <%s>", prop, tag),
	}
}

// ViewDestroyed reports an operation attempted on a destroyed view.
func ViewDestroyed(phase Phase, op string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindViewDestroyed,
		Detail: fmt.Sprintf("cannot %s a destroyed view", op),
	}
}

// Reentry reports a frame pushed for a view that already has an active frame.
func Reentry(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindReentry,
		Detail: "view is already being processed",
	}
}

// OutOfBounds reports a slot index outside the view buffer.
func OutOfBounds(phase Phase, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// TypeUpgrade reports an attempted node-type mutation other than the
// placeholder one-shot upgrade.
func TypeUpgrade(tag string, from, to string) *Error {
	return &Error{
		Phase:   PhaseCreate,
		Kind:    KindTypeUpgrade,
		NodeTag: tag,
		Detail:  fmt.Sprintf("cannot change node type %s to %s", from, to),
	}
}

// UserCode wraps a panic recovered from template, hook, or host-binding code.
func UserCode(phase Phase, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUserCode,
		Detail: "user code failed",
		Cause:  cause,
	}
}

// MultipleComponentsError is returned when more than one component definition
// matches a single host element.
type MultipleComponentsError struct {
	Tag   string
	Types []string
}

// NewMultipleComponentsError creates an error naming every matching component
// type, in match order.
func NewMultipleComponentsError(tag string, types []string) *MultipleComponentsError {
	return &MultipleComponentsError{Tag: tag, Types: types}
}

func (e *MultipleComponentsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[resolve] multiple_components: %d components match <%s>:", len(e.Types), e.Tag)
	for _, t := range e.Types {
		b.WriteString("\n  - ")
		b.WriteString(t)
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *MultipleComponentsError) Is(target error) bool {
	_, ok := target.(*MultipleComponentsError)
	return ok
}

// ExpressionChangedError is raised by check-no-changes mode when a binding
// produced a different value in the verification pass.
type ExpressionChangedError struct {
	OldValue any
	NewValue any
	Property string
	NodeTag  string
	FirstRun bool
}

func (e *ExpressionChangedError) Error() string {
	var b strings.Builder
	b.WriteString("[check] expression_changed: expression has changed after it was checked")
	if e.Property != "" {
		fmt.Fprintf(&b, " for %q", e.Property)
	}
	if e.NodeTag != "" {
		fmt.Fprintf(&b, " on <%s>", e.NodeTag)
	}
	fmt.Fprintf(&b, ": previous value %v, current value %v", e.OldValue, e.NewValue)
	if e.FirstRun {
		b.WriteString(". The binding was never checked before; a value was likely produced during the first refresh")
	}
	return b.String()
}

// Is reports whether target matches this error type
func (e *ExpressionChangedError) Is(target error) bool {
	_, ok := target.(*ExpressionChangedError)
	return ok
}
