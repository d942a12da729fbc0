package decl

import (
	viewruntime "github.com/wippyai/view-runtime"
)

// RenderFlags selects which half of a template function runs.
type RenderFlags uint8

const (
	// Create materializes nodes and instantiates directives. Runs once per
	// view instance.
	Create RenderFlags = 1 << 0
	// Update evaluates bindings against the view's binding slots.
	Update RenderFlags = 1 << 1
)

// TemplateFn is a compiled template. It must be idempotent across calls with
// equal flags and slot state.
type TemplateFn func(rf RenderFlags, ctx any)

// HostBindingsFn evaluates a directive's host bindings. Only ever invoked
// with Update by the opcode interpreter; creation-time host setup is encoded
// in HostAttrs.
type HostBindingsFn func(rf RenderFlags, dir any)

// ViewQueryFn executes a component's view queries.
type ViewQueryFn func(rf RenderFlags, ctx any)

// ContentQueriesFn executes a directive's content queries.
type ContentQueriesFn func(rf RenderFlags, ctx any, directiveIndex int)

// FactoryFn creates a directive or pipe instance.
type FactoryFn func() any

// SetInputFn writes one input on a directive instance. When nil the runtime
// falls back to the instance's InputSink implementation, keyed by the
// private name.
type SetInputFn func(dir any, value any, publicName, privateName string)

// HookFlags is the capability bitset describing which lifecycle hooks a
// directive implements. Populated by the compiler; the runtime never checks
// prototypes or reflects.
type HookFlags uint16

const (
	HasOnChanges HookFlags = 1 << iota
	HasOnInit
	HasDoCheck
	HasAfterContentInit
	HasAfterContentChecked
	HasAfterViewInit
	HasAfterViewChecked
	HasOnDestroy
)

// Change describes one input transition observed between refreshes.
type Change struct {
	Previous    any
	Current     any
	FirstChange bool
}

// Changes maps private input names to their latest transition.
type Changes map[string]Change

// HostDirectiveDef attaches a standalone directive to a host component or
// directive. The alias maps are both an allow-list and a renaming: only
// listed public names are exposed on the host, under the mapped name.
type HostDirectiveDef struct {
	Def     *DirectiveDef
	Inputs  map[string]string // host public name -> directive public name
	Outputs map[string]string
}

// DirectiveDef is the compiled form of a directive.
type DirectiveDef struct {
	// TypeName identifies the directive in diagnostics.
	TypeName string

	// Token is the dependency-injection token published to the node
	// injector for this directive.
	Token any

	Factory   FactoryFn
	Selectors SelectorList

	// Inputs and Outputs map public (template-facing) names to private
	// (instance field) names.
	Inputs  map[string]string
	Outputs map[string]string

	ExportAs []string

	HostBindings HostBindingsFn
	HostVars     int
	// HostAttrs is a marker-encoded static attribute list merged onto the
	// host node, lowest priority first.
	HostAttrs []any

	ContentQueries ContentQueriesFn

	Hooks               HookFlags
	OnChanges           func(dir any, changes Changes)
	OnInit              func(dir any)
	DoCheck             func(dir any)
	AfterContentInit    func(dir any)
	AfterContentChecked func(dir any)
	AfterViewInit       func(dir any)
	AfterViewChecked    func(dir any)
	OnDestroy           func(dir any)

	SetInput SetInputFn

	// HostDirectives lists directives applied to every host of this
	// directive. They match before (and therefore initialize before) the
	// declaring directive.
	HostDirectives []HostDirectiveDef

	// FindHostDirectiveDefs, when set, expands HostDirectives recursively.
	// The default expansion walks HostDirectives depth-first.
	FindHostDirectiveDefs func(def *DirectiveDef, matches *[]*DirectiveDef, aliases map[*DirectiveDef]*HostDirectiveDef)

	// Component points back at the owning component definition when this
	// entry is a component's directive half. Set by ComponentDef.Dir.
	Component *ComponentDef
}

// IsComponent reports whether the definition is a component definition.
func (d *DirectiveDef) IsComponent() bool { return d.Component != nil }

// SchemaMetadata names a schema that relaxes unknown-property checking.
type SchemaMetadata string

const (
	// NoErrorsSchema allows any property on any element.
	NoErrorsSchema SchemaMetadata = "no-errors-schema"
	// CustomElementsSchema allows any property on elements with a dash in
	// the tag name.
	CustomElementsSchema SchemaMetadata = "custom-elements-schema"
)

// ComponentDef is the compiled form of a component. It extends DirectiveDef
// with a template and per-template metadata.
type ComponentDef struct {
	DirectiveDef

	Template TemplateFn

	// Decls and Vars size the node and binding regions of the view buffer.
	Decls int
	Vars  int

	ViewQuery ViewQueryFn

	// StaticViewQuery and StaticContentQueries mark queries whose results
	// are fully known after the creation pass; the runtime resolves them
	// once there instead of on every refresh.
	StaticViewQuery      bool
	StaticContentQueries bool

	// OnPush components are refreshed only when dirty; the default is
	// check-always.
	OnPush bool

	// DirectiveDefs and PipeDefs register what the template may match.
	// Either the eager slice or the deferred factory may be set; the
	// factory wins and is invoked once on first use.
	DirectiveDefs   []*DirectiveDef
	DirectiveDefsFn func() []*DirectiveDef
	PipeDefs        []*PipeDef
	PipeDefsFn      func() []*PipeDef

	// Consts holds compiler-emitted constant attribute arrays. ConstsFn,
	// when set, is invoked once on first use.
	Consts   [][]any
	ConstsFn func() [][]any

	Schemas []SchemaMetadata

	// RendererType is passed to the renderer factory when the component's
	// renderer is created.
	RendererType *viewruntime.RendererType

	// ID uniquely identifies the compiled component.
	ID string

	// TViewCache is runtime-owned storage for the component's compiled
	// shape. Definitions never populate it.
	TViewCache any
}

func (d *ComponentDef) IsComponent() bool { return true }

// Dir returns the directive half of the component for registry use, wiring
// the back-pointer so matchers can recognize component entries.
func (d *ComponentDef) Dir() *DirectiveDef {
	d.DirectiveDef.Component = d
	return &d.DirectiveDef
}

// ResolveDirectiveDefs returns the directive registry, invoking the deferred
// factory at most once.
func (d *ComponentDef) ResolveDirectiveDefs() []*DirectiveDef {
	if d.DirectiveDefsFn != nil {
		d.DirectiveDefs = d.DirectiveDefsFn()
		d.DirectiveDefsFn = nil
	}
	return d.DirectiveDefs
}

// ResolvePipeDefs returns the pipe registry, invoking the deferred factory
// at most once.
func (d *ComponentDef) ResolvePipeDefs() []*PipeDef {
	if d.PipeDefsFn != nil {
		d.PipeDefs = d.PipeDefsFn()
		d.PipeDefsFn = nil
	}
	return d.PipeDefs
}

// ResolveConsts returns the constant pool, invoking the deferred factory at
// most once.
func (d *ComponentDef) ResolveConsts() [][]any {
	if d.ConstsFn != nil {
		d.Consts = d.ConstsFn()
		d.ConstsFn = nil
	}
	return d.Consts
}

// InputSink is the fallback write path for directive inputs when a
// definition carries no SetInput function: the instance accepts the value
// under its private name.
type InputSink interface {
	SetInput(private string, value any)
}

// EventEmitter is the minimal subscribable used for directive outputs.
// Emit delivers synchronously to every subscriber in subscription order.
type EventEmitter struct {
	handlers []*func(any)
}

// Emit delivers a value to all current subscribers.
func (e *EventEmitter) Emit(value any) {
	for _, h := range e.handlers {
		if h != nil {
			(*h)(value)
		}
	}
}

// Subscribe registers a handler and returns its unsubscribe function.
func (e *EventEmitter) Subscribe(fn func(any)) func() {
	h := &fn
	e.handlers = append(e.handlers, h)
	return func() {
		for i, cur := range e.handlers {
			if cur == h {
				e.handlers = append(e.handlers[:i], e.handlers[i+1:]...)
				return
			}
		}
	}
}

// OutputSource exposes a directive's output emitters by private name.
// Instances with outputs implement it; listeners reach outputs only through
// this interface.
type OutputSource interface {
	Output(private string) *EventEmitter
}

// PipeTransform is implemented by pipe instances.
type PipeTransform interface {
	Transform(value any, args ...any) any
}

// PipeDef is the compiled form of a pipe.
type PipeDef struct {
	Name    string
	Factory FactoryFn
	// Pure pipes are re-evaluated only when an argument changes.
	Pure      bool
	OnDestroy func(pipe any)
}
