package viewruntime

// NativeElement is an opaque handle to a node owned by the embedding host.
// The runtime never inspects it; it only threads it through Renderer calls.
type NativeElement = any

// Renderer performs all mutations of host nodes on behalf of the runtime.
// Implementations are supplied by the embedder (a DOM bridge, a terminal
// renderer, a recording test renderer).
type Renderer interface {
	// CreateElement creates a host element with the given tag name.
	// Namespace is empty for the default namespace.
	CreateElement(name, namespace string) NativeElement

	// CreateText creates a host text node with initial contents.
	CreateText(value string) NativeElement

	// CreateComment creates an anchor comment node. Containers use these
	// as insertion anchors for embedded views.
	CreateComment(value string) NativeElement

	// SelectRootElement resolves a bootstrap host from a selector or an
	// already-resolved node. When preserveContent is false the existing
	// children of the host are removed.
	SelectRootElement(selectorOrNode any, preserveContent bool) NativeElement

	SetProperty(el NativeElement, name string, value any)
	SetAttribute(el NativeElement, name, value, namespace string)
	RemoveAttribute(el NativeElement, name, namespace string)

	// SetValue replaces the text contents of a text or comment node.
	SetValue(node NativeElement, value string)

	AddClass(el NativeElement, name string)
	RemoveClass(el NativeElement, name string)
	SetStyle(el NativeElement, style, value string)
	RemoveStyle(el NativeElement, style string)

	AppendChild(parent, child NativeElement)
	InsertBefore(parent, child, ref NativeElement)
	RemoveChild(parent, child NativeElement)

	// Listen subscribes to a host event and returns the unsubscribe
	// function. The runtime records the returned function in the view's
	// cleanup list and invokes it at destruction.
	Listen(el NativeElement, event string, handler func(event any)) func()

	// Destroy releases renderer-held resources for one component view.
	Destroy()
}

// RendererType carries the compiler-emitted styling/encapsulation metadata a
// factory may use when creating a component's renderer. All fields may be
// zero for the default renderer.
type RendererType struct {
	ID     string
	Styles []string
	Data   map[string]any
}

// RendererFactory creates renderers for component views. The host element is
// the component's host node; typ is nil for the root view's top-level
// renderer.
type RendererFactory interface {
	CreateRenderer(host NativeElement, typ *RendererType) Renderer
}

// RenderCycleHooks is optionally implemented by a RendererFactory that wants
// to bracket each top-level change-detection cycle, e.g. to batch host
// mutations. End is guaranteed to run on every exit path, including panics
// out of user code.
type RenderCycleHooks interface {
	Begin()
	End()
}

// InjectFlags modify token resolution behavior.
type InjectFlags uint8

const (
	InjectDefault  InjectFlags = 0
	InjectOptional InjectFlags = 1 << iota
	InjectSkipSelf
	InjectSelf
	InjectHost
)

// Injector resolves dependency tokens. The runtime publishes every matched
// directive type into the node injector tree; everything else about the
// container is the embedder's concern.
type Injector interface {
	Get(token any, defaultValue any, flags InjectFlags) any
}

// SanitizerFn is invoked immediately before a property assignment the
// compiler marked as risky. It returns the value to actually assign.
type SanitizerFn func(value any, tagName, propName string) any

// ErrorHandler receives user-code panics caught at the top-level change
// detection entry. The runtime reports and then still propagates the error
// to the caller.
type ErrorHandler interface {
	HandleError(err error)
}
