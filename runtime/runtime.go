package runtime

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	viewruntime "github.com/wippyai/view-runtime"
	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/engine"
	"github.com/wippyai/view-runtime/errors"
	"github.com/wippyai/view-runtime/refs"
	"github.com/wippyai/view-runtime/view"
)

// Runtime owns the bootstrapped root views and the collaborators every view
// below them inherits.
type Runtime struct {
	rendererFactory viewruntime.RendererFactory
	sanitizer       viewruntime.SanitizerFn
	errorHandler    viewruntime.ErrorHandler
	injector        viewruntime.Injector
	roots           *refs.Table
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithRendererFactory supplies the factory used for the root renderer and
// every component renderer below it.
func WithRendererFactory(f viewruntime.RendererFactory) Option {
	return func(r *Runtime) { r.rendererFactory = f }
}

// WithSanitizer installs the value sanitizer for risky property bindings.
func WithSanitizer(s viewruntime.SanitizerFn) Option {
	return func(r *Runtime) { r.sanitizer = s }
}

// WithErrorHandler installs the handler that observes user-code errors
// caught at the change-detection entry points.
func WithErrorHandler(h viewruntime.ErrorHandler) Option {
	return func(r *Runtime) { r.errorHandler = h }
}

// WithInjector supplies the root injector.
func WithInjector(i viewruntime.Injector) Option {
	return func(r *Runtime) { r.injector = i }
}

// New creates a Runtime. A renderer factory must be supplied before
// bootstrapping.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		roots: refs.NewTable(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Bootstrap creates the root view for a compiled component, runs the
// creation pass and the first refresh, and returns a stable reference.
//
// hostSelectorOrNode is resolved through the renderer; context is stored on
// the root view for embedder use and is not the component instance.
func (r *Runtime) Bootstrap(def *decl.ComponentDef, hostSelectorOrNode any, context any) (ref *ViewRef, err error) {
	if r.rendererFactory == nil {
		return nil, errors.InvalidInput(errors.PhaseBootstrap, "no renderer factory configured")
	}
	if def == nil || def.Template == nil {
		return nil, errors.InvalidInput(errors.PhaseBootstrap, "component definition has no template")
	}

	tag := rootTag(def)
	rootRenderer := r.rendererFactory.CreateRenderer(nil, nil)
	hostNative := rootRenderer.SelectRootElement(hostSelectorOrNode, false)

	// The root shape is a one-element synthetic template hosting the
	// component, so bootstrap reuses the ordinary creation machinery.
	rootTView := view.NewTView(view.TViewRoot, nil, rootTemplate(tag), 1, 0,
		[]*decl.DirectiveDef{def.Dir()}, nil, nil, nil, nil, def.Schemas, nil, nil)

	rootLView := view.NewLView(nil, rootTView, context,
		view.FlagCheckAlways|view.FlagIsRoot, hostNative, nil,
		r.rendererFactory, rootRenderer, r.sanitizer, r.injector, nil)

	defer func() {
		if rec := recover(); rec != nil {
			err = r.reportError(errors.PhaseCreate, rec)
		}
	}()

	engine.RenderView(rootTView, rootLView, context)
	engine.RefreshView(rootTView, rootLView, rootTView.Template, context)

	ref = &ViewRef{runtime: r, lView: rootLView}
	ref.handle = r.roots.Insert(ref)

	Logger().Info("component bootstrapped",
		zap.String("component", def.TypeName),
		zap.String("view", rootLView.ID()))
	return ref, nil
}

// TickAll refreshes every attached root view, continuing past per-root
// failures and aggregating their errors.
func (r *Runtime) TickAll() error {
	var err error
	r.roots.Each(func(_ refs.Handle, v any) bool {
		ref := v.(*ViewRef)
		if ref.lView.IsAttached() {
			err = multierr.Append(err, ref.DetectChanges())
		}
		return true
	})
	return err
}

// Close destroys every root view, aggregating teardown failures. The
// runtime accepts no work afterwards.
func (r *Runtime) Close() error {
	return r.roots.Close()
}

// reportError normalizes a recovered panic, shows it to the installed
// handler, and returns it.
func (r *Runtime) reportError(phase errors.Phase, rec any) error {
	err, ok := rec.(error)
	if !ok {
		err = errors.UserCode(phase, fmt.Errorf("%v", rec))
	}
	if r.errorHandler != nil {
		r.errorHandler.HandleError(err)
	}
	return err
}

// rootTag picks the element tag the bootstrapped component is stamped as.
func rootTag(def *decl.ComponentDef) string {
	for _, sel := range def.Selectors {
		if sel.Element != "" && sel.Element != "*" {
			return sel.Element
		}
	}
	return "div"
}

// rootTemplate renders the single host element of a root view.
func rootTemplate(tag string) decl.TemplateFn {
	return func(rf decl.RenderFlags, ctx any) {
		if rf&decl.Create != 0 {
			engine.Element(0, tag, -1, -1)
		}
	}
}
