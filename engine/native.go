package engine

import (
	viewruntime "github.com/wippyai/view-runtime"
	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/view"
)

// nativeParentNode resolves the renderer node a new child should attach
// under. Element containers are transparent: their children attach to the
// nearest real ancestor. Top-level nodes of component and root views attach
// to the host element; top-level nodes of embedded views attach on
// insertion instead.
func nativeParentNode(tView *view.TView, lView *view.LView, tNode *view.TNode) viewruntime.NativeElement {
	parent := tNode.Parent
	for parent != nil && parent.Type&(view.TypeElementContainer|view.TypeIcu) != 0 {
		parent = parent.Parent
	}
	if parent == nil {
		if tView.Type == view.TViewEmbedded {
			return nil
		}
		return lView.Host()
	}
	if parent.Type&view.TypeElement != 0 {
		return view.UnwrapNative(lView.At(parent.Index))
	}
	return nil
}

// appendChildNative attaches a freshly created node under its shape parent.
func appendChildNative(tView *view.TView, lView *view.LView, child viewruntime.NativeElement, tNode *view.TNode) {
	renderer := lView.Renderer()
	if renderer == nil {
		return
	}
	parent := nativeParentNode(tView, lView, tNode)
	if parent == nil {
		return
	}
	renderer.AppendChild(parent, child)
}

// applyStaticAttrs writes a marker-encoded attribute array to a native
// element: plain attributes, then classes, then styles. Binding and
// template sections are matching metadata, never written.
func applyStaticAttrs(renderer viewruntime.Renderer, native viewruntime.NativeElement, attrs []any) {
	if renderer == nil {
		return
	}
	mode := -1
	i := 0
	for i < len(attrs) {
		if m, ok := attrs[i].(decl.AttrMarker); ok {
			mode = int(m)
			i++
			continue
		}
		switch mode {
		case -1:
			name, _ := attrs[i].(string)
			value := ""
			if i+1 < len(attrs) {
				value, _ = attrs[i+1].(string)
			}
			renderer.SetAttribute(native, name, value, "")
			i += 2
		case int(decl.MarkerNamespaceURI):
			if i+2 < len(attrs) {
				ns, _ := attrs[i].(string)
				name, _ := attrs[i+1].(string)
				value, _ := attrs[i+2].(string)
				renderer.SetAttribute(native, name, value, ns)
			}
			i += 3
		case int(decl.MarkerClasses):
			if name, ok := attrs[i].(string); ok {
				renderer.AddClass(native, name)
			}
			i++
		case int(decl.MarkerStyles):
			name, _ := attrs[i].(string)
			value := ""
			if i+1 < len(attrs) {
				value, _ = attrs[i+1].(string)
			}
			renderer.SetStyle(native, name, value)
			i += 2
		default:
			i++
		}
	}
}

// viewRootNatives collects the top-level renderer nodes of a view, in shape
// order. Used when inserting or removing embedded views.
func viewRootNatives(tView *view.TView, lView *view.LView) []viewruntime.NativeElement {
	var out []viewruntime.NativeElement
	for tNode := tView.FirstChild; tNode != nil; tNode = tNode.Next {
		collectNatives(lView, tNode, &out)
	}
	return out
}

func collectNatives(lView *view.LView, tNode *view.TNode, out *[]viewruntime.NativeElement) {
	switch {
	case tNode.Type&view.TypeElementContainer != 0:
		if anchor := view.UnwrapNative(lView.At(tNode.Index)); anchor != nil {
			*out = append(*out, anchor)
		}
		for child := tNode.Child; child != nil; child = child.Next {
			collectNatives(lView, child, out)
		}
	default:
		if native := view.UnwrapNative(lView.At(tNode.Index)); native != nil {
			*out = append(*out, native)
		}
	}
}
