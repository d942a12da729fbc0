package resolver

import (
	"strings"

	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/view"
)

// NodeAttrs is the matcher's view of a node's static attributes, extracted
// once from the marker-encoded array.
type NodeAttrs struct {
	attrs    map[string]string // plain attributes, name -> value
	bindings map[string]bool   // bound property/event names (presence only)
	classes  map[string]bool
}

// ExtractNodeAttrs splits a marker-encoded attribute array into the
// sections the matcher cares about. Template-section names are included as
// presence-only entries so inline-template selectors keep matching.
func ExtractNodeAttrs(attrs []any) NodeAttrs {
	na := NodeAttrs{
		attrs:    make(map[string]string),
		bindings: make(map[string]bool),
		classes:  make(map[string]bool),
	}

	mode := -1 // -1: plain name/value pairs
	i := 0
	for i < len(attrs) {
		if m, ok := attrs[i].(decl.AttrMarker); ok {
			mode = int(m)
			i++
			continue
		}
		name, _ := attrs[i].(string)
		switch mode {
		case -1:
			value := ""
			if i+1 < len(attrs) {
				value, _ = attrs[i+1].(string)
			}
			na.attrs[name] = value
			if name == "class" {
				for _, c := range strings.Fields(value) {
					na.classes[c] = true
				}
			}
			i += 2
		case int(decl.MarkerClasses):
			na.classes[name] = true
			i++
		case int(decl.MarkerStyles):
			i += 2
		case int(decl.MarkerBindings), int(decl.MarkerTemplate):
			na.bindings[name] = true
			i++
		case int(decl.MarkerNamespaceURI):
			// (uri, name, value); namespaced attrs never participate in
			// selector matching
			i += 3
		default:
			i++
		}
	}
	return na
}

// Matches reports whether a node with the given tag and attributes matches
// any selector in the list.
func Matches(tag string, attrs NodeAttrs, selectors decl.SelectorList) bool {
	for _, sel := range selectors {
		if matchSimple(tag, attrs, sel) {
			return true
		}
	}
	return false
}

func matchSimple(tag string, attrs NodeAttrs, sel *decl.Selector) bool {
	if sel.Element != "" && sel.Element != "*" && sel.Element != tag {
		return false
	}
	for _, class := range sel.ClassNames {
		if !attrs.classes[class] {
			return false
		}
	}
	for i := 0; i+1 < len(sel.Attrs); i += 2 {
		name, want := sel.Attrs[i], sel.Attrs[i+1]
		got, present := attrs.attrs[name]
		if !present {
			// A bound name satisfies presence-only requirements.
			if want == "" && attrs.bindings[name] {
				continue
			}
			return false
		}
		if want != "" && !strings.EqualFold(got, want) {
			return false
		}
	}
	for _, not := range sel.Not {
		if matchSimple(tag, attrs, not) {
			return false
		}
	}
	return true
}

// MatchTNode matches a node descriptor against a selector list.
func MatchTNode(tNode *view.TNode, selectors decl.SelectorList) bool {
	return Matches(tNode.Tag, ExtractNodeAttrs(tNode.Attrs), selectors)
}
