package resolver

import (
	"go.uber.org/zap"

	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/errors"
	"github.com/wippyai/view-runtime/view"
)

// ResolveDirectives matches the shape's directive registry against a node
// and records everything later instances need: the directive range, merged
// attributes, hook schedules, host-binding opcodes, alias tables, initial
// inputs and local-name caches.
//
// Must run exactly once per node, during the first creation pass.
func ResolveDirectives(tView *view.TView, lView *view.LView, tNode *view.TNode, localRefs []string) error {
	attrs := ExtractNodeAttrs(tNode.Attrs)

	matches, aliases, err := findMatches(tView, tNode, attrs)
	if err != nil {
		return err
	}

	start := tNode.DirectiveStart
	if len(matches) > 0 {
		tNode.Flags |= view.FlagIsDirectiveHost

		start = view.AllocExpando(tView, lView, len(matches), nil)
		tNode.DirectiveStart = start
		tNode.DirectiveEnd = start + len(matches)
		tNode.DirectiveTokens = make(map[any]int, len(matches))

		for offset, def := range matches {
			idx := start + offset
			tView.Data[idx] = def
			if def.Token != nil {
				tNode.DirectiveTokens[def.Token] = idx
			}

			// Merge order fixes priority: the component merges first and
			// therefore loses to later directives and to template attrs.
			tNode.MergedAttrs = MergeAttrs(tNode.MergedAttrs, def.HostAttrs)

			view.RegisterPreOrderHooks(tView, def, idx)

			if def.ContentQueries != nil {
				tNode.Flags |= view.FlagHasContentQuery
				tView.ContentQueries = append(tView.ContentQueries,
					view.ContentQuery{DirectiveIndex: idx, Fn: def.ContentQueries})
			}
		}
		tNode.MergedAttrs = MergeAttrs(tNode.MergedAttrs, tNode.Attrs)

		for offset, def := range matches {
			if def.HostBindings != nil || def.HostVars > 0 {
				tNode.Flags |= view.FlagHasHostBindings
			}
			appendHostBindings(tView, lView, tNode, start+offset, def)
		}

		resolveAliases(tNode, matches, aliases, start)
		captureInitialInputs(tNode, matches, aliases, start, attrs)

		if tNode.IsComponentHost() {
			tView.Components = append(tView.Components, tNode.Index)
		}

		Logger().Debug("resolved directives",
			zap.String("tag", tNode.Tag),
			zap.Int("node", tNode.Index),
			zap.Int("count", len(matches)))
	}

	return cacheLocalNames(tNode, matches, start, localRefs)
}

// findMatches scans the registry. The component (with its host directives
// before it) is moved to the front of the match list; everything else keeps
// registry order.
func findMatches(tView *view.TView, tNode *view.TNode, attrs NodeAttrs) ([]*decl.DirectiveDef, map[*decl.DirectiveDef]*decl.HostDirectiveDef, error) {
	var matches []*decl.DirectiveDef
	aliases := make(map[*decl.DirectiveDef]*decl.HostDirectiveDef)
	var component *decl.DirectiveDef

	for _, def := range tView.Directives() {
		if !Matches(tNode.Tag, attrs, def.Selectors) {
			continue
		}
		if def.IsComponent() {
			if component != nil {
				return nil, nil, errors.NewMultipleComponentsError(tNode.Tag,
					[]string{component.TypeName, def.TypeName})
			}
			component = def
			pre := expandHostDirectives(def, aliases)
			front := make([]*decl.DirectiveDef, 0, len(pre)+1+len(matches))
			front = append(front, pre...)
			front = append(front, def)
			matches = append(front, matches...)
			tNode.Flags |= view.FlagIsComponentHost
			tNode.ComponentOffset = len(pre)
		} else {
			matches = append(matches, expandHostDirectives(def, aliases)...)
			matches = append(matches, def)
		}
	}
	return matches, aliases, nil
}

// expandHostDirectives returns the host directives to run before def,
// depth-first so a host directive's own host directives precede it.
func expandHostDirectives(def *decl.DirectiveDef, aliases map[*decl.DirectiveDef]*decl.HostDirectiveDef) []*decl.DirectiveDef {
	if def.FindHostDirectiveDefs != nil {
		var out []*decl.DirectiveDef
		def.FindHostDirectiveDefs(def, &out, aliases)
		return out
	}
	var out []*decl.DirectiveDef
	for i := range def.HostDirectives {
		hd := &def.HostDirectives[i]
		out = append(out, expandHostDirectives(hd.Def, aliases)...)
		out = append(out, hd.Def)
		aliases[hd.Def] = hd
	}
	return out
}

// appendHostBindings allocates the directive's host-binding slots and
// extends the opcode stream. A select opcode is emitted only when the
// previous select targeted a different element.
func appendHostBindings(tView *view.TView, lView *view.LView, tNode *view.TNode, directiveIndex int, def *decl.DirectiveDef) {
	if def.HostVars == 0 && def.HostBindings == nil {
		return
	}

	bindingRoot := view.AllocExpando(tView, lView, def.HostVars, view.NoChange)
	if def.HostBindings == nil {
		return
	}

	if lastSelect(tView.HostBindingOpCodes) != tNode.Index {
		tView.HostBindingOpCodes = append(tView.HostBindingOpCodes, ^tNode.Index)
	}
	tView.HostBindingOpCodes = append(tView.HostBindingOpCodes,
		directiveIndex, bindingRoot, def.HostBindings)
}

func lastSelect(opCodes []any) int {
	for i := len(opCodes) - 1; i >= 0; i-- {
		if v, ok := opCodes[i].(int); ok && v < 0 {
			return ^v
		}
	}
	return -1
}

// resolveAliases builds the node's public-name routing tables. A host
// directive's alias map restricts and renames what its directive exposes.
func resolveAliases(tNode *view.TNode, matches []*decl.DirectiveDef, aliases map[*decl.DirectiveDef]*decl.HostDirectiveDef, start int) {
	for offset, def := range matches {
		idx := start + offset
		alias := aliases[def]

		for public, private := range def.Inputs {
			exposed, ok := exposedName(public, alias, true)
			if !ok {
				continue
			}
			if tNode.Inputs == nil {
				tNode.Inputs = make(view.AliasMap)
			}
			tNode.Inputs[exposed] = append(tNode.Inputs[exposed],
				view.AliasEntry{DirectiveIndex: idx, PrivateName: private})
			switch exposed {
			case "class":
				tNode.Flags |= view.FlagHasClassInput
			case "style":
				tNode.Flags |= view.FlagHasStyleInput
			}
		}

		for public, private := range def.Outputs {
			exposed, ok := exposedName(public, alias, false)
			if !ok {
				continue
			}
			if tNode.Outputs == nil {
				tNode.Outputs = make(view.AliasMap)
			}
			tNode.Outputs[exposed] = append(tNode.Outputs[exposed],
				view.AliasEntry{DirectiveIndex: idx, PrivateName: private})
		}
	}
}

// exposedName applies a host-directive alias map: only listed names are
// exposed, under the mapped name. Without an alias map the public name is
// exposed as-is.
func exposedName(public string, alias *decl.HostDirectiveDef, input bool) (string, bool) {
	if alias == nil {
		return public, true
	}
	m := alias.Outputs
	if input {
		m = alias.Inputs
	}
	mapped, ok := m[public]
	if !ok {
		return "", false
	}
	return mapped, true
}

// captureInitialInputs records static template attributes that feed
// directive inputs. Inline-template nodes are excluded: their attributes
// belong to the element the template will stamp, not the container.
func captureInitialInputs(tNode *view.TNode, matches []*decl.DirectiveDef, aliases map[*decl.DirectiveDef]*decl.HostDirectiveDef, start int, attrs NodeAttrs) {
	if tNode.Type == view.TypeContainer {
		return
	}
	for offset, def := range matches {
		alias := aliases[def]
		for public, private := range def.Inputs {
			exposed, ok := exposedName(public, alias, true)
			if !ok {
				continue
			}
			value, present := attrs.attrs[exposed]
			if !present {
				continue
			}
			if tNode.InitialInputs == nil {
				tNode.InitialInputs = make(map[int][]view.InitialInput)
			}
			tNode.InitialInputs[offset] = append(tNode.InitialInputs[offset],
				view.InitialInput{Public: exposed, Private: private, Value: value})
		}
	}
}

// cacheLocalNames resolves #ref declarations to directive slots. A ref
// without an export names the component instance on a component host, the
// native element otherwise.
func cacheLocalNames(tNode *view.TNode, matches []*decl.DirectiveDef, start int, localRefs []string) error {
	if localRefs == nil {
		return nil
	}
	tNode.LocalNames = make([]any, 0, len(localRefs))
	for i := 0; i+1 < len(localRefs); i += 2 {
		name, export := localRefs[i], localRefs[i+1]
		index := -1
		if export != "" {
			index = findExport(matches, start, export)
			if index < 0 {
				return errors.ExportNotFound(tNode.Tag, export)
			}
		} else if tNode.IsComponentHost() {
			index = start + tNode.ComponentOffset
		}
		tNode.LocalNames = append(tNode.LocalNames, name, index)
	}
	return nil
}

func findExport(matches []*decl.DirectiveDef, start int, export string) int {
	for offset, def := range matches {
		for _, e := range def.ExportAs {
			if e == export {
				return start + offset
			}
		}
	}
	return -1
}

// MergeAttrs merges a marker-encoded attribute array over dst: plain pairs
// and styles from src override same-name entries, classes and binding names
// union. Existing entry order is preserved; new entries append.
func MergeAttrs(dst, src []any) []any {
	if len(src) == 0 {
		return dst
	}
	if len(dst) == 0 {
		out := make([]any, len(src))
		copy(out, src)
		return out
	}

	d := decompose(dst)
	s := decompose(src)

	for i := 0; i+1 < len(s.plain); i += 2 {
		d.setPlain(s.plain[i].(string), s.plain[i+1])
	}
	for _, c := range s.classes {
		d.addClass(c)
	}
	for i := 0; i+1 < len(s.styles); i += 2 {
		d.setStyle(s.styles[i].(string), s.styles[i+1])
	}
	for _, b := range s.bindings {
		d.addBinding(b)
	}

	return d.encode()
}

type attrSections struct {
	plain    []any
	classes  []string
	styles   []any
	bindings []string
}

func decompose(attrs []any) *attrSections {
	out := &attrSections{}
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
			var v any
			if i+1 < len(attrs) {
				v = attrs[i+1]
			}
			out.plain = append(out.plain, attrs[i], v)
			i += 2
		case int(decl.MarkerClasses):
			if s, ok := attrs[i].(string); ok {
				out.classes = append(out.classes, s)
			}
			i++
		case int(decl.MarkerStyles):
			var v any
			if i+1 < len(attrs) {
				v = attrs[i+1]
			}
			out.styles = append(out.styles, attrs[i], v)
			i += 2
		case int(decl.MarkerBindings), int(decl.MarkerTemplate):
			if s, ok := attrs[i].(string); ok {
				out.bindings = append(out.bindings, s)
			}
			i++
		default:
			i++
		}
	}
	return out
}

func (a *attrSections) setPlain(name string, value any) {
	for i := 0; i+1 < len(a.plain); i += 2 {
		if a.plain[i] == name {
			a.plain[i+1] = value
			return
		}
	}
	a.plain = append(a.plain, name, value)
}

func (a *attrSections) setStyle(name string, value any) {
	for i := 0; i+1 < len(a.styles); i += 2 {
		if a.styles[i] == name {
			a.styles[i+1] = value
			return
		}
	}
	a.styles = append(a.styles, name, value)
}

func (a *attrSections) addClass(name string) {
	for _, c := range a.classes {
		if c == name {
			return
		}
	}
	a.classes = append(a.classes, name)
}

func (a *attrSections) addBinding(name string) {
	for _, b := range a.bindings {
		if b == name {
			return
		}
	}
	a.bindings = append(a.bindings, name)
}

func (a *attrSections) encode() []any {
	out := make([]any, 0, len(a.plain)+len(a.classes)+len(a.styles)+len(a.bindings)+3)
	out = append(out, a.plain...)
	if len(a.classes) > 0 {
		out = append(out, decl.MarkerClasses)
		for _, c := range a.classes {
			out = append(out, c)
		}
	}
	if len(a.styles) > 0 {
		out = append(out, decl.MarkerStyles)
		out = append(out, a.styles...)
	}
	if len(a.bindings) > 0 {
		out = append(out, decl.MarkerBindings)
		for _, b := range a.bindings {
			out = append(out, b)
		}
	}
	return out
}
