package engine

import (
	"fmt"
	"strings"

	viewruntime "github.com/wippyai/view-runtime"
	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/errors"
	"github.com/wippyai/view-runtime/view"
)

// Advance moves the select cursor forward to the node the next bound
// instructions target.
func Advance(delta int) {
	f := activeFrame()
	f.selectedIndex += delta
	assertDev(f.selectedIndex >= 0 &&
		view.HeaderOffset+f.selectedIndex < f.tView.BindingStartIndex,
		"advance moved selection out of decl range: %d", f.selectedIndex)
}

// Property evaluates a property binding against the selected node. The
// value routes to directive inputs when the node exposes the name, to the
// renderer otherwise.
func Property(name string, value any) {
	propertyInternal(name, value, false)
}

// PropertySanitized is Property for bindings the compiler marked risky; the
// view's sanitizer sees the value immediately before assignment.
func PropertySanitized(name string, value any) {
	propertyInternal(name, value, true)
}

func propertyInternal(name string, value any, sanitize bool) {
	f := activeFrame()
	lView := f.lView
	bindingIndex := f.nextBindingIndex()
	previous := lView.At(bindingIndex)
	if !bindingUpdated(lView, bindingIndex, value) {
		return
	}
	tNode := f.selectedTNode()
	elementProperty(f.tView, tNode, lView, name, value, previous, sanitize, bindingIndex)
}

func elementProperty(tView *view.TView, tNode *view.TNode, lView *view.LView, name string, value, previous any, sanitize bool, bindingIndex int) {
	if tView.FirstUpdatePass {
		storePropertyBindingMetadata(tView, bindingIndex, name)
		tNode.PropertyBindings = append(tNode.PropertyBindings, bindingIndex)
	}

	if entries, ok := tNode.Inputs[name]; ok {
		setInputsForProperty(tView, lView, entries, name, value, previous)
		if tNode.IsComponentHost() {
			markDirtyIfOnPush(lView, tNode.Index)
		}
		return
	}

	if tNode.Type&view.AnyRNode != 0 {
		validateElementProperty(tView, tNode, name)
		renderer := lView.Renderer()
		if renderer == nil {
			return
		}
		if sanitize {
			if sanitizer := lView.Sanitizer(); sanitizer != nil {
				value = sanitizer(value, tNode.Tag, name)
			}
		}
		renderer.SetProperty(view.UnwrapNative(lView.At(tNode.Index)), name, value)
	}
}

// setInputsForProperty delivers a bound value to every directive that
// declares the public name. All targets receive the same value.
func setInputsForProperty(tView *view.TView, lView *view.LView, entries []view.AliasEntry, public string, value, previous any) {
	first := view.IsNoChange(previous)
	if first {
		previous = nil
	}
	for _, e := range entries {
		def := tView.DirectiveDefAt(e.DirectiveIndex)
		instance := lView.At(e.DirectiveIndex)
		writeDirectiveInput(lView, def, e.DirectiveIndex, instance, public, e.PrivateName, value, previous, first)
	}
}

// validateElementProperty is the dev-mode unknown-property check. Without a
// host DOM registry the runtime can only police custom-element-looking tags:
// a dash-named element accepts arbitrary properties only under a schema.
func validateElementProperty(tView *view.TView, tNode *view.TNode, name string) {
	if !viewruntime.DevMode() {
		return
	}
	if !strings.Contains(tNode.Tag, "-") {
		return
	}
	for _, schema := range tView.Schemas {
		if schema == decl.NoErrorsSchema || schema == decl.CustomElementsSchema {
			return
		}
	}
	panic(errors.UnknownProperty(tNode.Tag, name))
}

// Attribute evaluates an attribute binding on the selected element. A nil
// value removes the attribute.
func Attribute(name string, value any) {
	f := activeFrame()
	lView := f.lView
	bindingIndex := f.nextBindingIndex()
	if !bindingUpdated(lView, bindingIndex, value) {
		return
	}
	tNode := f.selectedTNode()
	storePropertyBindingMetadata(f.tView, bindingIndex, "attr."+name)
	renderer := lView.Renderer()
	if renderer == nil {
		return
	}
	native := view.UnwrapNative(lView.At(tNode.Index))
	if value == nil {
		renderer.RemoveAttribute(native, name, "")
	} else {
		renderer.SetAttribute(native, name, stringify(value), "")
	}
}

// ClassProp toggles a single class on the selected element.
func ClassProp(className string, value bool) {
	f := activeFrame()
	lView := f.lView
	bindingIndex := f.nextBindingIndex()
	if !bindingUpdated(lView, bindingIndex, value) {
		return
	}
	tNode := f.selectedTNode()
	renderer := lView.Renderer()
	if renderer == nil {
		return
	}
	native := view.UnwrapNative(lView.At(tNode.Index))
	if value {
		renderer.AddClass(native, className)
	} else {
		renderer.RemoveClass(native, className)
	}
}

// StyleProp updates a single style on the selected element. An empty value
// removes the style.
func StyleProp(styleName string, value string) {
	f := activeFrame()
	lView := f.lView
	bindingIndex := f.nextBindingIndex()
	if !bindingUpdated(lView, bindingIndex, value) {
		return
	}
	tNode := f.selectedTNode()
	renderer := lView.Renderer()
	if renderer == nil {
		return
	}
	native := view.UnwrapNative(lView.At(tNode.Index))
	if value == "" {
		renderer.RemoveStyle(native, styleName)
	} else {
		renderer.SetStyle(native, styleName, value)
	}
}

// TextInterpolate updates the selected text node from a single expression
// with no surrounding text.
func TextInterpolate(value any) {
	TextInterpolate1("", value, "")
}

// TextInterpolate1 updates the selected text node from one expression with
// static prefix and suffix.
func TextInterpolate1(prefix string, value any, suffix string) {
	f := activeFrame()
	lView := f.lView
	bindingIndex := f.nextBindingIndex()
	if !bindingUpdated(lView, bindingIndex, value) {
		return
	}
	setTextValue(f, prefix+stringify(value)+suffix)
}

// TextInterpolate2 updates the selected text node from two expressions.
func TextInterpolate2(prefix string, v0 any, mid string, v1 any, suffix string) {
	f := activeFrame()
	lView := f.lView
	bindingIndex := f.bindingIndex
	f.bindingIndex += 2
	if !bindingUpdated2(lView, bindingIndex, v0, v1) {
		return
	}
	setTextValue(f, prefix+stringify(v0)+mid+stringify(v1)+suffix)
}

// TextInterpolateV is the general form: len(parts) == len(values)+1, with
// parts interleaved around values.
func TextInterpolateV(parts []string, values []any) {
	f := activeFrame()
	lView := f.lView
	assertDev(len(parts) == len(values)+1,
		"interpolation needs %d static parts for %d values", len(values)+1, len(values))

	changed := false
	for _, v := range values {
		changed = bindingUpdated(lView, f.nextBindingIndex(), v) || changed
	}
	if !changed {
		return
	}

	var b strings.Builder
	for i, v := range values {
		b.WriteString(parts[i])
		b.WriteString(stringify(v))
	}
	b.WriteString(parts[len(parts)-1])
	setTextValue(f, b.String())
}

func setTextValue(f *frame, text string) {
	tNode := f.selectedTNode()
	assertTNodeType(tNode, view.TypeText)
	if renderer := f.lView.Renderer(); renderer != nil {
		renderer.SetValue(view.UnwrapNative(f.lView.At(tNode.Index)), text)
	}
}

// PipeBind1 evaluates a unary pipe. Pure pipes memoize through two binding
// slots at slotOffset from the binding root: the argument and the result.
func PipeBind1(index, slotOffset int, value any) any {
	f := activeFrame()
	lView := f.lView
	adjusted := view.HeaderOffset + index
	instance, ok := lView.At(adjusted).(decl.PipeTransform)
	assertDev(ok, "slot %d does not hold a pipe instance", adjusted)
	def, _ := f.tView.Data[adjusted].(*decl.PipeDef)

	if def == nil || !def.Pure {
		return instance.Transform(value)
	}

	slot := f.bindingRootIndex + slotOffset
	if bindingUpdated(lView, slot, value) {
		result := instance.Transform(value)
		lView.Set(slot+1, result)
		return result
	}
	return lView.At(slot + 1)
}

// PipeBind2 evaluates a binary pipe; pure pipes use three slots (two
// arguments, one result).
func PipeBind2(index, slotOffset int, v0, v1 any) any {
	f := activeFrame()
	lView := f.lView
	adjusted := view.HeaderOffset + index
	instance, ok := lView.At(adjusted).(decl.PipeTransform)
	assertDev(ok, "slot %d does not hold a pipe instance", adjusted)
	def, _ := f.tView.Data[adjusted].(*decl.PipeDef)

	if def == nil || !def.Pure {
		return instance.Transform(v0, v1)
	}

	slot := f.bindingRootIndex + slotOffset
	if bindingUpdated2(lView, slot, v0, v1) {
		result := instance.Transform(v0, v1)
		lView.Set(slot+2, result)
		return result
	}
	return lView.At(slot + 2)
}

// stringify renders a bound value for text and attribute output. Nil
// renders empty, matching the template contract.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}
