package engine

import (
	"math"
	"reflect"
	"strings"

	"github.com/wippyai/view-runtime/errors"
	"github.com/wippyai/view-runtime/view"
)

// interpolationDelimiter separates the static parts of an interpolated
// binding inside its metadata string.
const interpolationDelimiter = "␟"

// bindingUpdated compares value against the slot's previous value and
// stores it on change. In check-no-changes mode any difference raises
// ExpressionChangedError instead; the slot is left untouched so the state
// observed by the failing tick is preserved.
func bindingUpdated(lView *view.LView, bindingIndex int, value any) bool {
	tView := lView.TView()
	assertBindingIndexInRange(tView, lView, bindingIndex)

	old := lView.At(bindingIndex)
	if bindingValuesEqual(old, value) {
		return false
	}

	if checkNoChangesMode {
		panic(expressionChangedError(tView, bindingIndex, old, value))
	}

	lView.Set(bindingIndex, value)
	return true
}

// bindingUpdated2 consumes two consecutive slots, reporting whether either
// changed. Both slots always advance so the layout stays aligned.
func bindingUpdated2(lView *view.LView, bindingIndex int, v0, v1 any) bool {
	changed := bindingUpdated(lView, bindingIndex, v0)
	return bindingUpdated(lView, bindingIndex+1, v1) || changed
}

// bindingValuesEqual implements the change-detection comparison: identity
// for references, value equality for comparable values, NaN equal to NaN,
// and the NoChange sentinel never equal to anything.
func bindingValuesEqual(a, b any) bool {
	if view.IsNoChange(a) {
		return false
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	if ta.Comparable() {
		if a == b {
			return true
		}
		switch x := a.(type) {
		case float64:
			y := b.(float64)
			return math.IsNaN(x) && math.IsNaN(y)
		case float32:
			y := b.(float32)
			return math.IsNaN(float64(x)) && math.IsNaN(float64(y))
		}
		return false
	}

	// Non-comparable kinds (slices, maps, funcs): identity only.
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && (va.Len() == 0 || va.Pointer() == vb.Pointer())
	case reflect.Map, reflect.Func, reflect.Chan:
		return va.Pointer() == vb.Pointer()
	}
	return false
}

// storePropertyBindingMetadata records the debug metadata string for a
// binding slot on the first update pass. Metadata is never overwritten.
func storePropertyBindingMetadata(tView *view.TView, bindingIndex int, propName string, interpolationParts ...string) {
	if !tView.FirstUpdatePass {
		return
	}
	if tView.Data[bindingIndex] != nil {
		return
	}
	if len(interpolationParts) == 0 {
		tView.Data[bindingIndex] = propName
		return
	}
	tView.Data[bindingIndex] = propName + interpolationDelimiter +
		strings.Join(interpolationParts, interpolationDelimiter)
}

// bindingMetadata reads back the property name recorded for a slot.
func bindingMetadata(tView *view.TView, bindingIndex int) string {
	if s, ok := tView.Data[bindingIndex].(string); ok {
		name, _, _ := strings.Cut(s, interpolationDelimiter)
		return name
	}
	return ""
}

func expressionChangedError(tView *view.TView, bindingIndex int, old, new any) error {
	err := &errors.ExpressionChangedError{
		OldValue: old,
		NewValue: new,
		Property: bindingMetadata(tView, bindingIndex),
	}
	if view.IsNoChange(old) {
		err.OldValue = nil
		err.FirstRun = true
	}
	if tNode := owningTNode(tView, bindingIndex); tNode != nil {
		err.NodeTag = tNode.Tag
	}
	return err
}

// owningTNode finds the node whose property bindings include the slot.
// Only the error path walks the shape, so the scan cost never shows up in
// a healthy tick.
func owningTNode(tView *view.TView, bindingIndex int) *view.TNode {
	for _, entry := range tView.Data {
		tNode, ok := entry.(*view.TNode)
		if !ok {
			continue
		}
		for _, b := range tNode.PropertyBindings {
			if b == bindingIndex {
				return tNode
			}
		}
	}
	return nil
}
