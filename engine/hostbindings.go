package engine

import (
	"strconv"

	"github.com/wippyai/view-runtime/decl"
	"github.com/wippyai/view-runtime/errors"
	"github.com/wippyai/view-runtime/view"
)

// processHostBindingOpCodes interprets the packed host-binding stream:
// a negative int ~elementIndex selects the binding target, a
// (directiveIndex, bindingRoot, fn) triple rebases the binding cursor and
// invokes one directive's host bindings. The cursors reset on every exit
// path so a panic inside a host binding cannot poison the next pass.
func processHostBindingOpCodes(tView *view.TView, lView *view.LView) {
	opCodes := tView.HostBindingOpCodes
	if len(opCodes) == 0 {
		return
	}

	f := activeFrame()
	defer func() {
		f.selectedIndex = -1
		f.currentDirectiveIndex = -1
		f.bindingRootIndex = tView.BindingStartIndex
	}()

	i := 0
	for i < len(opCodes) {
		if idx, ok := opCodes[i].(int); ok && idx < 0 {
			f.selectedIndex = ^idx - view.HeaderOffset
			i++
			continue
		}

		directiveIdx := opCodes[i].(int)
		bindingRoot := opCodes[i+1].(int)
		hostFn := opCodes[i+2].(decl.HostBindingsFn)
		i += 3

		f.currentDirectiveIndex = directiveIdx
		f.bindingRootIndex = bindingRoot
		f.bindingIndex = bindingRoot
		hostFn(decl.Update, lView.At(directiveIdx))
	}
}

// ValidateHostBindingOpCodes checks a stream for structural validity
// without executing it: selects may appear anywhere, every non-negative
// int must start a full (directiveIndex, bindingRoot, fn) triple.
func ValidateHostBindingOpCodes(opCodes []any) error {
	i := 0
	for i < len(opCodes) {
		idx, ok := opCodes[i].(int)
		if !ok {
			return opCodeError(i, opCodes[i]).
				Detail("expected int, got %T", opCodes[i]).
				Build()
		}
		if idx < 0 {
			i++
			continue
		}
		if i+2 >= len(opCodes) {
			return opCodeError(i, idx).
				Detail("truncated invoke triple").
				Build()
		}
		root, ok := opCodes[i+1].(int)
		if !ok || root < 0 {
			return opCodeError(i+1, opCodes[i+1]).
				Detail("invalid binding root %v", opCodes[i+1]).
				Build()
		}
		if _, ok := opCodes[i+2].(decl.HostBindingsFn); !ok {
			return opCodeError(i+2, opCodes[i+2]).
				Detail("expected host binding fn, got %T", opCodes[i+2]).
				Build()
		}
		i += 3
	}
	return nil
}

// opCodeError starts a malformed-stream error carrying the offending
// opcode position and value.
func opCodeError(index int, value any) *errors.Builder {
	return errors.New(errors.PhaseHostBind, errors.KindInvalidOpCodes).
		Property("opcode[" + strconv.Itoa(index) + "]").
		Value(value)
}
