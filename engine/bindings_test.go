package engine

import (
	"math"
	"testing"

	"github.com/wippyai/view-runtime/view"
)

func TestBindingValuesEqual(t *testing.T) {
	shared := []int{1, 2}
	fn := func() {}

	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{"sentinel never equal", view.NoChange, view.NoChange, false},
		{"sentinel vs value", view.NoChange, "x", false},
		{"nils", nil, nil, true},
		{"nil vs value", nil, 0, false},
		{"equal strings", "a", "a", true},
		{"different strings", "a", "b", false},
		{"equal ints", 3, 3, true},
		{"int vs float", 3, 3.0, false},
		{"NaN equals NaN", math.NaN(), math.NaN(), true},
		{"NaN vs number", math.NaN(), 1.0, false},
		{"float32 NaN", float32(math.NaN()), float32(math.NaN()), true},
		{"same slice", shared, shared, true},
		{"distinct equal slices", []int{1, 2}, []int{1, 2}, false},
		{"same func", fn, fn, true},
		{"bools", true, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := bindingValuesEqual(tc.a, tc.b); got != tc.want {
				t.Fatalf("bindingValuesEqual(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestBindingUpdated(t *testing.T) {
	tv := view.NewTView(view.TViewComponent, nil, nil, 0, 2, nil, nil, nil, nil, nil, nil, nil, nil)
	lv := view.NewLView(nil, tv, nil, 0, nil, nil, nil, nil, nil, nil, nil)
	idx := tv.BindingStartIndex

	// First write always reports a change (sentinel in the slot).
	if !bindingUpdated(lv, idx, "v1") {
		t.Fatal("first write should change")
	}
	if lv.At(idx) != "v1" {
		t.Fatalf("slot = %v", lv.At(idx))
	}
	if bindingUpdated(lv, idx, "v1") {
		t.Fatal("same value should not change")
	}
	if !bindingUpdated(lv, idx, "v2") {
		t.Fatal("new value should change")
	}
}

func TestStoreMetadata_OnceOnly(t *testing.T) {
	tv := view.NewTView(view.TViewComponent, nil, nil, 0, 2, nil, nil, nil, nil, nil, nil, nil, nil)
	idx := tv.BindingStartIndex

	storePropertyBindingMetadata(tv, idx, "title")
	if got := bindingMetadata(tv, idx); got != "title" {
		t.Fatalf("metadata = %q", got)
	}

	// Never overwritten, even on the first update pass.
	storePropertyBindingMetadata(tv, idx, "other")
	if got := bindingMetadata(tv, idx); got != "title" {
		t.Fatalf("metadata overwritten to %q", got)
	}

	// Interpolation form keeps the property name first.
	storePropertyBindingMetadata(tv, idx+1, "id", "pre", "post")
	if got := bindingMetadata(tv, idx+1); got != "id" {
		t.Fatalf("interpolated metadata name = %q", got)
	}

	// After the first update pass nothing is recorded.
	tv.FirstUpdatePass = false
	storePropertyBindingMetadata(tv, idx+1, "late")
	if got := bindingMetadata(tv, idx+1); got != "id" {
		t.Fatalf("metadata written after first update pass: %q", got)
	}
}
