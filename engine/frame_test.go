package engine

import (
	"testing"

	viewruntime "github.com/wippyai/view-runtime"
	"github.com/wippyai/view-runtime/view"
)

func TestEnterLeaveView(t *testing.T) {
	tv := view.NewTView(view.TViewComponent, nil, nil, 1, 1, nil, nil, nil, nil, nil, nil, nil, nil)
	lv := view.NewLView(nil, tv, nil, 0, nil, nil, nil, nil, nil, nil, nil)

	if CurrentLView() != nil {
		t.Fatal("no view should be active initially")
	}
	EnterView(lv)
	if CurrentLView() != lv {
		t.Fatal("frame not active")
	}

	f := activeFrame()
	if f.bindingIndex != tv.BindingStartIndex || f.bindingRootIndex != tv.BindingStartIndex {
		t.Fatalf("binding cursors = %d/%d, want %d", f.bindingIndex, f.bindingRootIndex, tv.BindingStartIndex)
	}
	if f.selectedIndex != -1 {
		t.Fatalf("selected index = %d, want -1", f.selectedIndex)
	}

	LeaveView()
	if CurrentLView() != nil {
		t.Fatal("frame not popped")
	}
}

func TestReentrySameViewPanicsInDevMode(t *testing.T) {
	viewruntime.SetDevMode(true)
	defer viewruntime.SetDevMode(false)

	tv := view.NewTView(view.TViewComponent, nil, nil, 0, 0, nil, nil, nil, nil, nil, nil, nil, nil)
	lv := view.NewLView(nil, tv, nil, 0, nil, nil, nil, nil, nil, nil, nil)

	EnterView(lv)
	defer LeaveView()

	defer func() {
		if recover() == nil {
			t.Fatal("re-entering the same LView must panic")
		}
	}()
	EnterView(lv)
}

func TestInstructionOutsidePassPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("instruction without a frame must panic")
		}
	}()
	Text(0, "orphan")
}

func TestNestedFrames(t *testing.T) {
	tv := view.NewTView(view.TViewComponent, nil, nil, 0, 0, nil, nil, nil, nil, nil, nil, nil, nil)
	outer := view.NewLView(nil, tv, nil, 0, nil, nil, nil, nil, nil, nil, nil)
	inner := view.NewLView(outer, tv, nil, 0, nil, nil, nil, nil, nil, nil, nil)

	EnterView(outer)
	EnterView(inner)
	if CurrentLView() != inner {
		t.Fatal("inner frame should be active")
	}
	LeaveView()
	if CurrentLView() != outer {
		t.Fatal("outer frame should resurface")
	}
	LeaveView()
}
