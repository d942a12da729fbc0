package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Format(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want []string
	}{
		{
			"builder full",
			New(PhaseResolve, KindExportNotFound).
				Node("div").
				Property("ref").
				Detail("export %q not found", "foo").
				Build(),
			[]string{"[resolve]", "export_not_found", "<div>", "ref", `"foo"`},
		},
		{
			"unknown property",
			UnknownProperty("my-widget", "foo"),
			[]string{"[refresh]", "unknown_property", "<my-widget>", "foo"},
		},
		{
			"wrapped cause",
			New(PhaseRefresh, KindUserCode).Cause(stderrors.New("inner")).Build(),
			[]string{"caused by: inner"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := tc.err.Error()
			for _, want := range tc.want {
				if !strings.Contains(msg, want) {
					t.Fatalf("%q missing %q", msg, want)
				}
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := ExportNotFound("div", "x")
	if !stderrors.Is(err, &Error{Phase: PhaseResolve, Kind: KindExportNotFound}) {
		t.Fatal("Is should match on phase+kind")
	}
	if stderrors.Is(err, &Error{Phase: PhaseRefresh, Kind: KindExportNotFound}) {
		t.Fatal("Is must not match a different phase")
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := stderrors.New("root cause")
	err := UserCode(PhaseRefresh, inner)
	if !stderrors.Is(err, inner) {
		t.Fatal("Unwrap chain broken")
	}
}

func TestMultipleComponentsError(t *testing.T) {
	err := NewMultipleComponentsError("x-host", []string{"CompA", "CompB"})
	msg := err.Error()
	for _, want := range []string{"multiple_components", "<x-host>", "CompA", "CompB", "2 components"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("%q missing %q", msg, want)
		}
	}
	if !stderrors.Is(err, &MultipleComponentsError{}) {
		t.Fatal("Is should match by type")
	}
}

func TestExpressionChangedError(t *testing.T) {
	err := &ExpressionChangedError{OldValue: "a", NewValue: "b", Property: "id", NodeTag: "div"}
	msg := err.Error()
	for _, want := range []string{"expression has changed", `"id"`, "<div>", "previous value a", "current value b"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("%q missing %q", msg, want)
		}
	}

	first := &ExpressionChangedError{NewValue: "b", FirstRun: true}
	if !strings.Contains(first.Error(), "never checked before") {
		t.Fatalf("first-run hint missing: %q", first.Error())
	}
}
