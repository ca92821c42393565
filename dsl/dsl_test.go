package dsl_test

import (
	"testing"

	"github.com/reoring/flatbin"
	d "github.com/reoring/flatbin/dsl"
)

func TestObjectBuilder(t *testing.T) {
	ty := d.Object().
		Field("a", d.Int()).
		Field("b", d.Array(d.String())).
		MustBuild()

	if ty.Kind() != flatbin.KindObject || ty.NumFields() != 2 {
		t.Fatalf("built %v", ty)
	}
	if ty.FieldAt(0).Name != "a" || ty.FieldAt(1).Name != "b" {
		t.Fatalf("field order not preserved: %v", ty)
	}
	if ty.FieldAt(1).Ty.Elem().Kind() != flatbin.KindString {
		t.Fatalf("element type lost: %v", ty)
	}
}

func TestObjectBuilderDuplicateField(t *testing.T) {
	_, err := d.Object().
		Field("a", d.Int()).
		Field("a", d.Bool()).
		Build()
	if err == nil {
		t.Fatalf("expected duplicate-field error")
	}
}

func TestPrimitives(t *testing.T) {
	cases := []struct {
		ty   *flatbin.Ty
		kind flatbin.Kind
	}{
		{d.Null(), flatbin.KindNull},
		{d.Bool(), flatbin.KindBool},
		{d.Int(), flatbin.KindInt},
		{d.Float(), flatbin.KindFloat},
		{d.String(), flatbin.KindString},
	}
	for _, tc := range cases {
		if tc.ty.Kind() != tc.kind {
			t.Fatalf("got kind %v, want %v", tc.ty.Kind(), tc.kind)
		}
	}
}
