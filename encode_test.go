package flatbin_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/reoring/flatbin"
)

func le32(vals ...uint32) []byte {
	var b []byte
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}

func le64(vals ...uint64) []byte {
	var b []byte
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint64(b, v)
	}
	return b
}

func cat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

// The worked example from the format description: a fixed int field, then a
// dynamic array-of-strings field behind a one-entry offset table.
func docSchema(t *testing.T) *flatbin.Ty {
	t.Helper()
	return flatbin.MustObjectOf(
		flatbin.Field{Name: "a", Ty: flatbin.IntType()},
		flatbin.Field{Name: "b", Ty: flatbin.ArrayOf(flatbin.StringType())},
	)
}

func docValue() flatbin.Value {
	return flatbin.ObjectValue(
		flatbin.FV("a", flatbin.IntValue(7)),
		flatbin.FV("b", flatbin.ArrayValue(
			flatbin.StringValue("hi"),
			flatbin.StringValue("world"),
		)),
	)
}

func docBytes() []byte {
	return cat(
		le64(7),         // a, inline fixed prefix
		le32(0),         // object offset table: one dynamic-or-later field
		le32(2),         // b: element count
		le32(0, 6, 15),  // b: offset table, count+1 entries
		le32(2), []byte("hi"),
		le32(5), []byte("world"),
	)
}

func TestEncodeObjectWithDynamicField(t *testing.T) {
	got, err := flatbin.Encode(docSchema(t), docValue())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(got, docBytes()) {
		t.Fatalf("encode mismatch\n got %v\nwant %v", got, docBytes())
	}
}

func TestEncodeFixedElementArray(t *testing.T) {
	ty := flatbin.ArrayOf(flatbin.IntType())
	v := flatbin.ArrayValue(
		flatbin.IntValue(1), flatbin.IntValue(2), flatbin.IntValue(3),
		flatbin.IntValue(4), flatbin.IntValue(5),
	)
	got, err := flatbin.Encode(ty, v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := cat(le32(5), le64(1, 2, 3, 4, 5))
	if !bytes.Equal(got, want) {
		t.Fatalf("encode mismatch\n got %v\nwant %v", got, want)
	}
}

func TestEncodePrimitives(t *testing.T) {
	if got, err := flatbin.Encode(flatbin.NullType(), flatbin.NullValue()); err != nil || len(got) != 0 {
		t.Fatalf("null: got %v err %v, want empty", got, err)
	}
	if got, _ := flatbin.Encode(flatbin.BoolType(), flatbin.BoolValue(true)); !bytes.Equal(got, []byte{1}) {
		t.Fatalf("bool: got %v", got)
	}
	if got, _ := flatbin.Encode(flatbin.IntType(), flatbin.IntValue(-2)); !bytes.Equal(got, le64(math.MaxUint64-1)) {
		t.Fatalf("int: got %v", got)
	}
	if got, _ := flatbin.Encode(flatbin.FloatType(), flatbin.FloatValue(1.5)); !bytes.Equal(got, le64(math.Float64bits(1.5))) {
		t.Fatalf("float: got %v", got)
	}
	if got, _ := flatbin.Encode(flatbin.StringType(), flatbin.StringValue("hey")); !bytes.Equal(got, cat(le32(3), []byte("hey"))) {
		t.Fatalf("string: got %v", got)
	}
}

func TestEncodeFloatAcceptsInt(t *testing.T) {
	got, err := flatbin.Encode(flatbin.FloatType(), flatbin.IntValue(27))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(got, le64(math.Float64bits(27))) {
		t.Fatalf("got %v, want float bits of 27", got)
	}

	// The reverse does not hold.
	if _, err := flatbin.Encode(flatbin.IntType(), flatbin.FloatValue(27)); !flatbin.IsCode(err, flatbin.CodeSchemaMismatch) {
		t.Fatalf("int from float: got %v, want schema_mismatch", err)
	}
}

func TestEncodeMismatchPaths(t *testing.T) {
	cases := []struct {
		name string
		ty   *flatbin.Ty
		v    flatbin.Value
		path string
	}{
		{
			"heterogeneous array element",
			flatbin.ArrayOf(flatbin.IntType()),
			flatbin.ArrayValue(flatbin.IntValue(1), flatbin.StringValue("two")),
			"/1",
		},
		{
			"wrong nested field type",
			docSchema(t),
			flatbin.ObjectValue(
				flatbin.FV("a", flatbin.IntValue(7)),
				flatbin.FV("b", flatbin.ArrayValue(flatbin.IntValue(1))),
			),
			"/b/0",
		},
		{
			"missing field",
			docSchema(t),
			flatbin.ObjectValue(flatbin.FV("a", flatbin.IntValue(7))),
			"",
		},
		{
			"extra field",
			docSchema(t),
			flatbin.ObjectValue(
				flatbin.FV("a", flatbin.IntValue(7)),
				flatbin.FV("b", flatbin.ArrayValue()),
				flatbin.FV("c", flatbin.NullValue()),
			),
			"",
		},
	}
	for _, tc := range cases {
		_, err := flatbin.Encode(tc.ty, tc.v)
		it, ok := flatbin.AsIssue(err)
		if !ok || it.Code != flatbin.CodeSchemaMismatch {
			t.Fatalf("%s: got %v, want schema_mismatch", tc.name, err)
		}
		if it.Path != tc.path {
			t.Fatalf("%s: issue path %q, want %q", tc.name, it.Path, tc.path)
		}
	}
}

func TestAppendValueRollsBackOnMismatch(t *testing.T) {
	dst := []byte{0xAA, 0xBB}
	out, err := flatbin.AppendValue(dst, flatbin.IntType(), flatbin.StringValue("nope"))
	if err == nil {
		t.Fatalf("expected schema_mismatch")
	}
	if !bytes.Equal(out, dst) || len(out) != 2 {
		t.Fatalf("buffer changed on failure: %v", out)
	}
}

func TestAppendValueConcatenates(t *testing.T) {
	ty := flatbin.StringType()
	buf, err := flatbin.AppendValue(nil, ty, flatbin.StringValue("one"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	buf, err = flatbin.AppendValue(buf, ty, flatbin.StringValue("three"))
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	v1, n, err := flatbin.DecodeAt(ty, buf, 0)
	if err != nil || v1.Str() != "one" {
		t.Fatalf("first: %v %v", v1, err)
	}
	v2, _, err := flatbin.DecodeAt(ty, buf, n)
	if err != nil || v2.Str() != "three" {
		t.Fatalf("second: %v %v", v2, err)
	}
}
