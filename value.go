package flatbin

import (
	"strconv"
	"strings"
)

// ValueKind identifies a document value variant.
type ValueKind uint8

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueInt
	ValueFloat
	ValueString
	ValueArray
	ValueObject
)

// String returns the variant name.
func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueBool:
		return "bool"
	case ValueInt:
		return "int"
	case ValueFloat:
		return "float"
	case ValueString:
		return "string"
	case ValueArray:
		return "array"
	case ValueObject:
		return "object"
	default:
		return "<unknown value kind>"
	}
}

// Value is an in-memory document tree mirroring JSON semantics: null, bool,
// number (int or float), string, ordered array, ordered field mapping. It is
// independent of Ty; Encode bridges the two with a conformance check.
type Value struct {
	kind ValueKind

	b bool
	i int64
	f float64
	s string

	elems  []Value
	fields []FieldValue
}

// FieldValue is one name/value pair of an object value.
type FieldValue struct {
	Name  string
	Value Value
}

// NullValue returns the null value.
func NullValue() Value { return Value{kind: ValueNull} }

// BoolValue returns a boolean value.
func BoolValue(b bool) Value { return Value{kind: ValueBool, b: b} }

// IntValue returns an integer value.
func IntValue(i int64) Value { return Value{kind: ValueInt, i: i} }

// FloatValue returns a float value.
func FloatValue(f float64) Value { return Value{kind: ValueFloat, f: f} }

// StringValue returns a string value.
func StringValue(s string) Value { return Value{kind: ValueString, s: s} }

// ArrayValue returns an array value over the given elements.
func ArrayValue(elems ...Value) Value {
	return Value{kind: ValueArray, elems: append([]Value(nil), elems...)}
}

// ObjectValue returns an object value over the given fields, in order.
func ObjectValue(fields ...FieldValue) Value {
	return Value{kind: ValueObject, fields: append([]FieldValue(nil), fields...)}
}

// FV is shorthand for a FieldValue literal.
func FV(name string, v Value) FieldValue { return FieldValue{Name: name, Value: v} }

// Kind returns the variant of the value.
func (v Value) Kind() ValueKind { return v.kind }

// Bool returns the boolean payload (valid for ValueBool).
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload (valid for ValueInt).
func (v Value) Int() int64 { return v.i }

// Float returns the float payload (valid for ValueFloat).
func (v Value) Float() float64 { return v.f }

// Str returns the string payload (valid for ValueString).
func (v Value) Str() string { return v.s }

// Len returns the element count of an array or the field count of an object.
func (v Value) Len() int {
	if v.kind == ValueObject {
		return len(v.fields)
	}
	return len(v.elems)
}

// At returns the i-th element of an array value.
func (v Value) At(i int) Value { return v.elems[i] }

// FieldAt returns the i-th field of an object value.
func (v Value) FieldAt(i int) FieldValue { return v.fields[i] }

// Field looks up an object field by name.
func (v Value) Field(name string) (Value, bool) {
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Equal reports deep structural equality. Int and Float are distinct kinds
// and never compare equal, matching the schema's numeric model.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueNull:
		return true
	case ValueBool:
		return v.b == o.b
	case ValueInt:
		return v.i == o.i
	case ValueFloat:
		return v.f == o.f
	case ValueString:
		return v.s == o.s
	case ValueArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case ValueObject:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i].Name != o.fields[i].Name || !v.fields[i].Value.Equal(o.fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the value in a compact JSON-like form for debugging and
// test failure messages. Not a substitute for the source package's renderer.
func (v Value) String() string {
	var b strings.Builder
	v.render(&b)
	return b.String()
}

func (v Value) render(b *strings.Builder) {
	switch v.kind {
	case ValueNull:
		b.WriteString("null")
	case ValueBool:
		b.WriteString(strconv.FormatBool(v.b))
	case ValueInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case ValueFloat:
		b.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case ValueString:
		b.WriteString(strconv.Quote(v.s))
	case ValueArray:
		b.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				b.WriteByte(',')
			}
			e.render(b)
		}
		b.WriteByte(']')
	case ValueObject:
		b.WriteByte('{')
		for i, f := range v.fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(f.Name))
			b.WriteByte(':')
			f.Value.render(b)
		}
		b.WriteByte('}')
	}
}
