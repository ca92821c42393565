package flatbin

import (
	"fmt"
	"strings"
)

// Kind identifies a schema node variant. The set is closed: every codec
// operation dispatches on it with a single switch.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

// String returns the descriptor name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "<unknown kind>"
	}
}

// Field is one named slot of an object schema. Declaration order is part of
// the schema and is never re-sorted; names are never serialized.
type Field struct {
	Name string
	Ty   *Ty
}

// Ty describes the shape of one document node. A Ty is immutable after
// construction and safe to share across any number of concurrent Encode,
// Decode and Locate calls. Its width classification, and for objects the
// static field offsets, are computed once here rather than per operation.
type Ty struct {
	kind   Kind
	elem   *Ty     // KindArray only
	fields []Field // KindObject only
	byName map[string]int

	// width is the fixed encoded size in bytes, or widthDynamic when the
	// size depends on the value.
	width int

	// firstDynamic is the index of the first dynamic-width field of an
	// object; len(fields) when every field is fixed. staticOff holds the
	// byte offset from the object start for each field before it, a
	// prefix sum over the fixed widths.
	firstDynamic int
	staticOff    []int
}

const widthDynamic = -1

// Fixed-size framing fields of the wire format: counts, string lengths and
// offset-table entries are all unsigned 32-bit little-endian.
const (
	countSize  = 4
	offsetSize = 4
)

var (
	nullTy   = &Ty{kind: KindNull, width: 0}
	boolTy   = &Ty{kind: KindBool, width: 1}
	intTy    = &Ty{kind: KindInt, width: 8}
	floatTy  = &Ty{kind: KindFloat, width: 8}
	stringTy = &Ty{kind: KindString, width: widthDynamic}
)

// NullType returns the schema node for null (zero encoded bytes).
func NullType() *Ty { return nullTy }

// BoolType returns the schema node for booleans (one byte, 0 or 1).
func BoolType() *Ty { return boolTy }

// IntType returns the schema node for 64-bit signed integers.
func IntType() *Ty { return intTy }

// FloatType returns the schema node for 64-bit IEEE 754 floats.
func FloatType() *Ty { return floatTy }

// StringType returns the schema node for UTF-8 strings (length-prefixed).
func StringType() *Ty { return stringTy }

// ArrayOf returns the schema node for a homogeneous sequence of elem.
func ArrayOf(elem *Ty) *Ty {
	if elem == nil {
		panic("flatbin: ArrayOf with nil element type")
	}
	return &Ty{kind: KindArray, elem: elem, width: widthDynamic}
}

// ObjectOf returns the schema node for a fixed-arity record with the given
// fields in declaration order. Field names must be unique.
func ObjectOf(fields ...Field) (*Ty, error) {
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Ty == nil {
			return nil, fmt.Errorf("flatbin: field %q has nil type", f.Name)
		}
		if _, dup := byName[f.Name]; dup {
			return nil, fmt.Errorf("flatbin: duplicate field name %q", f.Name)
		}
		byName[f.Name] = i
	}

	t := &Ty{
		kind:         KindObject,
		fields:       append([]Field(nil), fields...),
		byName:       byName,
		firstDynamic: len(fields),
	}
	for i, f := range fields {
		if _, fixed := f.Ty.FixedWidth(); !fixed {
			t.firstDynamic = i
			break
		}
	}
	t.staticOff = make([]int, t.firstDynamic)
	off := 0
	for i := 0; i < t.firstDynamic; i++ {
		t.staticOff[i] = off
		w, _ := fields[i].Ty.FixedWidth()
		off += w
	}
	if t.firstDynamic == len(fields) {
		t.width = off
	} else {
		t.width = widthDynamic
	}
	return t, nil
}

// MustObjectOf is ObjectOf but panics on invalid fields. Intended for
// package-level schema variables and tests.
func MustObjectOf(fields ...Field) *Ty {
	t, err := ObjectOf(fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// Kind returns the variant of the node.
func (t *Ty) Kind() Kind { return t.kind }

// Elem returns the element type of an array node, nil otherwise.
func (t *Ty) Elem() *Ty { return t.elem }

// NumFields returns the declared arity of an object node, 0 otherwise.
func (t *Ty) NumFields() int { return len(t.fields) }

// FieldAt returns the i-th declared field of an object node.
func (t *Ty) FieldAt(i int) Field { return t.fields[i] }

// FieldIndex resolves a field name to its declaration index.
func (t *Ty) FieldIndex(name string) (int, bool) {
	i, ok := t.byName[name]
	return i, ok
}

// FixedWidth reports whether the node is fixed-width and, if so, its
// encoded size in bytes. Dynamic-width nodes (strings, arrays, and objects
// containing at least one dynamic field) return (0, false).
func (t *Ty) FixedWidth() (int, bool) {
	if t.width == widthDynamic {
		return 0, false
	}
	return t.width, true
}

// tableLen is the number of offset-table entries a dynamic object carries:
// one per dynamic-or-later field. Zero for fixed objects.
func (t *Ty) tableLen() int { return len(t.fields) - t.firstDynamic }

// prefixBytes is the static size of the inline fixed prefix of an object,
// the region before its offset table.
func (t *Ty) prefixBytes() int {
	if t.firstDynamic == 0 {
		return 0
	}
	last := t.firstDynamic - 1
	w, _ := t.fields[last].Ty.FixedWidth()
	return t.staticOff[last] + w
}

// String renders the node as a compact descriptor, e.g.
// "object{a:int,b:array<string>}".
func (t *Ty) String() string {
	switch t.kind {
	case KindArray:
		return "array<" + t.elem.String() + ">"
	case KindObject:
		var b strings.Builder
		b.WriteString("object{")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(f.Name)
			b.WriteByte(':')
			b.WriteString(f.Ty.String())
		}
		b.WriteByte('}')
		return b.String()
	default:
		return t.kind.String()
	}
}
