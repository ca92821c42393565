package flatbin

import (
	"encoding/binary"
	"math"
	"strconv"
)

// Encode serializes v against ty into a freshly allocated buffer.
//
// Encoding runs in two phases: a measuring pass that checks v's shape
// against ty and computes the exact output size, then an infallible write
// pass into a single allocation. A shape mismatch is therefore reported
// (as a schema_mismatch Issue naming the offending path) before any byte
// is produced.
func Encode(ty *Ty, v Value) ([]byte, error) {
	n, err := measure(ty, v, "")
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, n)
	return appendValue(buf, ty, v), nil
}

// AppendValue appends the encoding of v to dst and returns the extended
// slice. On error dst is returned untouched at its original length.
func AppendValue(dst []byte, ty *Ty, v Value) ([]byte, error) {
	if _, err := measure(ty, v, ""); err != nil {
		return dst, err
	}
	return appendValue(dst, ty, v), nil
}

// measure validates conformance of v to ty and returns the encoded size.
func measure(ty *Ty, v Value, path string) (int, error) {
	switch ty.kind {
	case KindNull:
		if v.kind != ValueNull {
			return 0, mismatch(path, "null", v)
		}
		return 0, nil
	case KindBool:
		if v.kind != ValueBool {
			return 0, mismatch(path, "a bool", v)
		}
		return 1, nil
	case KindInt:
		if v.kind != ValueInt {
			return 0, mismatch(path, "an int", v)
		}
		return 8, nil
	case KindFloat:
		// Ints widen to float at encode time; the reverse does not hold.
		if v.kind != ValueFloat && v.kind != ValueInt {
			return 0, mismatch(path, "a number", v)
		}
		return 8, nil
	case KindString:
		if v.kind != ValueString {
			return 0, mismatch(path, "a string", v)
		}
		return countSize + len(v.s), nil
	case KindArray:
		if v.kind != ValueArray {
			return 0, mismatch(path, "an array", v)
		}
		if _, fixed := ty.elem.FixedWidth(); fixed {
			total := countSize
			for i := range v.elems {
				n, err := measure(ty.elem, v.elems[i], childPath(path, strconv.Itoa(i)))
				if err != nil {
					return 0, err
				}
				total += n
			}
			return total, nil
		}
		total := countSize + offsetSize*(len(v.elems)+1)
		for i := range v.elems {
			n, err := measure(ty.elem, v.elems[i], childPath(path, strconv.Itoa(i)))
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil
	case KindObject:
		if v.kind != ValueObject {
			return 0, mismatch(path, "an object", v)
		}
		total := offsetSize * ty.tableLen()
		for _, f := range ty.fields {
			fv, ok := v.Field(f.Name)
			if !ok {
				return 0, issuef(CodeSchemaMismatch, path, "missing field %q", f.Name)
			}
			n, err := measure(f.Ty, fv, childPath(path, escapeToken(f.Name)))
			if err != nil {
				return 0, err
			}
			total += n
		}
		if len(v.fields) != len(ty.fields) {
			for _, fv := range v.fields {
				if _, ok := ty.byName[fv.Name]; !ok {
					return 0, issuef(CodeSchemaMismatch, path, "field %q not in schema", fv.Name)
				}
			}
			return 0, issuef(CodeSchemaMismatch, path, "duplicate fields in value")
		}
		return total, nil
	default:
		return 0, issuef(CodeSchemaMismatch, path, "unknown schema kind %d", ty.kind)
	}
}

func mismatch(path, want string, v Value) Issue {
	return issuef(CodeSchemaMismatch, path, "expected %s, got %s", want, v.kind)
}

// encodedSize is the byte size of a value already known to conform.
func encodedSize(ty *Ty, v Value) int {
	if w, fixed := ty.FixedWidth(); fixed {
		return w
	}
	switch ty.kind {
	case KindString:
		return countSize + len(v.s)
	case KindArray:
		if w, fixed := ty.elem.FixedWidth(); fixed {
			return countSize + w*len(v.elems)
		}
		total := countSize + offsetSize*(len(v.elems)+1)
		for i := range v.elems {
			total += encodedSize(ty.elem, v.elems[i])
		}
		return total
	case KindObject:
		total := ty.prefixBytes() + offsetSize*ty.tableLen()
		for _, f := range ty.fields[ty.firstDynamic:] {
			fv, _ := v.Field(f.Name)
			total += encodedSize(f.Ty, fv)
		}
		return total
	default:
		return 0
	}
}

// appendValue writes a conforming value; it never fails.
func appendValue(dst []byte, ty *Ty, v Value) []byte {
	switch ty.kind {
	case KindNull:
		return dst
	case KindBool:
		if v.b {
			return append(dst, 1)
		}
		return append(dst, 0)
	case KindInt:
		return binary.LittleEndian.AppendUint64(dst, uint64(v.i))
	case KindFloat:
		f := v.f
		if v.kind == ValueInt {
			f = float64(v.i)
		}
		return binary.LittleEndian.AppendUint64(dst, math.Float64bits(f))
	case KindString:
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(v.s)))
		return append(dst, v.s...)
	case KindArray:
		dst = binary.LittleEndian.AppendUint32(dst, uint32(len(v.elems)))
		if _, fixed := ty.elem.FixedWidth(); fixed {
			for i := range v.elems {
				dst = appendValue(dst, ty.elem, v.elems[i])
			}
			return dst
		}
		off := 0
		for i := range v.elems {
			dst = binary.LittleEndian.AppendUint32(dst, uint32(off))
			off += encodedSize(ty.elem, v.elems[i])
		}
		dst = binary.LittleEndian.AppendUint32(dst, uint32(off))
		for i := range v.elems {
			dst = appendValue(dst, ty.elem, v.elems[i])
		}
		return dst
	case KindObject:
		for _, f := range ty.fields[:ty.firstDynamic] {
			fv, _ := v.Field(f.Name)
			dst = appendValue(dst, f.Ty, fv)
		}
		if ty.tableLen() > 0 {
			off := 0
			for _, f := range ty.fields[ty.firstDynamic:] {
				fv, _ := v.Field(f.Name)
				dst = binary.LittleEndian.AppendUint32(dst, uint32(off))
				off += encodedSize(f.Ty, fv)
			}
			for _, f := range ty.fields[ty.firstDynamic:] {
				fv, _ := v.Field(f.Name)
				dst = appendValue(dst, f.Ty, fv)
			}
		}
		return dst
	default:
		return dst
	}
}
