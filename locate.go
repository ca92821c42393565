package flatbin

import (
	"encoding/binary"
)

// Range is a half-open byte span [Start, End) inside an encoded buffer.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes in the span.
func (r Range) Len() int { return r.End - r.Start }

// Locate resolves path against the encoding of ty in buf and returns the
// schema node at that path together with the exact byte span of its
// encoding. Sibling elements are skipped via offset tables or width
// arithmetic, never decoded: the cost is O(len(path)), independent of
// sibling sizes.
//
// An empty path addresses the whole buffer's value.
func Locate(ty *Ty, buf []byte, path Path) (*Ty, Range, error) {
	cur := ty
	start, end := 0, len(buf)

	for step, sel := range path {
		at := path[:step].String()
		switch cur.kind {
		case KindArray:
			if sel.kind != SelectorIndex {
				return nil, Range{}, issuef(CodePathTypeMismatch, at, "field selector %q applied to an array", sel.name)
			}
			s, e, err := locateElement(cur, buf, start, end, sel.index, at)
			if err != nil {
				return nil, Range{}, err
			}
			cur, start, end = cur.elem, s, e

		case KindObject:
			idx := sel.index
			if sel.kind == SelectorField {
				i, ok := cur.FieldIndex(sel.name)
				if !ok {
					return nil, Range{}, issuef(CodeUnknownField, at, "no field %q in %s", sel.name, cur)
				}
				idx = i
			} else if idx < 0 || idx >= len(cur.fields) {
				return nil, Range{}, issuef(CodeIndexOutOfRange, at, "field index %d, object has %d fields", idx, len(cur.fields))
			}
			s, e, err := locateField(cur, buf, start, end, idx, at)
			if err != nil {
				return nil, Range{}, err
			}
			cur, start, end = cur.fields[idx].Ty, s, e

		default:
			return nil, Range{}, issuef(CodePathTypeMismatch, at, "selector applied to a %s node", cur.kind)
		}
	}
	return cur, Range{Start: start, End: end}, nil
}

// locateElement computes the byte span of element idx of an array node
// occupying [start, end).
func locateElement(ty *Ty, buf []byte, start, end, idx int, path string) (int, int, error) {
	if err := needBytes(buf, start, countSize, end, path); err != nil {
		return 0, 0, err
	}
	count := int(binary.LittleEndian.Uint32(buf[start:]))
	if idx < 0 || idx >= count {
		return 0, 0, issuef(CodeIndexOutOfRange, path, "index %d, array has %d elements", idx, count)
	}

	if w, fixed := ty.elem.FixedWidth(); fixed {
		// No table in the bytes: element address is pure arithmetic.
		s := start + countSize + idx*w
		if err := needBytes(buf, s, w, end, path); err != nil {
			return 0, 0, err
		}
		return s, s + w, nil
	}

	// Only the two table entries framing idx are touched.
	tstart := start + countSize
	if err := needBytes(buf, tstart, (count+1)*offsetSize, end, path); err != nil {
		return 0, 0, err
	}
	region := tstart + (count+1)*offsetSize
	lo := int(binary.LittleEndian.Uint32(buf[tstart+idx*offsetSize:]))
	hi := int(binary.LittleEndian.Uint32(buf[tstart+(idx+1)*offsetSize:]))
	return checkSpan(buf, region, lo, hi, end, path)
}

// locateField computes the byte span of declared field idx of an object
// node occupying [start, end).
func locateField(ty *Ty, buf []byte, start, end, idx int, path string) (int, int, error) {
	f := ty.fields[idx]

	if idx < ty.firstDynamic {
		// Static prefix: offset is a schema-time prefix sum, no bytes read.
		w, _ := f.Ty.FixedWidth()
		s := start + ty.staticOff[idx]
		if err := needBytes(buf, s, w, end, path); err != nil {
			return 0, 0, err
		}
		return s, s + w, nil
	}

	n := ty.tableLen()
	tstart := start + ty.prefixBytes()
	if err := needBytes(buf, tstart, n*offsetSize, end, path); err != nil {
		return 0, 0, err
	}
	region := tstart + n*offsetSize
	j := idx - ty.firstDynamic
	lo := int(binary.LittleEndian.Uint32(buf[tstart+j*offsetSize:]))

	if w, fixed := f.Ty.FixedWidth(); fixed {
		// Fixed field behind the first dynamic one: the table gives its
		// start, the schema its exact width.
		s, _, err := checkSpan(buf, region, lo, lo, end, path)
		if err != nil {
			return 0, 0, err
		}
		if err := needBytes(buf, s, w, end, path); err != nil {
			return 0, 0, err
		}
		return s, s + w, nil
	}

	hi := end - region
	if j+1 < n {
		hi = int(binary.LittleEndian.Uint32(buf[tstart+(j+1)*offsetSize:]))
	}
	return checkSpan(buf, region, lo, hi, end, path)
}

func checkSpan(buf []byte, region, lo, hi, end int, path string) (int, int, error) {
	if hi < lo {
		return 0, 0, issuef(CodeInvalidEncoding, path, "offset table not monotonic: span [%d,%d)", lo, hi)
	}
	if region+hi > end {
		if end >= len(buf) {
			return 0, 0, issuef(CodeTruncatedBuffer, path, "offset %d points past end of buffer", hi)
		}
		return 0, 0, issuef(CodeInvalidEncoding, path, "offset %d points outside the node's region", hi)
	}
	return region + lo, region + hi, nil
}

// Slice returns the raw bytes of the node at path together with its schema
// node. The slice aliases buf; callers who outlive buf must copy.
func Slice(ty *Ty, buf []byte, path Path) ([]byte, *Ty, error) {
	sub, r, err := Locate(ty, buf, path)
	if err != nil {
		return nil, nil, err
	}
	return buf[r.Start:r.End], sub, nil
}

// DecodePath locates the node at path and decodes only its span. Siblings
// off the path are never decoded.
func DecodePath(ty *Ty, buf []byte, path Path) (Value, error) {
	sub, r, err := Locate(ty, buf, path)
	if err != nil {
		return Value{}, err
	}
	v, _, err := decodeRegion(sub, buf, r.Start, r.End, path.String())
	return v, err
}
