package flatbin

import (
	"encoding/binary"
	"math"
	"strconv"
)

// Decode reconstructs the value encoded at the start of buf against ty.
// Trailing bytes beyond the value's own encoding are ignored, never read.
func Decode(ty *Ty, buf []byte) (Value, error) {
	v, _, err := decodeRegion(ty, buf, 0, len(buf), "")
	return v, err
}

// DecodeAt decodes the value starting at off and additionally returns the
// number of bytes it occupied, for callers that pack several encodings into
// one buffer.
func DecodeAt(ty *Ty, buf []byte, off int) (Value, int, error) {
	if off < 0 || off > len(buf) {
		return Value{}, 0, issuef(CodeTruncatedBuffer, "", "offset %d outside buffer of %d bytes", off, len(buf))
	}
	return decodeRegion(ty, buf, off, len(buf), "")
}

// decodeRegion decodes one node whose bytes lie inside [start, end).
// The region bound is what keeps Decode and Locate in agreement: a
// composite never reads past the span its parent framed for it, even when
// the underlying buffer is longer.
func decodeRegion(ty *Ty, buf []byte, start, end int, path string) (Value, int, error) {
	switch ty.kind {
	case KindNull:
		return NullValue(), 0, nil

	case KindBool:
		if err := needBytes(buf, start, 1, end, path); err != nil {
			return Value{}, 0, err
		}
		switch buf[start] {
		case 0:
			return BoolValue(false), 1, nil
		case 1:
			return BoolValue(true), 1, nil
		default:
			return Value{}, 0, issuef(CodeInvalidEncoding, path, "bool byte is %d, want 0 or 1", buf[start])
		}

	case KindInt:
		if err := needBytes(buf, start, 8, end, path); err != nil {
			return Value{}, 0, err
		}
		return IntValue(int64(binary.LittleEndian.Uint64(buf[start:]))), 8, nil

	case KindFloat:
		if err := needBytes(buf, start, 8, end, path); err != nil {
			return Value{}, 0, err
		}
		return FloatValue(math.Float64frombits(binary.LittleEndian.Uint64(buf[start:]))), 8, nil

	case KindString:
		if err := needBytes(buf, start, countSize, end, path); err != nil {
			return Value{}, 0, err
		}
		n := int(binary.LittleEndian.Uint32(buf[start:]))
		if err := needBytes(buf, start, countSize+n, end, path); err != nil {
			return Value{}, 0, err
		}
		return StringValue(string(buf[start+countSize : start+countSize+n])), countSize + n, nil

	case KindArray:
		return decodeArray(ty, buf, start, end, path)

	case KindObject:
		return decodeObject(ty, buf, start, end, path)

	default:
		return Value{}, 0, issuef(CodeInvalidEncoding, path, "unknown schema kind %d", ty.kind)
	}
}

func decodeArray(ty *Ty, buf []byte, start, end int, path string) (Value, int, error) {
	if err := needBytes(buf, start, countSize, end, path); err != nil {
		return Value{}, 0, err
	}
	count := int(binary.LittleEndian.Uint32(buf[start:]))

	if w, fixed := ty.elem.FixedWidth(); fixed {
		if err := needBytes(buf, start, countSize+count*w, end, path); err != nil {
			return Value{}, 0, err
		}
		elems := make([]Value, count)
		for i := 0; i < count; i++ {
			off := start + countSize + i*w
			ev, _, err := decodeRegion(ty.elem, buf, off, off+w, childPath(path, strconv.Itoa(i)))
			if err != nil {
				return Value{}, 0, err
			}
			elems[i] = ev
		}
		return Value{kind: ValueArray, elems: elems}, countSize + count*w, nil
	}

	offs, region, err := readOffsetTable(buf, start+countSize, count+1, end, path)
	if err != nil {
		return Value{}, 0, err
	}
	elems := make([]Value, count)
	for i := 0; i < count; i++ {
		ev, _, err := decodeRegion(ty.elem, buf, region+offs[i], region+offs[i+1], childPath(path, strconv.Itoa(i)))
		if err != nil {
			return Value{}, 0, err
		}
		elems[i] = ev
	}
	return Value{kind: ValueArray, elems: elems}, region - start + offs[count], nil
}

func decodeObject(ty *Ty, buf []byte, start, end int, path string) (Value, int, error) {
	fields := make([]FieldValue, len(ty.fields))

	for i := 0; i < ty.firstDynamic; i++ {
		f := ty.fields[i]
		fv, _, err := decodeRegion(f.Ty, buf, start+ty.staticOff[i], end, childPath(path, escapeToken(f.Name)))
		if err != nil {
			return Value{}, 0, err
		}
		fields[i] = FieldValue{Name: f.Name, Value: fv}
	}

	if ty.tableLen() == 0 {
		return Value{kind: ValueObject, fields: fields}, ty.width, nil
	}

	n := ty.tableLen()
	offs, region, err := readOffsetTable(buf, start+ty.prefixBytes(), n, end, path)
	if err != nil {
		return Value{}, 0, err
	}
	consumed := 0
	for j := ty.firstDynamic; j < len(ty.fields); j++ {
		f := ty.fields[j]
		spanStart := region + offs[j-ty.firstDynamic]
		spanEnd := end
		if j+1 < len(ty.fields) {
			spanEnd = region + offs[j-ty.firstDynamic+1]
		}
		fv, fn, err := decodeRegion(f.Ty, buf, spanStart, spanEnd, childPath(path, escapeToken(f.Name)))
		if err != nil {
			return Value{}, 0, err
		}
		fields[j] = FieldValue{Name: f.Name, Value: fv}
		if j == len(ty.fields)-1 {
			consumed = region - start + offs[j-ty.firstDynamic] + fn
		}
	}
	return Value{kind: ValueObject, fields: fields}, consumed, nil
}

// readOffsetTable reads n little-endian u32 entries at tstart, validates
// monotonicity and that every entry stays inside [region, end) where region
// is the first byte after the table, and returns the entries plus region.
func readOffsetTable(buf []byte, tstart, n int, end int, path string) ([]int, int, error) {
	if err := needBytes(buf, tstart, n*offsetSize, end, path); err != nil {
		return nil, 0, err
	}
	region := tstart + n*offsetSize
	offs := make([]int, n)
	prev := 0
	for i := 0; i < n; i++ {
		off := int(binary.LittleEndian.Uint32(buf[tstart+i*offsetSize:]))
		if off < prev {
			return nil, 0, issuef(CodeInvalidEncoding, path, "offset table not monotonic: entry %d is %d after %d", i, off, prev)
		}
		if region+off > end {
			if end >= len(buf) {
				return nil, 0, issuef(CodeTruncatedBuffer, path, "offset %d points past end of buffer", off)
			}
			return nil, 0, issuef(CodeInvalidEncoding, path, "offset %d points outside the node's region", off)
		}
		offs[i] = off
		prev = off
	}
	return offs, region, nil
}

// needBytes checks that n bytes are available at start within [start, end).
// A shortfall at the physical end of the buffer is a truncation; a shortfall
// against an inner region bound means the framing is inconsistent.
func needBytes(buf []byte, start, n, end int, path string) error {
	if start+n <= end {
		return nil
	}
	if end >= len(buf) {
		return issuef(CodeTruncatedBuffer, path, "need %d bytes, %d remain", n, end-start)
	}
	return issuef(CodeInvalidEncoding, path, "need %d bytes, %d remain in the node's region", n, end-start)
}
