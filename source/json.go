// Package source bridges JSON text and the flatbin Value tree. Parsing is
// schema-agnostic and preserves object field order by walking the decoder's
// token stream instead of unmarshaling into a map.
package source

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	"github.com/reoring/flatbin"
)

// ParseJSON parses one JSON document into a Value tree. Numbers without a
// fraction or exponent that fit int64 become ints, everything else floats.
func ParseJSON(data []byte) (flatbin.Value, error) {
	// The token stream alone is too lenient about separators, so the whole
	// document is validated before the walk.
	if !j.Valid(data) {
		return flatbin.Value{}, flatbin.Issue{Code: flatbin.CodeParseError, Message: "malformed JSON"}
	}

	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return flatbin.Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return flatbin.Value{}, flatbin.Issue{Code: flatbin.CodeParseError, Message: "trailing data after JSON document"}
	}
	return v, nil
}

// ParseJSONReader is ParseJSON over an io.Reader. The input is buffered in
// full so it can be validated before parsing.
func ParseJSONReader(r io.Reader) (flatbin.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return flatbin.Value{}, flatbin.Issue{Code: flatbin.CodeParseError, Message: "reading JSON input", Cause: err}
	}
	return ParseJSON(data)
}

func parseValue(dec *j.Decoder) (flatbin.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return flatbin.Value{}, parseErr(err)
	}
	return valueFromToken(dec, tok)
}

func valueFromToken(dec *j.Decoder, tok j.Token) (flatbin.Value, error) {
	switch t := tok.(type) {
	case nil:
		return flatbin.NullValue(), nil
	case bool:
		return flatbin.BoolValue(t), nil
	case string:
		return flatbin.StringValue(t), nil
	case j.Number:
		return numberValue(string(t))
	case float64:
		return flatbin.FloatValue(t), nil
	case j.Delim:
		switch t {
		case '[':
			var elems []flatbin.Value
			for dec.More() {
				ev, err := parseValue(dec)
				if err != nil {
					return flatbin.Value{}, err
				}
				elems = append(elems, ev)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return flatbin.Value{}, parseErr(err)
			}
			return flatbin.ArrayValue(elems...), nil
		case '{':
			var fields []flatbin.FieldValue
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return flatbin.Value{}, parseErr(err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return flatbin.Value{}, flatbin.Issue{Code: flatbin.CodeParseError, Message: "object key is not a string"}
				}
				fv, err := parseValue(dec)
				if err != nil {
					return flatbin.Value{}, err
				}
				fields = append(fields, flatbin.FV(key, fv))
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return flatbin.Value{}, parseErr(err)
			}
			return flatbin.ObjectValue(fields...), nil
		}
	}
	return flatbin.Value{}, flatbin.Issue{Code: flatbin.CodeParseError, Message: "unexpected JSON token"}
}

func numberValue(s string) (flatbin.Value, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return flatbin.IntValue(i), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return flatbin.Value{}, flatbin.Issue{Code: flatbin.CodeParseError, Message: "bad number " + strconv.Quote(s), Cause: err}
	}
	return flatbin.FloatValue(f), nil
}

func parseErr(err error) error {
	return flatbin.Issue{Code: flatbin.CodeParseError, Message: "malformed JSON", Cause: err}
}

// RenderJSON serializes a Value tree back to JSON text. Object fields keep
// their order. Floats always carry a fraction or exponent so that a
// render/parse round trip preserves the int/float distinction.
func RenderJSON(v flatbin.Value) ([]byte, error) {
	return AppendJSON(nil, v)
}

// AppendJSON appends the JSON rendering of v to dst.
func AppendJSON(dst []byte, v flatbin.Value) ([]byte, error) {
	var err error
	switch v.Kind() {
	case flatbin.ValueNull:
		return append(dst, "null"...), nil
	case flatbin.ValueBool:
		return strconv.AppendBool(dst, v.Bool()), nil
	case flatbin.ValueInt:
		return strconv.AppendInt(dst, v.Int(), 10), nil
	case flatbin.ValueFloat:
		return appendFloat(dst, v.Float())
	case flatbin.ValueString:
		return appendQuoted(dst, v.Str())
	case flatbin.ValueArray:
		dst = append(dst, '[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				dst = append(dst, ',')
			}
			if dst, err = AppendJSON(dst, v.At(i)); err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case flatbin.ValueObject:
		dst = append(dst, '{')
		for i := 0; i < v.Len(); i++ {
			f := v.FieldAt(i)
			if i > 0 {
				dst = append(dst, ',')
			}
			if dst, err = appendQuoted(dst, f.Name); err != nil {
				return nil, err
			}
			dst = append(dst, ':')
			if dst, err = AppendJSON(dst, f.Value); err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	default:
		return nil, flatbin.Issue{Code: flatbin.CodeParseError, Message: "unknown value kind"}
	}
}

func appendFloat(dst []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, flatbin.Issue{Code: flatbin.CodeParseError, Message: "non-finite float has no JSON form"}
	}
	out := strconv.AppendFloat(dst, f, 'g', -1, 64)
	// "2" would re-parse as an int; keep the float marker.
	if !bytes.ContainsAny(out[len(dst):], ".eE") {
		out = append(out, '.', '0')
	}
	return out, nil
}

func appendQuoted(dst []byte, s string) ([]byte, error) {
	q, err := j.Marshal(s)
	if err != nil {
		return nil, flatbin.Issue{Code: flatbin.CodeParseError, Message: "string not encodable", Cause: err}
	}
	return append(dst, q...), nil
}
