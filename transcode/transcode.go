// Package transcode converts between JSON text and flatbin bytes through
// the generic Value tree. It is the simpler, less performance-sensitive
// codec path: parse (or decode), then walk.
package transcode

import (
	"github.com/reoring/flatbin"
	"github.com/reoring/flatbin/source"
)

// Codec binds one schema to both transcoding directions.
type Codec struct {
	ty *flatbin.Ty
}

// New returns a codec for the given schema.
func New(ty *flatbin.Ty) *Codec { return &Codec{ty: ty} }

// Ty returns the bound schema.
func (c *Codec) Ty() *flatbin.Ty { return c.ty }

// FromJSON encodes a JSON document against the bound schema. The document
// must conform: extra or missing object fields, or mis-typed values, yield
// a schema_mismatch error naming the offending path.
func (c *Codec) FromJSON(data []byte) ([]byte, error) {
	v, err := source.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	return flatbin.Encode(c.ty, v)
}

// ToJSON decodes flatbin bytes and renders them as JSON text.
func (c *Codec) ToJSON(bin []byte) ([]byte, error) {
	v, err := flatbin.Decode(c.ty, bin)
	if err != nil {
		return nil, err
	}
	return source.RenderJSON(v)
}

// JSONPath slices the node at a JSON-Pointer-style path out of bin and
// renders only that node as JSON. Siblings are skipped, not decoded.
func (c *Codec) JSONPath(bin []byte, path string) ([]byte, error) {
	p, err := flatbin.ParsePath(path)
	if err != nil {
		return nil, err
	}
	v, err := flatbin.DecodePath(c.ty, bin, p)
	if err != nil {
		return nil, err
	}
	return source.RenderJSON(v)
}

// FromJSON is a one-shot helper over Codec.FromJSON.
func FromJSON(ty *flatbin.Ty, data []byte) ([]byte, error) {
	return New(ty).FromJSON(data)
}

// ToJSON is a one-shot helper over Codec.ToJSON.
func ToJSON(ty *flatbin.Ty, bin []byte) ([]byte, error) {
	return New(ty).ToJSON(bin)
}
