// Package schemafile loads flatbin schemas from textual descriptors, in
// YAML or JSON. The descriptor grammar mirrors the Ty variants:
//
//	type: object
//	fields:
//	  - name: a
//	    type: int
//	  - name: b
//	    type:
//	      type: array
//	      elem: string
//
// A bare string is shorthand for a primitive node, so "elem: string" and
// "elem: {type: string}" are equivalent.
package schemafile

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/flatbin"
	"github.com/reoring/flatbin/dsl"
)

type typeNode struct {
	Type   string
	Elem   *typeNode
	Fields []fieldNode
}

type fieldNode struct {
	Name string    `yaml:"name" json:"name"`
	Type *typeNode `yaml:"type" json:"type"`
}

type rawTypeNode struct {
	Type   string      `yaml:"type" json:"type"`
	Elem   *typeNode   `yaml:"elem" json:"elem"`
	Fields []fieldNode `yaml:"fields" json:"fields"`
}

// UnmarshalYAML accepts either a scalar shorthand ("int") or a mapping.
func (n *typeNode) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&n.Type)
	}
	var raw rawTypeNode
	if err := node.Decode(&raw); err != nil {
		return err
	}
	n.Type, n.Elem, n.Fields = raw.Type, raw.Elem, raw.Fields
	return nil
}

// UnmarshalJSON accepts either a string shorthand or an object.
func (n *typeNode) UnmarshalJSON(b []byte) error {
	s := bytes.TrimSpace(b)
	if len(s) > 0 && s[0] == '"' {
		return j.Unmarshal(b, &n.Type)
	}
	var raw rawTypeNode
	if err := j.Unmarshal(b, &raw); err != nil {
		return err
	}
	n.Type, n.Elem, n.Fields = raw.Type, raw.Elem, raw.Fields
	return nil
}

// FromYAML builds a schema from a YAML descriptor.
func FromYAML(data []byte) (*flatbin.Ty, error) {
	var n typeNode
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return build(&n)
}

// FromJSON builds a schema from a JSON descriptor.
func FromJSON(data []byte) (*flatbin.Ty, error) {
	var n typeNode
	if err := j.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	return build(&n)
}

// Load reads a descriptor file, picking the format by extension: .json is
// JSON, everything else is parsed as YAML.
func Load(path string) (*flatbin.Ty, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".json") {
		return FromJSON(data)
	}
	return FromYAML(data)
}

func build(n *typeNode) (*flatbin.Ty, error) {
	switch n.Type {
	case "null":
		return dsl.Null(), nil
	case "bool":
		return dsl.Bool(), nil
	case "int":
		return dsl.Int(), nil
	case "float":
		return dsl.Float(), nil
	case "string":
		return dsl.String(), nil
	case "array":
		if n.Elem == nil {
			return nil, fmt.Errorf("schemafile: array descriptor is missing elem")
		}
		elem, err := build(n.Elem)
		if err != nil {
			return nil, err
		}
		return dsl.Array(elem), nil
	case "object":
		b := dsl.Object()
		for _, f := range n.Fields {
			if f.Type == nil {
				return nil, fmt.Errorf("schemafile: field %q is missing a type", f.Name)
			}
			ft, err := build(f.Type)
			if err != nil {
				return nil, err
			}
			b = b.Field(f.Name, ft)
		}
		t, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("schemafile: %w", err)
		}
		return t, nil
	case "":
		return nil, fmt.Errorf("schemafile: descriptor node is missing a type")
	default:
		return nil, fmt.Errorf("schemafile: unknown type %q", n.Type)
	}
}
