package schemafile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reoring/flatbin"
	"github.com/reoring/flatbin/schemafile"
)

const yamlDescriptor = `
type: object
fields:
  - name: a
    type: int
  - name: b
    type:
      type: array
      elem: string
`

func TestFromYAML(t *testing.T) {
	ty, err := schemafile.FromYAML([]byte(yamlDescriptor))
	if err != nil {
		t.Fatalf("from yaml: %v", err)
	}
	if got := ty.String(); got != "object{a:int,b:array<string>}" {
		t.Fatalf("got %s", got)
	}
}

func TestFromJSON(t *testing.T) {
	data := []byte(`{
		"type": "object",
		"fields": [
			{"name": "a", "type": "int"},
			{"name": "b", "type": {"type": "array", "elem": "string"}}
		]
	}`)
	ty, err := schemafile.FromJSON(data)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if got := ty.String(); got != "object{a:int,b:array<string>}" {
		t.Fatalf("got %s", got)
	}
}

func TestScalarShorthandEquivalence(t *testing.T) {
	a, err := schemafile.FromYAML([]byte("type: array\nelem: string\n"))
	if err != nil {
		t.Fatalf("shorthand: %v", err)
	}
	b, err := schemafile.FromYAML([]byte("type: array\nelem:\n  type: string\n"))
	if err != nil {
		t.Fatalf("longhand: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("%s != %s", a, b)
	}
}

func TestDescriptorErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown type", "type: decimal\n"},
		{"array without elem", "type: array\n"},
		{"field without type", "type: object\nfields:\n  - name: a\n"},
		{"missing type", "elem: string\n"},
		{"duplicate field", "type: object\nfields:\n  - name: a\n    type: int\n  - name: a\n    type: bool\n"},
	}
	for _, tc := range cases {
		if _, err := schemafile.FromYAML([]byte(tc.yaml)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoadPicksFormatByExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "schema.yaml")
	if err := os.WriteFile(yamlPath, []byte("type: string\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	jsonPath := filepath.Join(dir, "schema.json")
	if err := os.WriteFile(jsonPath, []byte(`"bool"`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ty, err := schemafile.Load(yamlPath)
	if err != nil || ty.Kind() != flatbin.KindString {
		t.Fatalf("yaml load: %v %v", ty, err)
	}
	ty, err = schemafile.Load(jsonPath)
	if err != nil || ty.Kind() != flatbin.KindBool {
		t.Fatalf("json load: %v %v", ty, err)
	}
}
