package transcode_test

import (
	"bytes"
	"testing"

	"github.com/reoring/flatbin"
	d "github.com/reoring/flatbin/dsl"
	"github.com/reoring/flatbin/transcode"
)

func personSchema() *flatbin.Ty {
	return d.Object().
		Field("name", d.String()).
		Field("age", d.Int()).
		Field("hobbies", d.Array(d.String())).
		Field("gopher", d.Bool()).
		MustBuild()
}

const personJSON = `{
	"name": "Alexander",
	"age": 27,
	"hobbies": ["music", "programming"],
	"gopher": true
}`

func TestJSONRoundTrip(t *testing.T) {
	ty := personSchema()
	bin, err := transcode.FromJSON(ty, []byte(personJSON))
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	text, err := transcode.ToJSON(ty, bin)
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	want := `{"name":"Alexander","age":27,"hobbies":["music","programming"],"gopher":true}`
	if string(text) != want {
		t.Fatalf("got %s\nwant %s", text, want)
	}

	// The text round trip must re-encode to identical bytes.
	bin2, err := transcode.FromJSON(ty, text)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(bin, bin2) {
		t.Fatalf("re-encode produced different bytes")
	}
}

func TestFromJSONMatchesEncode(t *testing.T) {
	ty := d.Object().
		Field("a", d.Int()).
		Field("b", d.Array(d.String())).
		MustBuild()

	bin, err := transcode.FromJSON(ty, []byte(`{"a": 7, "b": ["hi", "world"]}`))
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	want, err := flatbin.Encode(ty, flatbin.ObjectValue(
		flatbin.FV("a", flatbin.IntValue(7)),
		flatbin.FV("b", flatbin.ArrayValue(flatbin.StringValue("hi"), flatbin.StringValue("world"))),
	))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(bin, want) {
		t.Fatalf("transcode bytes differ from direct encode\n got %v\nwant %v", bin, want)
	}
}

func TestFromJSONFloatFieldAcceptsIntegerLiteral(t *testing.T) {
	ty := d.Object().Field("ratio", d.Float()).MustBuild()
	bin, err := transcode.FromJSON(ty, []byte(`{"ratio": 2}`))
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	text, err := transcode.ToJSON(ty, bin)
	if err != nil {
		t.Fatalf("to json: %v", err)
	}
	if string(text) != `{"ratio":2.0}` {
		t.Fatalf("got %s", text)
	}
}

func TestFromJSONMismatch(t *testing.T) {
	ty := personSchema()
	_, err := transcode.FromJSON(ty, []byte(`{"name": "A", "age": "old", "hobbies": [], "gopher": false}`))
	it, ok := flatbin.AsIssue(err)
	if !ok || it.Code != flatbin.CodeSchemaMismatch || it.Path != "/age" {
		t.Fatalf("got %v, want schema_mismatch at /age", err)
	}
}

func TestJSONPath(t *testing.T) {
	ty := personSchema()
	c := transcode.New(ty)
	bin, err := c.FromJSON([]byte(personJSON))
	if err != nil {
		t.Fatalf("from json: %v", err)
	}

	got, err := c.JSONPath(bin, "/hobbies/1")
	if err != nil {
		t.Fatalf("json path: %v", err)
	}
	if string(got) != `"programming"` {
		t.Fatalf("got %s", got)
	}

	if _, err := c.JSONPath(bin, "/hobbies/9"); !flatbin.IsCode(err, flatbin.CodeIndexOutOfRange) {
		t.Fatalf("got %v, want index_out_of_range", err)
	}
}
