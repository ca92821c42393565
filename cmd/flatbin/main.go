package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/reoring/flatbin"
	"github.com/reoring/flatbin/schemafile"
	"github.com/reoring/flatbin/transcode"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "encode":
		encodeCmd(os.Args[2:])
	case "decode":
		decodeCmd(os.Args[2:])
	case "get":
		getCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `flatbin CLI

Usage:
  flatbin encode -schema schema.yaml -in doc.json  [-o doc.bin]
  flatbin decode -schema schema.yaml -in doc.bin   [-o doc.json]
  flatbin get    -schema schema.yaml -in doc.bin -path /b/1 [-raw]

Notes:
  - "-" for -in reads stdin; omitting -o writes stdout.
  - get slices the addressed node without decoding its siblings.`)
}

func encodeCmd(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema descriptor file (YAML or JSON)")
	in := fs.String("in", "-", "JSON document to encode")
	out := fs.String("o", "", "output file (default stdout)")
	_ = fs.Parse(args)

	ty := loadSchema(*schemaPath)
	doc := readInput(*in)
	bin, err := transcode.FromJSON(ty, doc)
	if err != nil {
		fail(err)
	}
	writeOutput(*out, bin)
}

func decodeCmd(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema descriptor file (YAML or JSON)")
	in := fs.String("in", "-", "flatbin buffer to decode")
	out := fs.String("o", "", "output file (default stdout)")
	_ = fs.Parse(args)

	ty := loadSchema(*schemaPath)
	bin := readInput(*in)
	doc, err := transcode.ToJSON(ty, bin)
	if err != nil {
		fail(err)
	}
	writeOutput(*out, append(doc, '\n'))
}

func getCmd(args []string) {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	schemaPath := fs.String("schema", "", "schema descriptor file (YAML or JSON)")
	in := fs.String("in", "-", "flatbin buffer to slice")
	pathArg := fs.String("path", "/", "JSON-Pointer-style path, e.g. /b/1")
	raw := fs.Bool("raw", false, "emit the raw byte slice instead of JSON")
	out := fs.String("o", "", "output file (default stdout)")
	_ = fs.Parse(args)

	ty := loadSchema(*schemaPath)
	bin := readInput(*in)

	if *raw {
		p, err := flatbin.ParsePath(*pathArg)
		if err != nil {
			fail(err)
		}
		sub, _, err := flatbin.Slice(ty, bin, p)
		if err != nil {
			fail(err)
		}
		writeOutput(*out, sub)
		return
	}

	doc, err := transcode.New(ty).JSONPath(bin, *pathArg)
	if err != nil {
		fail(err)
	}
	writeOutput(*out, append(doc, '\n'))
}

func loadSchema(path string) *flatbin.Ty {
	if path == "" {
		fail(fmt.Errorf("missing -schema"))
	}
	ty, err := schemafile.Load(path)
	if err != nil {
		fail(err)
	}
	return ty
}

func readInput(path string) []byte {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fail(err)
		}
		return data
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fail(err)
	}
	return data
}

func writeOutput(path string, data []byte) {
	if path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			fail(err)
		}
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "flatbin:", err)
	os.Exit(1)
}
