package flatbin

import (
	"errors"
	"fmt"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeSchemaMismatch   = "schema_mismatch"    // value shape does not match the schema node (encode-time)
	CodeTruncatedBuffer  = "truncated_buffer"   // fewer bytes remain than the format demands (decode-time)
	CodeInvalidEncoding  = "invalid_encoding"   // a count/length/offset field is inconsistent with the buffer (decode-time)
	CodeIndexOutOfRange  = "index_out_of_range" // an index selector exceeds the element or field count (locate-time)
	CodeUnknownField     = "unknown_field"      // a field-name selector names no declared field (locate-time)
	CodePathTypeMismatch = "path_type_mismatch" // a selector kind does not fit the node it is applied to (locate-time)
	CodeParseError       = "parse_error"        // malformed text input in one of the bridges
)

// Issue is a single codec error. Path is a JSON Pointer into the document
// (for example: /items/2/name) locating the node the operation failed at.
type Issue struct {
	Path    string
	Code    string
	Message string
	Cause   error // Optional: underlying error.
}

// Error renders as "code at path: message".
func (it Issue) Error() string {
	if it.Message == "" {
		return fmt.Sprintf("%s at %s", it.Code, pointerOrRoot(it.Path))
	}
	return fmt.Sprintf("%s at %s: %s", it.Code, pointerOrRoot(it.Path), it.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (it Issue) Unwrap() error { return it.Cause }

// AsIssue extracts an Issue from an error using errors.As internally.
func AsIssue(err error) (Issue, bool) {
	if err == nil {
		return Issue{}, false
	}
	var it Issue
	if errors.As(err, &it) {
		return it, true
	}
	return Issue{}, false
}

// IsCode reports whether err carries an Issue with the given code.
func IsCode(err error, code string) bool {
	it, ok := AsIssue(err)
	return ok && it.Code == code
}

func issuef(code, path, format string, args ...any) Issue {
	return Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...)}
}

func pointerOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
