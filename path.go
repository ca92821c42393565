package flatbin

import (
	"fmt"
	"strconv"
	"strings"
)

// SelectorKind distinguishes the two ways to step into a composite node.
type SelectorKind uint8

const (
	SelectorIndex SelectorKind = iota // array element or declared field position
	SelectorField                     // object field by name
)

// Selector is one step of a Path: an index (arrays, or field position on an
// object) or a field name (objects only).
type Selector struct {
	kind  SelectorKind
	index int
	name  string
}

// At selects the i-th array element, or the i-th declared field on objects.
func At(i int) Selector { return Selector{kind: SelectorIndex, index: i} }

// Key selects an object field by name.
func Key(name string) Selector { return Selector{kind: SelectorField, name: name} }

// Kind returns the selector variant.
func (s Selector) Kind() SelectorKind { return s.kind }

// Index returns the index payload (valid for SelectorIndex).
func (s Selector) Index() int { return s.index }

// Name returns the field-name payload (valid for SelectorField).
func (s Selector) Name() string { return s.name }

func (s Selector) token() string {
	if s.kind == SelectorIndex {
		return strconv.Itoa(s.index)
	}
	return escapeToken(s.name)
}

// Path addresses one nested node, outermost selector first. The empty path
// addresses the root.
type Path []Selector

// String renders the path as a JSON Pointer ("/b/1"); the empty path
// renders as "/".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		b.WriteString(s.token())
	}
	return b.String()
}

// ParsePath parses a JSON-Pointer-flavored path: "" or "/" is the root,
// otherwise "/tok/tok/...". All-digit tokens become index selectors, every
// other token a field-name selector ("~0" and "~1" escape "~" and "/" as in
// RFC 6901). A field whose name is purely numeric must be addressed with At
// via a hand-built Path.
func ParsePath(s string) (Path, error) {
	if s == "" || s == "/" {
		return Path{}, nil
	}
	if s[0] != '/' {
		return nil, issuef(CodeParseError, "", "path %q does not start with '/'", s)
	}
	parts := strings.Split(s[1:], "/")
	p := make(Path, 0, len(parts))
	for _, tok := range parts {
		if isDigits(tok) {
			i, err := strconv.Atoi(tok)
			if err != nil {
				return nil, issuef(CodeParseError, "", "index token %q: %v", tok, err)
			}
			p = append(p, At(i))
			continue
		}
		name, err := unescapeToken(tok)
		if err != nil {
			return nil, err
		}
		p = append(p, Key(name))
	}
	return p, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func escapeToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

func unescapeToken(s string) (string, error) {
	if !strings.ContainsRune(s, '~') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '~' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			return "", issuef(CodeParseError, "", "dangling '~' in path token %q", s)
		}
		i++
		switch s[i] {
		case '0':
			b.WriteByte('~')
		case '1':
			b.WriteByte('/')
		default:
			return "", issuef(CodeParseError, "", "bad escape %q in path token", fmt.Sprintf("~%c", s[i]))
		}
	}
	return b.String(), nil
}

// childPath extends a JSON Pointer string by one token. Used for error paths.
func childPath(parent, token string) string {
	return parent + "/" + token
}
