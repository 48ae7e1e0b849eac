// Package annotation parses marker comments attached to fields and types.
//
// A marker is a comment line of the form
//
//	// +builder:each="arg"
//	// +debug="0b%08b"
//	// +derive:builder
//
// Each Parser owns exactly one namespace (the identifier after '+'); markers
// of any other namespace are invisible to it. Within its namespace a parser
// accepts a fixed set of keys and reports anything else as an AttributeError
// carrying the marker's source span.
package annotation

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strconv"

	"go.uber.org/multierr"

	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/shape"
)

// Value is the optional string payload of an annotation key.
// Set is false for a bare key.
type Value struct {
	Text string
	Set  bool
}

// Map holds the recognised annotations of one field, keyed by annotation key.
type Map map[string]Value

// Has reports whether key was present, with or without a value.
func (m Map) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Lookup returns the string value of key. ok is false when the key is absent
// or was given without a value.
func (m Map) Lookup(key string) (value string, ok bool) {
	v, present := m[key]
	if !present || !v.Set {
		return "", false
	}
	return v.Text, true
}

// AttributeError is a malformed or unrecognised annotation.
type AttributeError struct {
	Span  shape.Span
	Owner string // field or record the annotation is attached to
	Text  string // the marker as written
	Msg   string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Msg)
}

// Is makes every AttributeError match errors.ErrAttribute.
func (e *AttributeError) Is(target error) bool {
	return target == errors.ErrAttribute
}

// Parser validates the markers of a single namespace.
type Parser struct {
	Namespace string
	Expected  string
	keys      map[string]bool
}

// NewParser returns a parser for namespace that accepts keys. expected is the
// diagnostic reported for every rejected marker and names the accepted form.
func NewParser(namespace, expected string, keys ...string) Parser {
	p := Parser{Namespace: namespace, Expected: expected, keys: make(map[string]bool, len(keys))}
	for _, k := range keys {
		p.keys[k] = true
	}
	return p
}

// Parsers for the namespaces derive understands.
var (
	Builder = NewParser("builder", `expected '+builder:each="..."'`, "each")
	Debug   = NewParser("debug", `expected '+debug="..."'`, "debug")
	Derive  = NewParser("derive", `expected '+derive:builder' or '+derive:debug'`, "builder", "debug")
)

// Parse returns the annotations of f recognised by p. Parsing stops at the
// first bad marker of the field.
func (p Parser) Parse(f shape.Field) (Map, error) {
	return p.ParseRaw(f.Name, f.Annotations)
}

// ParseRaw parses markers attached to owner (a field or record name).
// When a key repeats, the first occurrence wins.
func (p Parser) ParseRaw(owner string, anns []shape.RawAnnotation) (Map, error) {
	m := Map{}
	for _, raw := range anns {
		key, val, mine, ok := p.scan(raw.Text)
		if !mine {
			continue
		}
		if !ok || !p.keys[key] {
			return nil, &AttributeError{Span: raw.Span, Owner: owner, Text: raw.Text, Msg: p.Expected}
		}
		if _, seen := m[key]; !seen {
			m[key] = val
		}
	}
	return m, nil
}

// ParseAll parses every field, even after a failure, so that all bad fields
// are reported together. The returned error combines one AttributeError per
// failing field; use Errors to split it. Maps are keyed by field name.
func (p Parser) ParseAll(fields []shape.Field) (map[string]Map, error) {
	out := make(map[string]Map, len(fields))
	var errs error
	for _, f := range fields {
		m, err := p.Parse(f)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		out[f.Name] = m
	}
	if errs != nil {
		return nil, errs
	}
	return out, nil
}

// Errors returns the AttributeErrors contained in err, in field order.
func Errors(err error) []*AttributeError {
	var out []*AttributeError
	for _, e := range multierr.Errors(err) {
		var attr *AttributeError
		if errors.As(e, &attr) {
			out = append(out, attr)
		}
	}
	return out
}

// scan tokenizes one marker. mine is false when the marker belongs to another
// namespace (or is not a marker at all); ok is false when it belongs to p but
// does not fit the grammar
//
//	"+" namespace [ ":" key ] [ "=" string-literal ]
func (p Parser) scan(text string) (key string, val Value, mine, ok bool) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(text))
	var s scanner.Scanner
	s.Init(file, []byte(text), nil, 0)
	next := func() (token.Token, string) {
		_, tok, lit := s.Scan()
		return tok, lit
	}

	if tok, _ := next(); tok != token.ADD {
		return "", Value{}, false, false
	}
	if ns := ident(next()); ns == "" || ns != p.Namespace {
		return "", Value{}, false, false
	}

	key = p.Namespace
	tok, lit := next()
	if tok == token.COLON {
		if key = ident(next()); key == "" {
			return "", Value{}, true, false
		}
		tok, lit = next()
	}
	if tok == token.ASSIGN {
		tok, lit = next()
		if tok != token.STRING {
			return "", Value{}, true, false
		}
		text, err := strconv.Unquote(lit)
		if err != nil {
			return "", Value{}, true, false
		}
		val = Value{Text: text, Set: true}
		tok, lit = next()
	}
	if !atEnd(tok, lit) {
		return "", Value{}, true, false
	}
	return key, val, true, true
}

// ident accepts identifiers and keywords, so "+builder:type" scans as a key.
func ident(tok token.Token, lit string) string {
	if tok == token.IDENT || tok.IsKeyword() {
		return lit
	}
	return ""
}

func atEnd(tok token.Token, lit string) bool {
	return tok == token.EOF || (tok == token.SEMICOLON && lit == "\n")
}
