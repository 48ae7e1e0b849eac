// Package shape describes the structure of a record type for the generators.
//
// A Description is produced by a front-end (see the loader package) and is
// read-only for the duration of generation. The Analyzer classifies each
// field's declared type so that the builder and debug generators can decide
// how a field is stored, set and formatted.
package shape

import (
	"fmt"
	"go/token"
	"strings"
)

// Designated container names. A pointer is the optional container and a
// slice is the growable sequence container.
const (
	PointerName = "*"
	SliceName   = "[]"
)

// Span is the source range of a declaration or annotation.
type Span struct {
	Start token.Position
	End   token.Position
}

// String renders the start of the span as file:line:column.
func (s Span) String() string {
	return s.Start.String()
}

// TypeExpr is the structural form of a declared type.
//
// Name is the outermost type name ("*" for pointers, "[]" for slices),
// Qualifier is the package selector of a named type, and Args holds the
// generic arguments (or the element type of a pointer or slice).
// Text, when set, is the type exactly as written in source.
type TypeExpr struct {
	Name      string     `yaml:"name"`
	Qualifier string     `yaml:"qualifier,omitempty"`
	Args      []TypeExpr `yaml:"args,omitempty"`
	Text      string     `yaml:"text,omitempty"`
}

// Ident returns a named type without arguments, e.g. string or T.
func Ident(name string) TypeExpr {
	return TypeExpr{Name: name}
}

// Pointer returns *elem.
func Pointer(elem TypeExpr) TypeExpr {
	return TypeExpr{Name: PointerName, Args: []TypeExpr{elem}}
}

// Slice returns []elem.
func Slice(elem TypeExpr) TypeExpr {
	return TypeExpr{Name: SliceName, Args: []TypeExpr{elem}}
}

// Generic returns name[args...]. A qualified name such as "derive.Phantom"
// is split into qualifier and name.
func Generic(name string, args ...TypeExpr) TypeExpr {
	t := TypeExpr{Name: name, Args: args}
	if i := strings.LastIndex(name, "."); i >= 0 {
		t.Qualifier, t.Name = name[:i], name[i+1:]
	}
	return t
}

// String renders the type as Go source. Source text wins when present.
func (t TypeExpr) String() string {
	if t.Text != "" {
		return t.Text
	}
	switch t.Name {
	case PointerName, SliceName:
		if len(t.Args) == 1 {
			return t.Name + t.Args[0].String()
		}
		return t.Name
	}
	name := t.Name
	if t.Qualifier != "" {
		name = t.Qualifier + "." + name
	}
	if len(t.Args) == 0 {
		return name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", name, strings.Join(args, ", "))
}

// Is reports exact textual identity with another type.
func (t TypeExpr) Is(other string) bool {
	return t.String() == other
}

// RawAnnotation is one unparsed marker attached to a field or type,
// e.g. `+builder:each="arg"`, together with its source span.
type RawAnnotation struct {
	Text string `yaml:"text"`
	Span Span   `yaml:"-"`
}

// Field describes one named field of a record.
type Field struct {
	Name        string          `yaml:"name"`
	Type        TypeExpr        `yaml:"type"`
	Annotations []RawAnnotation `yaml:"annotations,omitempty"`
	Span        Span            `yaml:"-"`
}

// TypeParam is a generic type parameter with its declared constraint.
type TypeParam struct {
	Name       string `yaml:"name"`
	Constraint string `yaml:"constraint"`
}

// Description is the shape of one record type.
type Description struct {
	Name       string      `yaml:"name"`
	Package    string      `yaml:"package,omitempty"`
	Fields     []Field     `yaml:"fields"`
	TypeParams []TypeParam `yaml:"type_params,omitempty"`
	Span       Span        `yaml:"-"`
}

// Blank is the name of a blank field. Generated code cannot refer to it.
const Blank = "_"

// Addressable returns a copy of d without its blank fields.
func (d Description) Addressable() Description {
	fields := make([]Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		if f.Name != Blank {
			fields = append(fields, f)
		}
	}
	d.Fields = fields
	return d
}

// IsGeneric reports whether the record declares type parameters.
func (d Description) IsGeneric() bool {
	return len(d.TypeParams) > 0
}

// TypeArgs renders the instantiation suffix used inside generated code,
// e.g. "[K, V]", or "" for a non-generic record.
func (d Description) TypeArgs() string {
	if len(d.TypeParams) == 0 {
		return ""
	}
	names := make([]string, len(d.TypeParams))
	for i, p := range d.TypeParams {
		names[i] = p.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// TypeParamList renders a type parameter list with constraints,
// e.g. "[K comparable, V any]", or "" for a non-generic record.
// constraint may override the declared constraint of a parameter; it
// receives the parameter and returns the constraint text to emit.
func (d Description) TypeParamList(constraint func(TypeParam) string) string {
	if len(d.TypeParams) == 0 {
		return ""
	}
	parts := make([]string, len(d.TypeParams))
	for i, p := range d.TypeParams {
		c := p.Constraint
		if constraint != nil {
			c = constraint(p)
		}
		if c == "" {
			c = "any"
		}
		parts[i] = p.Name + " " + c
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Instance renders the record type as used in generated code, e.g. "Pair[K, V]".
func (d Description) Instance() string {
	return d.Name + d.TypeArgs()
}
