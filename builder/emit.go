package builder

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/teranos/derive/derivegen"
	"github.com/teranos/derive/shape"
)

const slicesImport = "slices"

// emitter renders the fragments of one record. All identifiers it
// introduces are allocated up front so no body can shadow another name.
type emitter struct {
	opts    Options
	d       shape.Description
	members []member

	builder     string // builder type name
	instance    string // builder type with type arguments
	constructor string
	runtime     string // package qualifier of RuntimeImport

	storage string // nested struct field holding the values
	recv    string
	param   string
	result  string
}

func (g *Generator) newEmitter(d shape.Description, members []member) *emitter {
	e := &emitter{
		opts:    g.opts,
		d:       d,
		members: members,
		builder: d.Name + g.opts.TypeSuffix,
		runtime: path.Base(g.opts.RuntimeImport),
	}
	e.instance = e.builder + d.TypeArgs()
	e.constructor = derivegen.Prefixed(g.opts.ConstructorPrefix, e.builder)

	methods := derivegen.NewNamer(g.opts.BuildMethod)
	for _, m := range members {
		methods.Reserve(m.Name, m.accumulator)
	}
	e.storage = methods.Fresh("fields")

	locals := derivegen.NewNamer(d.Name, e.builder, e.constructor, e.runtime, slicesImport)
	for _, p := range d.TypeParams {
		locals.Reserve(p.Name)
	}
	e.recv = locals.Fresh("b")
	e.param = locals.Fresh("value")
	e.result = locals.Fresh("r")
	return e
}

func (e *emitter) fragment(kind derivegen.Kind, name, code string, imports ...string) derivegen.Fragment {
	return derivegen.Fragment{Kind: kind, Record: e.d.Name, Name: name, Code: code, Imports: imports}
}

// typeDecl renders the builder struct. Storage lives in a nested struct so
// that setter methods can carry the field names.
func (e *emitter) typeDecl() derivegen.Fragment {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s builds a %s. Create one with %s.\n", e.builder, e.d.Name, e.constructor)
	fmt.Fprintf(&sb, "type %s%s struct {\n", e.builder, e.d.TypeParamList(nil))
	if len(e.members) == 0 {
		fmt.Fprintf(&sb, "\t%s struct{}\n", e.storage)
	} else {
		fmt.Fprintf(&sb, "\t%s struct {\n", e.storage)
		width := 0
		for _, m := range e.members {
			width = max(width, utf8.RuneCountInString(m.Name))
		}
		for _, m := range e.members {
			pad := strings.Repeat(" ", width-utf8.RuneCountInString(m.Name)+1)
			fmt.Fprintf(&sb, "\t\t%s%s%s\n", m.Name, pad, storageType(m.ClassifiedField))
		}
		sb.WriteString("\t}\n")
	}
	sb.WriteString("}\n")
	return e.fragment(derivegen.TypeDecl, e.builder, sb.String())
}

// storageType keeps the declared type of optional and slice fields and adds
// a pointer to every other field, so nil means unset. A nil slice reads as
// empty.
func storageType(f shape.ClassifiedField) string {
	if f.Class.Kind == shape.Optional || f.Class.Kind == shape.Sequence {
		return f.Type.String()
	}
	return "*" + f.Type.String()
}

// setters renders the chained setters and accumulators in field order.
func (e *emitter) setters() []derivegen.Fragment {
	var out []derivegen.Fragment
	for _, m := range e.members {
		if m.setter {
			paramType := m.Type.String()
			if m.Class.Kind == shape.Optional {
				paramType = m.Class.Inner.String()
			}
			value := "&" + e.param
			if m.Class.Kind == shape.Sequence {
				value = e.param
			}
			body := fmt.Sprintf("\t%s.%s.%s = %s\n", e.recv, e.storage, m.Name, value)
			out = append(out, e.method(m.Name, fmt.Sprintf("%s sets %s.", m.Name, m.Name), paramType, body))
		}
		if m.accumulator != "" {
			slot := fmt.Sprintf("%s.%s.%s", e.recv, e.storage, m.Name)
			body := fmt.Sprintf("\t%s = append(%s, %s)\n", slot, slot, e.param)
			out = append(out, e.method(m.accumulator,
				fmt.Sprintf("%s appends one element to %s.", m.accumulator, m.Name),
				m.Class.Inner.String(), body))
		}
	}
	return out
}

func (e *emitter) method(name, doc, paramType, body string) derivegen.Fragment {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s\n", doc)
	fmt.Fprintf(&sb, "func (%s *%s) %s(%s %s) *%s {\n", e.recv, e.instance, name, e.param, paramType, e.instance)
	sb.WriteString(body)
	fmt.Fprintf(&sb, "\treturn %s\n", e.recv)
	sb.WriteString("}\n")
	return e.fragment(derivegen.Impl, name, sb.String())
}

// build renders the validating Build method. Required fields are checked in
// declaration order; the first unset one is reported.
func (e *emitter) build() derivegen.Fragment {
	record := e.d.Instance()
	var imports []string
	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s returns the %s, or a *%s.MissingFieldError naming the first\n", e.opts.BuildMethod, e.d.Name, e.runtime)
	sb.WriteString("// required field that was never set.\n")
	fmt.Fprintf(&sb, "func (%s *%s) %s() (%s, error) {\n", e.recv, e.instance, e.opts.BuildMethod, record)

	for _, m := range e.members {
		if !required(m.Class.Kind) {
			continue
		}
		fmt.Fprintf(&sb, "\tif %s.%s.%s == nil {\n", e.recv, e.storage, m.Name)
		fmt.Fprintf(&sb, "\t\treturn %s{}, &%s.MissingFieldError{Type: %q, Field: %q}\n", record, e.runtime, e.d.Name, m.Name)
		sb.WriteString("\t}\n")
		imports = appendOnce(imports, e.opts.RuntimeImport)
	}

	fmt.Fprintf(&sb, "\tvar %s %s\n", e.result, record)
	for _, m := range e.members {
		value := fmt.Sprintf("%s.%s.%s", e.recv, e.storage, m.Name)
		switch m.Class.Kind {
		case shape.Optional:
		case shape.Sequence:
			value = fmt.Sprintf("%s.Clone(%s)", slicesImport, value)
			imports = appendOnce(imports, slicesImport)
		default:
			value = "*" + value
		}
		fmt.Fprintf(&sb, "\t%s.%s = %s\n", e.result, m.Name, value)
	}
	fmt.Fprintf(&sb, "\treturn %s, nil\n", e.result)
	sb.WriteString("}\n")
	return e.fragment(derivegen.Impl, e.opts.BuildMethod, sb.String(), imports...)
}

// constructorDecl renders the zero-argument constructor. Slice fields start
// present and empty.
func (e *emitter) constructorDecl() derivegen.Fragment {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// %s returns a %s with no fields set.\n", e.constructor, e.builder)
	fmt.Fprintf(&sb, "func %s%s() *%s {\n", e.constructor, e.d.TypeParamList(nil), e.instance)

	var seqs []member
	for _, m := range e.members {
		if m.Class.Kind == shape.Sequence {
			seqs = append(seqs, m)
		}
	}
	if len(seqs) == 0 {
		fmt.Fprintf(&sb, "\treturn &%s{}\n", e.instance)
	} else {
		fmt.Fprintf(&sb, "\t%s := &%s{}\n", e.recv, e.instance)
		for _, m := range seqs {
			fmt.Fprintf(&sb, "\t%s.%s.%s = %s{}\n", e.recv, e.storage, m.Name, m.Type)
		}
		fmt.Fprintf(&sb, "\treturn %s\n", e.recv)
	}
	sb.WriteString("}\n")
	return e.fragment(derivegen.Constructor, e.constructor, sb.String())
}

// required reports whether Build must reject an unset field of kind k.
// Optional fields may stay nil and slices are never unset.
func required(k shape.Kind) bool {
	return k == shape.Plain || k == shape.Marker
}

func appendOnce(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
