// Package debug generates field-by-field formatting for a record type.
//
// For a record Pair[K comparable, V any] it emits a defined type
// PairDebug over the record that implements fmt.Formatter and fmt.Stringer,
// and a DebugPair conversion function:
//
//	fmt.Println(DebugPair(p)) // Pair{Key: k, Value: v}
//
// Each field is rendered as "Name: " followed by its template, by default
// %v, overridden per field with // +debug="0b%08b". Type parameters that are
// formatted by value get the capability bound (fmt.Stringer unless
// configured) added to their constraint. Parameters that only appear inside
// a marker placeholder such as derive.Phantom[T] keep their constraint.
package debug

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/teranos/derive/annotation"
	"github.com/teranos/derive/bounds"
	"github.com/teranos/derive/derivegen"
	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/shape"
)

const fmtImport = "fmt"

// Options names the generated identifiers and the formatting defaults.
type Options struct {
	TypeSuffix      string
	FuncPrefix      string
	Bound           string // constraint added to parameters that need it
	BoundImport     string // import path Bound refers to, if not fmt
	DefaultTemplate string
	Markers         []string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		TypeSuffix:      "Debug",
		FuncPrefix:      "Debug",
		Bound:           "fmt.Stringer",
		DefaultTemplate: "%v",
		Markers:         shape.DefaultMarkers,
	}
}

// Generator implements derivegen.Generator for debug formatting.
type Generator struct {
	opts     Options
	analyzer *shape.Analyzer
}

// NewGenerator returns a debug generator. Empty options fall back to
// DefaultOptions.
func NewGenerator(opts Options) *Generator {
	def := DefaultOptions()
	if opts.TypeSuffix == "" {
		opts.TypeSuffix = def.TypeSuffix
	}
	if opts.FuncPrefix == "" {
		opts.FuncPrefix = def.FuncPrefix
	}
	if opts.Bound == "" {
		opts.Bound = def.Bound
	}
	if opts.DefaultTemplate == "" {
		opts.DefaultTemplate = def.DefaultTemplate
	}
	return &Generator{opts: opts, analyzer: shape.NewAnalyzer(opts.Markers...)}
}

// Name returns "debug"
func (g *Generator) Name() string {
	return "debug"
}

// Generate returns the formatter type, its Format and String methods and the
// conversion function.
func (g *Generator) Generate(d shape.Description) ([]derivegen.Fragment, error) {
	d = d.Addressable()
	anns, err := annotation.Debug.ParseAll(d.Fields)
	if err != nil {
		return nil, err
	}
	for _, f := range d.Fields {
		if f.Name == "Format" || f.Name == "String" {
			return nil, errors.NewNameConflict("%s: field %s of %s collides with the %s method of %s%s",
				f.Span, f.Name, d.Name, f.Name, d.Name, g.opts.TypeSuffix)
		}
	}

	fields := g.analyzer.ClassifyFields(d)
	var needs []string
	if d.IsGeneric() {
		needs = bounds.Infer(d.TypeParams, fields)
	}

	qualifiers := []string{fmtImport}
	if len(needs) > 0 {
		qualifiers = append(qualifiers, g.boundQualifier())
	}
	if err := derivegen.CheckQualifiers(d, qualifiers...); err != nil {
		return nil, err
	}

	e := g.newEmitter(d, needs)
	templates := make([]string, len(fields))
	for i, f := range fields {
		templates[i] = g.opts.DefaultTemplate
		if tmpl, ok := anns[f.Name].Lookup("debug"); ok {
			templates[i] = tmpl
		}
	}

	return []derivegen.Fragment{
		e.typeDecl(),
		e.format(templates),
		e.stringer(),
		e.constructor(),
	}, nil
}

// boundQualifier returns the package name Bound refers to, or "" when it
// names no package.
func (g *Generator) boundQualifier() string {
	if g.opts.BoundImport != "" {
		return path.Base(g.opts.BoundImport)
	}
	if q, _, ok := strings.Cut(g.opts.Bound, "."); ok && derivegen.IsIdent(q) {
		return q
	}
	return ""
}

// Constrain returns constraint with bound added. An empty or universal
// constraint is replaced by the bound; any other constraint is kept and
// combined with it.
func Constrain(constraint, bound string) string {
	switch strings.TrimSpace(constraint) {
	case "", "any", "interface{}":
		return bound
	case bound:
		return constraint
	}
	return fmt.Sprintf("interface{ %s; %s }", constraint, bound)
}

type emitter struct {
	opts  Options
	d     shape.Description
	needs map[string]bool
	typ   string // formatter type name
	inst  string // formatter type with type arguments
	fn    string // conversion function
	value string
	state string
	verb  string
}

func (g *Generator) newEmitter(d shape.Description, needs []string) *emitter {
	e := &emitter{
		opts:  g.opts,
		d:     d,
		needs: make(map[string]bool, len(needs)),
		typ:   d.Name + g.opts.TypeSuffix,
		fn:    derivegen.Prefixed(g.opts.FuncPrefix, d.Name),
	}
	for _, n := range needs {
		e.needs[n] = true
	}
	e.inst = e.typ + d.TypeArgs()

	locals := derivegen.NewNamer(d.Name, e.typ, e.fn, fmtImport)
	for _, p := range d.TypeParams {
		locals.Reserve(p.Name)
	}
	e.value = locals.Fresh("v")
	e.state = locals.Fresh("f")
	e.verb = locals.Fresh("verb")
	return e
}

func (e *emitter) fragment(kind derivegen.Kind, name, code string) derivegen.Fragment {
	imports := []string{fmtImport}
	if len(e.needs) > 0 && e.opts.BoundImport != "" {
		imports = append(imports, e.opts.BoundImport)
	}
	return derivegen.Fragment{Kind: kind, Record: e.d.Name, Name: name, Code: code, Imports: imports}
}

// params renders the type parameter list with inferred bounds applied.
func (e *emitter) params() string {
	return e.d.TypeParamList(func(p shape.TypeParam) string {
		if e.needs[p.Name] {
			return Constrain(p.Constraint, e.opts.Bound)
		}
		return p.Constraint
	})
}

func (e *emitter) typeDecl() derivegen.Fragment {
	code := fmt.Sprintf("// %s formats a %s field by field.\ntype %s%s %s\n",
		e.typ, e.d.Name, e.typ, e.params(), e.d.Instance())
	return e.fragment(derivegen.TypeDecl, e.typ, code)
}

// format renders Format: one Fprintf per field in declaration order, each
// labelled with the field name.
func (e *emitter) format(templates []string) derivegen.Fragment {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// Format writes %s{Field: value, ...} in declaration order.\n", e.d.Name)
	fmt.Fprintf(&sb, "func (%s %s) Format(%s fmt.State, %s rune) {\n", e.value, e.inst, e.state, e.verb)
	if len(e.d.Fields) == 0 {
		fmt.Fprintf(&sb, "\tfmt.Fprint(%s, %s)\n", e.state, strconv.Quote(e.d.Name+"{}"))
	} else {
		fmt.Fprintf(&sb, "\tfmt.Fprint(%s, %s)\n", e.state, strconv.Quote(e.d.Name+"{"))
		for i, f := range e.d.Fields {
			if i > 0 {
				fmt.Fprintf(&sb, "\tfmt.Fprint(%s, \", \")\n", e.state)
			}
			fmt.Fprintf(&sb, "\tfmt.Fprintf(%s, %s, %s.%s)\n",
				e.state, strconv.Quote(f.Name+": "+templates[i]), e.value, f.Name)
		}
		fmt.Fprintf(&sb, "\tfmt.Fprint(%s, \"}\")\n", e.state)
	}
	sb.WriteString("}\n")
	return e.fragment(derivegen.Impl, "Format", sb.String())
}

func (e *emitter) stringer() derivegen.Fragment {
	code := fmt.Sprintf("// String returns the Format output for %%v.\nfunc (%s %s) String() string {\n\treturn fmt.Sprint(%s)\n}\n",
		e.value, e.inst, e.value)
	return e.fragment(derivegen.Impl, "String", code)
}

func (e *emitter) constructor() derivegen.Fragment {
	code := fmt.Sprintf("// %s wraps v so that it prints field by field.\nfunc %s%s(%s %s) %s {\n\treturn %s(%s)\n}\n",
		e.fn, e.fn, e.params(), e.value, e.d.Instance(), e.inst, e.inst, e.value)
	return e.fragment(derivegen.Constructor, e.fn, code)
}
