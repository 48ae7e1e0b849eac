// Package builder generates a builder companion for a record type.
//
// For a record
//
//	// +derive:builder
//	type Command struct {
//		Executable string
//		Args       []string // +builder:each="Arg"
//		CurrentDir *string
//	}
//
// it emits CommandBuilder with one chained setter per field, an Arg method
// that appends a single element, NewCommandBuilder and a Build method that
// reports unset required fields as *derive.MissingFieldError. Pointer fields
// are optional: their setter takes the element type and Build passes them
// through unchanged. Slice fields start empty so accumulators can append
// straight away.
package builder

import (
	"fmt"
	"path"
	"strings"

	"github.com/teranos/derive/annotation"
	"github.com/teranos/derive/derivegen"
	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/logger"
	"github.com/teranos/derive/shape"
)

// Options names the generated identifiers.
type Options struct {
	TypeSuffix        string // builder type is record name + suffix
	ConstructorPrefix string // constructor is prefix + builder type
	BuildMethod       string
	RuntimeImport     string   // package providing MissingFieldError
	Markers           []string // marker placeholder type names
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		TypeSuffix:        "Builder",
		ConstructorPrefix: "New",
		BuildMethod:       "Build",
		RuntimeImport:     "github.com/teranos/derive",
		Markers:           shape.DefaultMarkers,
	}
}

// Generator implements derivegen.Generator for builders.
type Generator struct {
	opts     Options
	analyzer *shape.Analyzer
}

// NewGenerator returns a builder generator. Empty options fall back to
// DefaultOptions.
func NewGenerator(opts Options) *Generator {
	def := DefaultOptions()
	if opts.TypeSuffix == "" {
		opts.TypeSuffix = def.TypeSuffix
	}
	if opts.ConstructorPrefix == "" {
		opts.ConstructorPrefix = def.ConstructorPrefix
	}
	if opts.BuildMethod == "" {
		opts.BuildMethod = def.BuildMethod
	}
	if opts.RuntimeImport == "" {
		opts.RuntimeImport = def.RuntimeImport
	}
	return &Generator{opts: opts, analyzer: shape.NewAnalyzer(opts.Markers...)}
}

// Name returns "builder"
func (g *Generator) Name() string {
	return "builder"
}

// member is one source field together with the methods generated for it.
type member struct {
	shape.ClassifiedField
	setter      bool   // whole-value setter named after the field
	accumulator string // per-element setter, "" for none
}

// Generate returns the builder type, its methods and its constructor.
func (g *Generator) Generate(d shape.Description) ([]derivegen.Fragment, error) {
	d = d.Addressable()
	anns, err := annotation.Builder.ParseAll(d.Fields)
	if err != nil {
		return nil, err
	}
	members, err := g.plan(d, g.analyzer.ClassifyFields(d), anns)
	if err != nil {
		return nil, err
	}

	if err := derivegen.CheckQualifiers(d, g.qualifiers(members)...); err != nil {
		return nil, err
	}

	e := g.newEmitter(d, members)
	frags := []derivegen.Fragment{e.typeDecl()}
	frags = append(frags, e.setters()...)
	frags = append(frags, e.build(), e.constructorDecl())
	return frags, nil
}

// qualifiers returns the package names Build refers to for members.
func (g *Generator) qualifiers(members []member) []string {
	var out []string
	for _, m := range members {
		if required(m.Class.Kind) {
			out = appendOnce(out, path.Base(g.opts.RuntimeImport))
		}
		if m.Class.Kind == shape.Sequence {
			out = appendOnce(out, slicesImport)
		}
	}
	return out
}

// plan decides which setters and accumulators each field gets and rejects
// names that would collide on the builder type.
func (g *Generator) plan(d shape.Description, fields []shape.ClassifiedField, anns map[string]annotation.Map) ([]member, error) {
	members := make([]member, len(fields))
	for i, f := range fields {
		if f.Name == g.opts.BuildMethod {
			return nil, errors.NewNameConflict("%s: field %s of %s collides with the %s method",
				f.Span, f.Name, d.Name, g.opts.BuildMethod)
		}
		m := member{ClassifiedField: f, setter: true}

		switch f.Class.Kind {
		case shape.Optional:
			if f.Class.Inner == nil {
				return nil, errors.Wrapf(errors.ErrNoInnerType, "%s: setter for %s.%s", f.Span, d.Name, f.Name)
			}
		case shape.Sequence:
			each, ok := anns[f.Name].Lookup("each")
			if !ok {
				break
			}
			if f.Class.Inner == nil {
				return nil, errors.Wrapf(errors.ErrNoInnerType, "%s: accumulator for %s.%s", f.Span, d.Name, f.Name)
			}
			if !derivegen.IsIdent(each) {
				return nil, attributeError(f.Field, fmt.Sprintf("each name %q is not an identifier", each))
			}
			m.accumulator = each
			m.setter = each != f.Name
		default:
			if anns[f.Name].Has("each") {
				logger.Debugw("Ignoring each on non-slice field",
					logger.FieldRecord, d.Name,
					logger.FieldField, f.Name)
			}
		}
		members[i] = m
	}

	owner := map[string]string{g.opts.BuildMethod: g.opts.BuildMethod}
	for _, m := range members {
		if m.setter {
			owner[m.Name] = m.Name
		}
	}
	for _, m := range members {
		if m.accumulator == "" {
			continue
		}
		if other, taken := owner[m.accumulator]; taken && other != m.Name {
			return nil, attributeError(m.Field, fmt.Sprintf("each name %q collides with method %s of %s%s",
				m.accumulator, m.accumulator, d.Name, g.opts.TypeSuffix))
		}
		owner[m.accumulator] = m.Name
	}
	return members, nil
}

// attributeError points at the field's builder marker, or at the field when
// the marker cannot be found.
func attributeError(f shape.Field, msg string) error {
	e := &annotation.AttributeError{Span: f.Span, Owner: f.Name, Msg: msg}
	for _, raw := range f.Annotations {
		if strings.HasPrefix(raw.Text, "+builder:") {
			e.Span, e.Text = raw.Span, raw.Text
			break
		}
	}
	return e
}
