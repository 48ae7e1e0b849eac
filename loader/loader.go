// Package loader reads Go source and returns the struct types marked for
// generation as derivegen Targets.
//
// A struct type is a target when its doc comment carries +derive markers:
//
//	// Command is a process invocation.
//	// +derive:builder
//	// +derive:debug
//	type Command struct {
//		Args []string // +builder:each="Arg"
//	}
//
// Field markers are the comment lines of the field's doc and line comment
// that start with '+'. Files whose header marks them as generated are
// skipped.
package loader

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/tools/go/packages"

	"github.com/teranos/derive/annotation"
	"github.com/teranos/derive/derivegen"
	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/logger"
	"github.com/teranos/derive/shape"
)

// Load loads the packages matching patterns, relative to dir, and returns
// their targets. Packages that fail to parse and records with bad markers are
// reported in the combined error; targets from the rest are still returned.
func Load(ctx context.Context, dir string, patterns ...string) ([]derivegen.Target, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", strings.Join(patterns, " "))
	}

	var targets []derivegen.Target
	var errs error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = multierr.Append(errs, errors.Newf("%s", e))
		}
		for _, file := range pkg.Syntax {
			found, err := ParseFile(pkg.Fset, file)
			errs = multierr.Append(errs, err)
			targets = append(targets, found...)
		}
		logger.Debugw("Loaded package",
			logger.FieldPackage, pkg.PkgPath,
			logger.FieldCount, len(pkg.Syntax))
	}

	if len(targets) == 0 && errs == nil {
		return nil, errors.WithHint(
			errors.Wrapf(errors.ErrNoTargets, "%s", strings.Join(patterns, " ")),
			"mark a struct type with a '// +derive:builder' or '// +derive:debug' comment")
	}
	return targets, errs
}

// ParseSource parses one file's source and returns its targets.
func ParseSource(filename string, src []byte) ([]derivegen.Target, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filename)
	}
	return ParseFile(fset, file)
}

// ParseFile returns the targets declared in file, which must have been parsed
// with comments. Records with bad +derive markers are left out and reported
// in the combined error.
func ParseFile(fset *token.FileSet, file *ast.File) ([]derivegen.Target, error) {
	if ast.IsGenerated(file) {
		return nil, nil
	}
	filename := fset.Position(file.Package).Filename
	r := reader{fset: fset}

	var targets []derivegen.Target
	var errs error
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && !gd.Lparen.IsValid() {
				doc = gd.Doc
			}
			derives, err := r.derives(ts, doc)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			if len(derives) == 0 {
				continue
			}
			targets = append(targets, derivegen.Target{
				Shape:   r.describe(file.Name.Name, ts),
				Derives: derives,
				File:    filepath.Clean(filename),
				Package: file.Name.Name,
			})
		}
	}
	return targets, errs
}

type reader struct {
	fset *token.FileSet
}

// derives returns the generator names requested for ts, sorted.
func (r reader) derives(ts *ast.TypeSpec, doc *ast.CommentGroup) ([]string, error) {
	anns := r.markers(doc)
	m, err := annotation.Derive.ParseRaw(ts.Name.Name, anns)
	if err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, nil
	}
	if _, ok := ts.Type.(*ast.StructType); !ok || ts.Assign.IsValid() {
		return nil, &annotation.AttributeError{
			Span:  r.span(ts.Pos(), ts.End()),
			Owner: ts.Name.Name,
			Msg:   "+derive applies to struct types only",
		}
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

func (r reader) describe(pkg string, ts *ast.TypeSpec) shape.Description {
	d := shape.Description{
		Name:    ts.Name.Name,
		Package: pkg,
		Span:    r.span(ts.Pos(), ts.End()),
	}
	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			constraint := types.ExprString(field.Type)
			for _, name := range field.Names {
				d.TypeParams = append(d.TypeParams, shape.TypeParam{Name: name.Name, Constraint: constraint})
			}
		}
	}

	st := ts.Type.(*ast.StructType)
	for _, field := range st.Fields.List {
		typ := typeExpr(field.Type)
		anns := r.markers(field.Doc, field.Comment)
		if len(field.Names) == 0 {
			d.Fields = append(d.Fields, shape.Field{
				Name:        embeddedName(field.Type),
				Type:        typ,
				Annotations: anns,
				Span:        r.span(field.Pos(), field.End()),
			})
			continue
		}
		for _, name := range field.Names {
			if name.Name == shape.Blank {
				continue
			}
			d.Fields = append(d.Fields, shape.Field{
				Name:        name.Name,
				Type:        typ,
				Annotations: anns,
				Span:        r.span(name.Pos(), field.End()),
			})
		}
	}
	return d
}

// markers returns the '//' comment lines of groups that start with '+'.
// The span of each starts at the '+'.
func (r reader) markers(groups ...*ast.CommentGroup) []shape.RawAnnotation {
	var out []shape.RawAnnotation
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if !strings.HasPrefix(c.Text, "//") {
				continue
			}
			body := strings.TrimSpace(c.Text[2:])
			if !strings.HasPrefix(body, "+") {
				continue
			}
			start := c.Pos() + token.Pos(strings.Index(c.Text, "+"))
			out = append(out, shape.RawAnnotation{Text: body, Span: r.span(start, c.End())})
		}
	}
	return out
}

func (r reader) span(start, end token.Pos) shape.Span {
	return shape.Span{Start: r.fset.Position(start), End: r.fset.Position(end)}
}

// typeExpr converts a type expression into its structural form. Every node
// keeps its source text.
func typeExpr(e ast.Expr) shape.TypeExpr {
	var t shape.TypeExpr
	switch x := e.(type) {
	case *ast.ParenExpr:
		return typeExpr(x.X)
	case *ast.Ident:
		t = shape.Ident(x.Name)
	case *ast.SelectorExpr:
		t = shape.TypeExpr{Name: x.Sel.Name, Qualifier: types.ExprString(x.X)}
	case *ast.StarExpr:
		t = shape.Pointer(typeExpr(x.X))
	case *ast.ArrayType:
		if x.Len == nil {
			t = shape.Slice(typeExpr(x.Elt))
		} else {
			t = shape.TypeExpr{Name: "[" + types.ExprString(x.Len) + "]", Args: []shape.TypeExpr{typeExpr(x.Elt)}}
		}
	case *ast.IndexExpr:
		t = typeExpr(x.X)
		t.Args = []shape.TypeExpr{typeExpr(x.Index)}
	case *ast.IndexListExpr:
		t = typeExpr(x.X)
		t.Args = make([]shape.TypeExpr, len(x.Indices))
		for i, idx := range x.Indices {
			t.Args[i] = typeExpr(idx)
		}
	default:
		// map, chan, func, struct and interface types are opaque.
		t = shape.Ident(types.ExprString(e))
	}
	t.Text = types.ExprString(e)
	return t
}

// embeddedName is the implicit field name of an embedded type: the type name
// without pointer, package qualifier or type arguments.
func embeddedName(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.StarExpr:
		return embeddedName(x.X)
	case *ast.ParenExpr:
		return embeddedName(x.X)
	case *ast.SelectorExpr:
		return x.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(x.X)
	case *ast.IndexListExpr:
		return embeddedName(x.X)
	case *ast.Ident:
		return x.Name
	default:
		return types.ExprString(e)
	}
}
