package debug

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/derive/annotation"
	"github.com/teranos/derive/derivegen"
	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/shape"
)

func generate(t *testing.T, d shape.Description) string {
	t.Helper()
	frags, err := NewGenerator(DefaultOptions()).Generate(d)
	require.NoError(t, err)

	src := derivegen.Join(frags)
	_, err = parser.ParseFile(token.NewFileSet(), "sample_derive.go", "package sample\n\n"+src, parser.ParseComments)
	require.NoError(t, err, src)
	return src
}

const fieldDebug = `// FieldDebug formats a Field field by field.
type FieldDebug Field

// Format writes Field{Field: value, ...} in declaration order.
func (v FieldDebug) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, "Field{")
	fmt.Fprintf(f, "Name: %v", v.Name)
	fmt.Fprint(f, ", ")
	fmt.Fprintf(f, "Bitmask: 0b%08b", v.Bitmask)
	fmt.Fprint(f, "}")
}

// String returns the Format output for %v.
func (v FieldDebug) String() string {
	return fmt.Sprint(v)
}

// DebugField wraps v so that it prints field by field.
func DebugField(v Field) FieldDebug {
	return FieldDebug(v)
}
`

func TestGenerateField(t *testing.T) {
	d := shape.Description{
		Name: "Field",
		Fields: []shape.Field{
			{Name: "Name", Type: shape.Ident("string")},
			{Name: "Bitmask", Type: shape.Ident("uint8"), Annotations: []shape.RawAnnotation{{Text: `+debug="0b%08b"`}}},
		},
	}
	frags, err := NewGenerator(DefaultOptions()).Generate(d)
	require.NoError(t, err)

	assert.Equal(t, fieldDebug, derivegen.Join(frags))
	assert.Equal(t, []string{"fmt"}, derivegen.Imports(frags))
	assert.Equal(t, derivegen.TypeDecl, frags[0].Kind)
	assert.Equal(t, derivegen.Constructor, frags[len(frags)-1].Kind)
}

func TestTemplateIsQuoted(t *testing.T) {
	d := shape.Description{
		Name: "Quote",
		Fields: []shape.Field{
			{Name: "S", Type: shape.Ident("string"), Annotations: []shape.RawAnnotation{{Text: "+debug=`\"%s\"\\t`"}}},
		},
	}
	src := generate(t, d)
	assert.Contains(t, src, `fmt.Fprintf(f, "S: \"%s\"\\t", v.S)`)
}

func TestPhantomParameterIsExempt(t *testing.T) {
	d := shape.Description{
		Name: "Tagged",
		TypeParams: []shape.TypeParam{
			{Name: "T", Constraint: "any"},
			{Name: "U", Constraint: "any"},
		},
		Fields: []shape.Field{
			{Name: "Tag", Type: shape.Generic("derive.Phantom", shape.Ident("T"))},
			{Name: "Value", Type: shape.Ident("U")},
		},
	}
	src := generate(t, d)
	assert.Contains(t, src, "type TaggedDebug[T any, U fmt.Stringer] Tagged[T, U]\n")
	assert.Contains(t, src, "func DebugTagged[T any, U fmt.Stringer](v Tagged[T, U]) TaggedDebug[T, U] {")
	assert.Contains(t, src, "func (v TaggedDebug[T, U]) Format(f fmt.State, verb rune) {")
}

func TestParameterUsedOutsideMarkerIsBound(t *testing.T) {
	d := shape.Description{
		Name:       "Both",
		TypeParams: []shape.TypeParam{{Name: "T"}},
		Fields: []shape.Field{
			{Name: "Tag", Type: shape.Generic("Phantom", shape.Ident("T"))},
			{Name: "Items", Type: shape.Slice(shape.Ident("T"))},
		},
	}
	src := generate(t, d)
	assert.Contains(t, src, "type BothDebug[T fmt.Stringer] Both[T]\n")
}

func TestExistingConstraintsKept(t *testing.T) {
	d := shape.Description{
		Name: "Table",
		TypeParams: []shape.TypeParam{
			{Name: "K", Constraint: "comparable"},
			{Name: "V", Constraint: "fmt.Stringer"},
			{Name: "N", Constraint: "~int | ~int64"},
		},
		Fields: []shape.Field{
			{Name: "Key", Type: shape.Ident("K")},
			{Name: "Value", Type: shape.Pointer(shape.Ident("V"))},
			{Name: "Counts", Type: shape.Ident("map[K]N")},
		},
	}
	src := generate(t, d)
	assert.Contains(t, src, "type TableDebug[K interface{ comparable; fmt.Stringer }, V fmt.Stringer, N ~int | ~int64] Table[K, V, N]\n")
}

func TestNonGenericHasNoParameterList(t *testing.T) {
	src := generate(t, shape.Description{Name: "Plain", Fields: []shape.Field{{Name: "A", Type: shape.Ident("int")}}})
	assert.Contains(t, src, "type PlainDebug Plain\n")
	assert.NotContains(t, src, "[")
}

func TestBlankFieldsIgnored(t *testing.T) {
	src := generate(t, shape.Description{
		Name: "Point",
		Fields: []shape.Field{
			{Name: shape.Blank, Type: shape.Ident("[0]func()")},
			{Name: "X", Type: shape.Ident("int")},
		},
	})
	assert.NotContains(t, src, "_:")
	assert.NotContains(t, src, "v._")
	assert.Contains(t, src, `fmt.Fprintf(f, "X: %v", v.X)`)
	assert.NotContains(t, src, `fmt.Fprint(f, ", ")`)
}

func TestTypeParameterShadowingImport(t *testing.T) {
	_, err := NewGenerator(DefaultOptions()).Generate(shape.Description{
		Name:       "Box",
		TypeParams: []shape.TypeParam{{Name: "fmt"}},
		Fields:     []shape.Field{{Name: "Inner", Type: shape.Ident("int")}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNameConflict))

	g := NewGenerator(Options{Bound: "pretty.Printer", BoundImport: "example.com/pretty"})
	box := shape.Description{
		Name:       "Box",
		TypeParams: []shape.TypeParam{{Name: "pretty"}},
		Fields:     []shape.Field{{Name: "Inner", Type: shape.Ident("pretty")}},
	}
	_, err = g.Generate(box)
	assert.True(t, errors.Is(err, errors.ErrNameConflict))

	// Without a bounded parameter the bound package is not referred to.
	box.Fields[0].Type = shape.Ident("int")
	_, err = g.Generate(box)
	assert.NoError(t, err)
}

func TestEmptyRecord(t *testing.T) {
	src := generate(t, shape.Description{Name: "Empty"})
	assert.Contains(t, src, `fmt.Fprint(f, "Empty{}")`)
}

func TestLocalNamesAvoidTypeParameters(t *testing.T) {
	d := shape.Description{
		Name:       "Odd",
		TypeParams: []shape.TypeParam{{Name: "v"}, {Name: "f"}},
		Fields: []shape.Field{
			{Name: "A", Type: shape.Ident("v")},
			{Name: "B", Type: shape.Ident("f")},
		},
	}
	src := generate(t, d)
	assert.Contains(t, src, "func (v1 OddDebug[v, f]) Format(f1 fmt.State, verb rune) {")
	assert.Contains(t, src, "fmt.Fprintf(f1, \"A: %v\", v1.A)")
}

func TestUnknownDebugKey(t *testing.T) {
	d := shape.Description{
		Name: "Field",
		Fields: []shape.Field{
			{Name: "Name", Type: shape.Ident("string"), Annotations: []shape.RawAnnotation{{Text: `+debug:fmt="%x"`}}},
		},
	}
	frags, err := NewGenerator(DefaultOptions()).Generate(d)
	require.Error(t, err)
	assert.Nil(t, frags)
	assert.True(t, errors.Is(err, errors.ErrAttribute))
	require.Len(t, annotation.Errors(err), 1)
	assert.Contains(t, err.Error(), `expected '+debug="..."'`)
}

func TestFieldNamedLikeMethod(t *testing.T) {
	for _, name := range []string{"Format", "String"} {
		_, err := NewGenerator(DefaultOptions()).Generate(shape.Description{
			Name:   "R",
			Fields: []shape.Field{{Name: name, Type: shape.Ident("int")}},
		})
		assert.True(t, errors.Is(err, errors.ErrNameConflict), name)
	}
}

func TestCustomOptions(t *testing.T) {
	g := NewGenerator(Options{
		TypeSuffix:      "Fmt",
		FuncPrefix:      "Show",
		Bound:           "pretty.Printer",
		BoundImport:     "example.com/pretty",
		DefaultTemplate: "%+v",
	})
	assert.Equal(t, "debug", g.Name())

	frags, err := g.Generate(shape.Description{
		Name:       "box",
		TypeParams: []shape.TypeParam{{Name: "T", Constraint: "any"}},
		Fields:     []shape.Field{{Name: "inner", Type: shape.Ident("T")}},
	})
	require.NoError(t, err)
	src := derivegen.Join(frags)

	assert.Contains(t, src, "type boxFmt[T pretty.Printer] box[T]\n")
	assert.Contains(t, src, "func showBox[T pretty.Printer](v box[T]) boxFmt[T] {")
	assert.Contains(t, src, `"inner: %+v"`)
	assert.Equal(t, []string{"example.com/pretty", "fmt"}, derivegen.Imports(frags))
}

func TestConstrain(t *testing.T) {
	tests := []struct {
		constraint, want string
	}{
		{"", "fmt.Stringer"},
		{"any", "fmt.Stringer"},
		{"interface{}", "fmt.Stringer"},
		{"fmt.Stringer", "fmt.Stringer"},
		{"comparable", "interface{ comparable; fmt.Stringer }"},
		{"~int", "interface{ ~int; fmt.Stringer }"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Constrain(tt.constraint, "fmt.Stringer"), tt.constraint)
	}
}
