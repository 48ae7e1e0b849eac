package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	a := NewAnalyzer()
	str := Ident("string")

	tests := []struct {
		name      string
		typ       TypeExpr
		wantKind  Kind
		wantInner string // "" means nil
	}{
		{name: "plain ident", typ: str, wantKind: Plain},
		{name: "plain generic", typ: Generic("Box", Ident("T")), wantKind: Plain},
		{name: "map is plain", typ: Generic("map", str, Ident("int")), wantKind: Plain},
		{name: "pointer", typ: Pointer(str), wantKind: Optional, wantInner: "string"},
		{name: "slice", typ: Slice(Ident("T")), wantKind: Sequence, wantInner: "T"},
		{name: "pointer to pointer degrades", typ: Pointer(Pointer(str)), wantKind: Optional, wantInner: "string"},
		{name: "pointer to slice degrades", typ: Pointer(Slice(str)), wantKind: Optional, wantInner: "string"},
		{name: "slice of slices degrades", typ: Slice(Slice(str)), wantKind: Sequence, wantInner: "string"},
		{name: "slice of generic keeps argument", typ: Slice(Generic("Box", str)), wantKind: Sequence, wantInner: "Box[string]"},
		{name: "bare slice has no inner", typ: TypeExpr{Name: SliceName}, wantKind: Sequence},
		{name: "bare pointer is plain", typ: TypeExpr{Name: PointerName}, wantKind: Plain},
		{name: "marker", typ: Generic("Phantom", Ident("T")), wantKind: Marker},
		{name: "qualified marker", typ: Generic("derive.Phantom", Ident("T")), wantKind: Marker},
		{name: "marker without arguments", typ: Ident("Phantom"), wantKind: Marker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Classify(tt.typ)
			assert.Equal(t, tt.wantKind, got.Kind)
			if tt.wantInner == "" {
				assert.Nil(t, got.Inner)
				return
			}
			require.NotNil(t, got.Inner)
			assert.Equal(t, tt.wantInner, got.Inner.String())
		})
	}
}

func TestClassifyCustomMarkers(t *testing.T) {
	a := NewAnalyzer("Tag", "NoCopy")

	assert.Equal(t, Marker, a.Classify(Generic("Tag", Ident("T"))).Kind)
	assert.Equal(t, Marker, a.Classify(Ident("NoCopy")).Kind)
	assert.Equal(t, Plain, a.Classify(Generic("Phantom", Ident("T"))).Kind)
}

func TestClassifyFieldsPreservesOrder(t *testing.T) {
	d := Description{
		Name: "Command",
		Fields: []Field{
			{Name: "executable", Type: Ident("string")},
			{Name: "args", Type: Slice(Ident("string"))},
			{Name: "currentDir", Type: Pointer(Ident("string"))},
		},
	}

	got := NewAnalyzer().ClassifyFields(d)
	require.Len(t, got, 3)
	assert.Equal(t, "executable", got[0].Name)
	assert.Equal(t, Plain, got[0].Class.Kind)
	assert.Equal(t, "args", got[1].Name)
	assert.Equal(t, Sequence, got[1].Class.Kind)
	assert.Equal(t, "currentDir", got[2].Name)
	assert.Equal(t, Optional, got[2].Class.Kind)
}

func TestTypeExprString(t *testing.T) {
	assert.Equal(t, "*[]string", Pointer(Slice(Ident("string"))).String())
	assert.Equal(t, "derive.Phantom[T]", Generic("derive.Phantom", Ident("T")).String())
	assert.Equal(t, "map[K, V]", Generic("map", Ident("K"), Ident("V")).String())
	assert.Equal(t, "map[K]V", TypeExpr{Name: "map", Text: "map[K]V"}.String())
	assert.True(t, Ident("T").Is("T"))
	assert.False(t, Pointer(Ident("T")).Is("T"))
}

func TestDescriptionRendering(t *testing.T) {
	plain := Description{Name: "Command"}
	assert.False(t, plain.IsGeneric())
	assert.Equal(t, "", plain.TypeArgs())
	assert.Equal(t, "", plain.TypeParamList(nil))
	assert.Equal(t, "Command", plain.Instance())

	pair := Description{
		Name:       "Pair",
		TypeParams: []TypeParam{{Name: "K", Constraint: "comparable"}, {Name: "V"}},
	}
	assert.True(t, pair.IsGeneric())
	assert.Equal(t, "[K, V]", pair.TypeArgs())
	assert.Equal(t, "[K comparable, V any]", pair.TypeParamList(nil))
	assert.Equal(t, "[K comparable, V fmt.Stringer]", pair.TypeParamList(func(p TypeParam) string {
		if p.Name == "V" {
			return "fmt.Stringer"
		}
		return p.Constraint
	}))
	assert.Equal(t, "Pair[K, V]", pair.Instance())
}

func TestAddressableDropsBlankFields(t *testing.T) {
	d := Description{
		Name: "Point",
		Fields: []Field{
			{Name: Blank, Type: TypeExpr{Name: "[0]", Args: []TypeExpr{Ident("func()")}}},
			{Name: "X", Type: Ident("int")},
			{Name: Blank, Type: Ident("int")},
		},
	}
	got := d.Addressable()
	require.Len(t, got.Fields, 1)
	assert.Equal(t, "X", got.Fields[0].Name)
	assert.Len(t, d.Fields, 3)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "plain", Plain.String())
	assert.Equal(t, "optional", Optional.String())
	assert.Equal(t, "sequence", Sequence.String())
	assert.Equal(t, "marker", Marker.String())
}
