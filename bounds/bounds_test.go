package bounds

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/derive/shape"
)

func classify(fields ...shape.Field) []shape.ClassifiedField {
	return shape.NewAnalyzer().ClassifyFields(shape.Description{Name: "R", Fields: fields})
}

func params(names ...string) []shape.TypeParam {
	out := make([]shape.TypeParam, len(names))
	for i, n := range names {
		out[i] = shape.TypeParam{Name: n, Constraint: "any"}
	}
	return out
}

func TestInfer(t *testing.T) {
	T, U := shape.Ident("T"), shape.Ident("U")

	tests := []struct {
		name   string
		params []shape.TypeParam
		fields []shape.ClassifiedField
		want   []string
	}{
		{
			name:   "no type parameters",
			params: nil,
			fields: classify(shape.Field{Name: "a", Type: shape.Ident("string")}),
			want:   nil,
		},
		{
			name:   "direct use",
			params: params("T"),
			fields: classify(shape.Field{Name: "value", Type: T}),
			want:   []string{"T"},
		},
		{
			name:   "only inside marker is exempt",
			params: params("T"),
			fields: classify(shape.Field{Name: "marker", Type: shape.Generic("Phantom", T)}),
			want:   nil,
		},
		{
			name:   "marker and direct use still bound",
			params: params("T"),
			fields: classify(
				shape.Field{Name: "marker", Type: shape.Generic("Phantom", T)},
				shape.Field{Name: "value", Type: T},
			),
			want: []string{"T"},
		},
		{
			name:   "inner of optional and sequence",
			params: params("T", "U"),
			fields: classify(
				shape.Field{Name: "maybe", Type: shape.Pointer(T)},
				shape.Field{Name: "many", Type: shape.Slice(shape.Slice(U))},
			),
			want: []string{"T", "U"},
		},
		{
			name:   "nested in plain generic is not a use",
			params: params("T"),
			fields: classify(shape.Field{Name: "boxed", Type: shape.Generic("Box", T)}),
			want:   nil,
		},
		{
			name:   "per parameter independence",
			params: params("T", "U"),
			fields: classify(
				shape.Field{Name: "marker", Type: shape.Generic("Phantom", T)},
				shape.Field{Name: "value", Type: U},
			),
			want: []string{"U"},
		},
		{
			name:   "declaration order kept",
			params: params("A", "B", "C"),
			fields: classify(
				shape.Field{Name: "c", Type: shape.Ident("C")},
				shape.Field{Name: "a", Type: shape.Ident("A")},
			),
			want: []string{"A", "C"},
		},
		{
			name:   "unused parameter",
			params: params("T"),
			fields: classify(shape.Field{Name: "name", Type: shape.Ident("string")}),
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Infer(tt.params, tt.fields))
		})
	}
}

func TestInferMarkerDeclaredAsParameter(t *testing.T) {
	// A parameter literally named like a marker type is classified as a
	// marker when used bare, which exempts it.
	fields := shape.NewAnalyzer("M").ClassifyFields(shape.Description{
		Fields: []shape.Field{
			{Name: "m", Type: shape.Ident("M")},
			{Name: "ms", Type: shape.Slice(shape.Ident("M"))},
		},
	})
	assert.Nil(t, Infer(params("M"), fields))
}
