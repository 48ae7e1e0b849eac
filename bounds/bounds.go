// Package bounds decides which type parameters of a record need the
// formatting capability bound.
package bounds

import "github.com/teranos/derive/shape"

// Infer returns, in declaration order, the names of the type parameters that
// need the capability bound.
//
// A parameter T needs it when T is the declared type of a field, or the inner
// type of a non-marker field, and no marker field is declared exactly as T.
// Comparison is by exact type text: Box[T] does not count as a use of T.
// A parameter that only appears inside marker placeholders is exempt.
func Infer(params []shape.TypeParam, fields []shape.ClassifiedField) []string {
	if len(params) == 0 {
		return nil
	}
	var out []string
	for _, p := range params {
		if needsBound(p.Name, fields) {
			out = append(out, p.Name)
		}
	}
	return out
}

func needsBound(name string, fields []shape.ClassifiedField) bool {
	used := false
	for _, f := range fields {
		if f.Class.Kind == shape.Marker {
			if f.Type.Is(name) {
				return false
			}
			continue
		}
		if f.Type.Is(name) || (f.Class.Inner != nil && f.Class.Inner.Is(name)) {
			used = true
		}
	}
	return used
}
