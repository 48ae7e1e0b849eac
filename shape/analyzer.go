package shape

// Kind is the structural category of a field's declared type.
type Kind int

const (
	Plain Kind = iota
	Optional
	Sequence
	Marker
)

func (k Kind) String() string {
	switch k {
	case Optional:
		return "optional"
	case Sequence:
		return "sequence"
	case Marker:
		return "marker"
	default:
		return "plain"
	}
}

// MarshalYAML renders the kind by name for derive inspect.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// Classification is the result of classifying one declared type.
// Inner is nil when the container has no recoverable element type.
type Classification struct {
	Kind  Kind      `yaml:"kind"`
	Inner *TypeExpr `yaml:"inner,omitempty"`
}

// ClassifiedField pairs a field with its classification.
type ClassifiedField struct {
	Field `yaml:",inline"`
	Class Classification `yaml:"class"`
}

// DefaultMarkers are the marker placeholder type names recognised when no
// configuration overrides them.
var DefaultMarkers = []string{"Phantom"}

// Analyzer classifies declared field types.
type Analyzer struct {
	markers map[string]bool
}

// NewAnalyzer returns an Analyzer that treats the given type names as marker
// placeholders. With no names, DefaultMarkers is used.
func NewAnalyzer(markers ...string) *Analyzer {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	a := &Analyzer{markers: make(map[string]bool, len(markers))}
	for _, m := range markers {
		a.markers[m] = true
	}
	return a
}

// Classify places t in exactly one of Marker, Optional, Sequence or Plain.
//
// Marker wins regardless of type arguments. The inner type of an optional or
// sequence container is the innermost non-container type: *[]string and
// [][]string both have inner string.
func (a *Analyzer) Classify(t TypeExpr) Classification {
	switch {
	case a.markers[t.Name]:
		return Classification{Kind: Marker}
	case t.Name == PointerName && len(t.Args) == 1:
		return Classification{Kind: Optional, Inner: unwrap(t.Args[0])}
	case t.Name == SliceName:
		var inner *TypeExpr
		if len(t.Args) == 1 {
			inner = unwrap(t.Args[0])
		}
		return Classification{Kind: Sequence, Inner: inner}
	default:
		return Classification{Kind: Plain}
	}
}

// ClassifyFields classifies every field of d in declaration order.
func (a *Analyzer) ClassifyFields(d Description) []ClassifiedField {
	out := make([]ClassifiedField, len(d.Fields))
	for i, f := range d.Fields {
		out[i] = ClassifiedField{Field: f, Class: a.Classify(f.Type)}
	}
	return out
}

func unwrap(arg TypeExpr) *TypeExpr {
	if isContainer(arg) {
		return unwrap(arg.Args[0])
	}
	return &arg
}

func isContainer(t TypeExpr) bool {
	return (t.Name == PointerName || t.Name == SliceName) && len(t.Args) == 1
}
