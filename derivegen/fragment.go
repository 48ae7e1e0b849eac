// Package derivegen connects shape descriptions to generators and turns the
// resulting fragments into formatted Go files.
//
// # Architecture
//
// Generation is split in three layers:
//  1. A front-end (the loader package) produces Targets: a shape.Description
//     plus the names of the generators its +derive markers request.
//  2. Generators (builder, debug) turn one Description into Fragments.
//  3. This package dispatches Targets to generators, groups Fragments per
//     source file and assembles, checks or watches the output files.
//
// Generators never see files and this package never inspects Go types, so a
// new generator only has to implement the Generator interface.
package derivegen

import (
	"sort"
	"strings"

	"github.com/teranos/derive/shape"
)

// Kind orders fragments within one generator's output.
type Kind int

const (
	TypeDecl Kind = iota
	Impl
	Constructor
)

func (k Kind) String() string {
	switch k {
	case TypeDecl:
		return "type"
	case Impl:
		return "impl"
	case Constructor:
		return "constructor"
	default:
		return "unknown"
	}
}

// Fragment is one self-contained piece of generated Go source: a type
// declaration, a method or a constructor function.
type Fragment struct {
	Kind   Kind
	Record string // record the fragment was generated for
	Name   string // declared identifier
	Code   string
	// Imports are the package paths Code refers to.
	Imports []string
}

// Generator turns the shape of one record into fragments.
type Generator interface {
	// Name is the key used in +derive markers, e.g. "builder".
	Name() string

	// Generate returns the fragments for d, ordered type declarations,
	// then implementations, then constructors. On error no fragments are
	// returned.
	Generate(d shape.Description) ([]Fragment, error)
}

// Sort orders fragments by kind, keeping the relative order of fragments of
// the same kind.
func Sort(frags []Fragment) {
	sort.SliceStable(frags, func(i, j int) bool {
		return frags[i].Kind < frags[j].Kind
	})
}

// Join concatenates fragment code, separating fragments with a blank line.
func Join(frags []Fragment) string {
	var sb strings.Builder
	for i, f := range frags {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(f.Code)
	}
	return sb.String()
}

// Imports returns the distinct import paths of frags, sorted.
func Imports(frags []Fragment) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range frags {
		for _, imp := range f.Imports {
			if !seen[imp] {
				seen[imp] = true
				out = append(out, imp)
			}
		}
	}
	sort.Strings(out)
	return out
}
