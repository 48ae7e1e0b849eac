package derivegen

import (
	"go/token"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/shape"
)

// Namer hands out identifiers that do not collide with any reserved name.
type Namer struct {
	taken map[string]bool
}

// NewNamer returns a Namer with names already taken.
func NewNamer(taken ...string) *Namer {
	n := &Namer{taken: make(map[string]bool, len(taken))}
	n.Reserve(taken...)
	return n
}

// Reserve marks names as taken.
func (n *Namer) Reserve(names ...string) {
	for _, name := range names {
		n.taken[name] = true
	}
}

// Taken reports whether name is reserved.
func (n *Namer) Taken(name string) bool {
	return n.taken[name]
}

// Fresh returns base, or base followed by the smallest positive number that
// makes it unique, and reserves the result.
func (n *Namer) Fresh(base string) string {
	name := base
	for i := 1; n.taken[name]; i++ {
		name = base + strconv.Itoa(i)
	}
	n.taken[name] = true
	return name
}

// Prefixed returns prefix+name with the export status of name. For an
// unexported name the prefix is lowered and name is capitalized:
// ("New", "CommandBuilder") -> "NewCommandBuilder",
// ("New", "commandBuilder") -> "newCommandBuilder".
func Prefixed(prefix, name string) string {
	if prefix == "" || token.IsExported(name) {
		return prefix + name
	}
	return lowerFirst(prefix) + upperFirst(name)
}

// IsIdent reports whether s can be used as a declared identifier.
func IsIdent(s string) bool {
	return token.IsIdentifier(s) && s != "_"
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// CheckQualifiers reports an ErrNameConflict when d or one of its type
// parameters is named like a package qualifier the generated code refers to.
func CheckQualifiers(d shape.Description, qualifiers ...string) error {
	for _, q := range qualifiers {
		if q == "" {
			continue
		}
		if d.Name == q {
			return errors.NewNameConflict("%s: record %s has the name of package %s used by generated code",
				d.Span, d.Name, q)
		}
		for _, p := range d.TypeParams {
			if p.Name == q {
				return errors.NewNameConflict("%s: type parameter %s of %s shadows package %s used by generated code",
					d.Span, p.Name, d.Name, q)
			}
		}
	}
	return nil
}
