package config

import (
	"go/token"
	"strings"

	"github.com/teranos/derive/errors"
)

// Validate checks that the configuration produces valid, non-colliding
// identifiers.
func (c *Config) Validate() error {
	// Output suffix must still name a Go file, distinct from its source
	if !strings.HasSuffix(c.Output.Suffix, ".go") || c.Output.Suffix == ".go" {
		return errors.Newf("output.suffix must end in .go and add to the file name, got %q", c.Output.Suffix)
	}

	// Suffixes and prefixes are glued to record names, so they must be
	// non-empty identifier fragments
	fragments := []struct{ key, value string }{
		{"builder.type_suffix", c.Builder.TypeSuffix},
		{"builder.constructor_prefix", c.Builder.ConstructorPrefix},
		{"debug.type_suffix", c.Debug.TypeSuffix},
		{"debug.func_prefix", c.Debug.FuncPrefix},
	}
	for _, f := range fragments {
		if f.value == "" {
			return errors.Newf("%s cannot be empty", f.key)
		}
		if !token.IsIdentifier("X" + f.value) {
			return errors.Newf("%s must be usable inside an identifier, got %q", f.key, f.value)
		}
	}

	if !token.IsIdentifier(c.Builder.BuildMethod) {
		return errors.Newf("builder.build_method must be an identifier, got %q", c.Builder.BuildMethod)
	}
	if c.Builder.RuntimeImport == "" {
		return errors.New("builder.runtime_import cannot be empty")
	}
	if c.Builder.TypeSuffix == c.Debug.TypeSuffix {
		return errors.Newf("builder.type_suffix and debug.type_suffix must differ, both are %q", c.Debug.TypeSuffix)
	}

	if strings.TrimSpace(c.Debug.Bound) == "" {
		return errors.New("debug.bound cannot be empty")
	}
	if c.Debug.DefaultTemplate == "" {
		return errors.New("debug.default_template cannot be empty")
	}

	if len(c.Shape.Markers) == 0 {
		return errors.New("shape.markers needs at least one type name")
	}
	for _, m := range c.Shape.Markers {
		if !token.IsIdentifier(m) {
			return errors.Newf("shape.markers entries must be unqualified type names, got %q", m)
		}
	}
	return nil
}
