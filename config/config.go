// Package config loads derive's configuration.
//
// Settings come from, lowest precedence first: built-in defaults, the nearest
// derive.toml found by walking up from the working directory (or the file
// given with --config), and DERIVE_* environment variables such as
// DERIVE_DEBUG_BOUND.
package config

import (
	"github.com/teranos/derive/builder"
	"github.com/teranos/derive/debug"
)

// FileName is the project configuration file searched for by Load.
const FileName = "derive.toml"

// Config is the complete derive configuration.
type Config struct {
	Output  OutputConfig  `mapstructure:"output" toml:"output"`
	Builder BuilderConfig `mapstructure:"builder" toml:"builder"`
	Debug   DebugConfig   `mapstructure:"debug" toml:"debug"`
	Shape   ShapeConfig   `mapstructure:"shape" toml:"shape"`

	// Source is the file the configuration was read from, empty when only
	// defaults and environment were used.
	Source string `mapstructure:"-" toml:"-"`
}

// OutputConfig controls where generated code is written.
type OutputConfig struct {
	// Suffix replaces ".go" in the source file name: command.go -> command_derive.go
	Suffix string `mapstructure:"suffix" toml:"suffix"`
}

// BuilderConfig names the identifiers of generated builders.
type BuilderConfig struct {
	TypeSuffix        string `mapstructure:"type_suffix" toml:"type_suffix"`
	ConstructorPrefix string `mapstructure:"constructor_prefix" toml:"constructor_prefix"`
	BuildMethod       string `mapstructure:"build_method" toml:"build_method"`
	RuntimeImport     string `mapstructure:"runtime_import" toml:"runtime_import"`
}

// DebugConfig names the identifiers of generated formatters and sets the
// capability bound and the default field template.
type DebugConfig struct {
	TypeSuffix      string `mapstructure:"type_suffix" toml:"type_suffix"`
	FuncPrefix      string `mapstructure:"func_prefix" toml:"func_prefix"`
	Bound           string `mapstructure:"bound" toml:"bound"`
	BoundImport     string `mapstructure:"bound_import" toml:"bound_import,omitempty"`
	DefaultTemplate string `mapstructure:"default_template" toml:"default_template"`
}

// ShapeConfig controls field classification.
type ShapeConfig struct {
	// Markers are the type names treated as marker placeholders.
	Markers []string `mapstructure:"markers" toml:"markers"`
}

// BuilderOptions returns the builder generator options.
func (c *Config) BuilderOptions() builder.Options {
	return builder.Options{
		TypeSuffix:        c.Builder.TypeSuffix,
		ConstructorPrefix: c.Builder.ConstructorPrefix,
		BuildMethod:       c.Builder.BuildMethod,
		RuntimeImport:     c.Builder.RuntimeImport,
		Markers:           c.Shape.Markers,
	}
}

// DebugOptions returns the debug generator options.
func (c *Config) DebugOptions() debug.Options {
	return debug.Options{
		TypeSuffix:      c.Debug.TypeSuffix,
		FuncPrefix:      c.Debug.FuncPrefix,
		Bound:           c.Debug.Bound,
		BoundImport:     c.Debug.BoundImport,
		DefaultTemplate: c.Debug.DefaultTemplate,
		Markers:         c.Shape.Markers,
	}
}
