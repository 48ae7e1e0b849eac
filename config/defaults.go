package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/derive/builder"
	"github.com/teranos/derive/debug"
	"github.com/teranos/derive/derivegen"
	"github.com/teranos/derive/shape"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.suffix", derivegen.DefaultSuffix)

	b := builder.DefaultOptions()
	v.SetDefault("builder.type_suffix", b.TypeSuffix)
	v.SetDefault("builder.constructor_prefix", b.ConstructorPrefix)
	v.SetDefault("builder.build_method", b.BuildMethod)
	v.SetDefault("builder.runtime_import", b.RuntimeImport)

	d := debug.DefaultOptions()
	v.SetDefault("debug.type_suffix", d.TypeSuffix)
	v.SetDefault("debug.func_prefix", d.FuncPrefix)
	v.SetDefault("debug.bound", d.Bound)
	v.SetDefault("debug.bound_import", d.BoundImport)
	v.SetDefault("debug.default_template", d.DefaultTemplate)

	v.SetDefault("shape.markers", shape.DefaultMarkers)
}

// Default returns the configuration used when no file or environment
// overrides anything.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always unmarshal.
		panic(err)
	}
	return cfg
}
