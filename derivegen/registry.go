package derivegen

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/logger"
	"github.com/teranos/derive/shape"
)

// DefaultSuffix is appended to a source file's base name to name its output.
const DefaultSuffix = "_derive.go"

// Target is one record selected for generation.
type Target struct {
	Shape   shape.Description
	Derives []string // generator names, sorted
	File    string   // source file declaring the record
	Package string   // package name of File
}

// Registry maps derive names to generators.
type Registry struct {
	gens  map[string]Generator
	order []string
}

// NewRegistry returns a registry holding gens.
func NewRegistry(gens ...Generator) *Registry {
	r := &Registry{gens: make(map[string]Generator)}
	for _, g := range gens {
		r.Register(g)
	}
	return r
}

// Register adds g, replacing any generator of the same name.
func (r *Registry) Register(g Generator) {
	if _, ok := r.gens[g.Name()]; !ok {
		r.order = append(r.order, g.Name())
	}
	r.gens[g.Name()] = g
}

// Lookup returns the generator registered under name.
func (r *Registry) Lookup(name string) (Generator, bool) {
	g, ok := r.gens[name]
	return g, ok
}

// Names returns the registered derive names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Dispatch runs every generator t requests and concatenates their fragments.
// If any generator fails the record produces no fragments.
func (r *Registry) Dispatch(t Target) ([]Fragment, error) {
	log := logger.ChildLogger(logger.Logger, logger.FieldRecord, t.Shape.Name)
	var out []Fragment
	for _, name := range t.Derives {
		g, ok := r.gens[name]
		if !ok {
			return nil, errors.WithHintf(
				errors.Wrapf(errors.ErrUnknownGenerator, "%s: derive %q", t.Shape.Name, name),
				"registered generators: %s", strings.Join(r.order, ", "))
		}
		frags, err := g.Generate(t.Shape)
		if err != nil {
			return nil, err
		}
		log.Debugw("Generated record",
			logger.FieldGenerator, name,
			logger.FieldFragments, len(frags))
		out = append(out, frags...)
	}
	return out, nil
}

// Generate dispatches every target and groups the fragments into one File per
// source file. Records that fail are skipped; their errors are combined and
// returned alongside the files of the records that succeeded.
func (r *Registry) Generate(targets []Target, suffix, version string) ([]*File, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	start := time.Now()

	byPath := make(map[string]*File)
	var errs error
	for _, t := range targets {
		frags, err := r.Dispatch(t)
		if err != nil {
			logger.Warnw("Record skipped",
				logger.FieldRecord, t.Shape.Name,
				logger.FieldFile, t.File,
				logger.FieldError, err)
			errs = multierr.Append(errs, err)
			continue
		}
		path := OutputPath(t.File, suffix)
		f, ok := byPath[path]
		if !ok {
			f = &File{Path: path, Source: t.File, Package: t.Package, Version: version}
			byPath[path] = f
		}
		f.Fragments = append(f.Fragments, frags...)
	}

	files := make([]*File, 0, len(byPath))
	for _, f := range byPath {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	logger.Debugw("Generation finished",
		logger.FieldCount, len(files),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return files, errs
}

// OutputPath names the generated file for source: dir/name.go becomes
// dir/name<suffix>.
func OutputPath(source, suffix string) string {
	dir, base := filepath.Split(source)
	return filepath.Join(dir, strings.TrimSuffix(base, ".go")+suffix)
}
