package commands

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/loader"
	"github.com/teranos/derive/logger"
	"github.com/teranos/derive/shape"
)

// InspectCmd prints what derive sees in a package
var InspectCmd = &cobra.Command{
	Use:   "inspect [packages]",
	Short: "Print shape descriptions and field classifications as YAML",
	Long: `Print every marked struct as derive sees it: fields in declaration order,
their declared types, classification (plain, optional, sequence, marker),
inner types and raw markers.

With -vvvv the generated fragments are printed as well.

Examples:
  derive inspect ./examples/...`,
	RunE: runInspect,
}

// inspection is the YAML document printed per record.
type inspection struct {
	Record    string                  `yaml:"record"`
	File      string                  `yaml:"file"`
	Derives   []string                `yaml:"derives"`
	Params    []shape.TypeParam       `yaml:"type_params,omitempty"`
	Fields    []shape.ClassifiedField `yaml:"fields"`
	Fragments []string                `yaml:"fragments,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "working directory")
	}
	targets, loadErr := loader.Load(cmd.Context(), dir, args...)
	if len(targets) == 0 {
		return loadErr
	}

	analyzer := shape.NewAnalyzer(cfg.Shape.Markers...)
	registry := newRegistry(cfg)
	docs := make([]inspection, 0, len(targets))
	for _, t := range targets {
		doc := inspection{
			Record:  t.Shape.Name,
			File:    relative(t.File),
			Derives: t.Derives,
			Params:  t.Shape.TypeParams,
			Fields:  analyzer.ClassifyFields(t.Shape),
		}
		if verbose(logger.OutputFragments) {
			frags, err := registry.Dispatch(t)
			if err != nil {
				doc.Fragments = []string{"error: " + err.Error()}
			}
			for _, f := range frags {
				doc.Fragments = append(doc.Fragments, f.Code)
			}
		}
		docs = append(docs, doc)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return errors.Wrap(err, "encode inspection")
		}
	}
	if loadErr != nil {
		return summarize(loadErr)
	}
	return nil
}
