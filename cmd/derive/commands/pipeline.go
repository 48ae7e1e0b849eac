package commands

import (
	"context"
	"os"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/multierr"

	"github.com/teranos/derive/annotation"
	"github.com/teranos/derive/builder"
	"github.com/teranos/derive/config"
	"github.com/teranos/derive/debug"
	"github.com/teranos/derive/derivegen"
	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/loader"
	"github.com/teranos/derive/logger"
	"github.com/teranos/derive/shape"
	"github.com/teranos/derive/version"
)

// newRegistry returns the generators configured by c.
func newRegistry(c *config.Config) *derivegen.Registry {
	return derivegen.NewRegistry(
		builder.NewGenerator(c.BuilderOptions()),
		debug.NewGenerator(c.DebugOptions()),
	)
}

// render loads patterns and generates their files. Errors of individual
// records are reported and returned; files of the other records are still
// returned.
func render(ctx context.Context, patterns []string) ([]*derivegen.File, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "working directory")
	}

	targets, loadErr := loader.Load(ctx, dir, patterns...)
	if loadErr != nil && len(targets) == 0 {
		return nil, loadErr
	}
	logger.Infow("Targets loaded",
		logger.FieldPattern, patterns,
		logger.FieldCount, len(targets))

	if verbose(logger.OutputShapes) {
		analyzer := shape.NewAnalyzer(cfg.Shape.Markers...)
		for _, t := range targets {
			for _, f := range analyzer.ClassifyFields(t.Shape) {
				logger.Infow("Field classified",
					logger.FieldRecord, t.Shape.Name,
					logger.FieldField, f.Name,
					"type", f.Type.String(),
					"kind", f.Class.Kind.String())
			}
		}
	}

	start := time.Now()
	files, genErr := newRegistry(cfg).Generate(targets, cfg.Output.Suffix, version.Get().Version)
	if verbose(logger.OutputTiming) {
		pterm.Info.Printf("Generated %d file(s) from %d record(s) in %s\n", len(files), len(targets), time.Since(start).Round(time.Microsecond))
	}
	if err := multierr.Combine(loadErr, genErr); err != nil {
		return files, summarize(err)
	}
	return files, nil
}

// summarize prints every error on its own line, so editors can jump to the
// positions of annotation errors, and returns one error counting them.
func summarize(err error) error {
	errs := multierr.Errors(err)
	if verbose(logger.OutputErrors) {
		for _, e := range errs {
			pterm.Error.Println(e.Error())
		}
	}
	if n := len(annotation.Errors(err)); n > 0 {
		return errors.Mark(errors.Newf("%d of %d error(s) are annotation errors", n, len(errs)), errors.ErrAttribute)
	}
	return errors.Newf("%d error(s) during generation", len(errs))
}

func verbose(category logger.OutputCategory) bool {
	return logger.ShouldOutput(logger.Verbosity, category)
}
