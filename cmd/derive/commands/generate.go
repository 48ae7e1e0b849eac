package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/derive/derivegen"
	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/logger"
)

var (
	generateWatch  bool
	generateDryRun bool
)

// GenerateCmd writes the generated files
var GenerateCmd = &cobra.Command{
	Use:   "generate [packages]",
	Short: "Generate builder and debug code for marked structs",
	Long: `Generate companion code for every struct marked with +derive:builder or
+derive:debug in the given packages (default: the current directory).

Each source file with marked structs gets a <file>_derive.go next to it.
A record with a bad marker is reported and skipped; the others are still
generated.

Examples:
  derive generate                 # Current package
  derive generate ./...           # Every package below here
  derive generate --dry-run .     # Print the generated code instead of writing it
  derive generate --watch ./...   # Keep regenerating until interrupted`,
	RunE: runGenerate,
}

func init() {
	GenerateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Regenerate when Go sources change")
	GenerateCmd.Flags().BoolVar(&generateDryRun, "dry-run", false, "Print generated code to stdout instead of writing files")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files, genErr := generateOnce(ctx, args)
	if !generateWatch || len(files) == 0 {
		return genErr
	}

	dirs := watchDirs(files)
	pterm.Info.Printf("Watching %d directories, press Ctrl+C to stop\n", len(dirs))
	w := derivegen.NewWatcher(dirs, cfg.Output.Suffix, func(ctx context.Context) error {
		_, err := generateOnce(ctx, args)
		return err
	})
	return w.Run(ctx)
}

// generateOnce renders and writes (or prints) every file.
func generateOnce(ctx context.Context, patterns []string) ([]*derivegen.File, error) {
	files, genErr := render(ctx, patterns)

	for _, f := range files {
		if generateDryRun {
			data, err := f.Bytes()
			if err != nil {
				return files, err
			}
			fmt.Fprintf(os.Stdout, "// %s\n%s\n", f.Path, data)
			continue
		}
		if err := f.Write(); err != nil {
			return files, errors.Wrapf(err, "generate %s", f.Source)
		}
		if verbose(logger.OutputResults) {
			pterm.Success.Printf("Wrote %s (%d fragments)\n", relative(f.Path), len(f.Fragments))
		}
		logger.Debugw("Wrote file",
			logger.FieldOutput, f.Path,
			logger.FieldFragments, len(f.Fragments))
	}
	return files, genErr
}

// watchDirs returns the distinct source directories of files.
func watchDirs(files []*derivegen.File) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, f := range files {
		dir := filepath.Dir(f.Source)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// relative shortens path for display, falling back to path itself.
func relative(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil {
		return rel
	}
	return path
}
