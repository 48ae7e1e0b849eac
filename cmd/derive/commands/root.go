// Package commands implements the derive command line.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/derive/config"
	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/logger"
)

var (
	configPath string
	jsonLog    bool

	// cfg is loaded once per invocation by the root pre-run hook.
	cfg *config.Config
)

// RootCmd is the derive command
var RootCmd = &cobra.Command{
	Use:   "derive",
	Short: "Generate builders and debug formatters for Go structs",
	Long: `derive generates companion code for struct types marked in their doc comment.

  // +derive:builder   a builder with chained setters and a validating Build
  // +derive:debug     a field-by-field fmt.Formatter

Field markers:

  // +builder:each="Arg"   add an Arg method appending one element to a slice field
  // +debug="0b%08b"       format the field with a custom template

Output goes to <file>_derive.go next to each source file.

Examples:
  derive generate ./...          # Generate for every package below here
  derive generate --watch .      # Regenerate on every change
  derive check ./...             # Fail if generated files are stale
  derive inspect ./examples      # Show what derive sees, as YAML`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(jsonLog, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		logger.Debugw("Logger initialized", logger.FieldVerbosity, logger.LevelName(verbosity))

		// init writes the configuration, version needs none
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if logger.ShouldOutput(verbosity, logger.OutputConfig) {
			logger.Infow("Configuration loaded",
				logger.FieldConfig, cfg.Source,
				"markers", cfg.Shape.Markers,
				"bound", cfg.Debug.Bound)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default: nearest derive.toml)")
	RootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "Emit logs as JSON on stderr")

	RootCmd.AddCommand(GenerateCmd)
	RootCmd.AddCommand(CheckCmd)
	RootCmd.AddCommand(InspectCmd)
	RootCmd.AddCommand(InitCmd)
	RootCmd.AddCommand(VersionCmd)
}
