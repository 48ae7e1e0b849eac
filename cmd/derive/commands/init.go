package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/derive/config"
)

var initForce bool

// InitCmd writes a derive.toml with the default settings
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a derive.toml with the default settings",
	Long: `Write derive.toml in the current directory, filled with the default
settings, so they can be edited. derive finds the file from any directory
below this one.

Every setting can also be given as a DERIVE_ environment variable, e.g.
DERIVE_OUTPUT_SUFFIX=_gen.go.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Write(config.FileName, config.Default(), initForce); err != nil {
			return err
		}
		pterm.Success.Printf("Wrote %s\n", config.FileName)
		return nil
	},
}

func init() {
	InitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing derive.toml")
}
