package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/derive/derivegen"
	"github.com/teranos/derive/logger"
)

// CheckCmd verifies that generated files are up to date
var CheckCmd = &cobra.Command{
	Use:   "check [packages]",
	Short: "Check that generated files are up to date",
	Long: `Check that every <file>_derive.go matches what derive generate would write.

Generation happens in memory; nothing is written. The version in the header
line is ignored as long as it is compatible with this derive.

Exit codes:
  0 - Generated files are up to date
  1 - Files are stale or missing (diff shown with -v), or generation failed

Examples:
  derive check ./...
  derive check -v ./...    # Show a diff per stale file`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	files, genErr := render(cmd.Context(), args)
	if genErr != nil {
		return genErr
	}

	result, err := derivegen.Check(files)
	if err != nil {
		return err
	}
	if result.UpToDate {
		pterm.Success.Printf("%d generated file(s) up to date\n", len(files))
		return nil
	}

	for _, path := range result.Paths() {
		pterm.Warning.Printf("%s is out of date\n", relative(path))
		if verbose(logger.OutputProgress) {
			pterm.Println(result.Differences[path])
		}
	}
	return result.Err()
}
