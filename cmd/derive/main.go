package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/teranos/derive/cmd/derive/commands"
	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/logger"
)

func main() {
	err := commands.RootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		pterm.Error.Println(err)
		if hint := errors.FlattenHints(err); hint != "" {
			pterm.Info.Println(hint)
		}
		os.Exit(1)
	}
}
