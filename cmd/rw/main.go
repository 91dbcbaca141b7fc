package main

import (
	"os"

	"runwrap/cmd/cli"
	"runwrap/cmd/tui"
	"runwrap/internal/logger"
)

func main() {
	// If no arguments (or just the program name) are provided, run the TUI.
	// Otherwise, run the CLI (which will handle the arguments).
	isTUI := len(os.Args) <= 1
	logger.InitLogger(isTUI)
	if isTUI {
		tui.RunTUI()
	} else {
		cli.RunCLI()
	}
}
