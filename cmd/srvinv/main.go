package main

import (
	"os"

	"github.com/crmarques/srvinv/core"
	"github.com/crmarques/srvinv/internal/cli"
)

func main() {
	deps := cli.Dependencies{Bootstrap: core.NewInventory}
	if err := cli.Execute(deps, os.Args[1:]); err != nil {
		os.Exit(cli.ExitCodeForError(err))
	}
}
