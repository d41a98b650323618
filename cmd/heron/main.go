package main

import (
	"os"

	"github.com/simonhull/firebird-suite/heron/internal/commands"
	"github.com/simonhull/firebird-suite/heron/internal/output"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}
