package main

import (
	"os"

	"github.com/isoforge/archconf/cmd"
	"github.com/isoforge/archconf/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
