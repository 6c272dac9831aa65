// Command constructicon runs resumable causal-construction annotation
// sessions over accident narratives.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/constructicon/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Errors reported through the formatter have already been printed.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
