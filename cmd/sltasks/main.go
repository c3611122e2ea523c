// Command sltasks is the CLI entrypoint: a thin wrapper around
// internal/cli's cobra command tree, grounded in the teacher's
// cmd/backlog/main.go (error routing by format, exit code from the error).
package main

import (
	"fmt"
	"os"

	"github.com/boardsync/core/internal/cli"
	"github.com/boardsync/core/internal/errs"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(errs.ExitCode(err))
	}
}
