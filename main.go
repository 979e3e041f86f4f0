package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

const usageText = `Usage:
  cells [flags] random M N   random starting position with M rows and N columns
  cells [flags] from FILE    starting position from a comma-separated file of 0/1 values

The run stops once a generation equals the one before it.

Flags:
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("cells: ")

	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain runs the command and returns the process exit code
func realMain(args []string, stdout, stderr io.Writer) int {
	cmd, err := parseArgs(args, stderr)
	switch {
	case errors.Is(err, errHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "cells: %v\n", err)
		return 2
	case err != nil:
		fmt.Fprintf(stderr, "cells: %v\n", err)
		return 1
	}

	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := run(ctx, cmd, stdout, tcell.NewScreen)
	if err != nil {
		fmt.Fprintf(stderr, "cells: %v\n", err)
		return 1
	}

	log.Printf("%s after %d generations", res.State, res.Generations)
	return 0
}
