package main

import (
	"context"
	"os"

	"github.com/ftc-platform/tspatch/internal/cli"
)

// main bootstraps the tspatch command line shell.
func main() {
	os.Exit(cli.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
