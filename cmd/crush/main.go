// Package main is the entrypoint for the crush CLI.
package main

import (
	"fmt"
	"os"

	"github.com/crushlang/crush/internal/crushlog"
)

func main() {
	defer crushlog.Sync()
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
