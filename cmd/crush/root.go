package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand builds the crush CLI's root command and registers every
// subcommand, mirroring the DataDog agent's command/subcommands split without the
// surrounding fx dependency-injection machinery this single-binary tool has
// no use for.
func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "crush [command]",
		Short:         "Pack JavaScript source into a self-extracting literal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newPackCommand())
	return root
}
