// Package cli implements the marks command line: serve (default), import and
// version.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. Running marks without a
// subcommand serves the API.
func NewRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:           "marks",
		Short:         "Bookmarks REST API",
		Long:          `marks serves a small JSON API to list, create, read and delete bookmarks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newImportCommand(), newVersionCommand())
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
