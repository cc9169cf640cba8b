package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [paths...]",
		Short: "Compile the project's source units, or those under the given paths",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := options(cmd)
			opts.Paths = args
			return c.app.Build(cmd.Context(), opts)
		},
	}
}
