package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect and move the persisted dependency graph",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save [destination]",
		Short: "Build and write the dependency graph, to the configured path by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.SaveGraph(cmd.Context(), firstArg(args), options(cmd))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "load <source>",
		Short: "Replace the persisted dependency graph with the one stored at source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.LoadGraph(cmd.Context(), args[0], options(cmd))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check [source]",
		Short: "Verify that a dependency graph has no cycles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.CheckGraph(cmd.Context(), firstArg(args), options(cmd))
		},
	})

	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
