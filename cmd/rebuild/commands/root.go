// Package commands implements the CLI commands for the rebuild tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/rebuild/internal/app"
	"go.trai.ch/rebuild/internal/build"
)

// CLI represents the command line interface for rebuild.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.Options) error
	Watch(ctx context.Context, opts app.Options) error
	SaveGraph(ctx context.Context, destination string, opts app.Options) error
	LoadGraph(ctx context.Context, source string, opts app.Options) error
	CheckGraph(ctx context.Context, source string, opts app.Options) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "rebuild",
		Short:         "Incremental recompilation driven by semantic change detection",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("dir", "C", "", "Directory to start searching for the project file")
	rootCmd.PersistentFlags().StringP("output-mode", "o", "auto", "Output mode: auto, progress, or summary")
	rootCmd.PersistentFlags().Bool("ci", false, "Use summary output (shorthand for --output-mode=summary)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newGraphCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options reads the persistent flags shared by every command.
func options(cmd *cobra.Command) app.Options {
	dir, _ := cmd.Flags().GetString("dir")
	outputMode, _ := cmd.Flags().GetString("output-mode")
	ci, _ := cmd.Flags().GetBool("ci")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if ci {
		outputMode = "summary"
	}

	return app.Options{
		Dir:        dir,
		OutputMode: outputMode,
		Verbose:    verbose,
	}
}
