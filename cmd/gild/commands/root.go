// Package commands implements the CLI commands for gild.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/gild/internal/app"
	"go.trai.ch/gild/internal/build"
	"go.trai.ch/gild/internal/core/ports"
)

// jsonLogger is implemented by loggers that can switch to JSON lines.
type jsonLogger interface {
	SetJSON(enabled bool)
}

// CLI represents the command line interface for gild.
type CLI struct {
	app     *app.App
	logger  ports.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a *app.App, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "gild",
		Short:         "A front-end asset pipeline for styles and scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.BoolP("production", "p", false, "Build for production (minified, no source maps)")
	flags.Bool("analyze", false, "Write a bundle analysis report next to the scripts")
	flags.Bool("debug", false, "Print the synthesized bundler config and build stats")
	flags.Bool("no-notify", false, "Never raise desktop notifications")
	flags.Bool("json", false, "Log as JSON lines")

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		if l, ok := c.logger.(jsonLogger); ok && asJSON {
			l.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newTasksCmd())
	rootCmd.AddCommand(c.newCleanCmd())
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

// runOptions reads the persistent switches.
func runOptions(cmd *cobra.Command) app.RunOptions {
	production, _ := cmd.Flags().GetBool("production")
	analyze, _ := cmd.Flags().GetBool("analyze")
	debug, _ := cmd.Flags().GetBool("debug")
	noNotify, _ := cmd.Flags().GetBool("no-notify")
	return app.RunOptions{
		Production: production,
		Analyze:    analyze,
		Debug:      debug,
		NoNotify:   noNotify,
	}
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}
