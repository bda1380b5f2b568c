package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [tasks...]",
		Short: "Run tasks and their dependencies (default: default)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions(cmd)
			opts.Parallelism, _ = cmd.Flags().GetInt("parallel")
			return c.app.Run(cmd.Context(), args, opts)
		},
	}
	cmd.Flags().IntP("parallel", "j", 0, "Maximum number of tasks running at once (default: number of CPUs)")
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Build for development, then rebuild and live-reload on changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), runOptions(cmd))
		},
	}
}
