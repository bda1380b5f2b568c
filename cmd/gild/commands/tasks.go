package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/gild/internal/ui/output"
	"go.trai.ch/gild/internal/ui/style"
)

func (c *CLI) newTasksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the available tasks",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := output.New(cmd.OutOrStdout())
			gold := out.Color(string(style.Gold))
			slate := out.Color(string(style.Slate))

			for _, t := range c.app.Tasks() {
				line := out.String(fmt.Sprintf("%-12s", t.Name)).Foreground(gold).String() + " " + t.Description
				if len(t.Dependencies) > 0 {
					line += " " + out.String(style.Arrow+" "+strings.Join(t.Dependencies, ", ")).Foreground(slate).String()
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
		},
	}
}
