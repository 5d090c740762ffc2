package main

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

func newRootCmd(a *app, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskdash",
		Short:         "Manage projects, tasks and your watchlist on a task API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, stderr)
		},
	}
	root.SetOut(a.ui.out)
	root.SetErr(stderr)
	addGlobalFlags(root)

	root.AddCommand(registerCmd(a))
	root.AddCommand(loginCmd(a))
	root.AddCommand(logoutCmd(a))
	root.AddCommand(whoamiCmd(a))
	root.AddCommand(projectsCmd(a))
	root.AddCommand(tasksCmd(a))
	root.AddCommand(watchlistCmd(a))

	return root
}

func parseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func addYesFlag(cmd *cobra.Command, a *app) {
	cmd.Flags().BoolVarP(&a.ui.assumeYes, "yes", "y", false, "do not ask for confirmation")
}
