package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ichigozero/taskdash/view"
	"github.com/ichigozero/taskdash/watchlist"
	"github.com/spf13/cobra"
)

func watchlistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Show and edit your watchlist",
	}
	cmd.AddCommand(watchlistListCmd(a))
	cmd.AddCommand(watchlistAddCmd(a))
	cmd.AddCommand(watchlistRemoveCmd(a))
	return cmd
}

func watchlistListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tasks in your watchlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := view.NewWatchlist(a.client.Watchlist, a.session, a.ui, a.logger)
			if err := c.Mount(cmd.Context()); err != nil {
				return err
			}
			printWatchlist(cmd.OutOrStdout(), c.Entries)
			return nil
		},
	}
}

func watchlistAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add TASK_ID",
		Short: "Add a task to your watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return fmt.Errorf("task ID %q: %w", args[0], err)
			}
			c, err := mountProjects(cmd, a, "")
			if err != nil {
				return err
			}
			return c.AddToWatchlist(cmd.Context(), id)
		},
	}
}

func watchlistRemoveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove TASK_ID",
		Short: "Remove a task from your watchlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return fmt.Errorf("task ID %q: %w", args[0], err)
			}
			c := view.NewWatchlist(a.client.Watchlist, a.session, a.ui, a.logger)
			if err := c.Mount(cmd.Context()); err != nil {
				return err
			}
			if err := c.Remove(cmd.Context(), id); err != nil {
				return err
			}
			printWatchlist(cmd.OutOrStdout(), c.Entries)
			return nil
		},
	}
	addYesFlag(cmd, a)
	return cmd
}

func printWatchlist(w io.Writer, entries []watchlist.Entry) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tTITLE\tSTATUS\tPRIORITY\tDESCRIPTION")
	for _, e := range entries {
		if e.Task == nil {
			fmt.Fprintf(tw, "%d\t\t\t\t\n", e.TaskID)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.TaskID, e.Task.Title, e.Task.Status, e.Task.Priority, e.Task.Description)
	}
	tw.Flush()
}
