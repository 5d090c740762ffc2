package main

import (
	"fmt"

	"github.com/ichigozero/taskdash/view"
	"github.com/spf13/cobra"
)

func tasksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Create and delete the tasks of a project",
	}
	cmd.AddCommand(tasksCreateCmd(a))
	cmd.AddCommand(tasksDeleteCmd(a))
	return cmd
}

func tasksCreateCmd(a *app) *cobra.Command {
	var (
		projectID string
		form      = view.NewTaskForm()
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a task to a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := mountProjects(cmd, a, projectID)
			if err != nil {
				return err
			}
			c.NewTask = form
			if err := c.CreateTask(cmd.Context()); err != nil {
				return err
			}
			printDetails(cmd.OutOrStdout(), *c.Selected, c.Tasks)
			return nil
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "project ID")
	cmd.Flags().StringVar(&form.Title, "title", "", "task title")
	cmd.Flags().StringVar(&form.Description, "description", "", "task description")
	cmd.Flags().StringVar(&form.Priority, "priority", form.Priority, "Low, Medium or High")
	cmd.Flags().StringVar(&form.Deadline, "deadline", "", "due date, YYYY-MM-DD or RFC 3339")
	cmd.MarkFlagRequired("project")
	return cmd
}

func tasksDeleteCmd(a *app) *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:   "delete TASK_ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return fmt.Errorf("task ID %q: %w", args[0], err)
			}
			c, err := mountProjects(cmd, a, projectID)
			if err != nil {
				return err
			}
			if err := c.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			if c.Selected != nil {
				printDetails(cmd.OutOrStdout(), *c.Selected, c.Tasks)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "project ID, to print its tasks afterwards")
	addYesFlag(cmd, a)
	return cmd
}
