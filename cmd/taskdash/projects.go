package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ichigozero/taskdash/project"
	"github.com/ichigozero/taskdash/task"
	"github.com/ichigozero/taskdash/view"
	"github.com/spf13/cobra"
)

func projectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List and manage your projects",
	}
	cmd.AddCommand(projectsListCmd(a))
	cmd.AddCommand(projectsShowCmd(a))
	cmd.AddCommand(projectsCreateCmd(a))
	cmd.AddCommand(projectsUpdateCmd(a))
	cmd.AddCommand(projectsDeleteCmd(a))
	return cmd
}

// mountProjects returns the mounted projects page, optionally with a project
// selected.
func mountProjects(cmd *cobra.Command, a *app, selectID string) (*view.Projects, error) {
	c := view.NewProjects(a.client, a.session, a.ui, a.logger)
	if err := c.Mount(cmd.Context()); err != nil {
		return nil, err
	}
	if selectID == "" {
		return c, nil
	}

	id, err := parseID(selectID)
	if err != nil {
		return nil, fmt.Errorf("project ID %q: %w", selectID, err)
	}
	if err := c.SelectProject(cmd.Context(), id); err != nil {
		return nil, err
	}
	return c, nil
}

func projectsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := mountProjects(cmd, a, "")
			if err != nil {
				return err
			}
			printProjects(cmd.OutOrStdout(), c.Projects)
			return nil
		},
	}
}

func projectsShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT_ID",
		Short: "Show a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := mountProjects(cmd, a, args[0])
			if err != nil {
				return err
			}
			printDetails(cmd.OutOrStdout(), *c.Selected, c.Tasks)
			return nil
		},
	}
}

func projectsCreateCmd(a *app) *cobra.Command {
	var form view.ProjectForm
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := mountProjects(cmd, a, "")
			if err != nil {
				return err
			}
			c.NewProject = form
			if err := c.CreateProject(cmd.Context()); err != nil {
				return err
			}
			printProjects(cmd.OutOrStdout(), c.Projects)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "project name")
	cmd.Flags().StringVar(&form.Description, "description", "", "project description")
	return cmd
}

func projectsUpdateCmd(a *app) *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "update PROJECT_ID",
		Short: "Rename or describe a project; omitted fields keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := mountProjects(cmd, a, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				c.EditProject.Name = name
			}
			if cmd.Flags().Changed("description") {
				c.EditProject.Description = description
			}
			if err := c.UpdateProject(cmd.Context()); err != nil {
				return err
			}
			printDetails(cmd.OutOrStdout(), *c.Selected, c.Tasks)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new project name")
	cmd.Flags().StringVar(&description, "description", "", "new project description")
	return cmd
}

func projectsDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete PROJECT_ID",
		Short: "Delete a project with its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return fmt.Errorf("project ID %q: %w", args[0], err)
			}
			c, err := mountProjects(cmd, a, "")
			if err != nil {
				return err
			}
			if err := c.DeleteProject(cmd.Context(), id); err != nil {
				return err
			}
			printProjects(cmd.OutOrStdout(), c.Projects)
			return nil
		},
	}
	addYesFlag(cmd, a)
	return cmd
}

func printProjects(w io.Writer, projects []project.Project) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, p := range projects {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, p.Description)
	}
	tw.Flush()
}

func printDetails(w io.Writer, p project.Project, tasks []task.Task) {
	fmt.Fprintf(w, "Project Details: %s\n%s\n\n", p.Name, p.Description)
	fmt.Fprintf(w, "Tasks for %s\n", p.Name)
	printTasks(w, tasks)
}

func printTasks(w io.Writer, tasks []task.Task) {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDEADLINE\tDESCRIPTION")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, t.Status, t.Priority, t.Deadline.Format("2006-01-02"), t.Description)
	}
	tw.Flush()
}
