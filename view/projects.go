package view

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/client"
	"github.com/ichigozero/taskdash/project"
	"github.com/ichigozero/taskdash/project/pkg/projectservice"
	"github.com/ichigozero/taskdash/session"
	"github.com/ichigozero/taskdash/task"
	"github.com/ichigozero/taskdash/task/pkg/taskservice"
	"github.com/ichigozero/taskdash/watchlist/pkg/watchlistservice"
)

const (
	msgNotLoggedIn       = "You are not logged in!"
	msgMissingFields     = "Please fill in all required fields."
	msgProjectCreated    = "Project created successfully!"
	msgProjectCreateErr  = "Error creating project."
	msgNoProjectToUpdate = "No project selected for update."
	msgProjectUpdated    = "Project updated successfully!"
	msgProjectUpdateErr  = "Error updating project."
	msgConfirmProject    = "Are you sure you want to delete this project?"
	msgProjectDeleteErr  = "Error deleting project."
	msgInvalidDeadline   = "Invalid deadline format. Please select a valid date."
	msgTaskCreated       = "Task created successfully!"
	msgTaskCreateErr     = "Error creating task."
	msgConfirmTask       = "Are you sure you want to delete this task?"
	msgTaskDeleteErr     = "Error deleting task."
	msgWatchAdded        = "Task added to watchlist!"
	msgAlreadyWatched    = "This task is already in your watchlist."
	msgWatchAddErr       = "Failed to add task to watchlist."
)

type ProjectForm struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
}

type EditProjectForm struct {
	ID          uint64
	Name        string `validate:"required"`
	Description string `validate:"required"`
}

type TaskForm struct {
	Title       string `validate:"required"`
	Description string
	Status      string
	Priority    string `validate:"oneof=Low Medium High"`
	Deadline    string `validate:"required"`
}

// NewTaskForm returns the form a new task starts from.
func NewTaskForm() TaskForm {
	return TaskForm{Status: task.StatusIncomplete, Priority: task.PriorityMedium}
}

// Projects is the projects page: the user's projects, the selected project
// with its tasks, and the create, edit and new task forms.
type Projects struct {
	Projects    []project.Project
	Selected    *project.Project
	Tasks       []task.Task
	ShowDetails bool

	NewProject  ProjectForm
	EditProject EditProjectForm
	NewTask     TaskForm

	userID taskdash.UserID

	projects  projectservice.Service
	tasks     taskservice.Service
	watchlist watchlistservice.Service
	session   *session.Manager
	ui        UI
	logger    log.Logger
}

func NewProjects(c *client.Client, s *session.Manager, ui UI, logger log.Logger) *Projects {
	return &Projects{
		NewTask:   NewTaskForm(),
		projects:  c.Projects,
		tasks:     c.Tasks,
		watchlist: c.Watchlist,
		session:   s,
		ui:        ui,
		logger:    logger,
	}
}

// Mount resolves the current user and loads their projects. Without a
// usable token the user is sent to the login page.
func (c *Projects) Mount(ctx context.Context) error {
	id, ok := CurrentUser(c.session)
	if !ok {
		c.ui.Alert(msgNotLoggedIn)
		c.ui.Navigate(RouteLogin)
		return ErrNotLoggedIn
	}
	c.userID = id
	return c.Refresh(ctx, ScopeProjects)
}

// Refresh re-fetches scope. On failure the previous state is kept.
func (c *Projects) Refresh(ctx context.Context, scope Scope) error {
	switch scope {
	case ScopeProjects:
		projects, err := c.projects.Projects(c.session.Context(ctx), c.userID)
		if err != nil {
			level.Error(c.logger).Log("action", "fetch projects", "err", err)
			return err
		}
		c.Projects = projects
		return nil
	case ScopeProjectDetails:
		if c.Selected == nil {
			return ErrNoProjectSelected
		}
		return c.loadDetails(ctx, c.Selected.ID)
	}
	return ErrUnknownScope
}

// SelectProject shows the details and tasks of a project.
func (c *Projects) SelectProject(ctx context.Context, projectID uint64) error {
	return c.loadDetails(ctx, projectID)
}

func (c *Projects) loadDetails(ctx context.Context, projectID uint64) error {
	ctx = c.session.Context(ctx)

	p, err := c.projects.Project(ctx, projectID)
	if err != nil {
		level.Error(c.logger).Log("action", "fetch project details", "project_id", projectID, "err", err)
		return err
	}
	tasks, err := c.tasks.Tasks(ctx, projectID)
	if err != nil {
		level.Error(c.logger).Log("action", "fetch project details", "project_id", projectID, "err", err)
		return err
	}

	c.Selected = &p
	c.Tasks = tasks
	c.EditProject = EditProjectForm{ID: p.ID, Name: p.Name, Description: p.Description}
	c.ShowDetails = true
	return nil
}

// CloseDetails hides the selected project without clearing it.
func (c *Projects) CloseDetails() {
	c.ShowDetails = false
}

func (c *Projects) CreateProject(ctx context.Context) error {
	form := c.NewProject
	if err := validate.Struct(form); err != nil {
		c.ui.Alert(msgMissingFields)
		return err
	}

	c.NewProject = ProjectForm{}
	_, err := c.projects.CreateProject(c.session.Context(ctx), c.userID, form.Name, form.Description)
	if err != nil {
		c.NewProject = form
		level.Error(c.logger).Log("action", "create project", "err", err)
		c.ui.Alert(msgProjectCreateErr)
		return err
	}

	c.Refresh(ctx, ScopeProjects)
	c.ui.Alert(msgProjectCreated)
	return nil
}

func (c *Projects) UpdateProject(ctx context.Context) error {
	form := c.EditProject
	if form.ID == 0 {
		c.ui.Alert(msgNoProjectToUpdate)
		return ErrNoProjectSelected
	}
	if err := validate.Struct(form); err != nil {
		c.ui.Alert(msgMissingFields)
		return err
	}

	c.EditProject = EditProjectForm{}
	_, err := c.projects.UpdateProject(c.session.Context(ctx), form.ID, form.Name, form.Description)
	if err != nil {
		c.EditProject = form
		level.Error(c.logger).Log("action", "update project", "project_id", form.ID, "err", err)
		c.ui.Alert(msgProjectUpdateErr)
		return err
	}

	c.Refresh(ctx, ScopeProjects)
	if c.Selected != nil && c.Selected.ID == form.ID {
		c.Refresh(ctx, ScopeProjectDetails)
	}
	c.ui.Alert(msgProjectUpdated)
	return nil
}

// DeleteProject asks for confirmation, then deletes the project. Declining
// is not an error.
func (c *Projects) DeleteProject(ctx context.Context, projectID uint64) error {
	if !c.ui.Confirm(msgConfirmProject) {
		return nil
	}

	if _, err := c.projects.DeleteProject(c.session.Context(ctx), projectID); err != nil {
		level.Error(c.logger).Log("action", "delete project", "project_id", projectID, "err", err)
		c.ui.Alert(msgProjectDeleteErr)
		return err
	}

	if c.Selected != nil && c.Selected.ID == projectID {
		c.Selected = nil
		c.Tasks = nil
		c.ShowDetails = false
		c.EditProject = EditProjectForm{}
	}
	c.Refresh(ctx, ScopeProjects)
	return nil
}

// CreateTask adds the new task form to the selected project.
func (c *Projects) CreateTask(ctx context.Context) error {
	if c.Selected == nil {
		c.ui.Alert(msgTaskCreateErr)
		return ErrNoProjectSelected
	}

	form := c.NewTask
	deadline, err := parseDeadline(form.Deadline)
	if err != nil {
		c.ui.Alert(msgInvalidDeadline)
		return err
	}
	if err := validate.Struct(form); err != nil {
		c.ui.Alert(msgMissingFields)
		return err
	}

	t := task.Task{
		Title:       form.Title,
		Description: form.Description,
		Status:      form.Status,
		Priority:    form.Priority,
		Deadline:    deadline,
		ProjectID:   c.Selected.ID,
		UserID:      c.userID,
	}

	c.NewTask = NewTaskForm()
	if _, err := c.tasks.CreateTask(c.session.Context(ctx), t); err != nil {
		c.NewTask = form
		level.Error(c.logger).Log("action", "create task", "project_id", t.ProjectID, "err", err)
		c.ui.Alert(msgTaskCreateErr)
		return err
	}

	c.Refresh(ctx, ScopeProjectDetails)
	c.ui.Alert(msgTaskCreated)
	return nil
}

func (c *Projects) DeleteTask(ctx context.Context, taskID uint64) error {
	if !c.ui.Confirm(msgConfirmTask) {
		return nil
	}

	if _, err := c.tasks.DeleteTask(c.session.Context(ctx), taskID); err != nil {
		level.Error(c.logger).Log("action", "delete task", "task_id", taskID, "err", err)
		c.ui.Alert(msgTaskDeleteErr)
		return err
	}

	if c.Selected != nil {
		c.Refresh(ctx, ScopeProjectDetails)
	}
	return nil
}

// AddToWatchlist saves a task to the user's watchlist. A conflict means the
// task is already there.
func (c *Projects) AddToWatchlist(ctx context.Context, taskID uint64) error {
	_, err := c.watchlist.AddToWatchlist(c.session.Context(ctx), c.userID, taskID)
	switch {
	case err == nil:
		c.ui.Alert(msgWatchAdded)
	case taskdash.IsConflict(err):
		c.ui.Alert(msgAlreadyWatched)
	default:
		level.Error(c.logger).Log("action", "add to watchlist", "task_id", taskID, "err", err)
		c.ui.Alert(msgWatchAddErr)
	}
	return err
}

func (c *Projects) OpenWatchlist() {
	c.ui.Navigate(RouteWatchlist)
}

// SignOut forgets the token and returns to the login page.
func (c *Projects) SignOut() error {
	err := c.session.SignOut()
	if err != nil {
		level.Error(c.logger).Log("action", "sign out", "err", err)
	}
	c.ui.Navigate(RouteLogin)
	return err
}
