package projectservice

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/project"
)

type Service interface {
	Projects(ctx context.Context, userID taskdash.UserID) ([]project.Project, error)
	Project(ctx context.Context, projectID uint64) (project.Project, error)
	CreateProject(ctx context.Context, userID taskdash.UserID, name, description string) (project.Project, error)
	UpdateProject(ctx context.Context, projectID uint64, name, description string) (project.Project, error)
	DeleteProject(ctx context.Context, projectID uint64) (project.Project, error)
}

func New(p project.ProjectRepository, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(p)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	projects project.ProjectRepository
}

func NewBasicService(p project.ProjectRepository) Service {
	return basicService{projects: p}
}

func (s basicService) Projects(_ context.Context, userID taskdash.UserID) ([]project.Project, error) {
	if userID.IsZero() {
		return nil, project.ErrInvalidArgument
	}
	return s.projects.FindAll(userID)
}

func (s basicService) Project(_ context.Context, projectID uint64) (project.Project, error) {
	if projectID == 0 {
		return project.Project{}, project.ErrInvalidArgument
	}
	return s.projects.Find(projectID)
}

func (s basicService) CreateProject(_ context.Context, userID taskdash.UserID, name, description string) (project.Project, error) {
	if userID.IsZero() || name == "" {
		return project.Project{}, project.ErrInvalidArgument
	}
	return s.projects.Create(name, description, userID)
}

func (s basicService) UpdateProject(_ context.Context, projectID uint64, name, description string) (project.Project, error) {
	if projectID == 0 || name == "" {
		return project.Project{}, project.ErrInvalidArgument
	}
	return s.projects.Update(project.Project{ID: projectID, Name: name, Description: description})
}

func (s basicService) DeleteProject(_ context.Context, projectID uint64) (project.Project, error) {
	if projectID == 0 {
		return project.Project{}, project.ErrInvalidArgument
	}
	return s.projects.Delete(projectID)
}
