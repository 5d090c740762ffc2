package taskservice

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/ichigozero/taskdash/project"
	"github.com/ichigozero/taskdash/task"
)

type Service interface {
	Tasks(ctx context.Context, projectID uint64) ([]task.Task, error)
	CreateTask(ctx context.Context, t task.Task) (task.Task, error)
	DeleteTask(ctx context.Context, taskID uint64) (task.Task, error)
}

func New(t task.TaskRepository, p project.ProjectRepository, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(t, p)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	tasks    task.TaskRepository
	projects project.ProjectRepository
}

func NewBasicService(t task.TaskRepository, p project.ProjectRepository) Service {
	return basicService{tasks: t, projects: p}
}

func (s basicService) Tasks(_ context.Context, projectID uint64) ([]task.Task, error) {
	if projectID == 0 {
		return nil, task.ErrInvalidArgument
	}
	return s.tasks.FindAll(projectID)
}

func (s basicService) CreateTask(_ context.Context, t task.Task) (task.Task, error) {
	if t.Title == "" || t.ProjectID == 0 || t.Deadline.IsZero() {
		return task.Task{}, task.ErrInvalidArgument
	}
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	if !task.ValidPriority(t.Priority) {
		return task.Task{}, task.ErrInvalidArgument
	}
	if t.Status == "" {
		t.Status = task.StatusIncomplete
	}

	p, err := s.projects.Find(t.ProjectID)
	if err != nil {
		return task.Task{}, err
	}
	if t.UserID.IsZero() {
		t.UserID = p.UserID
	}

	t.ID = 0
	return s.tasks.Create(t)
}

func (s basicService) DeleteTask(_ context.Context, taskID uint64) (task.Task, error) {
	if taskID == 0 {
		return task.Task{}, task.ErrInvalidArgument
	}
	return s.tasks.Delete(taskID)
}
