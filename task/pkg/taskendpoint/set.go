package taskendpoint

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/ichigozero/taskdash/task"
	"github.com/ichigozero/taskdash/task/pkg/taskservice"
)

type Set struct {
	TasksEndpoint      endpoint.Endpoint
	CreateTaskEndpoint endpoint.Endpoint
	DeleteTaskEndpoint endpoint.Endpoint
}

func New(svc taskservice.Service, logger log.Logger) Set {
	var tasksEndpoint endpoint.Endpoint
	{
		tasksEndpoint = MakeTasksEndpoint(svc)
		tasksEndpoint = LoggingMiddleware(log.With(logger, "method", "Tasks"))(tasksEndpoint)
	}
	var createTaskEndpoint endpoint.Endpoint
	{
		createTaskEndpoint = MakeCreateTaskEndpoint(svc)
		createTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "CreateTask"))(createTaskEndpoint)
	}
	var deleteTaskEndpoint endpoint.Endpoint
	{
		deleteTaskEndpoint = MakeDeleteTaskEndpoint(svc)
		deleteTaskEndpoint = LoggingMiddleware(log.With(logger, "method", "DeleteTask"))(deleteTaskEndpoint)
	}

	return Set{
		TasksEndpoint:      tasksEndpoint,
		CreateTaskEndpoint: createTaskEndpoint,
		DeleteTaskEndpoint: deleteTaskEndpoint,
	}
}

func (s Set) Tasks(ctx context.Context, projectID uint64) ([]task.Task, error) {
	resp, err := s.TasksEndpoint(ctx, TasksRequest{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	response := resp.(TasksResponse)
	return response.Tasks, response.Err
}

func (s Set) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	resp, err := s.CreateTaskEndpoint(ctx, CreateTaskRequest{Task: t})
	if err != nil {
		return task.Task{}, err
	}
	response := resp.(CreateTaskResponse)
	return response.Task, response.Err
}

func (s Set) DeleteTask(ctx context.Context, taskID uint64) (task.Task, error) {
	resp, err := s.DeleteTaskEndpoint(ctx, DeleteTaskRequest{TaskID: taskID})
	if err != nil {
		return task.Task{}, err
	}
	response := resp.(DeleteTaskResponse)
	return response.Task, response.Err
}

func MakeTasksEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(TasksRequest)
		t, err := s.Tasks(ctx, req.ProjectID)
		return TasksResponse{Tasks: t, Err: err}, nil
	}
}

func MakeCreateTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(CreateTaskRequest)
		t, err := s.CreateTask(ctx, req.Task)
		return CreateTaskResponse{Task: t, Err: err}, nil
	}
}

func MakeDeleteTaskEndpoint(s taskservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(DeleteTaskRequest)
		t, err := s.DeleteTask(ctx, req.TaskID)
		return DeleteTaskResponse{Task: t, Err: err}, nil
	}
}

var (
	_ endpoint.Failer = TasksResponse{}
	_ endpoint.Failer = CreateTaskResponse{}
	_ endpoint.Failer = DeleteTaskResponse{}
)

type TasksRequest struct {
	ProjectID uint64
}

type TasksResponse struct {
	Tasks []task.Task
	Err   error
}

func (r TasksResponse) Failed() error { return r.Err }

func (r TasksResponse) Body() interface{} {
	if r.Tasks == nil {
		return []task.Task{}
	}
	return r.Tasks
}

// CreateTaskRequest travels as the bare task object.
type CreateTaskRequest struct {
	Task task.Task
}

type CreateTaskResponse struct {
	Task task.Task
	Err  error
}

func (r CreateTaskResponse) Failed() error { return r.Err }

func (r CreateTaskResponse) Body() interface{} { return r.Task }

func (r CreateTaskResponse) StatusCode() int { return http.StatusCreated }

type DeleteTaskRequest struct {
	TaskID uint64
}

type DeleteTaskResponse struct {
	Task task.Task
	Err  error
}

func (r DeleteTaskResponse) Failed() error { return r.Err }

func (r DeleteTaskResponse) Body() interface{} { return r.Task }
