package tasktransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/ichigozero/taskdash/pkg/apihttp"
	"github.com/ichigozero/taskdash/project"
	"github.com/ichigozero/taskdash/task"
	"github.com/ichigozero/taskdash/task/pkg/taskendpoint"
	"github.com/ichigozero/taskdash/task/pkg/taskservice"
)

func NewHTTPHandler(endpoints taskendpoint.Set, secret []byte, logger log.Logger) http.Handler {
	errorEncoder := apihttp.ErrorEncoder(err2code)
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
		httptransport.ServerBefore(kitjwt.HTTPToContext()),
	}
	authenticated := apihttp.Authenticated(secret)

	tasksHandler := httptransport.NewServer(
		authenticated(endpoints.TasksEndpoint),
		decodeHTTPTasksRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	createTaskHandler := httptransport.NewServer(
		authenticated(endpoints.CreateTaskEndpoint),
		decodeHTTPCreateTaskRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	deleteTaskHandler := httptransport.NewServer(
		authenticated(endpoints.DeleteTaskEndpoint),
		decodeHTTPDeleteTaskRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	r := mux.NewRouter()

	r.Methods("GET").Path("/tasks/project/{project_id}").Handler(tasksHandler)
	r.Methods("POST").Path("/tasks").Handler(createTaskHandler)
	r.Methods("DELETE").Path("/tasks/{task_id}").Handler(deleteTaskHandler)

	return r
}

func NewHTTPClient(instance string, mw apihttp.ClientMiddleware, logger log.Logger) (taskservice.Service, error) {
	u, err := apihttp.ParseInstance(instance)
	if err != nil {
		return nil, err
	}

	options := []httptransport.ClientOption{
		httptransport.ClientBefore(kitjwt.ContextToHTTP()),
	}

	var tasksEndpoint endpoint.Endpoint
	{
		tasksEndpoint = httptransport.NewClient(
			"GET",
			apihttp.CopyURL(u, "/tasks/project"),
			encodeHTTPTasksRequest,
			decodeHTTPTasksResponse,
			options...,
		).Endpoint()
		tasksEndpoint = mw.Wrap("Tasks", tasksEndpoint)
	}

	var createTaskEndpoint endpoint.Endpoint
	{
		createTaskEndpoint = httptransport.NewClient(
			"POST",
			apihttp.CopyURL(u, "/tasks"),
			encodeHTTPCreateTaskRequest,
			decodeHTTPCreateTaskResponse,
			options...,
		).Endpoint()
		createTaskEndpoint = mw.Wrap("CreateTask", createTaskEndpoint)
	}

	var deleteTaskEndpoint endpoint.Endpoint
	{
		deleteTaskEndpoint = httptransport.NewClient(
			"DELETE",
			apihttp.CopyURL(u, "/tasks"),
			encodeHTTPDeleteTaskRequest,
			decodeHTTPDeleteTaskResponse,
			options...,
		).Endpoint()
		deleteTaskEndpoint = mw.Wrap("DeleteTask", deleteTaskEndpoint)
	}

	return taskendpoint.Set{
		TasksEndpoint:      tasksEndpoint,
		CreateTaskEndpoint: createTaskEndpoint,
		DeleteTaskEndpoint: deleteTaskEndpoint,
	}, nil
}

func err2code(err error) int {
	switch {
	case apihttp.IsAuthError(err):
		return http.StatusUnauthorized
	case errors.Is(err, task.ErrInvalidArgument), errors.Is(err, apihttp.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, task.ErrNotFound), errors.Is(err, project.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func decodeHTTPTasksRequest(_ context.Context, r *http.Request) (interface{}, error) {
	projectID, err := apihttp.PathUint64(r, "project_id")
	if err != nil {
		return nil, err
	}
	return taskendpoint.TasksRequest{ProjectID: projectID}, nil
}

func encodeHTTPTasksRequest(_ context.Context, r *http.Request, request interface{}) error {
	req := request.(taskendpoint.TasksRequest)
	apihttp.SetPath(r, strconv.FormatUint(req.ProjectID, 10))
	return nil
}

func decodeHTTPTasksResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return taskendpoint.TasksResponse{Err: err}, nil
	}
	var resp taskendpoint.TasksResponse
	err := apihttp.DecodeJSON(r, &resp.Tasks)
	return resp, err
}

func decodeHTTPCreateTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var t task.Task
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		return nil, apihttp.ErrBadRequest
	}
	return taskendpoint.CreateTaskRequest{Task: t}, nil
}

func encodeHTTPCreateTaskRequest(ctx context.Context, r *http.Request, request interface{}) error {
	req := request.(taskendpoint.CreateTaskRequest)
	return apihttp.EncodeJSONRequest(ctx, r, req.Task)
}

func decodeHTTPCreateTaskResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return taskendpoint.CreateTaskResponse{Err: err}, nil
	}
	var resp taskendpoint.CreateTaskResponse
	err := apihttp.DecodeJSON(r, &resp.Task)
	return resp, err
}

func decodeHTTPDeleteTaskRequest(_ context.Context, r *http.Request) (interface{}, error) {
	taskID, err := apihttp.PathUint64(r, "task_id")
	if err != nil {
		return nil, err
	}
	return taskendpoint.DeleteTaskRequest{TaskID: taskID}, nil
}

func encodeHTTPDeleteTaskRequest(_ context.Context, r *http.Request, request interface{}) error {
	req := request.(taskendpoint.DeleteTaskRequest)
	apihttp.SetPath(r, strconv.FormatUint(req.TaskID, 10))
	return nil
}

func decodeHTTPDeleteTaskResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return taskendpoint.DeleteTaskResponse{Err: err}, nil
	}
	var resp taskendpoint.DeleteTaskResponse
	err := apihttp.DecodeJSON(r, &resp.Task)
	return resp, err
}
