package projectendpoint

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/project"
	"github.com/ichigozero/taskdash/project/pkg/projectservice"
)

type Set struct {
	ProjectsEndpoint      endpoint.Endpoint
	ProjectEndpoint       endpoint.Endpoint
	CreateProjectEndpoint endpoint.Endpoint
	UpdateProjectEndpoint endpoint.Endpoint
	DeleteProjectEndpoint endpoint.Endpoint
}

func New(svc projectservice.Service, logger log.Logger) Set {
	var projectsEndpoint endpoint.Endpoint
	{
		projectsEndpoint = MakeProjectsEndpoint(svc)
		projectsEndpoint = LoggingMiddleware(log.With(logger, "method", "Projects"))(projectsEndpoint)
	}
	var projectEndpoint endpoint.Endpoint
	{
		projectEndpoint = MakeProjectEndpoint(svc)
		projectEndpoint = LoggingMiddleware(log.With(logger, "method", "Project"))(projectEndpoint)
	}
	var createProjectEndpoint endpoint.Endpoint
	{
		createProjectEndpoint = MakeCreateProjectEndpoint(svc)
		createProjectEndpoint = LoggingMiddleware(log.With(logger, "method", "CreateProject"))(createProjectEndpoint)
	}
	var updateProjectEndpoint endpoint.Endpoint
	{
		updateProjectEndpoint = MakeUpdateProjectEndpoint(svc)
		updateProjectEndpoint = LoggingMiddleware(log.With(logger, "method", "UpdateProject"))(updateProjectEndpoint)
	}
	var deleteProjectEndpoint endpoint.Endpoint
	{
		deleteProjectEndpoint = MakeDeleteProjectEndpoint(svc)
		deleteProjectEndpoint = LoggingMiddleware(log.With(logger, "method", "DeleteProject"))(deleteProjectEndpoint)
	}

	return Set{
		ProjectsEndpoint:      projectsEndpoint,
		ProjectEndpoint:       projectEndpoint,
		CreateProjectEndpoint: createProjectEndpoint,
		UpdateProjectEndpoint: updateProjectEndpoint,
		DeleteProjectEndpoint: deleteProjectEndpoint,
	}
}

func (s Set) Projects(ctx context.Context, userID taskdash.UserID) ([]project.Project, error) {
	resp, err := s.ProjectsEndpoint(ctx, ProjectsRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	response := resp.(ProjectsResponse)
	return response.Projects, response.Err
}

func (s Set) Project(ctx context.Context, projectID uint64) (project.Project, error) {
	resp, err := s.ProjectEndpoint(ctx, ProjectRequest{ProjectID: projectID})
	if err != nil {
		return project.Project{}, err
	}
	response := resp.(ProjectResponse)
	return response.Project, response.Err
}

func (s Set) CreateProject(ctx context.Context, userID taskdash.UserID, name, description string) (project.Project, error) {
	resp, err := s.CreateProjectEndpoint(ctx, CreateProjectRequest{Name: name, Description: description, UserID: userID})
	if err != nil {
		return project.Project{}, err
	}
	response := resp.(CreateProjectResponse)
	return response.Project, response.Err
}

func (s Set) UpdateProject(ctx context.Context, projectID uint64, name, description string) (project.Project, error) {
	resp, err := s.UpdateProjectEndpoint(ctx, UpdateProjectRequest{ProjectID: projectID, Name: name, Description: description})
	if err != nil {
		return project.Project{}, err
	}
	response := resp.(UpdateProjectResponse)
	return response.Project, response.Err
}

func (s Set) DeleteProject(ctx context.Context, projectID uint64) (project.Project, error) {
	resp, err := s.DeleteProjectEndpoint(ctx, DeleteProjectRequest{ProjectID: projectID})
	if err != nil {
		return project.Project{}, err
	}
	response := resp.(DeleteProjectResponse)
	return response.Project, response.Err
}

func MakeProjectsEndpoint(s projectservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(ProjectsRequest)
		p, err := s.Projects(ctx, req.UserID)
		return ProjectsResponse{Projects: p, Err: err}, nil
	}
}

func MakeProjectEndpoint(s projectservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(ProjectRequest)
		p, err := s.Project(ctx, req.ProjectID)
		return ProjectResponse{Project: p, Err: err}, nil
	}
}

func MakeCreateProjectEndpoint(s projectservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(CreateProjectRequest)
		p, err := s.CreateProject(ctx, req.UserID, req.Name, req.Description)
		return CreateProjectResponse{Project: p, Err: err}, nil
	}
}

func MakeUpdateProjectEndpoint(s projectservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(UpdateProjectRequest)
		p, err := s.UpdateProject(ctx, req.ProjectID, req.Name, req.Description)
		return UpdateProjectResponse{Project: p, Err: err}, nil
	}
}

func MakeDeleteProjectEndpoint(s projectservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(DeleteProjectRequest)
		p, err := s.DeleteProject(ctx, req.ProjectID)
		return DeleteProjectResponse{Project: p, Err: err}, nil
	}
}

var (
	_ endpoint.Failer = ProjectsResponse{}
	_ endpoint.Failer = ProjectResponse{}
	_ endpoint.Failer = CreateProjectResponse{}
	_ endpoint.Failer = UpdateProjectResponse{}
	_ endpoint.Failer = DeleteProjectResponse{}
)

type ProjectsRequest struct {
	UserID taskdash.UserID
}

type ProjectsResponse struct {
	Projects []project.Project
	Err      error
}

func (r ProjectsResponse) Failed() error { return r.Err }

func (r ProjectsResponse) Body() interface{} {
	if r.Projects == nil {
		return []project.Project{}
	}
	return r.Projects
}

type ProjectRequest struct {
	ProjectID uint64
}

type ProjectResponse struct {
	Project project.Project
	Err     error
}

func (r ProjectResponse) Failed() error { return r.Err }

func (r ProjectResponse) Body() interface{} { return r.Project }

type CreateProjectRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UserID      taskdash.UserID `json:"userId"`
}

type CreateProjectResponse struct {
	Project project.Project
	Err     error
}

func (r CreateProjectResponse) Failed() error { return r.Err }

func (r CreateProjectResponse) Body() interface{} { return r.Project }

func (r CreateProjectResponse) StatusCode() int { return http.StatusCreated }

type UpdateProjectRequest struct {
	ProjectID   uint64 `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateProjectResponse struct {
	Project project.Project
	Err     error
}

func (r UpdateProjectResponse) Failed() error { return r.Err }

func (r UpdateProjectResponse) Body() interface{} { return r.Project }

type DeleteProjectRequest struct {
	ProjectID uint64
}

type DeleteProjectResponse struct {
	Project project.Project
	Err     error
}

func (r DeleteProjectResponse) Failed() error { return r.Err }

func (r DeleteProjectResponse) Body() interface{} { return r.Project }
