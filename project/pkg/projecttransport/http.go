package projecttransport

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
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/pkg/apihttp"
	"github.com/ichigozero/taskdash/project"
	"github.com/ichigozero/taskdash/project/pkg/projectendpoint"
	"github.com/ichigozero/taskdash/project/pkg/projectservice"
)

func NewHTTPHandler(endpoints projectendpoint.Set, secret []byte, logger log.Logger) http.Handler {
	errorEncoder := apihttp.ErrorEncoder(err2code)
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
		httptransport.ServerBefore(kitjwt.HTTPToContext()),
	}
	authenticated := apihttp.Authenticated(secret)

	projectsHandler := httptransport.NewServer(
		authenticated(endpoints.ProjectsEndpoint),
		decodeHTTPProjectsRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	projectHandler := httptransport.NewServer(
		authenticated(endpoints.ProjectEndpoint),
		decodeHTTPProjectRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	createProjectHandler := httptransport.NewServer(
		authenticated(endpoints.CreateProjectEndpoint),
		decodeHTTPCreateProjectRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	updateProjectHandler := httptransport.NewServer(
		authenticated(endpoints.UpdateProjectEndpoint),
		decodeHTTPUpdateProjectRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	deleteProjectHandler := httptransport.NewServer(
		authenticated(endpoints.DeleteProjectEndpoint),
		decodeHTTPDeleteProjectRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	r := mux.NewRouter()

	// details must be matched before the user-scoped listing.
	r.Methods("GET").Path("/projects/details/{project_id}").Handler(projectHandler)
	r.Methods("GET").Path("/projects/{user_id}").Handler(projectsHandler)
	r.Methods("POST").Path("/projects").Handler(createProjectHandler)
	r.Methods("PUT").Path("/projects/{project_id}").Handler(updateProjectHandler)
	r.Methods("DELETE").Path("/projects/{project_id}").Handler(deleteProjectHandler)

	return r
}

// NewHTTPClient returns the projects family of the API at instance. The
// bearer found in the call context is forwarded on every request.
func NewHTTPClient(instance string, mw apihttp.ClientMiddleware, logger log.Logger) (projectservice.Service, error) {
	u, err := apihttp.ParseInstance(instance)
	if err != nil {
		return nil, err
	}

	options := []httptransport.ClientOption{
		httptransport.ClientBefore(kitjwt.ContextToHTTP()),
	}

	var projectsEndpoint endpoint.Endpoint
	{
		projectsEndpoint = httptransport.NewClient(
			"GET",
			apihttp.CopyURL(u, "/projects"),
			encodeHTTPProjectsRequest,
			decodeHTTPProjectsResponse,
			options...,
		).Endpoint()
		projectsEndpoint = mw.Wrap("Projects", projectsEndpoint)
	}

	var projectEndpoint endpoint.Endpoint
	{
		projectEndpoint = httptransport.NewClient(
			"GET",
			apihttp.CopyURL(u, "/projects/details"),
			encodeHTTPProjectRequest,
			decodeHTTPProjectResponse,
			options...,
		).Endpoint()
		projectEndpoint = mw.Wrap("Project", projectEndpoint)
	}

	var createProjectEndpoint endpoint.Endpoint
	{
		createProjectEndpoint = httptransport.NewClient(
			"POST",
			apihttp.CopyURL(u, "/projects"),
			apihttp.EncodeJSONRequest,
			decodeHTTPCreateProjectResponse,
			options...,
		).Endpoint()
		createProjectEndpoint = mw.Wrap("CreateProject", createProjectEndpoint)
	}

	var updateProjectEndpoint endpoint.Endpoint
	{
		updateProjectEndpoint = httptransport.NewClient(
			"PUT",
			apihttp.CopyURL(u, "/projects"),
			encodeHTTPUpdateProjectRequest,
			decodeHTTPUpdateProjectResponse,
			options...,
		).Endpoint()
		updateProjectEndpoint = mw.Wrap("UpdateProject", updateProjectEndpoint)
	}

	var deleteProjectEndpoint endpoint.Endpoint
	{
		deleteProjectEndpoint = httptransport.NewClient(
			"DELETE",
			apihttp.CopyURL(u, "/projects"),
			encodeHTTPDeleteProjectRequest,
			decodeHTTPDeleteProjectResponse,
			options...,
		).Endpoint()
		deleteProjectEndpoint = mw.Wrap("DeleteProject", deleteProjectEndpoint)
	}

	return projectendpoint.Set{
		ProjectsEndpoint:      projectsEndpoint,
		ProjectEndpoint:       projectEndpoint,
		CreateProjectEndpoint: createProjectEndpoint,
		UpdateProjectEndpoint: updateProjectEndpoint,
		DeleteProjectEndpoint: deleteProjectEndpoint,
	}, nil
}

func err2code(err error) int {
	switch {
	case apihttp.IsAuthError(err):
		return http.StatusUnauthorized
	case errors.Is(err, project.ErrInvalidArgument), errors.Is(err, apihttp.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, project.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func decodeHTTPProjectsRequest(_ context.Context, r *http.Request) (interface{}, error) {
	v, ok := mux.Vars(r)["user_id"]
	if !ok {
		return nil, apihttp.ErrBadRouting
	}
	return projectendpoint.ProjectsRequest{UserID: taskdash.ParseUserID(v)}, nil
}

func encodeHTTPProjectsRequest(_ context.Context, r *http.Request, request interface{}) error {
	req := request.(projectendpoint.ProjectsRequest)
	apihttp.SetPath(r, req.UserID.String())
	return nil
}

func decodeHTTPProjectsResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return projectendpoint.ProjectsResponse{Err: err}, nil
	}
	var resp projectendpoint.ProjectsResponse
	err := apihttp.DecodeJSON(r, &resp.Projects)
	return resp, err
}

func decodeHTTPProjectRequest(_ context.Context, r *http.Request) (interface{}, error) {
	projectID, err := apihttp.PathUint64(r, "project_id")
	if err != nil {
		return nil, err
	}
	return projectendpoint.ProjectRequest{ProjectID: projectID}, nil
}

func encodeHTTPProjectRequest(_ context.Context, r *http.Request, request interface{}) error {
	req := request.(projectendpoint.ProjectRequest)
	apihttp.SetPath(r, strconv.FormatUint(req.ProjectID, 10))
	return nil
}

func decodeHTTPProjectResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return projectendpoint.ProjectResponse{Err: err}, nil
	}
	var resp projectendpoint.ProjectResponse
	err := apihttp.DecodeJSON(r, &resp.Project)
	return resp, err
}

func decodeHTTPCreateProjectRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req projectendpoint.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apihttp.ErrBadRequest
	}
	return req, nil
}

func decodeHTTPCreateProjectResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return projectendpoint.CreateProjectResponse{Err: err}, nil
	}
	var resp projectendpoint.CreateProjectResponse
	err := apihttp.DecodeJSON(r, &resp.Project)
	return resp, err
}

func decodeHTTPUpdateProjectRequest(_ context.Context, r *http.Request) (interface{}, error) {
	projectID, err := apihttp.PathUint64(r, "project_id")
	if err != nil {
		return nil, err
	}

	var req projectendpoint.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apihttp.ErrBadRequest
	}
	req.ProjectID = projectID

	return req, nil
}

func encodeHTTPUpdateProjectRequest(ctx context.Context, r *http.Request, request interface{}) error {
	req := request.(projectendpoint.UpdateProjectRequest)
	apihttp.SetPath(r, strconv.FormatUint(req.ProjectID, 10))
	return apihttp.EncodeJSONRequest(ctx, r, req)
}

func decodeHTTPUpdateProjectResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return projectendpoint.UpdateProjectResponse{Err: err}, nil
	}
	var resp projectendpoint.UpdateProjectResponse
	err := apihttp.DecodeJSON(r, &resp.Project)
	return resp, err
}

func decodeHTTPDeleteProjectRequest(_ context.Context, r *http.Request) (interface{}, error) {
	projectID, err := apihttp.PathUint64(r, "project_id")
	if err != nil {
		return nil, err
	}
	return projectendpoint.DeleteProjectRequest{ProjectID: projectID}, nil
}

func encodeHTTPDeleteProjectRequest(_ context.Context, r *http.Request, request interface{}) error {
	req := request.(projectendpoint.DeleteProjectRequest)
	apihttp.SetPath(r, strconv.FormatUint(req.ProjectID, 10))
	return nil
}

func decodeHTTPDeleteProjectResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return projectendpoint.DeleteProjectResponse{Err: err}, nil
	}
	var resp projectendpoint.DeleteProjectResponse
	err := apihttp.DecodeJSON(r, &resp.Project)
	return resp, err
}
