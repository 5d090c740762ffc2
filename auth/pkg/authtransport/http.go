package authtransport

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/ichigozero/taskdash/auth"
	"github.com/ichigozero/taskdash/auth/pkg/authendpoint"
	"github.com/ichigozero/taskdash/auth/pkg/authservice"
	"github.com/ichigozero/taskdash/pkg/apihttp"
)

func NewHTTPHandler(endpoints authendpoint.Set, logger log.Logger) http.Handler {
	errorEncoder := apihttp.ErrorEncoder(err2code)
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
	}

	loginHandler := httptransport.NewServer(
		endpoints.LoginEndpoint,
		decodeHTTPLoginRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	registerHandler := httptransport.NewServer(
		endpoints.RegisterEndpoint,
		decodeHTTPRegisterRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	r := mux.NewRouter()

	r.Methods("POST").Path("/auth/login").Handler(loginHandler)
	r.Methods("POST").Path("/auth/register").Handler(registerHandler)

	return r
}

// NewHTTPClient returns the auth family of the API at instance. Login and
// register are unauthenticated, so no bearer is attached.
func NewHTTPClient(instance string, mw apihttp.ClientMiddleware, logger log.Logger) (authservice.Service, error) {
	u, err := apihttp.ParseInstance(instance)
	if err != nil {
		return nil, err
	}

	var options []httptransport.ClientOption

	var loginEndpoint endpoint.Endpoint
	{
		loginEndpoint = httptransport.NewClient(
			"POST",
			apihttp.CopyURL(u, "/auth/login"),
			apihttp.EncodeJSONRequest,
			decodeHTTPLoginResponse,
			options...,
		).Endpoint()
		loginEndpoint = mw.Wrap("Login", loginEndpoint)
	}

	var registerEndpoint endpoint.Endpoint
	{
		registerEndpoint = httptransport.NewClient(
			"POST",
			apihttp.CopyURL(u, "/auth/register"),
			apihttp.EncodeJSONRequest,
			decodeHTTPRegisterResponse,
			options...,
		).Endpoint()
		registerEndpoint = mw.Wrap("Register", registerEndpoint)
	}

	return authendpoint.Set{
		LoginEndpoint:    loginEndpoint,
		RegisterEndpoint: registerEndpoint,
	}, nil
}

func err2code(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidArgument), errors.Is(err, apihttp.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func decodeHTTPLoginRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req authendpoint.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apihttp.ErrBadRequest
	}
	return req, nil
}

func decodeHTTPLoginResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return authendpoint.LoginResponse{Err: err}, nil
	}
	var resp authendpoint.LoginResponse
	err := apihttp.DecodeJSON(r, &resp)
	return resp, err
}

func decodeHTTPRegisterRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req authendpoint.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apihttp.ErrBadRequest
	}
	return req, nil
}

// decodeHTTPRegisterResponse tolerates bodies that are not a user record;
// the backend only promises a success status.
func decodeHTTPRegisterResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return authendpoint.RegisterResponse{Err: err}, nil
	}
	var resp authendpoint.RegisterResponse
	if b, err := ioutil.ReadAll(r.Body); err == nil {
		json.Unmarshal(b, &resp.User)
	}
	return resp, nil
}
