package authendpoint

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/ichigozero/taskdash/auth"
	"github.com/ichigozero/taskdash/auth/pkg/authservice"
)

type Set struct {
	LoginEndpoint    endpoint.Endpoint
	RegisterEndpoint endpoint.Endpoint
}

func New(svc authservice.Service, logger log.Logger) Set {
	var loginEndpoint endpoint.Endpoint
	{
		loginEndpoint = MakeLoginEndpoint(svc)
		loginEndpoint = LoggingMiddleware(log.With(logger, "method", "Login"))(loginEndpoint)
	}

	var registerEndpoint endpoint.Endpoint
	{
		registerEndpoint = MakeRegisterEndpoint(svc)
		registerEndpoint = LoggingMiddleware(log.With(logger, "method", "Register"))(registerEndpoint)
	}

	return Set{
		LoginEndpoint:    loginEndpoint,
		RegisterEndpoint: registerEndpoint,
	}
}

func (s Set) Login(ctx context.Context, email, password string) (string, error) {
	response, err := s.LoginEndpoint(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	resp := response.(LoginResponse)
	if resp.Err == nil && resp.AccessToken == "" {
		return "", auth.ErrNoAccessToken
	}
	return resp.AccessToken, resp.Err
}

func (s Set) Register(ctx context.Context, name, email, password string) (auth.User, error) {
	response, err := s.RegisterEndpoint(ctx, RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return auth.User{}, err
	}

	resp := response.(RegisterResponse)
	return resp.User, resp.Err
}

func MakeLoginEndpoint(s authservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(LoginRequest)
		t, err := s.Login(ctx, req.Email, req.Password)

		return LoginResponse{AccessToken: t, Err: err}, nil
	}
}

func MakeRegisterEndpoint(s authservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(RegisterRequest)
		u, err := s.Register(ctx, req.Name, req.Email, req.Password)

		return RegisterResponse{User: u, Err: err}, nil
	}
}

var (
	_ endpoint.Failer = LoginResponse{}
	_ endpoint.Failer = RegisterResponse{}
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	Err         error  `json:"-"`
}

func (r LoginResponse) Failed() error { return r.Err }

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User auth.User `json:"user"`
	Err  error     `json:"-"`
}

func (r RegisterResponse) Failed() error { return r.Err }

func (r RegisterResponse) Body() interface{} { return r.User }

func (r RegisterResponse) StatusCode() int { return http.StatusCreated }
