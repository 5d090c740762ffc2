package authservice

import (
	"context"
	"errors"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/ichigozero/taskdash/auth"
	"golang.org/x/crypto/bcrypt"
)

// Service is the auth family of the backend API. The HTTP client in
// authtransport implements it for callers; the basic service below backs the
// local stub.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, name, email, password string) (auth.User, error)
}

func New(users auth.UserRepository, t Tokenizer, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(users, t)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	users     auth.UserRepository
	tokenizer Tokenizer
}

func NewBasicService(users auth.UserRepository, t Tokenizer) Service {
	return &basicService{users: users, tokenizer: t}
}

func (s *basicService) Login(_ context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", auth.ErrInvalidArgument
	}

	user, hash, err := s.users.FindByEmail(normalizeEmail(email))
	if errors.Is(err, auth.ErrUserNotFound) {
		return "", auth.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", auth.ErrInvalidCredentials
	}

	return s.tokenizer.Generate(user)
}

func (s *basicService) Register(_ context.Context, name, email, password string) (auth.User, error) {
	if name == "" || email == "" || password == "" {
		return auth.User{}, auth.ErrInvalidArgument
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return auth.User{}, err
	}

	return s.users.Create(name, normalizeEmail(email), string(hash))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
