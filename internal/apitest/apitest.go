// Package apitest runs the stub backend on an in-memory database for tests.
package apitest

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-kit/kit/log"
	"github.com/ichigozero/taskdash/auth/pkg/authtransport"
	"github.com/ichigozero/taskdash/db/gorm"
	"github.com/ichigozero/taskdash/internal/apistub"
)

// Secret signs every bearer the test server issues or accepts.
const Secret = "apitest-secret"

type Server struct {
	*httptest.Server
}

// NewServer starts a stub backend that is closed when t finishes.
func NewServer(t testing.TB) *Server {
	t.Helper()

	db, err := gorm.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	handler, err := apistub.New(db, Secret, log.NewNopLogger())
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}

	s := &Server{httptest.NewServer(handler)}
	t.Cleanup(func() {
		s.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return s
}

// SignUp registers a user through the HTTP API and returns its access token.
func (s *Server) SignUp(t testing.TB, name, email, password string) string {
	t.Helper()

	svc, err := authtransport.NewHTTPClient(s.URL, nil, log.NewNopLogger())
	if err != nil {
		t.Fatalf("auth client: %v", err)
	}

	ctx := context.Background()
	if _, err := svc.Register(ctx, name, email, password); err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	token, err := svc.Login(ctx, email, password)
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return token
}

// Token signs a bearer for an arbitrary subject, such as a string sub.
func Token(t testing.TB, sub interface{}) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}
