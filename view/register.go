package view

import (
	"context"
	"errors"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/auth/pkg/authservice"
	"github.com/ichigozero/taskdash/session"
)

const (
	msgInvalidName    = "Please enter your name."
	msgInvalidEmail   = "Please enter a valid email address."
	msgWeakPassword   = "Password must be at least 8 characters long, include at least one uppercase letter, one lowercase letter, one number, and one special character."
	msgRegistered     = "Registration successful! Please login."
	msgRegisterFailed = "Registration failed. Please try again."
)

type RegisterForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"email_address"`
	Password string `validate:"strong_password"`
}

type Register struct {
	Form RegisterForm

	// Loading is true while the register call is outstanding.
	Loading bool

	auth    authservice.Service
	session *session.Manager
	ui      UI
	logger  log.Logger
}

func NewRegister(auth authservice.Service, s *session.Manager, ui UI, logger log.Logger) *Register {
	return &Register{auth: auth, session: s, ui: ui, logger: logger}
}

// Mount sends users that already hold a token to their projects.
func (c *Register) Mount() {
	if c.session.IsAuthenticated() {
		c.ui.Navigate(RouteProjects)
	}
}

func (c *Register) Submit(ctx context.Context) error {
	if err := validate.Struct(c.Form); err != nil {
		switch firstInvalidField(err) {
		case "Name":
			c.ui.Alert(msgInvalidName)
		case "Email":
			c.ui.Alert(msgInvalidEmail)
		default:
			c.ui.Alert(msgWeakPassword)
		}
		return err
	}

	c.Loading = true
	defer func() { c.Loading = false }()

	_, err := c.auth.Register(ctx, c.Form.Name, c.Form.Email, c.Form.Password)
	if err != nil {
		level.Error(c.logger).Log("action", "register", "err", err)
		c.ui.Alert(messageOr(err, msgRegisterFailed))
		return err
	}

	c.ui.Alert(msgRegistered)
	c.Form = RegisterForm{}
	c.ui.Navigate(RouteLogin)
	return nil
}

// messageOr returns the backend message carried by err, or fallback.
func messageOr(err error, fallback string) string {
	var se *taskdash.StatusError
	if errors.As(err, &se) {
		if m := se.Message(); m != "" {
			return m
		}
	}
	return fallback
}
