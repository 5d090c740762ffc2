package view

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/ichigozero/taskdash/auth/pkg/authservice"
	"github.com/ichigozero/taskdash/session"
)

const (
	msgLoggedIn    = "Login successful!"
	msgLoginFailed = "Login failed. Please check your credentials."
)

type LoginForm struct {
	Email    string
	Password string
}

type Login struct {
	Form LoginForm

	auth    authservice.Service
	session *session.Manager
	ui      UI
	logger  log.Logger
}

func NewLogin(auth authservice.Service, s *session.Manager, ui UI, logger log.Logger) *Login {
	return &Login{auth: auth, session: s, ui: ui, logger: logger}
}

// Submit exchanges the credentials for a token and keeps it in the session.
func (c *Login) Submit(ctx context.Context) error {
	token, err := c.auth.Login(ctx, c.Form.Email, c.Form.Password)
	if err == nil {
		err = c.session.SignIn(token)
	}
	if err != nil {
		level.Error(c.logger).Log("action", "login", "err", err)
		c.ui.Alert(msgLoginFailed)
		return err
	}

	c.ui.Alert(msgLoggedIn)
	c.ui.Navigate(RouteProjects)
	return nil
}
