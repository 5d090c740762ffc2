// Package view holds the page controllers: local form state and the
// orchestration of resource calls behind every user action.
//
// Every mutating action resets its form, issues one call and, on success,
// re-fetches what the call changed through Refresh. Failures are shown to the
// user and leave the previous state in place.
package view

import (
	"errors"
	"fmt"

	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/session"
)

type Route string

const (
	RouteRegister  Route = "/"
	RouteLogin     Route = "/auth/login"
	RouteProjects  Route = "/projects"
	RouteWatchlist Route = "/watchlist"
)

// UI is what a controller needs from the presentation layer.
type UI interface {
	Alert(message string)
	Confirm(message string) bool
	Navigate(to Route)
}

// Scope names a piece of controller state that Refresh re-fetches.
type Scope int

const (
	ScopeProjects Scope = iota
	ScopeProjectDetails
	ScopeWatchlist
)

func (s Scope) String() string {
	switch s {
	case ScopeProjects:
		return "projects"
	case ScopeProjectDetails:
		return "project details"
	case ScopeWatchlist:
		return "watchlist"
	}
	return fmt.Sprintf("Scope(%d)", int(s))
}

var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrNoProjectSelected = errors.New("no project selected")
	ErrInvalidDeadline   = errors.New("invalid deadline")
	ErrUnknownScope      = errors.New("scope not handled by this controller")
)

// CurrentUser is the user the session token names. A blank subject counts as
// no session.
func CurrentUser(s *session.Manager) (taskdash.UserID, bool) {
	id, ok := s.ResolveUserID()
	if !ok || id.Blank() {
		return taskdash.UserID{}, false
	}
	return id, true
}
