package view

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/session"
	"github.com/ichigozero/taskdash/watchlist"
	"github.com/ichigozero/taskdash/watchlist/pkg/watchlistservice"
)

const (
	msgConfirmUnwatch = "Are you sure you want to remove this task from your watchlist?"
	msgUnwatched      = "Task removed from watchlist!"
	msgUnwatchErr     = "Error removing task from watchlist."
)

type Watchlist struct {
	Entries []watchlist.Entry

	userID taskdash.UserID

	watchlist watchlistservice.Service
	session   *session.Manager
	ui        UI
	logger    log.Logger
}

func NewWatchlist(svc watchlistservice.Service, s *session.Manager, ui UI, logger log.Logger) *Watchlist {
	return &Watchlist{watchlist: svc, session: s, ui: ui, logger: logger}
}

func (c *Watchlist) Mount(ctx context.Context) error {
	id, ok := CurrentUser(c.session)
	if !ok {
		c.ui.Alert(msgNotLoggedIn)
		c.ui.Navigate(RouteLogin)
		return ErrNotLoggedIn
	}
	c.userID = id
	return c.Refresh(ctx, ScopeWatchlist)
}

func (c *Watchlist) Refresh(ctx context.Context, scope Scope) error {
	if scope != ScopeWatchlist {
		return ErrUnknownScope
	}

	entries, err := c.watchlist.Watchlist(c.session.Context(ctx), c.userID)
	if err != nil {
		level.Error(c.logger).Log("action", "fetch watchlist", "err", err)
		return err
	}
	c.Entries = entries
	return nil
}

func (c *Watchlist) Remove(ctx context.Context, taskID uint64) error {
	if !c.ui.Confirm(msgConfirmUnwatch) {
		return nil
	}

	if err := c.watchlist.RemoveFromWatchlist(c.session.Context(ctx), c.userID, taskID); err != nil {
		level.Error(c.logger).Log("action", "remove from watchlist", "task_id", taskID, "err", err)
		c.ui.Alert(msgUnwatchErr)
		return err
	}

	c.Refresh(ctx, ScopeWatchlist)
	c.ui.Alert(msgUnwatched)
	return nil
}

func (c *Watchlist) BackToProjects() {
	c.ui.Navigate(RouteProjects)
}
