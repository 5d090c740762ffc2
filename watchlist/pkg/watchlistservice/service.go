package watchlistservice

import (
	"context"

	"github.com/go-kit/kit/log"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/task"
	"github.com/ichigozero/taskdash/watchlist"
)

type Service interface {
	Watchlist(ctx context.Context, userID taskdash.UserID) ([]watchlist.Entry, error)
	AddToWatchlist(ctx context.Context, userID taskdash.UserID, taskID uint64) (watchlist.Entry, error)
	RemoveFromWatchlist(ctx context.Context, userID taskdash.UserID, taskID uint64) error
}

func New(e watchlist.EntryRepository, t task.TaskRepository, logger log.Logger) Service {
	var svc Service
	{
		svc = NewBasicService(e, t)
		svc = LoggingMiddleware(logger)(svc)
	}
	return svc
}

type basicService struct {
	entries watchlist.EntryRepository
	tasks   task.TaskRepository
}

func NewBasicService(e watchlist.EntryRepository, t task.TaskRepository) Service {
	return basicService{entries: e, tasks: t}
}

func (s basicService) Watchlist(_ context.Context, userID taskdash.UserID) ([]watchlist.Entry, error) {
	if userID.IsZero() {
		return nil, watchlist.ErrInvalidArgument
	}
	return s.entries.FindAll(userID)
}

func (s basicService) AddToWatchlist(_ context.Context, userID taskdash.UserID, taskID uint64) (watchlist.Entry, error) {
	if userID.IsZero() || taskID == 0 {
		return watchlist.Entry{}, watchlist.ErrInvalidArgument
	}
	if _, err := s.tasks.Find(taskID); err != nil {
		return watchlist.Entry{}, err
	}
	return s.entries.Add(userID, taskID)
}

func (s basicService) RemoveFromWatchlist(_ context.Context, userID taskdash.UserID, taskID uint64) error {
	if userID.IsZero() || taskID == 0 {
		return watchlist.ErrInvalidArgument
	}
	return s.entries.Remove(userID, taskID)
}
