package watchlistendpoint

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/watchlist"
	"github.com/ichigozero/taskdash/watchlist/pkg/watchlistservice"
)

type Set struct {
	WatchlistEndpoint           endpoint.Endpoint
	AddToWatchlistEndpoint      endpoint.Endpoint
	RemoveFromWatchlistEndpoint endpoint.Endpoint
}

func New(svc watchlistservice.Service, logger log.Logger) Set {
	var watchlistEndpoint endpoint.Endpoint
	{
		watchlistEndpoint = MakeWatchlistEndpoint(svc)
		watchlistEndpoint = LoggingMiddleware(log.With(logger, "method", "Watchlist"))(watchlistEndpoint)
	}
	var addToWatchlistEndpoint endpoint.Endpoint
	{
		addToWatchlistEndpoint = MakeAddToWatchlistEndpoint(svc)
		addToWatchlistEndpoint = LoggingMiddleware(log.With(logger, "method", "AddToWatchlist"))(addToWatchlistEndpoint)
	}
	var removeFromWatchlistEndpoint endpoint.Endpoint
	{
		removeFromWatchlistEndpoint = MakeRemoveFromWatchlistEndpoint(svc)
		removeFromWatchlistEndpoint = LoggingMiddleware(log.With(logger, "method", "RemoveFromWatchlist"))(removeFromWatchlistEndpoint)
	}

	return Set{
		WatchlistEndpoint:           watchlistEndpoint,
		AddToWatchlistEndpoint:      addToWatchlistEndpoint,
		RemoveFromWatchlistEndpoint: removeFromWatchlistEndpoint,
	}
}

func (s Set) Watchlist(ctx context.Context, userID taskdash.UserID) ([]watchlist.Entry, error) {
	resp, err := s.WatchlistEndpoint(ctx, WatchlistRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	response := resp.(WatchlistResponse)
	return response.Entries, response.Err
}

func (s Set) AddToWatchlist(ctx context.Context, userID taskdash.UserID, taskID uint64) (watchlist.Entry, error) {
	resp, err := s.AddToWatchlistEndpoint(ctx, EntryRequest{UserID: userID, TaskID: taskID})
	if err != nil {
		return watchlist.Entry{}, err
	}
	response := resp.(AddToWatchlistResponse)
	return response.Entry, response.Err
}

func (s Set) RemoveFromWatchlist(ctx context.Context, userID taskdash.UserID, taskID uint64) error {
	resp, err := s.RemoveFromWatchlistEndpoint(ctx, EntryRequest{UserID: userID, TaskID: taskID})
	if err != nil {
		return err
	}
	response := resp.(RemoveFromWatchlistResponse)
	return response.Err
}

func MakeWatchlistEndpoint(s watchlistservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(WatchlistRequest)
		e, err := s.Watchlist(ctx, req.UserID)
		return WatchlistResponse{Entries: e, Err: err}, nil
	}
}

func MakeAddToWatchlistEndpoint(s watchlistservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(EntryRequest)
		e, err := s.AddToWatchlist(ctx, req.UserID, req.TaskID)
		return AddToWatchlistResponse{Entry: e, Err: err}, nil
	}
}

func MakeRemoveFromWatchlistEndpoint(s watchlistservice.Service) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(EntryRequest)
		err = s.RemoveFromWatchlist(ctx, req.UserID, req.TaskID)
		return RemoveFromWatchlistResponse{Err: err}, nil
	}
}

var (
	_ endpoint.Failer = WatchlistResponse{}
	_ endpoint.Failer = AddToWatchlistResponse{}
	_ endpoint.Failer = RemoveFromWatchlistResponse{}
)

type WatchlistRequest struct {
	UserID taskdash.UserID
}

type WatchlistResponse struct {
	Entries []watchlist.Entry
	Err     error
}

func (r WatchlistResponse) Failed() error { return r.Err }

func (r WatchlistResponse) Body() interface{} {
	if r.Entries == nil {
		return []watchlist.Entry{}
	}
	return r.Entries
}

// EntryRequest names one watchlist entry, both when adding and removing.
type EntryRequest struct {
	UserID taskdash.UserID `json:"userId"`
	TaskID uint64          `json:"taskId"`
}

type AddToWatchlistResponse struct {
	Entry watchlist.Entry
	Err   error
}

func (r AddToWatchlistResponse) Failed() error { return r.Err }

func (r AddToWatchlistResponse) Body() interface{} { return r.Entry }

func (r AddToWatchlistResponse) StatusCode() int { return http.StatusCreated }

type RemoveFromWatchlistResponse struct {
	Err error `json:"-"`
}

func (r RemoveFromWatchlistResponse) Failed() error { return r.Err }

func (r RemoveFromWatchlistResponse) Body() interface{} {
	return map[string]string{"message": "Task removed from watchlist"}
}
