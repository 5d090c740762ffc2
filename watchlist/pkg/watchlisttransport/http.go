package watchlisttransport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/transport"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/pkg/apihttp"
	"github.com/ichigozero/taskdash/task"
	"github.com/ichigozero/taskdash/watchlist"
	"github.com/ichigozero/taskdash/watchlist/pkg/watchlistendpoint"
	"github.com/ichigozero/taskdash/watchlist/pkg/watchlistservice"
)

func NewHTTPHandler(endpoints watchlistendpoint.Set, secret []byte, logger log.Logger) http.Handler {
	errorEncoder := apihttp.ErrorEncoder(err2code)
	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(errorEncoder),
		httptransport.ServerErrorHandler(transport.NewLogErrorHandler(logger)),
		httptransport.ServerBefore(kitjwt.HTTPToContext()),
	}
	authenticated := apihttp.Authenticated(secret)

	watchlistHandler := httptransport.NewServer(
		authenticated(endpoints.WatchlistEndpoint),
		decodeHTTPWatchlistRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	addToWatchlistHandler := httptransport.NewServer(
		authenticated(endpoints.AddToWatchlistEndpoint),
		decodeHTTPAddToWatchlistRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	removeFromWatchlistHandler := httptransport.NewServer(
		authenticated(endpoints.RemoveFromWatchlistEndpoint),
		decodeHTTPRemoveFromWatchlistRequest,
		apihttp.EncodeResponse(errorEncoder),
		options...,
	)

	r := mux.NewRouter()

	r.Methods("GET").Path("/watchlist/{user_id}").Handler(watchlistHandler)
	r.Methods("POST").Path("/watchlist").Handler(addToWatchlistHandler)
	r.Methods("DELETE").Path("/watchlist").Handler(removeFromWatchlistHandler)

	return r
}

// NewHTTPClient returns the watchlist family of the API at instance.
//
// Removal is a DELETE carrying a JSON body. Intermediaries are free to drop
// such bodies, so the same pair is repeated as userId and taskId query
// parameters.
func NewHTTPClient(instance string, mw apihttp.ClientMiddleware, logger log.Logger) (watchlistservice.Service, error) {
	u, err := apihttp.ParseInstance(instance)
	if err != nil {
		return nil, err
	}

	options := []httptransport.ClientOption{
		httptransport.ClientBefore(kitjwt.ContextToHTTP()),
	}

	var watchlistEndpoint endpoint.Endpoint
	{
		watchlistEndpoint = httptransport.NewClient(
			"GET",
			apihttp.CopyURL(u, "/watchlist"),
			encodeHTTPWatchlistRequest,
			decodeHTTPWatchlistResponse,
			options...,
		).Endpoint()
		watchlistEndpoint = mw.Wrap("Watchlist", watchlistEndpoint)
	}

	var addToWatchlistEndpoint endpoint.Endpoint
	{
		addToWatchlistEndpoint = httptransport.NewClient(
			"POST",
			apihttp.CopyURL(u, "/watchlist"),
			apihttp.EncodeJSONRequest,
			decodeHTTPAddToWatchlistResponse,
			options...,
		).Endpoint()
		addToWatchlistEndpoint = mw.Wrap("AddToWatchlist", addToWatchlistEndpoint)
	}

	var removeFromWatchlistEndpoint endpoint.Endpoint
	{
		removeFromWatchlistEndpoint = httptransport.NewClient(
			"DELETE",
			apihttp.CopyURL(u, "/watchlist"),
			encodeHTTPRemoveFromWatchlistRequest,
			decodeHTTPRemoveFromWatchlistResponse,
			options...,
		).Endpoint()
		removeFromWatchlistEndpoint = mw.Wrap("RemoveFromWatchlist", removeFromWatchlistEndpoint)
	}

	return watchlistendpoint.Set{
		WatchlistEndpoint:           watchlistEndpoint,
		AddToWatchlistEndpoint:      addToWatchlistEndpoint,
		RemoveFromWatchlistEndpoint: removeFromWatchlistEndpoint,
	}, nil
}

func err2code(err error) int {
	switch {
	case apihttp.IsAuthError(err):
		return http.StatusUnauthorized
	case errors.Is(err, watchlist.ErrInvalidArgument), errors.Is(err, apihttp.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, watchlist.ErrNotFound), errors.Is(err, task.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, watchlist.ErrAlreadyWatched):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func decodeHTTPWatchlistRequest(_ context.Context, r *http.Request) (interface{}, error) {
	v, ok := mux.Vars(r)["user_id"]
	if !ok {
		return nil, apihttp.ErrBadRouting
	}
	return watchlistendpoint.WatchlistRequest{UserID: taskdash.ParseUserID(v)}, nil
}

func encodeHTTPWatchlistRequest(_ context.Context, r *http.Request, request interface{}) error {
	req := request.(watchlistendpoint.WatchlistRequest)
	apihttp.SetPath(r, req.UserID.String())
	return nil
}

func decodeHTTPWatchlistResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return watchlistendpoint.WatchlistResponse{Err: err}, nil
	}
	var resp watchlistendpoint.WatchlistResponse
	err := apihttp.DecodeJSON(r, &resp.Entries)
	return resp, err
}

func decodeHTTPAddToWatchlistRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req watchlistendpoint.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apihttp.ErrBadRequest
	}
	return req, nil
}

func decodeHTTPAddToWatchlistResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return watchlistendpoint.AddToWatchlistResponse{Err: err}, nil
	}
	var resp watchlistendpoint.AddToWatchlistResponse
	err := apihttp.DecodeJSON(r, &resp.Entry)
	return resp, err
}

// decodeHTTPRemoveFromWatchlistRequest accepts the pair from the query
// string or, failing that, from the JSON body.
func decodeHTTPRemoveFromWatchlistRequest(_ context.Context, r *http.Request) (interface{}, error) {
	q := r.URL.Query()
	if q.Get("userId") != "" && q.Get("taskId") != "" {
		taskID, err := strconv.ParseUint(q.Get("taskId"), 10, 64)
		if err != nil {
			return nil, apihttp.ErrBadRequest
		}
		return watchlistendpoint.EntryRequest{
			UserID: taskdash.ParseUserID(q.Get("userId")),
			TaskID: taskID,
		}, nil
	}

	var req watchlistendpoint.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apihttp.ErrBadRequest
	}
	return req, nil
}

func encodeHTTPRemoveFromWatchlistRequest(ctx context.Context, r *http.Request, request interface{}) error {
	req := request.(watchlistendpoint.EntryRequest)

	q := r.URL.Query()
	q.Set("userId", req.UserID.String())
	q.Set("taskId", strconv.FormatUint(req.TaskID, 10))
	r.URL.RawQuery = q.Encode()

	return apihttp.EncodeJSONRequest(ctx, r, req)
}

func decodeHTTPRemoveFromWatchlistResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if err := apihttp.CheckResponse(r); err != nil {
		return watchlistendpoint.RemoveFromWatchlistResponse{Err: err}, nil
	}
	return watchlistendpoint.RemoveFromWatchlistResponse{}, nil
}
