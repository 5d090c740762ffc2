package watchlistservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/watchlist"
)

type Middleware func(Service) Service

func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next Service) Service {
		return loggingMiddleware{logger, next}
	}
}

type loggingMiddleware struct {
	logger log.Logger
	next   Service
}

func (mw loggingMiddleware) Watchlist(ctx context.Context, userID taskdash.UserID) (e []watchlist.Entry, err error) {
	defer func() {
		mw.logger.Log("method", "Watchlist", "user_id", userID, "count", len(e), "err", err)
	}()
	return mw.next.Watchlist(ctx, userID)
}

func (mw loggingMiddleware) AddToWatchlist(ctx context.Context, userID taskdash.UserID, taskID uint64) (e watchlist.Entry, err error) {
	defer func() {
		mw.logger.Log("method", "AddToWatchlist", "user_id", userID, "task_id", taskID, "err", err)
	}()
	return mw.next.AddToWatchlist(ctx, userID, taskID)
}

func (mw loggingMiddleware) RemoveFromWatchlist(ctx context.Context, userID taskdash.UserID, taskID uint64) (err error) {
	defer func() {
		mw.logger.Log("method", "RemoveFromWatchlist", "user_id", userID, "task_id", taskID, "err", err)
	}()
	return mw.next.RemoveFromWatchlist(ctx, userID, taskID)
}

func InstrumentingMiddleware(counter metrics.Counter, latency metrics.Histogram) Middleware {
	return func(next Service) Service {
		return instrumentingMiddleware{counter, latency, next}
	}
}

type instrumentingMiddleware struct {
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
	next           Service
}

func (mw instrumentingMiddleware) observe(method string, begin time.Time) {
	mw.requestCount.With("method", method).Add(1)
	mw.requestLatency.With("method", method).Observe(time.Since(begin).Seconds())
}

func (mw instrumentingMiddleware) Watchlist(ctx context.Context, userID taskdash.UserID) ([]watchlist.Entry, error) {
	defer mw.observe("watchlist", time.Now())
	return mw.next.Watchlist(ctx, userID)
}

func (mw instrumentingMiddleware) AddToWatchlist(ctx context.Context, userID taskdash.UserID, taskID uint64) (watchlist.Entry, error) {
	defer mw.observe("add_to_watchlist", time.Now())
	return mw.next.AddToWatchlist(ctx, userID, taskID)
}

func (mw instrumentingMiddleware) RemoveFromWatchlist(ctx context.Context, userID taskdash.UserID, taskID uint64) error {
	defer mw.observe("remove_from_watchlist", time.Now())
	return mw.next.RemoveFromWatchlist(ctx, userID, taskID)
}
