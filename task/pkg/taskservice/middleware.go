package taskservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/ichigozero/taskdash/task"
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

func (mw loggingMiddleware) Tasks(ctx context.Context, projectID uint64) (t []task.Task, err error) {
	defer func() {
		mw.logger.Log("method", "Tasks", "project_id", projectID, "count", len(t), "err", err)
	}()
	return mw.next.Tasks(ctx, projectID)
}

func (mw loggingMiddleware) CreateTask(ctx context.Context, in task.Task) (t task.Task, err error) {
	defer func() {
		mw.logger.Log(
			"method", "CreateTask",
			"project_id", in.ProjectID,
			"user_id", in.UserID,
			"title", in.Title,
			"priority", in.Priority,
			"deadline", in.Deadline,
			"task_id", t.ID,
			"err", err,
		)
	}()
	return mw.next.CreateTask(ctx, in)
}

func (mw loggingMiddleware) DeleteTask(ctx context.Context, taskID uint64) (t task.Task, err error) {
	defer func() {
		mw.logger.Log("method", "DeleteTask", "task_id", taskID, "err", err)
	}()
	return mw.next.DeleteTask(ctx, taskID)
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

func (mw instrumentingMiddleware) Tasks(ctx context.Context, projectID uint64) ([]task.Task, error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "tasks").Add(1)
		mw.requestLatency.With("method", "tasks").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.Tasks(ctx, projectID)
}

func (mw instrumentingMiddleware) CreateTask(ctx context.Context, t task.Task) (task.Task, error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "create_task").Add(1)
		mw.requestLatency.With("method", "create_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.CreateTask(ctx, t)
}

func (mw instrumentingMiddleware) DeleteTask(ctx context.Context, taskID uint64) (task.Task, error) {
	defer func(begin time.Time) {
		mw.requestCount.With("method", "delete_task").Add(1)
		mw.requestLatency.With("method", "delete_task").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mw.next.DeleteTask(ctx, taskID)
}
