package projectservice

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/ichigozero/taskdash"
	"github.com/ichigozero/taskdash/project"
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

func (mw loggingMiddleware) Projects(ctx context.Context, userID taskdash.UserID) (p []project.Project, err error) {
	defer func() {
		mw.logger.Log("method", "Projects", "user_id", userID, "count", len(p), "err", err)
	}()
	return mw.next.Projects(ctx, userID)
}

func (mw loggingMiddleware) Project(ctx context.Context, projectID uint64) (p project.Project, err error) {
	defer func() {
		mw.logger.Log("method", "Project", "project_id", projectID, "err", err)
	}()
	return mw.next.Project(ctx, projectID)
}

func (mw loggingMiddleware) CreateProject(ctx context.Context, userID taskdash.UserID, name, description string) (p project.Project, err error) {
	defer func() {
		mw.logger.Log(
			"method", "CreateProject",
			"user_id", userID,
			"name", name,
			"description", description,
			"project_id", p.ID,
			"err", err,
		)
	}()
	return mw.next.CreateProject(ctx, userID, name, description)
}

func (mw loggingMiddleware) UpdateProject(ctx context.Context, projectID uint64, name, description string) (p project.Project, err error) {
	defer func() {
		mw.logger.Log(
			"method", "UpdateProject",
			"project_id", projectID,
			"name", name,
			"description", description,
			"err", err,
		)
	}()
	return mw.next.UpdateProject(ctx, projectID, name, description)
}

func (mw loggingMiddleware) DeleteProject(ctx context.Context, projectID uint64) (p project.Project, err error) {
	defer func() {
		mw.logger.Log("method", "DeleteProject", "project_id", projectID, "err", err)
	}()
	return mw.next.DeleteProject(ctx, projectID)
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

func (mw instrumentingMiddleware) Projects(ctx context.Context, userID taskdash.UserID) ([]project.Project, error) {
	defer mw.observe("projects", time.Now())
	return mw.next.Projects(ctx, userID)
}

func (mw instrumentingMiddleware) Project(ctx context.Context, projectID uint64) (project.Project, error) {
	defer mw.observe("project", time.Now())
	return mw.next.Project(ctx, projectID)
}

func (mw instrumentingMiddleware) CreateProject(ctx context.Context, userID taskdash.UserID, name, description string) (project.Project, error) {
	defer mw.observe("create_project", time.Now())
	return mw.next.CreateProject(ctx, userID, name, description)
}

func (mw instrumentingMiddleware) UpdateProject(ctx context.Context, projectID uint64, name, description string) (project.Project, error) {
	defer mw.observe("update_project", time.Now())
	return mw.next.UpdateProject(ctx, projectID, name, description)
}

func (mw instrumentingMiddleware) DeleteProject(ctx context.Context, projectID uint64) (project.Project, error) {
	defer mw.observe("delete_project", time.Now())
	return mw.next.DeleteProject(ctx, projectID)
}
