// Package apistub assembles a local stand-in of the task-management REST API
// from the service, endpoint and transport packages of every family.
package apistub

import (
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/gorilla/mux"
	"github.com/ichigozero/taskdash/auth/pkg/authendpoint"
	"github.com/ichigozero/taskdash/auth/pkg/authservice"
	"github.com/ichigozero/taskdash/auth/pkg/authtransport"
	"github.com/ichigozero/taskdash/db/gorm"
	"github.com/ichigozero/taskdash/project/pkg/projectendpoint"
	"github.com/ichigozero/taskdash/project/pkg/projectservice"
	"github.com/ichigozero/taskdash/project/pkg/projecttransport"
	"github.com/ichigozero/taskdash/task/pkg/taskendpoint"
	"github.com/ichigozero/taskdash/task/pkg/taskservice"
	"github.com/ichigozero/taskdash/task/pkg/tasktransport"
	"github.com/ichigozero/taskdash/watchlist/pkg/watchlistendpoint"
	"github.com/ichigozero/taskdash/watchlist/pkg/watchlistservice"
	"github.com/ichigozero/taskdash/watchlist/pkg/watchlisttransport"
	stdgorm "gorm.io/gorm"
)

type options struct {
	counter metrics.Counter
	latency metrics.Histogram
}

type Option func(*options)

// WithInstrumentation counts and times every service call, labelled by method.
func WithInstrumentation(counter metrics.Counter, latency metrics.Histogram) Option {
	return func(o *options) {
		o.counter = counter
		o.latency = latency
	}
}

// New migrates db and returns the handler serving every resource family.
// Bearer tokens are signed and verified with secret.
func New(db *stdgorm.DB, secret string, logger log.Logger, opts ...Option) (http.Handler, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	instrumented := o.counter != nil && o.latency != nil

	if err := gorm.Migrate(db); err != nil {
		return nil, err
	}

	var (
		users    = gorm.NewUserRepository(db)
		projects = gorm.NewProjectRepository(db)
		tasks    = gorm.NewTaskRepository(db)
		entries  = gorm.NewEntryRepository(db)
		key      = []byte(secret)
	)

	var authService authservice.Service
	{
		authService = authservice.New(users, authservice.NewTokenizer(secret), log.With(logger, "family", "auth"))
		if instrumented {
			authService = authservice.InstrumentingMiddleware(o.counter, o.latency)(authService)
		}
	}

	var projectService projectservice.Service
	{
		projectService = projectservice.New(projects, log.With(logger, "family", "projects"))
		if instrumented {
			projectService = projectservice.InstrumentingMiddleware(o.counter, o.latency)(projectService)
		}
	}

	var taskService taskservice.Service
	{
		taskService = taskservice.New(tasks, projects, log.With(logger, "family", "tasks"))
		if instrumented {
			taskService = taskservice.InstrumentingMiddleware(o.counter, o.latency)(taskService)
		}
	}

	var watchlistService watchlistservice.Service
	{
		watchlistService = watchlistservice.New(entries, tasks, log.With(logger, "family", "watchlist"))
		if instrumented {
			watchlistService = watchlistservice.InstrumentingMiddleware(o.counter, o.latency)(watchlistService)
		}
	}

	r := mux.NewRouter()
	r.PathPrefix("/auth").Handler(
		authtransport.NewHTTPHandler(authendpoint.New(authService, logger), logger),
	)
	r.PathPrefix("/projects").Handler(
		projecttransport.NewHTTPHandler(projectendpoint.New(projectService, logger), key, logger),
	)
	r.PathPrefix("/tasks").Handler(
		tasktransport.NewHTTPHandler(taskendpoint.New(taskService, logger), key, logger),
	)
	r.PathPrefix("/watchlist").Handler(
		watchlisttransport.NewHTTPHandler(watchlistendpoint.New(watchlistService, logger), key, logger),
	)

	return r, nil
}
