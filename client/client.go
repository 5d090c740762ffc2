// Package client assembles the resource client for every API family.
package client

import (
	"time"

	"github.com/go-kit/kit/circuitbreaker"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/ratelimit"
	"github.com/ichigozero/taskdash/auth/pkg/authservice"
	"github.com/ichigozero/taskdash/auth/pkg/authtransport"
	"github.com/ichigozero/taskdash/pkg/apihttp"
	"github.com/ichigozero/taskdash/project/pkg/projectservice"
	"github.com/ichigozero/taskdash/project/pkg/projecttransport"
	"github.com/ichigozero/taskdash/task/pkg/taskservice"
	"github.com/ichigozero/taskdash/task/pkg/tasktransport"
	"github.com/ichigozero/taskdash/watchlist/pkg/watchlistservice"
	"github.com/ichigozero/taskdash/watchlist/pkg/watchlisttransport"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const DefaultURL = "http://localhost:3000"

type Config struct {
	// URL is the API base URL. DefaultURL is used when empty.
	URL string

	// Breaker trips a per-method circuit breaker on repeated transport
	// failures. Backend error statuses never count as failures.
	Breaker bool

	// RateLimit caps outgoing calls per second; zero disables the limiter.
	RateLimit float64
	Burst     int
}

// Client holds one service per API family. Calls are issued once: there are
// no retries, no timeouts beyond the caller's context and no caching.
type Client struct {
	Auth      authservice.Service
	Projects  projectservice.Service
	Tasks     taskservice.Service
	Watchlist watchlistservice.Service
}

func New(cfg Config, logger log.Logger) (*Client, error) {
	instance := cfg.URL
	if instance == "" {
		instance = DefaultURL
	}
	mw := middlewareFor(cfg)
	debug := level.Debug(logger)

	var c Client
	{
		svc, err := authtransport.NewHTTPClient(instance, mw, logger)
		if err != nil {
			return nil, err
		}
		c.Auth = authservice.LoggingMiddleware(log.With(debug, "family", "auth"))(svc)
	}
	{
		svc, err := projecttransport.NewHTTPClient(instance, mw, logger)
		if err != nil {
			return nil, err
		}
		c.Projects = projectservice.LoggingMiddleware(log.With(debug, "family", "projects"))(svc)
	}
	{
		svc, err := tasktransport.NewHTTPClient(instance, mw, logger)
		if err != nil {
			return nil, err
		}
		c.Tasks = taskservice.LoggingMiddleware(log.With(debug, "family", "tasks"))(svc)
	}
	{
		svc, err := watchlisttransport.NewHTTPClient(instance, mw, logger)
		if err != nil {
			return nil, err
		}
		c.Watchlist = watchlistservice.LoggingMiddleware(log.With(debug, "family", "watchlist"))(svc)
	}

	return &c, nil
}

// middlewareFor returns nil when neither the breaker nor the limiter is on.
// The limiter is shared by every method, breakers are per method.
func middlewareFor(cfg Config) apihttp.ClientMiddleware {
	if !cfg.Breaker && cfg.RateLimit <= 0 {
		return nil
	}

	var limiter endpoint.Middleware
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst))
	}

	return func(method string) endpoint.Middleware {
		return func(next endpoint.Endpoint) endpoint.Endpoint {
			if limiter != nil {
				next = limiter(next)
			}
			if cfg.Breaker {
				next = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
					Name:    method,
					Timeout: 30 * time.Second,
				}))(next)
			}
			return next
		}
	}
}
