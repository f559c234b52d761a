// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the toolkit service.
package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"sectoolkit/internal/api/handler/v1handler"
	"sectoolkit/internal/config"
	"sectoolkit/pkg/controller"
	"sectoolkit/pkg/domain"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/swaggest/swgui/v5emb"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// v1Spec contains the embedded OpenAPI specification for version 1 of the API.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Options holds configuration for the HTTP server and its dependencies.
// It is typically created from a config.Config via NewOptions.
// All durations are used to configure server timeouts, and zero values
// should be considered as using the defaults provided by net/http where applicable.
type Options struct {
	// SecHandlerOptions configures the security handler (authn) for v1 endpoints.
	SecHandlerOptions *v1handler.SecHandlerOptions

	// Addr is the TCP address the server listens on, e.g. ":8080".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout is the global timeout applied via http.TimeoutHandler for handling requests.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// AllowedOrigins lists the CORS origins.
	AllowedOrigins []string
	// RateLimit is the number of v1 requests a client may make per RateWindow.
	RateLimit int
	// RateWindow is the rate limiting window.
	RateWindow time.Duration
}

// NewOptions constructs an Options value from the provided application configuration.
// It maps HTTP server-related settings from config.Config to the Options used by the API server.
func NewOptions(cfg *config.Config) Options {
	return Options{
		SecHandlerOptions: v1handler.NewSecHandlerOptions(cfg),

		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		AllowedOrigins:    cfg.HTTP.AllowedOrigins,
		RateLimit:         cfg.HTTP.RateLimit,
		RateWindow:        cfg.HTTP.RateWindow,
	}
}

type Deps struct {
	v1handler.Deps

	// Redis backs the rate limiter. Nil disables rate limiting.
	Redis redis.Cmdable
	// Health lists the readiness checks served at controller.HealthPath.
	Health map[string]controller.HealthCheck
}

// rateLimitKey limits authenticated users by ID and everybody else by IP.
func rateLimitKey(r *http.Request) string {
	if userID := v1handler.GetUserIDFromContext(r.Context()); userID != (domain.UserID{}) {
		return "user:" + userID.String()
	}

	return "ip:" + controller.GetClientIP(r)
}

// NewHandler wires up the routes of the server:
// - Prometheus metrics endpoint (MetricsPath)
// - OpenTelemetry metrics exporter (Prometheus) recording v1 requests
// - Embedded OpenAPI v1 spec and Swagger UI
// - v1 API routes behind bearer authentication and rate limiting
// - readiness checks of the service dependencies
// - pprof endpoints for profiling
// It also wraps the mux with CORS and logging middlewares.
func NewHandler(deps Deps, opts Options) (http.Handler, error) {
	mux := http.NewServeMux()

	// prometheus metrics server
	mux.Handle(opts.MetricsPath, promhttp.Handler())

	// otel
	exp, err := otelprom.New(otelprom.WithRegisterer(prometheus.DefaultRegisterer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))

	// v1 specs file
	mux.HandleFunc("/specs/v1.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(v1Spec)
	})
	// v1 api swagger playground
	mux.Handle("/v1/docs/", v5emb.New(
		"Security Toolkit",
		"/specs/v1.yaml",
		"/v1/docs/",
	))
	// v1 api
	secHandler, err := v1handler.NewSecHandler(opts.SecHandlerOptions)
	if err != nil {
		return nil, fmt.Errorf("could not create sec handler: %w", err)
	}
	h := v1handler.New(deps.Deps)
	v1Srv, err := controller.WithMetrics(h.Routes(), mp)
	if err != nil {
		return nil, fmt.Errorf("could not create v1 api server: %w", err)
	}
	if deps.Redis != nil {
		v1Srv = controller.WithRateLimit(v1Srv,
			controller.NewRateLimiter(deps.Redis, opts.RateLimit, opts.RateWindow),
			rateLimitKey)
	}
	v1Srv = secHandler.Middleware(v1Srv, h.WriteError)
	mux.Handle("/v1/", http.StripPrefix("/v1", v1Srv))

	// readiness
	mux.Handle("GET "+controller.HealthPath, controller.HealthHandler(deps.Health, opts.RequestTimeout))

	// pprof
	mux.Handle(controller.PprofPath, controller.PprofMux())

	// cors
	handler := controller.WithCORS(mux, opts.AllowedOrigins...)

	// logger
	handler = controller.WithLogger(handler)

	return handler, nil
}

// NewServer returns a configured *http.Server serving NewHandler with a
// request timeout applied.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	handler, err := NewHandler(deps, opts)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           http.TimeoutHandler(handler, opts.RequestTimeout, `{"code":"TIMEOUT","message":"request timed out"}`),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}
