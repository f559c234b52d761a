package controller

import (
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "sectoolkit/pkg/controller"

// WithMetrics returns a middleware recording request counts and durations
// with the meter provider. Requests are labeled with the matched ServeMux
// pattern, so it has to wrap the mux directly.
func WithMetrics(next http.Handler, mp metric.MeterProvider) (http.Handler, error) {
	meter := mp.Meter(meterName)

	requests, err := meter.Int64Counter("http.server.request.count",
		metric.WithDescription("Number of handled HTTP requests."))
	if err != nil {
		return nil, fmt.Errorf("could not create request counter: %w", err)
	}

	duration, err := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of handled HTTP requests."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		attrs := metric.WithAttributes(
			attribute.String("http.request.method", r.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", rec.status),
		)
		requests.Add(r.Context(), 1, attrs)
		duration.Record(r.Context(), time.Since(start).Seconds(), attrs)
	}), nil
}
