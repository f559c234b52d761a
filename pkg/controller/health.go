package controller

import (
	"context"
	"net/http"
	"sectoolkit/pkg/logger"
	"slices"
	"time"

	"github.com/go-faster/jx"
	"go.uber.org/zap"
)

// HealthPath is where the readiness endpoint is mounted.
const HealthPath = "/healthz"

// HealthCheck reports whether a dependency can be reached.
type HealthCheck func(ctx context.Context) error

// HealthHandler runs every check with timeout and answers 200 when all of
// them pass and 503 otherwise. The body lists each check as "ok" or its error.
func HealthHandler(checks map[string]HealthCheck, timeout time.Duration) http.Handler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	slices.Sort(names)
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		healthy := true
		e := jx.GetEncoder()
		defer jx.PutEncoder(e)
		e.ObjStart()
		e.FieldStart("checks")
		e.ObjStart()
		for _, name := range names {
			e.FieldStart(name)
			if err := checks[name](ctx); err != nil {
				healthy = false
				logger.Warn(ctx, "health check failed", zap.String("check", name), zap.Error(err))
				e.Str(err.Error())

				continue
			}
			e.Str("ok")
		}
		e.ObjEnd()
		e.FieldStart("status")
		status := http.StatusOK
		if healthy {
			e.Str("ok")
		} else {
			status = http.StatusServiceUnavailable
			e.Str("unavailable")
		}
		e.ObjEnd()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_, _ = w.Write(e.Bytes())
	})
}
