package controller_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sectoolkit/pkg/controller"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("all checks pass", func(t *testing.T) {
		h := controller.HealthHandler(map[string]controller.HealthCheck{"redis": ok, "postgres": ok}, time.Second)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, controller.HealthPath, nil))

		res := rec.Result()
		body, _ := io.ReadAll(res.Body)
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Equal(t, "no-store", res.Header.Get("Cache-Control"))
		require.JSONEq(t, `{"checks":{"postgres":"ok","redis":"ok"},"status":"ok"}`, string(body))
	})

	t.Run("failing check", func(t *testing.T) {
		h := controller.HealthHandler(map[string]controller.HealthCheck{
			"postgres": func(context.Context) error { return errors.New("connection refused") },
			"redis":    ok,
		}, time.Second)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, controller.HealthPath, nil))

		res := rec.Result()
		body, _ := io.ReadAll(res.Body)
		require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
		require.JSONEq(t, `{"checks":{"postgres":"connection refused","redis":"ok"},"status":"unavailable"}`, string(body))
	})

	t.Run("checks see the deadline", func(t *testing.T) {
		h := controller.HealthHandler(map[string]controller.HealthCheck{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()

				return ctx.Err()
			},
		}, 10*time.Millisecond)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, controller.HealthPath, nil))
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("no checks", func(t *testing.T) {
		rec := httptest.NewRecorder()
		controller.HealthHandler(nil, 0).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, controller.HealthPath, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"checks":{},"status":"ok"}`, rec.Body.String())
	})
}
