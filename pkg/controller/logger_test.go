package controller_test

import (
	"net/http"
	"net/http/httptest"
	"sectoolkit/pkg/controller"
	"sectoolkit/pkg/logger"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{name: "forwarded for", headers: map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, want: "1.2.3.4"},
		{name: "forwarded for skips garbage", headers: map[string]string{"X-Forwarded-For": "unknown, 2001:db8::1"}, want: "2001:db8::1"},
		{name: "real ip", headers: map[string]string{"X-Real-IP": " 9.8.7.6 "}, want: "9.8.7.6"},
		{name: "invalid headers fall back", headers: map[string]string{"X-Forwarded-For": "evil", "X-Real-IP": "evil"}, remoteAddr: "10.0.0.1:12345", want: "10.0.0.1"},
		{name: "remote addr", remoteAddr: "10.0.0.1:12345", want: "10.0.0.1"},
		{name: "remote addr without port", remoteAddr: "not-an-addr", want: "not-an-addr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.remoteAddr != "" {
				req.RemoteAddr = tt.remoteAddr
			}
			require.Equal(t, tt.want, controller.GetClientIP(req))
		})
	}
}

func TestWithLogger(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Echo-Request-Id", controller.GetRequestID(r.Context()))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	})

	t.Run("keeps client request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(controller.RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		controller.WithLogger(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, "abc-123", rec.Header().Get("X-Echo-Request-Id"))
		require.Equal(t, "abc-123", rec.Header().Get(controller.RequestIDHeader))
		require.Equal(t, "created", rec.Body.String())
	})

	for name, id := range map[string]string{
		"missing":    "",
		"too long":   strings.Repeat("a", 65),
		"with space": "abc 123",
	} {
		t.Run("generates id when "+name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if id != "" {
				req.Header.Set(controller.RequestIDHeader, id)
			}
			rec := httptest.NewRecorder()
			controller.WithLogger(next).ServeHTTP(rec, req)

			got := rec.Header().Get(controller.RequestIDHeader)
			require.Equal(t, got, rec.Header().Get("X-Echo-Request-Id"))
			_, err := uuid.Parse(got)
			require.NoError(t, err)
		})
	}
}
