package api_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sectoolkit/internal/api"
	"sectoolkit/internal/api/handler/v1handler"
	mockreports "sectoolkit/internal/reports/mock"
	"sectoolkit/pkg/analysis"
	"sectoolkit/pkg/controller"
	"sectoolkit/pkg/crypto"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/network"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// The otel exporter registers on the default prometheus registry, so the
// handler is built once per test binary.
var (
	server  *httptest.Server
	service *mockreports.MockService
	mr      *miniredis.Miniredis
	privKey *rsa.PrivateKey
)

const rateLimit = 5

type mainReporter struct{}

func (mainReporter) Errorf(format string, args ...any) { panic("unexpected call: " + format) }
func (mainReporter) Fatalf(format string, args ...any) { panic("unexpected call: " + format) }

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)

	var err error
	privKey, err = rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	pubASN1, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	if err != nil {
		panic(err)
	}

	mr, err = miniredis.Run()
	if err != nil {
		panic(err)
	}

	ctrl := gomock.NewController(mainReporter{})
	service = mockreports.NewMockService(ctrl)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	handler, err := api.NewHandler(api.Deps{
		Deps: v1handler.Deps{
			Reports:  service,
			Password: analysis.NewPasswordAnalyzer(analysis.PasswordOptions{}),
			Hash:     crypto.NewHashUtils(crypto.Argon2Params{}),
			IP:       network.NewIPUtils(nil),
		},
		Redis:  redisClient,
		Health: map[string]controller.HealthCheck{
			"redis": func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	}, api.Options{
		SecHandlerOptions: &v1handler.SecHandlerOptions{
			PublicKey: string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubASN1})),
			Issuer:    "sectoolkit",
		},
		MetricsPath:    "/metrics",
		AllowedOrigins: []string{"https://console.example.org"},
		RateLimit:      rateLimit,
		RateWindow:     time.Minute,
		RequestTimeout: time.Second,
	})
	if err != nil {
		panic(err)
	}
	server = httptest.NewServer(handler)

	code := m.Run()

	server.Close()
	mr.Close()
	ctrl.Finish()
	os.Exit(code)
}

func token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tkn, err := v1handler.IssueToken(privKey, "sectoolkit", userID.String(), time.Hour)
	require.NoError(t, err)

	return tkn
}

func get(t *testing.T, path, bearer string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, server.URL+path, nil)
	require.NoError(t, err)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	res, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })

	return res
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return string(b)
}

func TestServer_Specs(t *testing.T) {
	res := get(t, "/specs/v1.yaml", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/yaml", res.Header.Get("Content-Type"))
	require.Contains(t, readBody(t, res), "openapi: 3.0.3")
}

func TestServer_Docs(t *testing.T) {
	res := get(t, "/v1/docs/", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, readBody(t, res), "/specs/v1.yaml")
}

func TestServer_RequiresToken(t *testing.T) {
	res := get(t, "/v1/reports", "")
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.JSONEq(t, `{"code":"UNAUTHORIZED","message":"missing bearer token"}`, readBody(t, res))
}

func TestServer_ListReports(t *testing.T) {
	userID := uuid.New()
	service.EXPECT().
		UserReports(gomock.Any(), domain.UserID(userID), domain.ReportKind(""), "", uint(v1handler.DefaultLimit)).
		Return(nil, "", nil)

	res := get(t, "/v1/reports", token(t, userID))
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"items":[],"nextCursor":null}`, readBody(t, res))
	require.Equal(t, "4", res.Header.Get("X-RateLimit-Remaining"))
}

func TestServer_RateLimit(t *testing.T) {
	tkn := token(t, uuid.New())

	for range rateLimit {
		res := get(t, "/v1/tools/ip/10.0.0.1", tkn)
		require.Equal(t, http.StatusOK, res.StatusCode)
	}

	res := get(t, "/v1/tools/ip/10.0.0.1", tkn)
	require.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	require.NotEmpty(t, res.Header.Get("Retry-After"))

	// other users keep their own budget
	res = get(t, "/v1/tools/ip/10.0.0.1", token(t, uuid.New()))
	require.Equal(t, http.StatusOK, res.StatusCode)

	mr.FastForward(time.Minute)
	res = get(t, "/v1/tools/ip/10.0.0.1", tkn)
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	res := get(t, "/v1/tools/ip/192.168.1.1", token(t, uuid.New()))
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = get(t, "/metrics", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := readBody(t, res)
	require.Contains(t, body, "go_goroutines")
	require.Contains(t, body, "http_server_request_count")
}

func TestServer_Pprof(t *testing.T) {
	res := get(t, "/debug/pprof/cmdline", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestServer_CORS(t *testing.T) {
	req, err := http.NewRequestWithContext(t.Context(), http.MethodOptions, server.URL+"/v1/reports", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://console.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	res, err := server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.Equal(t, "https://console.example.org", res.Header.Get("Access-Control-Allow-Origin"))
	require.True(t, strings.Contains(res.Header.Get("Access-Control-Allow-Methods"), http.MethodPost))
}

func TestHealth(t *testing.T) {
	res := get(t, "/healthz", "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, res.Header.Get("X-Request-Id"))
	require.JSONEq(t, `{"checks":{"redis":"ok"},"status":"ok"}`, readBody(t, res))
}
