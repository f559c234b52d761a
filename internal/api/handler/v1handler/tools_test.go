package v1handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sectoolkit/internal/api/handler/v1handler"
	"sectoolkit/pkg/analysis"
	"sectoolkit/pkg/crypto"
	"sectoolkit/pkg/network"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newToolsHandler() http.Handler {
	return v1handler.New(v1handler.Deps{
		Password: analysis.NewPasswordAnalyzer(analysis.PasswordOptions{}),
		Hash:     crypto.NewHashUtils(crypto.Argon2Params{}),
		IP:       network.NewIPUtils(nil),
	}).Routes()
}

func TestAnalyzePassword_Common(t *testing.T) {
	rec := doRequest(t, newToolsHandler(), http.MethodPost, "/tools/password", `{"password":"password"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeMap(t, rec)
	require.EqualValues(t, 0, body["score"])
	require.Equal(t, "very weak", body["strength"])
	require.EqualValues(t, 8, body["length"])
	require.Equal(t, false, body["meetsPolicy"])
	require.NotContains(t, rec.Body.String(), `"password"`)
}

func TestAnalyzePassword_Strong(t *testing.T) {
	rec := doRequest(t, newToolsHandler(), http.MethodPost, "/tools/password", `{"password":"Xq7#vR2!mZp9$Lw4&Tn6"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeMap(t, rec)
	require.EqualValues(t, 4, body["score"])
	require.Equal(t, "very strong", body["strength"])
}

func TestAnalyzePassword_TooLong(t *testing.T) {
	pw := strings.Repeat("a", v1handler.MaxPasswordLength+1)
	rec := doRequest(t, newToolsHandler(), http.MethodPost, "/tools/password", `{"password":"`+pw+`"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzePassword_InvalidBody(t *testing.T) {
	rec := doRequest(t, newToolsHandler(), http.MethodPost, "/tools/password", `{"password":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHash_DefaultAlgorithm(t *testing.T) {
	rec := doRequest(t, newToolsHandler(), http.MethodPost, "/tools/hash", `{"data":"abc"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.JSONEq(t, `[{
		"algorithm":"sha256",
		"hex":"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		"source":"string"
	}]`, rec.Body.String())
}

func TestHash_MultipleAlgorithms(t *testing.T) {
	rec := doRequest(t, newToolsHandler(), http.MethodPost, "/tools/hash", `{"data":"abc","algorithms":["md5","sha1"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var digests []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &digests))
	require.Len(t, digests, 2)
	require.Equal(t, "900150983cd24fb0d6963f7d28e17f72", digests[0]["hex"])
	require.Equal(t, "a9993e364706816aba3e25717850c26c9cd0d89d", digests[1]["hex"])
}

func TestHash_HMAC(t *testing.T) {
	// RFC 4231 test case 2
	rec := doRequest(t, newToolsHandler(), http.MethodPost, "/tools/hash",
		`{"data":"what do ya want for nothing?","key":"Jefe","algorithms":["sha256"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.JSONEq(t, `[{
		"algorithm":"sha256",
		"hex":"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		"source":"hmac"
	}]`, rec.Body.String())
}

func TestHash_UnknownAlgorithm(t *testing.T) {
	rec := doRequest(t, newToolsHandler(), http.MethodPost, "/tools/hash", `{"data":"abc","algorithms":["whirlpool"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "BAD_REQUEST", decodeMap(t, rec)["code"])
}

func TestClassifyIP(t *testing.T) {
	handler := newToolsHandler()

	cases := []struct {
		ip      string
		version float64
		scope   string
	}{
		{"127.0.0.1", 4, "loopback"},
		{"10.1.2.3", 4, "private"},
		{"8.8.8.8", 4, "public"},
		{"fe80::1", 6, "link-local"},
	}
	for _, tc := range cases {
		t.Run(tc.ip, func(t *testing.T) {
			rec := doRequest(t, handler, http.MethodGet, "/tools/ip/"+tc.ip, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			body := decodeMap(t, rec)
			require.Equal(t, tc.ip, body["address"])
			require.Equal(t, tc.version, body["version"])
			require.Equal(t, tc.scope, body["scope"])
		})
	}
}

func TestClassifyIP_Invalid(t *testing.T) {
	rec := doRequest(t, newToolsHandler(), http.MethodGet, "/tools/ip/999.1.1.1", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	newToolsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tools/ip/1.1.1.1", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
