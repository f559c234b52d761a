// Package v1handler implements the v1 HTTP API: asynchronous reports and the
// synchronous password, hash and IP tools.
package v1handler

import (
	"io"
	"net/http"
	"sectoolkit/internal/reports"
	"sectoolkit/pkg/analysis"
	"sectoolkit/pkg/crypto"
	"sectoolkit/pkg/network"
	"sectoolkit/pkg/serrors"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Deps are the services the handlers delegate to.
type Deps struct {
	Reports  reports.Service
	Password *analysis.PasswordAnalyzer
	Hash     *crypto.HashUtils
	IP       *network.IPUtils
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Routes returns the v1 routes relative to the API prefix.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /reports", h.CreateReport)
	mux.HandleFunc("GET /reports", h.ListReports)
	mux.HandleFunc("GET /reports/{id}", h.GetReport)
	mux.HandleFunc("DELETE /reports/{id}", h.DeleteReport)

	mux.HandleFunc("POST /tools/password", h.AnalyzePassword)
	mux.HandleFunc("POST /tools/hash", h.Hash)
	mux.HandleFunc("GET /tools/ip/{ip}", h.ClassifyIP)

	return mux
}

// decodeBody reads the JSON object body of r and calls fn for each field.
func decodeBody(w http.ResponseWriter, r *http.Request, fn func(d *jx.Decoder, key string) error) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, err, "could not read request body")
	}

	if err := jx.DecodeBytes(body).Obj(fn); err != nil {
		return serrors.Wrap(serrors.ErrBadRequest, errors.Wrap(err, "decode request"), "invalid request body")
	}

	return nil
}

// writeJSON writes the encoded value with the status code.
func writeJSON(w http.ResponseWriter, status int, fn func(e *jx.Encoder)) {
	var e jx.Encoder
	fn(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
