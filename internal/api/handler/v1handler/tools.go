package v1handler

import (
	"net/http"
	"sectoolkit/pkg/crypto"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/report"
	"sectoolkit/pkg/serrors"
	"unicode/utf8"

	"github.com/go-faster/jx"
)

// MaxPasswordLength bounds passwords accepted by the password tool.
const MaxPasswordLength = 1024

// AnalyzePassword reports the strength of a password. The password is never
// logged or stored.
func (h Handler) AnalyzePassword(w http.ResponseWriter, r *http.Request) {
	var password string
	if err := decodeBody(w, r, func(d *jx.Decoder, key string) error {
		if key != "password" {
			return d.Skip() //nolint: wrapcheck
		}

		var err error
		password, err = d.Str()

		return err //nolint: wrapcheck
	}); err != nil {
		h.WriteError(w, r, err)

		return
	}

	if utf8.RuneCountInString(password) > MaxPasswordLength {
		h.WriteError(w, r, serrors.With(serrors.ErrBadRequest, "password longer than %d characters", MaxPasswordLength))

		return
	}

	res := h.deps.Password.Analyze(password)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { report.EncodePasswordReport(e, &res) })
}

// Hash computes digests of the data with each requested algorithm, or HMACs
// when a key is given. SHA-256 is used when no algorithm is requested.
func (h Handler) Hash(w http.ResponseWriter, r *http.Request) {
	var (
		data, key string
		hasKey    bool
		names     []string
	)
	if err := decodeBody(w, r, func(d *jx.Decoder, field string) error {
		var err error
		switch field {
		case "data":
			data, err = d.Str()
		case "key":
			key, err = d.Str()
			hasKey = true
		case "algorithms":
			err = d.Arr(func(d *jx.Decoder) error {
				name, err := d.Str()
				names = append(names, name)

				return err //nolint: wrapcheck
			})
		default:
			err = d.Skip()
		}

		return err //nolint: wrapcheck
	}); err != nil {
		h.WriteError(w, r, err)

		return
	}

	if len(names) == 0 {
		names = []string{string(crypto.SHA256)}
	}

	digests := make([]domain.Digest, 0, len(names))
	for _, name := range names {
		alg, err := crypto.ParseAlgorithm(name)
		if err != nil {
			h.WriteError(w, r, err)

			return
		}

		if !hasKey {
			digest, err := h.deps.Hash.HashString(alg, data)
			if err != nil {
				h.WriteError(w, r, err)

				return
			}
			digests = append(digests, digest)

			continue
		}

		mac, err := h.deps.Hash.HMAC(alg, []byte(key), []byte(data))
		if err != nil {
			h.WriteError(w, r, err)

			return
		}
		digests = append(digests, domain.Digest{Algorithm: string(alg), Hex: mac, Source: "hmac"})
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { report.EncodeDigests(e, digests) })
}

// ClassifyIP describes an IP address.
func (h Handler) ClassifyIP(w http.ResponseWriter, r *http.Request) {
	info, err := h.deps.IP.Classify(r.PathValue("ip"))
	if err != nil {
		h.WriteError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { report.EncodeIPInfo(e, info) })
}
