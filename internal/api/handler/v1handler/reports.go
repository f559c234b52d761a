package v1handler

import (
	"net/http"
	"sectoolkit/internal/reports"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/report"
	"sectoolkit/pkg/serrors"
	"strconv"
	"strings"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
)

const DefaultLimit = 20

func decodeReportRequest(d *jx.Decoder, key string, req *reports.Request) error {
	var err error
	switch key {
	case "kind":
		var kind string
		kind, err = d.Str()
		req.Kind = domain.ReportKind(strings.ToUpper(kind))
	case "target":
		req.Target, err = d.Str()
	case "params":
		err = d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "ports":
				ports, err := d.Str()
				req.Params.Ports = ports

				return err //nolint: wrapcheck
			case "port":
				port, err := d.Int()
				req.Params.Port = port

				return err //nolint: wrapcheck
			default:
				return d.Skip() //nolint: wrapcheck
			}
		})
	default:
		err = d.Skip()
	}

	return err //nolint: wrapcheck
}

func reportID(r *http.Request) (domain.ReportID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return domain.ReportID{}, serrors.Wrap(serrors.ErrBadRequest, err, "invalid report id")
	}

	return domain.ReportID(id), nil
}

// CreateReport schedules a new report based on the provided request payload.
func (h Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req reports.Request
	if err := decodeBody(w, r, func(d *jx.Decoder, key string) error {
		return decodeReportRequest(d, key, &req)
	}); err != nil {
		h.WriteError(w, r, err)

		return
	}

	res, err := h.deps.Reports.Enqueue(r.Context(), GetUserIDFromContext(r.Context()), req)
	if err != nil {
		h.WriteError(w, r, err)

		return
	}

	writeJSON(w, http.StatusAccepted, func(e *jx.Encoder) { report.EncodeReport(e, res) })
}

// DeleteReport deletes a report by ID.
func (h Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := reportID(r)
	if err != nil {
		h.WriteError(w, r, err)

		return
	}

	if err := h.deps.Reports.Delete(r.Context(), GetUserIDFromContext(r.Context()), id); err != nil {
		h.WriteError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetReport returns details of a report by ID.
func (h Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := reportID(r)
	if err != nil {
		h.WriteError(w, r, err)

		return
	}

	res, err := h.deps.Reports.Result(r.Context(), GetUserIDFromContext(r.Context()), id)
	if err != nil {
		h.WriteError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { report.EncodeReport(e, res) })
}

// ListReports returns a paginated list of reports.
func (h Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := DefaultLimit
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			h.WriteError(w, r, serrors.With(serrors.ErrBadRequest, "invalid limit %q", v))

			return
		}
		limit = n
	}

	items, nextCursor, err := h.deps.Reports.UserReports(r.Context(),
		GetUserIDFromContext(r.Context()),
		domain.ReportKind(strings.ToUpper(query.Get("kind"))),
		query.Get("cursor"),
		uint(limit)) //nolint: gosec
	if err != nil {
		h.WriteError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for i := range items {
						report.EncodeReport(e, &items[i])
					}
				})
			})
			e.Field("nextCursor", func(e *jx.Encoder) {
				if nextCursor == "" {
					e.Null()

					return
				}
				e.Str(nextCursor)
			})
		})
	})
}
