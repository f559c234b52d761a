package v1handler

import (
	"context"
	"net/http"
	"sectoolkit/pkg/controller"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/serrors"

	"go.uber.org/zap"
)

// ErrorResponse is the API representation of an error.
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

type errorMapping struct {
	status  int
	message string
}

var errorMappings = map[serrors.Kind]errorMapping{ //nolint: gochecknoglobals
	serrors.ErrNotFound:     {http.StatusNotFound, "resource not found"},
	serrors.ErrBadRequest:   {http.StatusBadRequest, "bad request"},
	serrors.ErrUnauthorized: {http.StatusUnauthorized, "unauthorized"},
	serrors.ErrForbidden:    {http.StatusForbidden, "forbidden"},
	serrors.ErrConflict:     {http.StatusConflict, "conflict"},
	serrors.ErrTimeout:      {http.StatusGatewayTimeout, "timed out"},
	serrors.ErrUnavailable:  {http.StatusServiceUnavailable, "unavailable"},
	serrors.ErrRateLimited:  {http.StatusTooManyRequests, "too many requests"},
}

// NewError maps err to its status code, code and message. Errors without a
// known kind become internal errors, their details are only logged.
func (h Handler) NewError(ctx context.Context, err error) *ErrorResponse {
	kind := serrors.KindOf(err)
	mapping, ok := errorMappings[kind]
	if !ok {
		logger.Error(ctx, "internal error", zap.Error(err))

		return &ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       serrors.ErrInternal.Error(),
			Message:    "internal error",
		}
	}

	logger.Debug(ctx, "request failed", zap.Error(err))

	msg := serrors.MessageOf(err)
	if msg == "" {
		msg = mapping.message
	}

	return &ErrorResponse{
		StatusCode: mapping.status,
		Code:       kind.Error(),
		Message:    msg,
	}
}

// WriteError writes err as the JSON error response.
func (h Handler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)
	controller.WriteError(w, res.StatusCode, res.Code, res.Message)
}
