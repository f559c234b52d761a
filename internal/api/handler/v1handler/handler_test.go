package v1handler_test

import (
	"context"
	"errors"
	"fmt"
	"sectoolkit/internal/api/handler/v1handler"
	"testing"

	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Initialize logger to avoid nil pointer deref during tests
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

func TestNewError_InternalOnPlainError(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	ctx := context.Background()

	res := h.NewError(ctx, errors.New("boom"))
	require.NotNil(t, res)
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, serrors.ErrInternal.Error(), res.Code)
	require.Equal(t, "internal error", res.Message)
}

func TestNewError_KindSentinelDirect_NotFound(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	ctx := context.Background()

	// Pass the Kind sentinel directly
	res := h.NewError(ctx, serrors.ErrNotFound)
	require.Equal(t, 404, res.StatusCode)
	require.Equal(t, serrors.ErrNotFound.Error(), res.Code)
	require.Equal(t, "resource not found", res.Message)
}

func TestNewError_SemanticWithMessage_BadRequest(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	ctx := context.Background()

	err := serrors.With(serrors.ErrBadRequest, "invalid payload: missing target")
	res := h.NewError(ctx, err)
	require.Equal(t, 400, res.StatusCode)
	require.Equal(t, serrors.ErrBadRequest.Error(), res.Code)
	require.Equal(t, "invalid payload: missing target", res.Message)
}

func TestNewError_SemanticWrap_Unauthorized(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	ctx := context.Background()

	cause := errors.New("bad token")
	err := serrors.Wrap(serrors.ErrUnauthorized, cause, "unauthorized")
	res := h.NewError(ctx, err)
	require.Equal(t, 401, res.StatusCode)
	require.Equal(t, serrors.ErrUnauthorized.Error(), res.Code)
	// Should include provided message, not the cause
	require.Equal(t, "unauthorized", res.Message)
}

func TestNewError_InternalKind_GeneratesInternal(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	ctx := context.Background()

	res := h.NewError(ctx, serrors.KindOnly(serrors.ErrInternal))
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, serrors.ErrInternal.Error(), res.Code)
	require.Equal(t, "internal error", res.Message)
}

func TestNewError_WrappedWithFmt(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})

	err := fmt.Errorf("could not check host: %w", serrors.With(serrors.ErrUnavailable, "connection refused"))
	res := h.NewError(context.Background(), err)
	require.Equal(t, 503, res.StatusCode)
	require.Equal(t, serrors.ErrUnavailable.Error(), res.Code)
	require.Equal(t, "connection refused", res.Message)
}

func TestNewError_ContextDeadline(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})

	res := h.NewError(context.Background(), fmt.Errorf("scan: %w", context.DeadlineExceeded))
	require.Equal(t, 504, res.StatusCode)
	require.Equal(t, serrors.ErrTimeout.Error(), res.Code)
	require.Equal(t, "timed out", res.Message)
}
