package serrors_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sectoolkit/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_Formatting(t *testing.T) {
	cause := errors.New("dial tcp: refused")

	require.Equal(t, "host down: dial tcp: refused", serrors.Wrap(serrors.ErrUnavailable, cause, "host down").Error())
	require.Equal(t, "bad port 0", serrors.With(serrors.ErrBadRequest, "bad port %d", 0).Error())
	require.Equal(t, "NOT_FOUND", serrors.KindOnly(serrors.ErrNotFound).Error())
}

func TestError_IsMatchesKindAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("outer: %w", serrors.Wrap(serrors.ErrConflict, cause, "conflict"))

	require.ErrorIs(t, err, serrors.ErrConflict)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, serrors.ErrNotFound)
}

func TestKindOf(t *testing.T) {
	require.Nil(t, serrors.KindOf(nil))
	require.Equal(t, serrors.ErrBadRequest, serrors.KindOf(fmt.Errorf("x: %w", serrors.With(serrors.ErrBadRequest, "y"))))
	require.Equal(t, serrors.ErrTimeout, serrors.KindOf(fmt.Errorf("scan: %w", context.DeadlineExceeded)))
	require.Equal(t, serrors.ErrInternal, serrors.KindOf(errors.New("plain")))
	require.Equal(t, serrors.ErrNotFound, serrors.KindOf(serrors.ErrNotFound))
}

func TestMessageOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", serrors.With(serrors.ErrBadRequest, "invalid port range"))
	require.Equal(t, "invalid port range", serrors.MessageOf(err))
	require.Empty(t, serrors.MessageOf(errors.New("plain")))
}

func TestError_AsReachesCause(t *testing.T) {
	var pathErr *os.PathError
	err := serrors.Wrap(serrors.ErrNotFound, &os.PathError{Op: "open", Path: "/nope", Err: os.ErrNotExist}, "wordlist")

	require.ErrorAs(t, err, &pathErr)
	require.Equal(t, "/nope", pathErr.Path)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, "wordlist: open /nope: file does not exist", err.Error())
}
