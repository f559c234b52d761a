package logger_test

import (
	"context"
	"sectoolkit/pkg/logger"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGet_FallsBackToDefault(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)
	require.NotNil(t, logger.Get(context.Background()))
	require.True(t, logger.IsDebug(context.Background()))
}

func TestSetup_LevelOverride(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment, "warn")
	t.Cleanup(func() { logger.Setup(logger.DevelopmentEnvironment) })

	require.False(t, logger.IsDebug(context.Background()))
}

func TestWithFields_AttachesFieldsToContextLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))
	ctx = logger.WithFields(ctx, zap.String("target", "10.0.0.1"))

	logger.Info(ctx, "scan started")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "scan started", entries[0].Message)
	require.Equal(t, "10.0.0.1", entries[0].ContextMap()["target"])
}
