package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	lp, err := NewLoggerProvider(context.Background(), LogsConfig{Enabled: false}, logger)
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.Same(t, logger, lp.Bridge(logger))
	assert.NoError(t, lp.Shutdown(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("OTEL Logs disabled, using no-op logger provider").Len())
}

func TestNewZapOTELCore_DisabledIsNop(t *testing.T) {
	assert.False(t, NewZapOTELCore(nil, "svc", zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))

	lp := &LoggerProvider{config: LogsConfig{Enabled: true}}
	assert.False(t, NewZapOTELCore(lp, "svc", zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	logger := zap.New(core).With(zap.String("component", "checkout"))

	logger.Info("dropped")
	logger.Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "checkout", entry.ContextMap()["component"])
	assert.False(t, core.Enabled(zapcore.DebugLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}
