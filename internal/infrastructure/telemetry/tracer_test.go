package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/livesale/backend/internal/infrastructure/config"
	"github.com/livesale/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:4317",
		SamplingRatio:     1.0,
		ServiceName:       "livesale-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.EnableSpanProfiles())
	assert.False(t, tp.IsSpanProfilesEnabled())
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestConfigMapping(t *testing.T) {
	cfg := config.TelemetryConfig{
		Enabled:           true,
		CollectorEndpoint: "otel:4317",
		SamplingRatio:     0.25,
		ServiceName:       "livesale-backend",
		Insecure:          true,
		MetricsEnabled:    false,
		MetricsInterval:   15 * time.Second,
		LogsEnabled:       true,
		LogsLevel:         "warn",
		DBTraceEnabled:    true,
		DBLogFullSQL:      true,
		DBSlowQueryThresh: time.Second,
		ProfilingEnabled:  true,
		PyroscopeEndpoint: "http://pyroscope:4040",
	}

	trace := telemetry.ConfigFrom(cfg)
	assert.Equal(t, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "otel:4317",
		SamplingRatio:     0.25,
		ServiceName:       "livesale-backend",
		Insecure:          true,
	}, trace)

	metrics := telemetry.MetricsConfigFrom(cfg)
	assert.False(t, metrics.Enabled, "metrics need both switches")
	assert.Equal(t, 15*time.Second, metrics.ExportInterval)

	logs := telemetry.LogsConfigFrom(cfg)
	assert.True(t, logs.Enabled)
	assert.Equal(t, "warn", logs.Level)

	db := telemetry.DBTracingConfigFrom(cfg)
	assert.True(t, db.Enabled)
	assert.True(t, db.LogFullSQL)
	assert.Equal(t, time.Second, db.SlowQueryThresh)

	prof := telemetry.ProfilerConfigFrom(cfg)
	assert.True(t, prof.Enabled)
	assert.Equal(t, "http://pyroscope:4040", prof.ServerAddress)
	assert.Equal(t, "livesale-backend", prof.ApplicationName)
}

func TestConfigMapping_GlobalSwitchOff(t *testing.T) {
	cfg := config.TelemetryConfig{
		Enabled:        false,
		MetricsEnabled: true,
		LogsEnabled:    true,
		DBTraceEnabled: true,
	}

	assert.False(t, telemetry.MetricsConfigFrom(cfg).Enabled)
	assert.False(t, telemetry.LogsConfigFrom(cfg).Enabled)
	assert.False(t, telemetry.DBTracingConfigFrom(cfg).Enabled)
}
