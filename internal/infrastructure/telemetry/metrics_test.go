package telemetry_test

import (
	"context"
	"testing"

	"github.com/livesale/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{Enabled: false}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestCounterAndHistogram(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("test")
	ctx := context.Background()

	counter, err := telemetry.NewCounter(meter, "test_total", "test counter", "{ops}")
	require.NoError(t, err)
	counter.Inc(ctx)
	counter.Add(ctx, 4)

	hist, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:       "test_amount",
		Unit:       "BRL",
		Boundaries: telemetry.AmountBuckets,
	})
	require.NoError(t, err)
	hist.Record(ctx, 30)

	data := collect(t, reader)
	assert.Equal(t, int64(5), sumFor(t, data["test_total"]))

	h, ok := data["test_amount"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, h.DataPoints, 1)
	assert.Equal(t, telemetry.AmountBuckets, h.DataPoints[0].Bounds)
}

func TestNoopMeter(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("noop")

	bm, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{Meter: meter})
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		bm.RecordOrderConflict(context.Background(), true)
	})
}
