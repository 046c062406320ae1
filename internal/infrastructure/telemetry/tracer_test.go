package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/renovabill/backend/internal/infrastructure/telemetry"
)

// newDisabledProvider builds a provider with telemetry off, which never
// needs a collector and is safe for unit tests.
func newDisabledProvider(t *testing.T, ratio float64) *telemetry.TracerProvider {
	t.Helper()

	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     ratio,
		ServiceName:       "renovabill-backend",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)
	return tp
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp := newDisabledProvider(t, 1.0)

	assert.False(t, tp.IsEnabled())

	gotCfg := tp.GetConfig()
	assert.Equal(t, "renovabill-backend", gotCfg.ServiceName)
	assert.False(t, gotCfg.Enabled)

	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestNewTracerProvider_Enabled(t *testing.T) {
	// Needs a running OTEL collector, so only run outside short mode.
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
		ServiceName:       "renovabill-backend",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.True(t, tp.IsEnabled())

	tracer := tp.Tracer("billing")
	_, span := tracer.Start(ctx, "invoice.generate")
	span.End()

	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestNewTracerProvider_SamplingRatios(t *testing.T) {
	// Each ratio maps to a distinct sampler; construction and shutdown must
	// work for all of them even with telemetry off.
	for _, tt := range []struct {
		name  string
		ratio float64
	}{
		{"always_sample", 1.0},
		{"never_sample", 0.0},
		{"ratio_sample", 0.5},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tp := newDisabledProvider(t, tt.ratio)
			assert.False(t, tp.IsEnabled())
			assert.NoError(t, tp.Shutdown(context.Background()))
		})
	}
}

func TestTracerProvider_Tracer(t *testing.T) {
	tp := newDisabledProvider(t, 1.0)

	// Disabled providers hand out no-op tracers, never nil.
	tracer := tp.Tracer("billing")
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "invoice.generate")
	span.End()
}

func TestTracerProvider_ForceFlush_Disabled(t *testing.T) {
	tp := newDisabledProvider(t, 1.0)
	assert.NoError(t, tp.ForceFlush(context.Background()))
}

func TestTracerProvider_ShutdownWithCancelledContext(t *testing.T) {
	tp := newDisabledProvider(t, 1.0)

	cancelledCtx, cancel := context.WithCancel(context.Background())
	cancel()

	// A disabled provider has nothing to flush, so the dead context is fine.
	assert.NoError(t, tp.Shutdown(cancelledCtx))
}

func TestConfig_Defaults(t *testing.T) {
	cfg := telemetry.Config{}

	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.CollectorEndpoint)
	assert.Zero(t, cfg.SamplingRatio)
	assert.Empty(t, cfg.ServiceName)
}

func TestNewTracerProvider_InvalidEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	logger := zaptest.NewLogger(t, zaptest.Level(zap.ErrorLevel))
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	// The OTLP exporter connects lazily, so construction may succeed even
	// against an unreachable endpoint.
	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           true,
		CollectorEndpoint: "invalid-host:99999",
		SamplingRatio:     1.0,
		ServiceName:       "renovabill-backend",
	}, logger)
	if err != nil {
		t.Logf("Expected connection error: %v", err)
		return
	}

	_ = tp.Shutdown(context.Background())
}
