package telemetry

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitialize_Disabled(t *testing.T) {
	p, err := Initialize(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestFiberMiddleware_NamesSpanByRoute(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	app := fiber.New()
	app.Use(FiberMiddleware())
	app.Get("/v1/exercises/:id/progress", func(c *fiber.Ctx) error {
		c.Locals("userID", "u1")
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/exercises/abc/progress", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /v1/exercises/:id/progress", spans[0].Name())
}

func TestMetrics_Counters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(mp)
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	ctx := context.Background()
	m := NewMetrics()
	m.SessionLogged(ctx, "log", 3)
	m.SessionLogged(ctx, "toggle", 0)
	m.CacheLookup(ctx, "overview", true)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[md.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(2), totals["ironlog.sessions.logged"])
	assert.Equal(t, int64(3), totals["ironlog.sets.logged"])
	assert.Equal(t, int64(1), totals["ironlog.cache.lookups"])

	var nilMetrics *Metrics
	nilMetrics.SessionLogged(ctx, "log", 1)
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 1, want: "AlwaysOnSampler"},
		{ratio: 2, want: "AlwaysOnSampler"},
		{ratio: 0, want: "AlwaysOffSampler"},
		{ratio: -1, want: "AlwaysOffSampler"},
		{ratio: 0.25, want: "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Contains(t, Sampler(tt.ratio).Description(), "root:"+tt.want)
	}
}

func TestNewResource(t *testing.T) {
	res, err := NewResource(context.Background(), Config{ServiceVersion: "1.2.3", Environment: "test"})
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "ironlog", attrs["service.name"])
	assert.Equal(t, "ironlog", attrs["service.namespace"])
	assert.Equal(t, "1.2.3", attrs["service.version"])
	assert.Equal(t, "test", attrs["deployment.environment"])
	assert.NotEmpty(t, attrs["host.name"])
}

func TestNewMeterProvider_KeepsOnlyKnownAttributes(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := NewMeterProvider(resource.Empty(), reader)
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	counter, err := mp.Meter(meterName).Int64Counter("ironlog.sessions.logged")
	require.NoError(t, err)
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", "log"),
		attribute.String("user_id", "u1"),
	))
	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", "log"),
		attribute.String("user_id", "u2"),
	))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)

	dp := sum.DataPoints[0]
	assert.Equal(t, int64(2), dp.Value)
	assert.Equal(t, 1, dp.Attributes.Len())
	_, hasUser := dp.Attributes.Value("user_id")
	assert.False(t, hasUser)
}
