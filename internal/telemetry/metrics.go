package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "ironlog"

// Metrics holds the application counters. Instruments come from the global
// meter provider, which is a no-op until Initialize installs a real one.
type Metrics struct {
	sessionsLogged metric.Int64Counter
	setsLogged     metric.Int64Counter
	cacheLookups   metric.Int64Counter
	imageUploads   metric.Int64Counter
}

// NewMetrics creates the application counters
func NewMetrics() *Metrics {
	meter := otel.Meter(meterName)

	// Instrument creation only fails on invalid names; fall back to no-op
	// instruments returned alongside the error.
	sessions, _ := meter.Int64Counter("ironlog.sessions.logged",
		metric.WithDescription("Workout sessions logged"))
	sets, _ := meter.Int64Counter("ironlog.sets.logged",
		metric.WithDescription("Workout sets logged"))
	lookups, _ := meter.Int64Counter("ironlog.cache.lookups",
		metric.WithDescription("Read-through cache lookups by result"))
	uploads, _ := meter.Int64Counter("ironlog.images.uploaded",
		metric.WithDescription("Exercise images uploaded"))

	return &Metrics{
		sessionsLogged: sessions,
		setsLogged:     sets,
		cacheLookups:   lookups,
		imageUploads:   uploads,
	}
}

// SessionLogged records one session and its sets. source is "log" or "toggle".
func (m *Metrics) SessionLogged(ctx context.Context, source string, sets int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.sessionsLogged.Add(ctx, 1, attrs)
	if sets > 0 {
		m.setsLogged.Add(ctx, int64(sets), attrs)
	}
}

// CacheLookup records a cache hit or miss for a resource
func (m *Metrics) CacheLookup(ctx context.Context, resource string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("result", result),
	))
}

func (m *Metrics) ImageUploaded(ctx context.Context) {
	if m == nil {
		return
	}
	m.imageUploads.Add(ctx, 1)
}
