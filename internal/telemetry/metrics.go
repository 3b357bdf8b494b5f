// Package telemetry exposes OpenTelemetry instruments for the simulation loop.
// Instruments come from the global meter provider, which is a no-op until the
// host process installs a real one.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ScopeName is the instrumentation scope of every flappy instrument.
const ScopeName = "github.com/vovakirdan/tui-flappy"

// Metrics groups the instruments recorded by the game loop.
type Metrics struct {
	ticks        metric.Int64Counter
	tickDuration metric.Float64Histogram
	events       metric.Int64Counter
	runs         metric.Int64Counter
}

// New creates the instruments on the given meter.
func New(meter metric.Meter) (*Metrics, error) {
	ticks, err := meter.Int64Counter("flappy.ticks",
		metric.WithDescription("Simulation ticks executed"),
		metric.WithUnit("{tick}"))
	if err != nil {
		return nil, err
	}

	tickDuration, err := meter.Float64Histogram("flappy.tick.duration",
		metric.WithDescription("Wall time spent inside one tick"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	events, err := meter.Int64Counter("flappy.events",
		metric.WithDescription("Simulation events by kind"),
		metric.WithUnit("{event}"))
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter("flappy.runs",
		metric.WithDescription("Runs started"),
		metric.WithUnit("{run}"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ticks:        ticks,
		tickDuration: tickDuration,
		events:       events,
		runs:         runs,
	}, nil
}

// Default creates instruments on the global meter provider.
// It never fails: on error it falls back to no-op instruments.
func Default() *Metrics {
	m, err := New(otel.Meter(ScopeName))
	if err != nil {
		return Noop()
	}
	return m
}

// Noop returns instruments that record nothing.
func Noop() *Metrics {
	m, _ := New(noop.NewMeterProvider().Meter(ScopeName))
	return m
}

// ObserveTick records one executed tick and its duration.
func (m *Metrics) ObserveTick(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.ticks.Add(ctx, 1)
	m.tickDuration.Record(ctx, float64(d)/float64(time.Millisecond))
}

// ObserveEvent counts a simulation event by its kind name.
func (m *Metrics) ObserveEvent(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.events.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// ObserveRun counts a started run.
func (m *Metrics) ObserveRun(ctx context.Context, frontend string) {
	if m == nil {
		return
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("frontend", frontend)))
}
