package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mechlab/mechkit/errors"
	"github.com/mechlab/mechkit/magicbag"
)

// BagMetrics holds metric instruments for container resolutions.
type BagMetrics struct {
	pullTotal    metric.Int64Counter
	pullDuration metric.Float64Histogram
	pullErrors   metric.Int64Counter
}

// NewBagMetrics creates resolution instruments on the given meter.
func NewBagMetrics(meter metric.Meter) (*BagMetrics, error) {
	pullTotal, err := meter.Int64Counter("magicbag.pull.total",
		metric.WithDescription("Total number of container resolutions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating magicbag.pull.total counter: %w", err)
	}

	pullDuration, err := meter.Float64Histogram("magicbag.pull.duration",
		metric.WithDescription("Duration of container resolutions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating magicbag.pull.duration histogram: %w", err)
	}

	pullErrors, err := meter.Int64Counter("magicbag.pull.errors",
		metric.WithDescription("Total failed container resolutions by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating magicbag.pull.errors counter: %w", err)
	}

	return &BagMetrics{
		pullTotal:    pullTotal,
		pullDuration: pullDuration,
		pullErrors:   pullErrors,
	}, nil
}

// Observer returns a resolve observer that records every resolution.
// Register it with Builder.WithObserver.
func (m *BagMetrics) Observer() magicbag.ResolveObserver {
	return func(key magicbag.Key, d time.Duration, err error) {
		ctx := context.Background()
		keyAttr := attribute.String("key", key.String())
		status := "ok"
		if err != nil {
			status = "error"
			m.pullErrors.Add(ctx, 1, metric.WithAttributes(
				keyAttr,
				attribute.String("code", string(errors.CodeOf(err))),
			))
		}
		m.pullTotal.Add(ctx, 1, metric.WithAttributes(
			keyAttr,
			attribute.String("status", status),
		))
		m.pullDuration.Record(ctx, d.Seconds(), metric.WithAttributes(keyAttr))
	}
}

// BagTracer emits a span per container resolution.
type BagTracer struct {
	tracer trace.Tracer
}

// NewBagTracer creates a BagTracer on the given tracer. A nil tracer uses
// the global provider.
func NewBagTracer(tracer trace.Tracer) *BagTracer {
	if tracer == nil {
		tracer = Tracer(defaultTracerName)
	}
	return &BagTracer{tracer: tracer}
}

// Observer returns a resolve observer that records each resolution as a
// completed span. The observer runs after the resolution has finished, so
// the span start is backdated by the measured duration.
func (t *BagTracer) Observer() magicbag.ResolveObserver {
	return func(key magicbag.Key, d time.Duration, err error) {
		end := time.Now()
		_, span := t.tracer.Start(context.Background(), "magicbag.pull",
			trace.WithTimestamp(end.Add(-d)),
			trace.WithAttributes(attribute.String("key", key.String())),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End(trace.WithTimestamp(end))
	}
}
