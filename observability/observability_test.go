package observability

import (
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/mechlab/mechkit/errors"
	"github.com/mechlab/mechkit/magicbag"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Enabled: true}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for enabled config without service name")
	}

	cfg = DefaultConfig("svc")
	cfg.Enabled = true
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error for valid config: %v", err)
	}

	cfg.SampleRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for sample rate above 1.0")
	}

	cfg = Config{Enabled: false}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled config must validate, got %v", err)
	}
}

func TestNewBagMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewBagMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	if metrics == nil {
		t.Fatal("expected non-nil metrics")
	}

	obs := metrics.Observer()
	obs(magicbag.KeyFor[string](), 5*time.Millisecond, nil)
	obs(magicbag.KeyFor[int](), time.Millisecond, errors.NotRegistered("int"))
}

func TestBagTracer_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	obs := NewBagTracer(tp.Tracer("test")).Observer()
	obs(magicbag.KeyFor[string](), 10*time.Millisecond, nil)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "magicbag.pull" {
		t.Errorf("expected span name 'magicbag.pull', got %s", span.Name())
	}
	var key string
	for _, attr := range span.Attributes() {
		if attr.Key == attribute.Key("key") {
			key = attr.Value.AsString()
		}
	}
	if key != "string" {
		t.Errorf("expected key attribute 'string', got %q", key)
	}
	elapsed := span.EndTime().Sub(span.StartTime())
	if elapsed < 9*time.Millisecond || elapsed > 11*time.Millisecond {
		t.Errorf("expected span duration around 10ms, got %v", elapsed)
	}
}

func TestBagTracer_RecordsError(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	obs := NewBagTracer(tp.Tracer("test")).Observer()
	obs(magicbag.KeyFor[int](), time.Millisecond, fmt.Errorf("boom"))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status().Code)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected a recorded error event")
	}
}
