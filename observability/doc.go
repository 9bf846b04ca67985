// Package observability provides OpenTelemetry tracing and metrics setup,
// plus resolve observers that report container resolutions as metrics and
// spans.
//
// Initialize the global providers once at startup:
//
//	cfg := observability.DefaultConfig("my-service")
//	tp, err := observability.InitTracer(ctx, cfg)
//	mp, err := observability.InitMeter(ctx, cfg)
//
// Then attach observers to a container builder:
//
//	metrics, _ := observability.NewBagMetrics(observability.Meter("magicbag"))
//	b := magicbag.NewBuilder().
//		WithObserver(metrics.Observer()).
//		WithObserver(observability.NewBagTracer(nil).Observer())
package observability
