package telemetry

import (
	"context"
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/vellum/internal/core/ports"
)

// Provider owns the OpenTelemetry tracer provider backing the Tracer
// adapter. Completed spans are bridged to the application logger; there is
// no remote exporter.
type Provider struct {
	provider *sdktrace.TracerProvider
}

// NewProvider creates a Provider whose spans are reported through the given
// logger.
func NewProvider(logger ports.Logger) *Provider {
	p := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(&loggerBridge{logger: logger}),
	)
	return &Provider{provider: p}
}

// Tracer returns a ports.Tracer backed by this provider.
func (p *Provider) Tracer() ports.Tracer {
	return NewTracer(p.provider.Tracer("vellum"))
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.provider.Shutdown(ctx)
}

// loggerBridge implements sdktrace.SpanProcessor by forwarding completed
// spans to the logger.
type loggerBridge struct {
	logger ports.Logger
}

func (b *loggerBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

func (b *loggerBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	elapsed := s.EndTime().Sub(s.StartTime())
	b.logger.Info(fmt.Sprintf("%s (%s)", s.Name(), elapsed))
}

func (b *loggerBridge) Shutdown(_ context.Context) error   { return nil }
func (b *loggerBridge) ForceFlush(_ context.Context) error { return nil }
