package telemetry

import (
	"context"

	"go.trai.ch/vellum/internal/core/ports"
)

var _ ports.Tracer = (*Noop)(nil)

// Noop is a Tracer that records nothing. Used when tracing is disabled and
// as the default in tests.
type Noop struct{}

// NewNoop creates a no-op Tracer.
func NewNoop() *Noop {
	return &Noop{}
}

// Start returns the context unchanged and a span that ignores everything.
func (n *Noop) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End()                     {}
func (noopSpan) RecordError(error)        {}
func (noopSpan) SetAttribute(string, any) {}
