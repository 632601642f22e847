package engine

import (
	"context"
	"errors"

	"go.trai.ch/zerr"

	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports"
)

// Chain resolves file identities by asking an ordered list of resolvers in
// turn. The first resolver that does not report "not found" decides the
// outcome, success or failure. Only when every resolver reports not found
// does the chain report not found itself.
type Chain struct {
	resolvers []ports.FileResolver
	tracer    ports.Tracer
}

func NewChain(tracer ports.Tracer, resolvers ...ports.FileResolver) *Chain {
	return &Chain{
		resolvers: resolvers,
		tracer:    tracer,
	}
}

func (c *Chain) Resolve(ctx context.Context, id domain.FileID, kind domain.FileKind) (domain.Resolved, error) {
	ctx, span := c.tracer.Start(ctx, "resolve "+id.String())
	defer span.End()
	span.SetAttribute("kind", kind.String())

	for _, resolver := range c.resolvers {
		resolved, err := resolver.Resolve(ctx, id, kind)
		if err == nil {
			return resolved, nil
		}
		if errors.Is(err, domain.ErrFileNotFound) {
			continue
		}
		// Anything other than not found is a verdict, not a miss. Later
		// resolvers must not get a chance to mask it.
		span.RecordError(err)
		return domain.Resolved{}, err
	}

	err := zerr.With(domain.ErrFileNotFound, "file", id.String())
	span.RecordError(err)
	return domain.Resolved{}, err
}
