package engine

import (
	"context"

	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports"
)

// Session is the boundary a long-lived process compiles through. The chain
// and its caches survive across compiles; compiler memoization does not,
// because inputs vary per call and memoized results bake them in.
type Session struct {
	chain             *Chain
	compiler          ports.Compiler
	mainID            domain.FileID
	evictAfterCompile bool
}

type SessionOption func(*Session)

// WithoutEviction keeps compiler memoization alive across compiles. Only
// safe when every compile of this session uses identical inputs.
func WithoutEviction() SessionOption {
	return func(s *Session) {
		s.evictAfterCompile = false
	}
}

func NewSession(chain *Chain, compiler ports.Compiler, mainID domain.FileID, opts ...SessionOption) *Session {
	s := &Session{
		chain:             chain,
		compiler:          compiler,
		mainID:            mainID,
		evictAfterCompile: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Chain exposes the session's resolver chain for callers that resolve files
// outside a compile, for example to pre-materialize packages.
func (s *Session) Chain() *Chain {
	return s.chain
}

// Compile runs one compilation with the given inputs. Inputs belong to the
// call; the session never stores them.
func (s *Session) Compile(ctx context.Context, inputs map[string]string) ([]byte, error) {
	out, err := s.compiler.Compile(ctx, s.mainID, inputs)
	if s.evictAfterCompile {
		s.compiler.EvictMemoization()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
