// Package cache implements caching decorators for file resolvers.
package cache

import (
	"context"
	"sync"

	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports"
)

var _ ports.FileResolver = (*Memory)(nil)

type key struct {
	id   domain.FileID
	kind domain.FileKind
}

// Memory wraps an inner resolver with a process-lifetime in-memory cache
// keyed by identity and requested kind. Entries are created on first
// successful resolution and never expire.
//
// Hits take only a read lock so concurrent readers do not block each other,
// and no lock is held while the inner resolver runs. Two concurrent misses
// for the same identity may both reach the inner resolver; the cache does
// not guarantee exactly-once work.
//
// Stacking a Memory on another Memory is legal but only adds overhead.
type Memory struct {
	inner ports.FileResolver

	mu      sync.RWMutex
	entries map[key]domain.Resolved
}

// NewMemory wraps the given resolver.
func NewMemory(inner ports.FileResolver) *Memory {
	return &Memory{
		inner:   inner,
		entries: make(map[key]domain.Resolved),
	}
}

// Resolve serves from the cache when possible and otherwise delegates to the
// inner resolver, storing its result. Failures are not cached; a later call
// retries the inner resolver.
func (m *Memory) Resolve(ctx context.Context, id domain.FileID, kind domain.FileKind) (domain.Resolved, error) {
	k := key{id: id, kind: kind}

	m.mu.RLock()
	cached, ok := m.entries[k]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}

	resolved, err := m.inner.Resolve(ctx, id, kind)
	if err != nil {
		return domain.Resolved{}, err
	}

	m.mu.Lock()
	m.entries[k] = resolved
	m.mu.Unlock()

	return resolved, nil
}

// Clear drops every cached entry. Intended for callers that mutate the
// underlying origin and need the next lookups to observe it.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.entries = make(map[key]domain.Resolved)
	m.mu.Unlock()
}
