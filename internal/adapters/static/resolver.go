// Package static implements a FileResolver serving preloaded in-memory content.
package static

import (
	"context"

	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports"
)

var _ ports.FileResolver = (*Resolver)(nil)

type entry struct {
	id   domain.FileID
	kind domain.FileKind
}

// Resolver serves a fixed mapping from identity to content supplied at
// construction time. Lookups are pure map reads with no I/O; there is no
// runtime mutation after construction.
type Resolver struct {
	files map[entry]domain.Resolved
}

// Builder collects (identity, content) pairs for a Resolver.
type Builder struct {
	files map[entry]domain.Resolved
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{files: make(map[entry]domain.Resolved)}
}

// AddSource registers program text for the given identity.
func (b *Builder) AddSource(id domain.FileID, text string) *Builder {
	b.files[entry{id: id, kind: domain.KindSource}] = domain.NewSource(text)
	return b
}

// AddBinary registers opaque bytes for the given identity.
func (b *Builder) AddBinary(id domain.FileID, data []byte) *Builder {
	b.files[entry{id: id, kind: domain.KindBinary}] = domain.NewBinary(data)
	return b
}

// Build finalizes the mapping. The Builder must not be used afterwards.
func (b *Builder) Build() *Resolver {
	files := b.files
	b.files = nil
	return &Resolver{files: files}
}

// Resolve looks the identity up in the preloaded mapping. An entry registered
// as source does not answer binary requests and vice versa; absence yields
// ErrFileNotFound so a chain can fall through.
func (r *Resolver) Resolve(_ context.Context, id domain.FileID, kind domain.FileKind) (domain.Resolved, error) {
	resolved, ok := r.files[entry{id: id, kind: kind}]
	if !ok {
		return domain.Resolved{}, domain.ErrFileNotFound
	}
	return resolved, nil
}
