// Package ports defines the interfaces between the core and its adapters.
package ports

import (
	"context"

	"go.trai.ch/vellum/internal/core/domain"
)

// FileResolver answers lookups for virtual file identities from one origin.
//
// Implementations must be deterministic for an identical identity and
// resolver state, must not mutate the identity, and must not block
// indefinitely: network-backed implementations enforce a finite retry
// budget. A resolver that cannot serve the identity returns an error
// matching domain.ErrFileNotFound so a chain can fall through; any other
// error class means the resolver claims the identity but failed to produce
// content, and is surfaced immediately.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type FileResolver interface {
	// Resolve returns the content for the identity in the requested flavor.
	Resolve(ctx context.Context, id domain.FileID, kind domain.FileKind) (domain.Resolved, error)
}
