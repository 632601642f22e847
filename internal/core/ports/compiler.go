package ports

import (
	"context"

	"go.trai.ch/vellum/internal/core/domain"
)

// Compiler is the external document compilation engine. This layer feeds it
// resolved files and triggers its memoization eviction; everything else about
// compilation is outside this boundary.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Compile processes the main document. The inputs value is opaque to
	// this layer; it is exposed to the document under a well-known name and
	// varies per call while resolvers and caches stay untouched.
	Compile(ctx context.Context, main domain.FileID, inputs map[string]string) ([]byte, error)

	// EvictMemoization drops derived results the compiler memoized across
	// compiles. The session calls it after each compile so a reused engine
	// with changed inputs never serves stale derived output.
	EvictMemoization()
}
