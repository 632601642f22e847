package ports

import (
	"context"
	"io"

	"go.trai.ch/vellum/internal/core/domain"
)

// RegistryClient downloads package archives from the remote registry.
// Splitting the network half from extraction keeps the retry policy
// independently testable.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type RegistryClient interface {
	// Download fetches the compressed archive for the given package. The
	// caller owns the returned reader and must close it. A missing package
	// or version yields an error matching domain.ErrFileNotFound without
	// retry; exhausted retries yield domain.ErrNetworkFailed.
	Download(ctx context.Context, spec domain.PackageSpec) (io.ReadCloser, error)
}
