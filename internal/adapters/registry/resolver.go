package registry

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.FileResolver = (*Resolver)(nil)

// Resolver resolves package-qualified identities by materializing whole
// packages from the registry into a DiskStore and serving the requested path
// from the extracted tree. It keeps no per-file state: once a package is on
// disk, every path inside it is a plain file read.
type Resolver struct {
	client ports.RegistryClient
	store  *DiskStore
	tracer ports.Tracer
	group  singleflight.Group
}

// NewResolver creates a Resolver fetching through client and storing into
// store.
func NewResolver(client ports.RegistryClient, store *DiskStore, tracer ports.Tracer) *Resolver {
	return &Resolver{
		client: client,
		store:  store,
		tracer: tracer,
	}
}

// Resolve serves the identity from the materialized package, downloading and
// extracting the package first if it is not on disk yet. Identities without a
// package spec fall through with ErrFileNotFound.
func (r *Resolver) Resolve(ctx context.Context, id domain.FileID, kind domain.FileKind) (domain.Resolved, error) {
	spec, ok := id.Package()
	if !ok {
		return domain.Resolved{}, domain.ErrFileNotFound
	}

	if !r.store.Contains(spec) {
		if err := r.materialize(ctx, spec); err != nil {
			return domain.Resolved{}, err
		}
	}

	dir := r.store.Dir(spec)
	path, err := id.Path().Resolve(dir)
	if err != nil {
		return domain.Resolved{}, zerr.With(err, "file", id.String())
	}

	//nolint:gosec // Containment is enforced by VirtualPath.Resolve above.
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Resolved{}, zerr.With(domain.ErrFileNotFound, "file", id.String())
		}
		ioErr := zerr.With(domain.ErrIO, "file", id.String())
		return domain.Resolved{}, zerr.With(ioErr, "cause", err.Error())
	}

	resolved, err := domain.Decode(kind, content)
	if err != nil {
		return domain.Resolved{}, zerr.With(err, "file", id.String())
	}
	return resolved, nil
}

// Materialize downloads and extracts the package if it is not on disk yet.
// Exported so callers can pre-fetch packages ahead of compilation.
func (r *Resolver) Materialize(ctx context.Context, spec domain.PackageSpec) error {
	if r.store.Contains(spec) {
		return nil
	}
	return r.materialize(ctx, spec)
}

// materialize deduplicates concurrent downloads of the same package; the
// duplicate callers share the first download's outcome.
func (r *Resolver) materialize(ctx context.Context, spec domain.PackageSpec) error {
	_, err, _ := r.group.Do(spec.String(), func() (any, error) {
		if r.store.Contains(spec) {
			return nil, nil
		}

		ctx, span := r.tracer.Start(ctx, "materialize "+spec.String())
		defer span.End()
		span.SetAttribute("package", spec.String())

		archive, err := r.client.Download(ctx, spec)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		defer func() { _ = archive.Close() }()

		if err := r.store.Materialize(spec, archive); err != nil {
			span.RecordError(err)
			return nil, err
		}
		return nil, nil
	})
	return err
}
