// Package fsres implements a FileResolver reading from a sandboxed directory tree.
package fsres

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileResolver = (*Resolver)(nil)

// Resolver maps identities to paths under a sandbox root. Package-qualified
// identities are looked up under a local package root instead, following the
// <root>/<namespace>/<name>/<version>/... convention so manually installed
// packages are interchangeable with downloaded ones.
//
// Every call performs raw I/O; wrap the resolver in a cache decorator when it
// is consulted across many lookups.
type Resolver struct {
	root     string
	localPkg string
}

// Option configures a Resolver during construction.
type Option func(*Resolver)

// WithLocalPackageRoot overrides the directory searched for package-qualified
// identities.
func WithLocalPackageRoot(dir string) Option {
	return func(r *Resolver) {
		r.localPkg = dir
	}
}

// NewResolver creates a Resolver sandboxed to the given root directory.
// Without WithLocalPackageRoot, package lookups use the OS default local
// package directory.
func NewResolver(root string, opts ...Option) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to get absolute path of sandbox root"), "root", root)
	}
	r := &Resolver{root: abs}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve reads the file addressed by id from disk. A path that normalizes
// outside its root yields ErrForbidden; a missing file yields ErrFileNotFound
// so a chain can fall through; any other failure wraps ErrIO.
func (r *Resolver) Resolve(_ context.Context, id domain.FileID, kind domain.FileKind) (domain.Resolved, error) {
	dir, err := r.baseDir(id)
	if err != nil {
		return domain.Resolved{}, err
	}

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

func (r *Resolver) baseDir(id domain.FileID) (string, error) {
	pkg, ok := id.Package()
	if !ok {
		return r.root, nil
	}
	base := r.localPkg
	if base == "" {
		var err error
		base, err = domain.DefaultLocalPackageRoot()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(base, pkg.Subdir()), nil
}
