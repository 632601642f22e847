package registry

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/zerr"
)

// DiskStore holds extracted packages on disk, one directory tree per package
// spec under <root>/<namespace>/<name>/<version>. Presence of that directory
// is the cache: granularity is the whole package, because the archive
// download is the expensive operation, not the per-file reads that follow.
// The store persists across processes and has no expiry.
type DiskStore struct {
	root string
}

// NewDiskStore creates a DiskStore rooted at the given directory. An empty
// root selects the OS cache directory default.
func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		var err error
		root, err = domain.DefaultPackageCacheRoot()
		if err != nil {
			return nil, err
		}
	}
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheDirCreateFailed.Error()), "root", root)
	}
	return &DiskStore{root: root}, nil
}

// Dir returns the directory a package extracts to.
func (s *DiskStore) Dir(spec domain.PackageSpec) string {
	return filepath.Join(s.root, spec.Subdir())
}

// Contains reports whether the package is already materialized.
func (s *DiskStore) Contains(spec domain.PackageSpec) bool {
	info, err := os.Stat(s.Dir(spec))
	return err == nil && info.IsDir()
}

// Materialize extracts the archive stream into the package's directory.
// Extraction happens in a temporary sibling directory that is atomically
// renamed into place, so a concurrent reader never observes a partially
// extracted package and a failed extraction leaves nothing behind.
func (s *DiskStore) Materialize(spec domain.PackageSpec, archive io.Reader) error {
	final := s.Dir(spec)
	if err := os.MkdirAll(filepath.Dir(final), domain.DirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrCacheDirCreateFailed.Error())
	}

	tmp, err := os.MkdirTemp(filepath.Dir(final), "."+spec.Name+"-"+spec.Version.String()+"-*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheDirCreateFailed.Error())
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	if err := extractArchive(archive, tmp); err != nil {
		return zerr.With(err, "package", spec.String())
	}

	if err := os.Rename(tmp, final); err != nil {
		// A concurrent materialization may have published first; its
		// result is as good as ours.
		if s.Contains(spec) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to publish package"), "package", spec.String())
	}
	return nil
}
