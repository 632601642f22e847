// Package domain contains the core types for virtual file resolution.
package domain

import (
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// Version is an exact semantic version. No range or partial matching is
// supported; resolution always targets exactly one version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String returns the dotted form, e.g. "1.2.3".
func (v Version) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
}

// ParseVersion parses a dotted "major.minor.patch" string.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, zerr.With(ErrInvalidVersion, "version", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, zerr.With(ErrInvalidVersion, "version", s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// PackageSpec identifies a remote or locally installed package by namespace,
// name and exact version. Two specs are equal iff all three fields match.
type PackageSpec struct {
	Namespace string
	Name      string
	Version   Version
}

// String returns the canonical "namespace/name@version" form.
func (s PackageSpec) String() string {
	return s.Namespace + "/" + s.Name + "@" + s.Version.String()
}

// Subdir returns the OS path fragment "<namespace>/<name>/<version>" used by
// both the local package convention and the extracted package cache.
func (s PackageSpec) Subdir() string {
	return filepath.Join(s.Namespace, s.Name, s.Version.String())
}

// ParsePackageSpec parses the canonical "namespace/name@version" form.
func ParsePackageSpec(s string) (PackageSpec, error) {
	slash := strings.Index(s, "/")
	at := strings.LastIndex(s, "@")
	if slash <= 0 || at <= slash+1 || at == len(s)-1 {
		return PackageSpec{}, zerr.With(ErrInvalidPackageSpec, "spec", s)
	}
	version, err := ParseVersion(s[at+1:])
	if err != nil {
		return PackageSpec{}, err
	}
	return PackageSpec{
		Namespace: s[:slash],
		Name:      s[slash+1 : at],
		Version:   version,
	}, nil
}

// VirtualPath is a slash-separated rooted path inside a virtual file tree.
// Construct it with NewVirtualPath so the path is normalized; a VirtualPath
// built from a raw string is still checked for traversal at resolve time.
type VirtualPath string

// NewVirtualPath normalizes p into a rooted virtual path. Backslashes are
// unified to slashes and the path is lexically cleaned. A path whose ".."
// segments escape the root is preserved in its escaping form so resolution
// rejects it with ErrForbidden instead of silently serving a different file.
func NewVirtualPath(p string) VirtualPath {
	p = strings.ReplaceAll(p, "\\", "/")
	rel := path.Clean(strings.TrimPrefix(p, "/"))
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return VirtualPath(rel)
	}
	return VirtualPath(path.Clean("/" + rel))
}

// String returns the rooted slash form.
func (v VirtualPath) String() string {
	return string(v)
}

// Resolve joins the virtual path onto the given root directory and verifies
// the result stays inside it. Escaping the root yields ErrForbidden.
func (v VirtualPath) Resolve(root string) (string, error) {
	candidate := filepath.Join(root, filepath.FromSlash(string(v)))
	rel, err := filepath.Rel(root, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		forbidden := zerr.With(ErrForbidden, "path", string(v))
		return "", zerr.With(forbidden, "root", root)
	}
	return candidate, nil
}

// FileID uniquely names a virtual file, optionally qualified by a package.
// It is an immutable comparable value and is the cache and lookup key
// everywhere: two ids are equal iff both the package spec and path are equal.
type FileID struct {
	pkg    PackageSpec
	hasPkg bool
	path   VirtualPath
}

// NewFileID creates an identity for a non-package file.
func NewFileID(p string) FileID {
	return FileID{path: NewVirtualPath(p)}
}

// NewPackageFileID creates an identity for a file inside a package.
func NewPackageFileID(spec PackageSpec, p string) FileID {
	return FileID{pkg: spec, hasPkg: true, path: NewVirtualPath(p)}
}

// Package returns the package spec and whether the id is package-qualified.
func (id FileID) Package() (PackageSpec, bool) {
	return id.pkg, id.hasPkg
}

// Path returns the virtual path of the file.
func (id FileID) Path() VirtualPath {
	return id.path
}

// String renders the id for diagnostics, e.g. "preview/charts@0.2.1:/lib.vel".
func (id FileID) String() string {
	if id.hasPkg {
		return fmt.Sprintf("%s:%s", id.pkg, id.path)
	}
	return string(id.path)
}
