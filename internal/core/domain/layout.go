package domain

import (
	"os"
	"path/filepath"
)

const (
	// PackagesSubdir is the well-known packages directory fragment under the
	// OS data and cache directories.
	PackagesSubdir = "vellum/packages"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "vellum.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultLocalPackageRoot returns the default directory for manually
// installed packages, laid out as <root>/<namespace>/<name>/<version>/...
func DefaultLocalPackageRoot() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", ErrNoUserDir
	}
	return filepath.Join(base, filepath.FromSlash(PackagesSubdir)), nil
}

// DefaultPackageCacheRoot returns the default directory for packages
// downloaded and extracted from the registry.
func DefaultPackageCacheRoot() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", ErrNoUserDir
	}
	return filepath.Join(base, filepath.FromSlash(PackagesSubdir)), nil
}
