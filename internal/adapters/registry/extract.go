package registry

import (
	"archive/tar"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxEntryBytes is the upper bound on a single extracted file (256 MB).
// Prevents decompression bombs in package archives.
const maxEntryBytes = 256 << 20

// extractArchive decompresses a gzipped tar stream into dest, preserving the
// archive's internal relative paths. Entries with absolute paths or paths
// traversing outside dest are rejected with ErrForbidden; a corrupt stream
// yields ErrMalformedArchive. Non-regular entries other than directories are
// skipped.
func extractArchive(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return zerr.With(domain.ErrMalformedArchive, "cause", err.Error())
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.With(domain.ErrMalformedArchive, "cause", err.Error())
		}

		target, err := entryPath(dest, header.Name)
		if err != nil {
			return err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, domain.DirPerm); err != nil {
				return zerr.Wrap(err, "failed to create package directory")
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, header.Size); err != nil {
				return err
			}
		default:
			// Symlinks and special files have no place in a package
			// archive; ignore them rather than follow them out of dest.
		}
	}
}

// entryPath validates an archive member name and maps it below dest.
func entryPath(dest, name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(name, "/") {
		return "", zerr.With(domain.ErrForbidden, "entry", name)
	}
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || filepath.IsAbs(cleaned) {
		return "", zerr.With(domain.ErrForbidden, "entry", name)
	}
	return filepath.Join(dest, cleaned), nil
}

func writeEntry(target string, r io.Reader, size int64) error {
	if size > maxEntryBytes {
		return zerr.With(domain.ErrMalformedArchive, "entry_size", size)
	}
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create package directory")
	}

	//nolint:gosec // Target is validated against dest by entryPath.
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, domain.FilePerm)
	if err != nil {
		return zerr.Wrap(err, "failed to create package file")
	}

	_, err = io.Copy(f, io.LimitReader(r, maxEntryBytes))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return zerr.With(domain.ErrMalformedArchive, "cause", err.Error())
	}
	return nil
}
