package fsres_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vellum/internal/adapters/fsres"
	"go.trai.ch/vellum/internal/core/domain"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestResolver_Resolve_Source(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.vel", "B")

	resolver, err := fsres.NewResolver(root)
	require.NoError(t, err)

	resolved, err := resolver.Resolve(context.Background(), domain.NewFileID("/b.vel"), domain.KindSource)
	require.NoError(t, err)
	assert.Equal(t, "B", resolved.Source())
}

func TestResolver_Resolve_Binary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "images/logo.png", "\x89PNG")

	resolver, err := fsres.NewResolver(root)
	require.NoError(t, err)

	resolved, err := resolver.Resolve(context.Background(), domain.NewFileID("/images/logo.png"), domain.KindBinary)
	require.NoError(t, err)
	assert.Equal(t, domain.KindBinary, resolved.Kind())
	assert.Equal(t, []byte("\x89PNG"), resolved.Bytes())
}

func TestResolver_Resolve_NotFound(t *testing.T) {
	resolver, err := fsres.NewResolver(t.TempDir())
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), domain.NewFileID("/missing.vel"), domain.KindSource)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestResolver_Resolve_TraversalForbidden(t *testing.T) {
	root := t.TempDir()

	// A secret outside the sandbox root must stay unreachable.
	outside := filepath.Dir(root)
	writeFile(t, outside, "secret.txt", "secret")

	resolver, err := fsres.NewResolver(root)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), domain.NewFileID("../secret.txt"), domain.KindSource)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = resolver.Resolve(context.Background(), domain.NewFileID("/../../etc/passwd"), domain.KindSource)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestResolver_Resolve_LocalPackageRoot(t *testing.T) {
	root := t.TempDir()
	pkgRoot := t.TempDir()

	spec := domain.PackageSpec{Namespace: "preview", Name: "charts", Version: domain.Version{Minor: 1}}
	writeFile(t, filepath.Join(pkgRoot, "preview", "charts", "0.1.0"), "lib.vel", "lib content")

	resolver, err := fsres.NewResolver(root, fsres.WithLocalPackageRoot(pkgRoot))
	require.NoError(t, err)

	resolved, err := resolver.Resolve(context.Background(), domain.NewPackageFileID(spec, "/lib.vel"), domain.KindSource)
	require.NoError(t, err)
	assert.Equal(t, "lib content", resolved.Source())

	// An uninstalled version falls through as not found.
	other := spec
	other.Version.Patch = 5
	_, err = resolver.Resolve(context.Background(), domain.NewPackageFileID(other, "/lib.vel"), domain.KindSource)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestResolver_Resolve_InvalidUTF8Source(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.vel"), []byte{0xff, 0xfe}, 0o600))

	resolver, err := fsres.NewResolver(root)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), domain.NewFileID("/bad.vel"), domain.KindSource)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidUTF8)

	// The same bytes are fine when requested as binary.
	resolved, err := resolver.Resolve(context.Background(), domain.NewFileID("/bad.vel"), domain.KindBinary)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xfe}, resolved.Bytes())
}
