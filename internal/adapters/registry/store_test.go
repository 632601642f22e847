package registry_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vellum/internal/adapters/registry"
	"go.trai.ch/vellum/internal/core/domain"
)

func TestDiskStore_Materialize(t *testing.T) {
	root := t.TempDir()
	store, err := registry.NewDiskStore(root)
	require.NoError(t, err)

	archive := buildArchive(t, []archiveEntry{
		{name: "lib.vel", body: "lib content"},
		{name: "assets/logo.png", body: "\x89PNG"},
	})

	require.False(t, store.Contains(chartsSpec))
	require.NoError(t, store.Materialize(chartsSpec, bytes.NewReader(archive)))
	assert.True(t, store.Contains(chartsSpec))

	got, err := os.ReadFile(filepath.Join(store.Dir(chartsSpec), "lib.vel"))
	require.NoError(t, err)
	assert.Equal(t, "lib content", string(got))

	got, err = os.ReadFile(filepath.Join(store.Dir(chartsSpec), "assets", "logo.png"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(got))
}

func TestDiskStore_Materialize_AbsolutePathRejected(t *testing.T) {
	root := t.TempDir()
	store, err := registry.NewDiskStore(root)
	require.NoError(t, err)

	archive := buildArchive(t, []archiveEntry{
		{name: "lib.vel", body: "ok"},
		{name: "/etc/evil", body: "evil"},
	})

	err = store.Materialize(chartsSpec, bytes.NewReader(archive))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// All or nothing: the package directory must not exist, not even with
	// the valid entries that preceded the unsafe one.
	assert.False(t, store.Contains(chartsSpec))
	assert.NoDirExists(t, store.Dir(chartsSpec))
}

func TestDiskStore_Materialize_TraversalRejected(t *testing.T) {
	root := t.TempDir()
	store, err := registry.NewDiskStore(root)
	require.NoError(t, err)

	archive := buildArchive(t, []archiveEntry{
		{name: "../../outside.txt", body: "evil"},
	})

	err = store.Materialize(chartsSpec, bytes.NewReader(archive))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.False(t, store.Contains(chartsSpec))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(root), "outside.txt"))
}

func TestDiskStore_Materialize_CorruptArchive(t *testing.T) {
	root := t.TempDir()
	store, err := registry.NewDiskStore(root)
	require.NoError(t, err)

	err = store.Materialize(chartsSpec, bytes.NewReader([]byte("not a gzip stream")))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedArchive)
	assert.False(t, store.Contains(chartsSpec))
}

func TestDiskStore_Materialize_LeavesNoTempDirs(t *testing.T) {
	root := t.TempDir()
	store, err := registry.NewDiskStore(root)
	require.NoError(t, err)

	archive := buildArchive(t, []archiveEntry{{name: "/abs", body: "evil"}})
	require.Error(t, store.Materialize(chartsSpec, bytes.NewReader(archive)))

	entries, err := os.ReadDir(filepath.Join(root, chartsSpec.Namespace, chartsSpec.Name))
	if err == nil {
		assert.Empty(t, entries)
	}
}
