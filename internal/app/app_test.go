package app_test

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vellum/internal/adapters/telemetry"
	"go.trai.ch/vellum/internal/app"
	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newApp(t *testing.T, settings domain.Settings) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(gomock.Any()).Return(settings, nil).AnyTimes()

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	return app.New(loader, log, telemetry.NewNoop())
}

func TestApp_Compile_ProjectFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.vel"), []byte("Title: {{inputs.title}}"), domain.FilePerm))

	settings := domain.DefaultSettings(root)
	settings.Main = "main.vel"
	settings.CacheDir = t.TempDir()
	settings.Inputs = map[string]string{"title": "draft"}

	a := newApp(t, settings)

	// Configured input defaults apply.
	out, err := a.Compile(context.Background(), app.CompileOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Title: draft", string(out))

	// Per-call inputs override the defaults.
	out, err = a.Compile(context.Background(), app.CompileOptions{
		Inputs: map[string]string{"title": "final"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Title: final", string(out))
}

func TestApp_Compile_PreloadShadowsDisk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.vel"), []byte("from disk"), domain.FilePerm))

	settings := domain.DefaultSettings(root)
	settings.Main = "main.vel"
	settings.CacheDir = t.TempDir()
	settings.Preloads = []domain.Preload{
		{Path: "/main.vel", Text: "from preload"},
	}

	out, err := newApp(t, settings).Compile(context.Background(), app.CompileOptions{})
	require.NoError(t, err)
	assert.Equal(t, "from preload", string(out))
}

func TestApp_Compile_FilePreload(t *testing.T) {
	root := t.TempDir()
	source := filepath.Join(t.TempDir(), "generated.vel")
	require.NoError(t, os.WriteFile(source, []byte("generated content"), domain.FilePerm))

	settings := domain.DefaultSettings(root)
	settings.Main = "main.vel"
	settings.CacheDir = t.TempDir()
	settings.Preloads = []domain.Preload{
		{Path: "/main.vel", File: source},
	}

	out, err := newApp(t, settings).Compile(context.Background(), app.CompileOptions{})
	require.NoError(t, err)
	assert.Equal(t, "generated content", string(out))
}

func TestApp_Compile_NoMainFile(t *testing.T) {
	settings := domain.DefaultSettings(t.TempDir())
	settings.CacheDir = t.TempDir()

	_, err := newApp(t, settings).Compile(context.Background(), app.CompileOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoMainFile)
}

func TestApp_Compile_MainOverride(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "other.vel"), []byte("other"), domain.FilePerm))

	settings := domain.DefaultSettings(root)
	settings.Main = "main.vel"
	settings.CacheDir = t.TempDir()

	out, err := newApp(t, settings).Compile(context.Background(), app.CompileOptions{Main: "other.vel"})
	require.NoError(t, err)
	assert.Equal(t, "other", string(out))
}

func TestApp_Fetch(t *testing.T) {
	archive := packageArchive(t, map[string]string{"lib.vel": "library"})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	t.Cleanup(server.Close)

	cacheDir := t.TempDir()
	settings := domain.DefaultSettings(t.TempDir())
	settings.RegistryURL = server.URL
	settings.CacheDir = cacheDir

	a := newApp(t, settings)
	require.NoError(t, a.Fetch(context.Background(), "", "preview/charts@0.2.1"))

	assert.FileExists(t, filepath.Join(cacheDir, "preview", "charts", "0.2.1", "lib.vel"))
}

func TestApp_Fetch_BadReference(t *testing.T) {
	settings := domain.DefaultSettings(t.TempDir())
	settings.CacheDir = t.TempDir()

	err := newApp(t, settings).Fetch(context.Background(), "", "not-a-package-ref")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidPackageSpec)
}

func packageArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, body := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(body)),
		}))
		_, err := tw.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}
