package registry_test

import (
	"archive/tar"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vellum/internal/adapters/registry"
	"go.trai.ch/vellum/internal/core/domain"
)

type testLogger struct{}

func (testLogger) Info(string) {}
func (testLogger) Warn(string) {}
func (testLogger) Error(error) {}

var chartsSpec = domain.PackageSpec{
	Namespace: "preview",
	Name:      "charts",
	Version:   domain.Version{Minor: 2, Patch: 1},
}

// archiveEntry describes one member of a crafted test archive.
type archiveEntry struct {
	name string
	body string
}

func buildArchive(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     e.name,
			Typeflag: tar.TypeReg,
			Mode:     0o644,
			Size:     int64(len(e.body)),
		}))
		_, err := tw.Write([]byte(e.body))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// sequenceServer answers with the scripted status codes in order, serving
// body on a 200. It counts the requests it saw.
func sequenceServer(t *testing.T, statuses []int, body []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(calls.Add(1)) - 1
		status := statuses[len(statuses)-1]
		if n < len(statuses) {
			status = statuses[n]
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func newClient(server *httptest.Server, attempts int) *registry.Client {
	return registry.NewClient(testLogger{},
		registry.WithBaseURL(server.URL),
		registry.WithRetry(attempts, time.Millisecond),
	)
}

func TestClient_URL(t *testing.T) {
	client := registry.NewClient(testLogger{}, registry.WithBaseURL("https://example.com"))
	assert.Equal(t, "https://example.com/preview/charts-0.2.1.tar.gz", client.URL(chartsSpec))
}

func TestClient_Download_TransientThenSuccess(t *testing.T) {
	body := buildArchive(t, []archiveEntry{{name: "lib.vel", body: "lib"}})
	server, calls := sequenceServer(t, []int{http.StatusBadGateway, http.StatusOK}, body)

	client := newClient(server, 3)

	reader, err := client.Download(context.Background(), chartsSpec)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, body, got)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Download_ExhaustsRetries(t *testing.T) {
	server, calls := sequenceServer(t, []int{
		http.StatusInternalServerError,
		http.StatusInternalServerError,
		http.StatusInternalServerError,
		http.StatusInternalServerError,
	}, nil)

	client := newClient(server, 3)

	_, err := client.Download(context.Background(), chartsSpec)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetworkFailed)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Download_NotFoundNoRetry(t *testing.T) {
	server, calls := sequenceServer(t, []int{http.StatusNotFound}, nil)

	client := newClient(server, 3)

	_, err := client.Download(context.Background(), chartsSpec)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Download_ClientErrorNoRetry(t *testing.T) {
	server, calls := sequenceServer(t, []int{http.StatusForbidden}, nil)

	client := newClient(server, 3)

	_, err := client.Download(context.Background(), chartsSpec)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRegistryStatus)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Download_ConnectionErrorRetried(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // nothing is listening: every attempt is a connection error

	client := newClient(server, 2)

	_, err := client.Download(context.Background(), chartsSpec)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetworkFailed)
	assert.Contains(t, err.Error(), "registry request failed")
}

func TestClient_Download_ContextCanceledDuringWait(t *testing.T) {
	server, _ := sequenceServer(t, []int{http.StatusInternalServerError}, nil)

	client := registry.NewClient(testLogger{},
		registry.WithBaseURL(server.URL),
		registry.WithRetry(3, time.Minute),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Download(ctx, chartsSpec)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
