package logger_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vellum/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func newBufferLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	l, ok := logger.New().(*logger.Logger)
	require.True(t, ok)
	var buf bytes.Buffer
	l.SetOutput(&buf)
	return l, &buf
}

func TestLogger_InfoAndWarn(t *testing.T) {
	l, buf := newBufferLogger(t)

	l.Info("resolved main document")
	l.Warn("registry slow")

	out := buf.String()
	assert.Contains(t, out, "resolved main document")
	assert.Contains(t, out, "registry slow")
}

func TestLogger_Error_NilIsSilent(t *testing.T) {
	l, buf := newBufferLogger(t)

	l.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_Error_FormatsCauseChain(t *testing.T) {
	l, buf := newBufferLogger(t)

	base := errors.New("connection refused")
	err := zerr.Wrap(base, "download failed")
	err = zerr.Wrap(err, "package materialization failed")

	l.Error(err)

	out := buf.String()
	assert.Contains(t, out, "Error: package materialization failed")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "download failed")
	assert.Contains(t, out, "connection refused")

	// The top message comes before its causes.
	assert.Less(t,
		strings.Index(out, "package materialization failed"),
		strings.Index(out, "connection refused"),
	)
}

func TestLogger_Error_PlainError(t *testing.T) {
	l, buf := newBufferLogger(t)

	l.Error(errors.New("something broke"))

	assert.Contains(t, buf.String(), "Error: something broke")
}

func TestLogger_JSONMode(t *testing.T) {
	l, buf := newBufferLogger(t)
	l.SetJSON(true)

	l.Info("hello")
	l.Error(errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Contains(t, out, `"error":"boom"`)
}
