package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vellum/internal/core/domain"
)

func TestDecode_Source(t *testing.T) {
	r, err := domain.Decode(domain.KindSource, []byte("\uFEFFhello"))
	require.NoError(t, err)
	assert.Equal(t, domain.KindSource, r.Kind())
	assert.Equal(t, "hello", r.Source())
	assert.Equal(t, []byte("hello"), r.Bytes())
}

func TestDecode_Source_InvalidUTF8(t *testing.T) {
	_, err := domain.Decode(domain.KindSource, []byte{0xff, 0xfe, 0xfd})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidUTF8)
}

func TestDecode_Binary(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	r, err := domain.Decode(domain.KindBinary, raw)
	require.NoError(t, err)
	assert.Equal(t, domain.KindBinary, r.Kind())
	assert.Equal(t, raw, r.Bytes())

	// Construction copies: mutating the input must not leak into the value.
	raw[0] = 0x00
	assert.Equal(t, byte(0x89), r.Bytes()[0])
}

func TestResolved_Fingerprint_Stable(t *testing.T) {
	a := domain.NewSource("content")
	b, err := domain.Decode(domain.KindSource, []byte("content"))
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), domain.NewSource("other").Fingerprint())

	// Same bytes, different kind: content digest is kind-independent.
	assert.Equal(t, a.Fingerprint(), domain.NewBinary([]byte("content")).Fingerprint())
}
