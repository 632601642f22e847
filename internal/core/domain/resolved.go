package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// FileKind is the requested flavor of a lookup. It is caller-driven, not
// sniffed from content: identities requesting source decode as text, all
// others as raw bytes.
type FileKind int

const (
	// KindSource requests a file decoded as program text.
	KindSource FileKind = iota
	// KindBinary requests a file as an opaque byte sequence.
	KindBinary
)

// String returns the kind name for diagnostics.
func (k FileKind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Resolved is the result of a successful lookup: either decoded program text
// or an opaque byte sequence. It is immutable once produced; callers must not
// mutate the slice returned by Bytes.
type Resolved struct {
	kind FileKind
	text string
	data []byte
}

// NewSource creates a source-flavored result from already decoded text.
func NewSource(text string) Resolved {
	return Resolved{kind: KindSource, text: text}
}

// NewSourceBytes decodes raw bytes into a source-flavored result. The bytes
// must be valid UTF-8; a leading byte order mark is stripped.
func NewSourceBytes(b []byte) (Resolved, error) {
	if !utf8.Valid(b) {
		return Resolved{}, ErrInvalidUTF8
	}
	text := strings.TrimPrefix(string(b), "\uFEFF")
	return NewSource(text), nil
}

// NewBinary creates a binary-flavored result. The bytes are copied so later
// mutation of b cannot leak into cached values.
func NewBinary(b []byte) Resolved {
	data := make([]byte, len(b))
	copy(data, b)
	return Resolved{kind: KindBinary, data: data}
}

// Decode converts raw bytes into a result of the requested kind.
func Decode(kind FileKind, b []byte) (Resolved, error) {
	switch kind {
	case KindSource:
		return NewSourceBytes(b)
	case KindBinary:
		return NewBinary(b), nil
	default:
		return Resolved{}, zerr.With(ErrUnknownFileKind, "kind", int(kind))
	}
}

// Kind returns the flavor of the result.
func (r Resolved) Kind() FileKind {
	return r.kind
}

// Source returns the decoded text. Only meaningful for KindSource.
func (r Resolved) Source() string {
	return r.text
}

// Bytes returns the raw content for either flavor. The returned slice is
// shared; callers must treat it as read-only.
func (r Resolved) Bytes() []byte {
	if r.kind == KindSource {
		return []byte(r.text)
	}
	return r.data
}

// Fingerprint returns a stable content digest. Identical content always
// yields the identical fingerprint, which keeps compiler-side memoization
// keyed by file content valid across repeated lookups.
func (r Resolved) Fingerprint() uint64 {
	return xxhash.Sum64(r.Bytes())
}
