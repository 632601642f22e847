package domain

import "go.trai.ch/zerr"

var (
	// ErrFileNotFound is returned when a resolver has no answer for an
	// identity. The chain swallows it and falls through to the next member.
	ErrFileNotFound = zerr.New("file not found")

	// ErrForbidden is returned when a path escapes its sandbox root or an
	// archive attempts unsafe extraction. Never retried.
	ErrForbidden = zerr.New("path escapes sandbox root")

	// ErrNetworkFailed is returned when the registry request exhausted its
	// retries or failed in a non-retryable way.
	ErrNetworkFailed = zerr.New("registry request failed")

	// ErrMalformedArchive is returned when a downloaded package archive is
	// corrupt or has the wrong format.
	ErrMalformedArchive = zerr.New("malformed package archive")

	// ErrIO is returned for local filesystem failures other than a missing
	// file.
	ErrIO = zerr.New("file system operation failed")

	// ErrInvalidUTF8 is returned when a file requested as source is not
	// valid UTF-8.
	ErrInvalidUTF8 = zerr.New("source file is not valid utf-8")

	// ErrUnknownFileKind is returned when a lookup carries an unrecognized
	// file kind.
	ErrUnknownFileKind = zerr.New("unknown file kind")

	// ErrInvalidVersion is returned when a version string is not an exact
	// "major.minor.patch" triple.
	ErrInvalidVersion = zerr.New("invalid version, expected format: major.minor.patch")

	// ErrInvalidPackageSpec is returned when a package spec string is not of
	// the form "namespace/name@version".
	ErrInvalidPackageSpec = zerr.New("invalid package spec, expected format: namespace/name@version")

	// ErrRegistryStatus is returned when the registry answers with a
	// non-retryable unsuccessful status code.
	ErrRegistryStatus = zerr.New("registry returned unsuccessful status")

	// ErrNoUserDir is returned when the OS reports no user cache or config
	// directory and no override is configured.
	ErrNoUserDir = zerr.New("no user directory available, configure an explicit path")

	// ErrCacheDirCreateFailed is returned when the package cache directory
	// cannot be created.
	ErrCacheDirCreateFailed = zerr.New("failed to create package cache directory")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrNoMainFile is returned when a compile is requested without a main
	// file configured or given.
	ErrNoMainFile = zerr.New("no main file specified")

	// ErrCompileFailed is returned when the compiler reports a failure for
	// an otherwise resolvable document.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrInvalidInput is returned when a user-supplied input value is not of
	// the form "key=value".
	ErrInvalidInput = zerr.New("invalid input, expected format: key=value")
)
