package domain

import "time"

// Preload is a file injected ahead of the filesystem, either as inline text
// or as the content of a host file read at startup.
type Preload struct {
	Path string
	Text string
	File string
}

// Settings is the loaded project configuration with defaults applied.
type Settings struct {
	// Root is the sandbox directory project files resolve under.
	Root string
	// Main is the path of the main document, relative to Root.
	Main string

	// LocalPackageRoot overrides the OS data dir for manually installed
	// packages. Empty means the platform default.
	LocalPackageRoot string
	// CacheDir overrides the OS cache dir for downloaded packages. Empty
	// means the platform default.
	CacheDir string

	RegistryURL string
	RetryCount  int
	RetryDelay  time.Duration

	MemoryCache      bool
	EvictMemoization bool

	Inputs   map[string]string
	Preloads []Preload
}

// DefaultSettings returns the configuration used when no config file exists.
func DefaultSettings(root string) Settings {
	return Settings{
		Root:             root,
		MemoryCache:      true,
		EvictMemoization: true,
	}
}
