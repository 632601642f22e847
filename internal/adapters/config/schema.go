package config

// Vellumfile represents the structure of the vellum.yaml configuration file.
type Vellumfile struct {
	Root             string            `yaml:"root"`
	Main             string            `yaml:"main"`
	LocalPackageRoot string            `yaml:"localPackageRoot"`
	CacheDir         string            `yaml:"cacheDir"`
	Registry         RegistryDTO       `yaml:"registry"`
	MemoryCache      *bool             `yaml:"memoryCache"`
	EvictMemoization *bool             `yaml:"evictMemoization"`
	Inputs           map[string]string `yaml:"inputs"`
	Preload          []PreloadDTO      `yaml:"preload"`
}

// RegistryDTO configures the package registry client.
type RegistryDTO struct {
	URL        string `yaml:"url"`
	RetryCount int    `yaml:"retryCount"`
	RetryDelay string `yaml:"retryDelay"`
}

// PreloadDTO injects a file ahead of the filesystem resolver; exactly one of
// text or file carries the content.
type PreloadDTO struct {
	Path string `yaml:"path"`
	Text string `yaml:"text"`
	File string `yaml:"file"`
}
