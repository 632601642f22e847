// Package config provides the configuration loader for vellum.
package config

import (
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load walks up from cwd looking for vellum.yaml. Without one, defaults
// rooted at cwd apply.
func (l *Loader) Load(cwd string) (domain.Settings, error) {
	configPath, found := findConfiguration(cwd)
	if !found {
		return domain.DefaultSettings(cwd), nil
	}

	var file Vellumfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return domain.Settings{}, err
	}

	return l.buildSettings(configPath, file)
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) buildSettings(configPath string, file Vellumfile) (domain.Settings, error) {
	configDir := filepath.Dir(configPath)
	settings := domain.DefaultSettings(resolveDir(configDir, file.Root))

	settings.Main = file.Main
	settings.LocalPackageRoot = resolveOptionalDir(configDir, file.LocalPackageRoot)
	settings.CacheDir = resolveOptionalDir(configDir, file.CacheDir)
	settings.RegistryURL = file.Registry.URL
	settings.RetryCount = file.Registry.RetryCount
	settings.Inputs = file.Inputs

	if file.Registry.RetryDelay != "" {
		delay, err := time.ParseDuration(file.Registry.RetryDelay)
		if err != nil {
			parseErr := zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
			return domain.Settings{}, zerr.With(parseErr, "field", "registry.retryDelay")
		}
		settings.RetryDelay = delay
	}

	if file.MemoryCache != nil {
		settings.MemoryCache = *file.MemoryCache
	}
	if file.EvictMemoization != nil {
		settings.EvictMemoization = *file.EvictMemoization
		if !settings.EvictMemoization {
			l.Logger.Warn("memoization eviction disabled; compiles reuse results from earlier inputs")
		}
	}

	for _, dto := range file.Preload {
		if dto.Path == "" {
			return domain.Settings{}, zerr.With(domain.ErrConfigParseFailed, "field", "preload.path")
		}
		if dto.Text != "" && dto.File != "" {
			err := zerr.With(domain.ErrConfigParseFailed, "field", "preload")
			return domain.Settings{}, zerr.With(err, "path", dto.Path)
		}
		settings.Preloads = append(settings.Preloads, domain.Preload{
			Path: dto.Path,
			Text: dto.Text,
			File: resolveOptionalDir(configDir, dto.File),
		})
	}

	return settings, nil
}

func resolveDir(configDir, configured string) string {
	if configured == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(configDir, configured))
}

func resolveOptionalDir(configDir, configured string) string {
	if configured == "" {
		return ""
	}
	return resolveDir(configDir, configured)
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by walking up from cwd
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
