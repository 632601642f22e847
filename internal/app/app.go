// Package app implements the application layer for vellum.
package app

import (
	"context"

	"go.trai.ch/zerr"

	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	tracer       ports.Tracer
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, log ports.Logger, tracer ports.Tracer) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		tracer:       tracer,
	}
}

// CompileOptions configuration for the Compile method.
type CompileOptions struct {
	// Dir is the directory configuration discovery starts from. Empty means
	// the current directory.
	Dir string
	// Main overrides the configured main document path.
	Main string
	// Inputs override configured input defaults key by key.
	Inputs map[string]string
}

// Compile loads the project configuration, assembles the resolver chain and
// runs one compilation of the main document.
func (a *App) Compile(ctx context.Context, opts CompileOptions) ([]byte, error) {
	settings, err := a.configLoader.Load(loadDir(opts.Dir))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	mainPath := opts.Main
	if mainPath == "" {
		mainPath = settings.Main
	}
	if mainPath == "" {
		return nil, domain.ErrNoMainFile
	}

	session, err := buildSession(settings, domain.NewFileID(mainPath), a.logger, a.tracer)
	if err != nil {
		return nil, err
	}

	return session.Compile(ctx, mergeInputs(settings.Inputs, opts.Inputs))
}

// Fetch materializes a registry package into the local package cache ahead
// of any compile that needs it.
func (a *App) Fetch(ctx context.Context, dir, ref string) error {
	settings, err := a.configLoader.Load(loadDir(dir))
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	spec, err := domain.ParsePackageSpec(ref)
	if err != nil {
		return err
	}

	resolver, err := buildRegistryResolver(settings, a.logger, a.tracer)
	if err != nil {
		return err
	}

	if err := resolver.Materialize(ctx, spec); err != nil {
		return zerr.With(err, "package", spec.String())
	}

	a.logger.Info("fetched " + spec.String())
	return nil
}

func loadDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

// mergeInputs overlays per-call inputs on the configured defaults.
func mergeInputs(defaults, overrides map[string]string) map[string]string {
	if len(defaults) == 0 {
		return overrides
	}
	merged := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
