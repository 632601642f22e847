package app

import (
	"os"
	"unicode/utf8"

	"go.trai.ch/zerr"

	"go.trai.ch/vellum/internal/adapters/cache"
	"go.trai.ch/vellum/internal/adapters/compiler"
	"go.trai.ch/vellum/internal/adapters/fsres"
	"go.trai.ch/vellum/internal/adapters/registry"
	"go.trai.ch/vellum/internal/adapters/static"
	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports"
	"go.trai.ch/vellum/internal/engine"
)

// buildSession assembles the resolver chain and compile session from the
// loaded settings. Resolution order: preloads, project files, registry
// packages.
func buildSession(settings domain.Settings, mainID domain.FileID, log ports.Logger, tracer ports.Tracer) (*engine.Session, error) {
	chain, err := buildChain(settings, log, tracer)
	if err != nil {
		return nil, err
	}

	var opts []engine.SessionOption
	if !settings.EvictMemoization {
		opts = append(opts, engine.WithoutEviction())
	}

	return engine.NewSession(chain, compiler.NewTemplate(chain), mainID, opts...), nil
}

func buildChain(settings domain.Settings, log ports.Logger, tracer ports.Tracer) (*engine.Chain, error) {
	preloads, err := buildPreloads(settings.Preloads)
	if err != nil {
		return nil, err
	}

	var fsOpts []fsres.Option
	if settings.LocalPackageRoot != "" {
		fsOpts = append(fsOpts, fsres.WithLocalPackageRoot(settings.LocalPackageRoot))
	}
	files, err := fsres.NewResolver(settings.Root, fsOpts...)
	if err != nil {
		return nil, err
	}

	packages, err := buildRegistryResolver(settings, log, tracer)
	if err != nil {
		return nil, err
	}

	if settings.MemoryCache {
		return engine.NewChain(tracer, preloads, cache.NewMemory(files), cache.NewMemory(packages)), nil
	}
	return engine.NewChain(tracer, preloads, files, packages), nil
}

func buildRegistryResolver(settings domain.Settings, log ports.Logger, tracer ports.Tracer) (*registry.Resolver, error) {
	var clientOpts []registry.ClientOption
	if settings.RegistryURL != "" {
		clientOpts = append(clientOpts, registry.WithBaseURL(settings.RegistryURL))
	}
	if settings.RetryCount > 0 || settings.RetryDelay > 0 {
		attempts := settings.RetryCount
		if attempts <= 0 {
			attempts = registry.DefaultRetryCount
		}
		delay := settings.RetryDelay
		if delay <= 0 {
			delay = registry.DefaultRetryDelay
		}
		clientOpts = append(clientOpts, registry.WithRetry(attempts, delay))
	}

	store, err := registry.NewDiskStore(settings.CacheDir)
	if err != nil {
		return nil, err
	}

	return registry.NewResolver(registry.NewClient(log, clientOpts...), store, tracer), nil
}

// buildPreloads turns configured preloads into the static resolver at the
// front of the chain. File-backed preloads are read once at startup;
// whether an entry answers source or binary lookups follows its content.
func buildPreloads(preloads []domain.Preload) (*static.Resolver, error) {
	b := static.NewBuilder()
	for _, p := range preloads {
		id := domain.NewFileID(p.Path)
		if p.File == "" {
			b.AddSource(id, p.Text)
			continue
		}

		data, err := os.ReadFile(p.File)
		if err != nil {
			ioErr := zerr.With(domain.ErrIO, "preload", p.File)
			return nil, zerr.With(ioErr, "cause", err.Error())
		}
		b.AddBinary(id, data)
		if utf8.Valid(data) {
			b.AddSource(id, string(data))
		}
	}
	return b.Build(), nil
}
