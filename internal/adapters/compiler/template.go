package compiler

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"go.trai.ch/zerr"

	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports"
)

var (
	includePattern = regexp.MustCompile(`\{\{\s*include\s+"([^"]+)"\s*\}\}`)
	inputPattern   = regexp.MustCompile(`\{\{\s*inputs\.([A-Za-z0-9_.-]+)\s*\}\}`)
)

// Template is a minimal document engine that exercises the resolution
// boundary end to end. It expands include directives through the resolver
// it was given and substitutes per-call inputs, memoizing expanded documents
// by content fingerprint until EvictMemoization is called.
type Template struct {
	resolver ports.FileResolver

	mu   sync.Mutex
	memo map[uint64]string
}

func NewTemplate(resolver ports.FileResolver) *Template {
	return &Template{
		resolver: resolver,
		memo:     make(map[uint64]string),
	}
}

func (c *Template) Compile(ctx context.Context, main domain.FileID, inputs map[string]string) ([]byte, error) {
	out, err := c.expand(ctx, main, inputs, nil)
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// EvictMemoization drops every memoized expansion. Expansions bake in the
// inputs of the call that produced them, so a reused engine must evict
// between compiles or it serves the previous call's values.
func (c *Template) EvictMemoization() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memo = make(map[uint64]string)
}

func (c *Template) expand(ctx context.Context, id domain.FileID, inputs map[string]string, stack []domain.FileID) (string, error) {
	for _, ancestor := range stack {
		if ancestor == id {
			return "", zerr.With(domain.ErrCompileFailed, "include_cycle", id.String())
		}
	}

	resolved, err := c.resolver.Resolve(ctx, id, domain.KindSource)
	if err != nil {
		return "", err
	}

	fingerprint := resolved.Fingerprint()
	if cached, ok := c.lookup(fingerprint); ok {
		return cached, nil
	}

	text, err := c.expandIncludes(ctx, id, resolved.Source(), inputs, append(stack, id))
	if err != nil {
		return "", err
	}
	text, err = substituteInputs(text, inputs)
	if err != nil {
		return "", zerr.With(err, "file", id.String())
	}

	c.store(fingerprint, text)
	return text, nil
}

func (c *Template) expandIncludes(ctx context.Context, id domain.FileID, text string, inputs map[string]string, stack []domain.FileID) (string, error) {
	matches := includePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		target := includeID(id, text[m[2]:m[3]])
		expanded, err := c.expand(ctx, target, inputs, stack)
		if err != nil {
			return "", zerr.With(err, "included_from", id.String())
		}
		out.WriteString(text[last:m[0]])
		out.WriteString(expanded)
		last = m[1]
	}
	out.WriteString(text[last:])
	return out.String(), nil
}

// includeID keeps includes inside the namespace of the including file, so a
// package document cannot pull the host project's files.
func includeID(from domain.FileID, p string) domain.FileID {
	if spec, ok := from.Package(); ok {
		return domain.NewPackageFileID(spec, p)
	}
	return domain.NewFileID(p)
}

func substituteInputs(text string, inputs map[string]string) (string, error) {
	var missing string
	out := inputPattern.ReplaceAllStringFunc(text, func(directive string) string {
		key := inputPattern.FindStringSubmatch(directive)[1]
		value, ok := inputs[key]
		if !ok {
			if missing == "" {
				missing = key
			}
			return directive
		}
		return value
	})
	if missing != "" {
		return "", zerr.With(domain.ErrCompileFailed, "missing_input", missing)
	}
	return out, nil
}

func (c *Template) lookup(fingerprint uint64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.memo[fingerprint]
	return text, ok
}

func (c *Template) store(fingerprint uint64, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.memo[fingerprint] = text
}
