package main

import (
	"path/filepath"

	"github.com/dotgraph/dotgraph/domain"
	"github.com/dotgraph/dotgraph/internal/config"
)

// rootsFromPaths turns each CLI-supplied directory into a GraphRoot
// named after its own basename, the convention a bare `dotgraph build
// src/` invocation implies: the directory itself is the root package.
func rootsFromPaths(paths []string) []domain.GraphRoot {
	roots := make([]domain.GraphRoot, 0, len(paths))
	for _, p := range paths {
		roots = append(roots, domain.GraphRoot{Name: filepath.Base(p), Directory: p})
	}
	return roots
}

// loadArchitectureConfig resolves dotgraph.toml/pyproject.toml config
// for the first target path and maps it onto the domain-facing
// architecture spec, or returns nil when no layers/containers are
// configured.
func loadArchitectureConfig(configFile string, paths []string) *domain.ArchitectureConfigSpec {
	var target string
	if len(paths) > 0 {
		target = paths[0]
	}
	cfg, err := config.Load(configFile, target)
	if err != nil || cfg == nil {
		return nil
	}
	if len(cfg.Layers) == 0 {
		return nil
	}
	spec := &domain.ArchitectureConfigSpec{Containers: append([]string{}, cfg.Containers...)}
	for _, l := range cfg.Layers {
		spec.Layers = append(spec.Layers, domain.ArchitectureLayer{
			Tails:       append([]string{}, l.Tails...),
			Independent: l.Independent,
			Closed:      l.Closed,
		})
	}
	return spec
}

// applyConfigDefaults applies a loaded config's extraction-affecting
// settings onto a BuildRequest, preferring whatever the CLI flags
// already hold when the caller explicitly set them. changed records,
// per flag name, whether the user passed that flag on this invocation
// (cmd.Flags().Changed); a plain "is it the zero value" check can't
// tell "--include-external=false" apart from "not given at all", which
// is why this goes through internal/config's explicit-set-aware merge
// helpers rather than the zero-value fallbacks mcp/dependencies.go's
// buildRequestForPath uses.
func applyConfigDefaults(req *domain.BuildRequest, cfg *config.Config, changed map[string]bool) {
	if cfg == nil {
		return
	}
	req.IncludePatterns = config.MergeStringSlice(cfg.IncludePatterns, req.IncludePatterns, "include", changed)
	req.ExcludePatterns = config.MergeStringSlice(cfg.ExcludePatterns, req.ExcludePatterns, "exclude", changed)
	req.CacheDir = config.MergeString(cfg.CacheDir, req.CacheDir, "cache-dir", changed)
	req.IncludeExternal = config.MergeBool(cfg.IncludeExternal, req.IncludeExternal, "include-external", changed)
	req.ExcludeTypeChecking = config.MergeBool(cfg.ExcludeTypeChecking, req.ExcludeTypeChecking, "exclude-type-checking", changed)
}
