// Package mcp exposes dotgraph's build-and-query surface as a set of
// Model Context Protocol tools, wrapping the app/domain/service layer
// behind github.com/mark3labs/mcp-go. Every tool here rebuilds the
// graph from the supplied path on each call rather than holding a live
// handle across invocations, since MCP tool calls are independent
// JSON-RPC requests with no guaranteed session affinity to a
// particular server process run.
package mcp

import (
	"path/filepath"

	"github.com/dotgraph/dotgraph/domain"
	"github.com/dotgraph/dotgraph/internal/config"
	"github.com/dotgraph/dotgraph/service"
)

func rootName(path string) string {
	return filepath.Base(filepath.Clean(path))
}

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	graphService domain.GraphService
}

// NewDependencies constructs the dependency set with sane defaults.
func NewDependencies() *Dependencies {
	return &Dependencies{graphService: service.NewGraphService()}
}

// GraphService exposes the shared graph service.
func (d *Dependencies) GraphService() domain.GraphService {
	return d.graphService
}

// buildRequestForPath assembles a BuildRequest for a single root path,
// applying any dotgraph.toml/pyproject.toml configuration found above
// it. A config value fills any field the arguments leave at its zero
// value; unlike cmd/dotgraph's applyConfigDefaults there is no
// explicitly-set check, so a false argument never overrides a true
// config value.
func buildRequestForPath(path string, includeExternal, excludeTypeChecking bool) domain.BuildRequest {
	req := domain.BuildRequest{
		Roots:               []domain.GraphRoot{{Name: rootName(path), Directory: path}},
		IncludeExternal:     includeExternal,
		ExcludeTypeChecking: excludeTypeChecking,
	}
	if cfg, err := config.Load("", path); err == nil {
		if len(req.IncludePatterns) == 0 {
			req.IncludePatterns = cfg.IncludePatterns
		}
		if len(req.ExcludePatterns) == 0 {
			req.ExcludePatterns = cfg.ExcludePatterns
		}
		if req.CacheDir == "" {
			req.CacheDir = cfg.CacheDir
		}
		if !req.IncludeExternal {
			req.IncludeExternal = cfg.IncludeExternal
		}
		if !req.ExcludeTypeChecking {
			req.ExcludeTypeChecking = cfg.ExcludeTypeChecking
		}
	}
	return req
}
