// Package service implements domain.GraphService on top of the core
// internal/builder, internal/pathfind, internal/pattern,
// internal/layers and internal/cyclebreak packages, wrapping them
// behind domain.GraphService the way this module's service layer wraps
// every internal engine package.
package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dotgraph/dotgraph/domain"
	"github.com/dotgraph/dotgraph/internal/builder"
	"github.com/dotgraph/dotgraph/internal/cyclebreak"
	"github.com/dotgraph/dotgraph/internal/graph"
	"github.com/dotgraph/dotgraph/internal/layers"
	"github.com/dotgraph/dotgraph/internal/modname"
	"github.com/dotgraph/dotgraph/internal/pathfind"
	"github.com/dotgraph/dotgraph/internal/pattern"
	"github.com/dotgraph/dotgraph/internal/pyimport"
	"github.com/dotgraph/dotgraph/internal/version"
	"github.com/dotgraph/dotgraph/internal/walker"
)

// wrapEngineError maps a typed engine error (surfaced from
// internal/graph, internal/layers, internal/pattern, internal/pyimport
// or internal/walker) onto its dedicated domain.DomainError code, so a
// caller inspecting a returned error's Code can distinguish "module not
// present" from "malformed pattern" without importing internal/ types.
// Errors outside that taxonomy fall back to fallback.
func wrapEngineError(message string, err error, fallback func(string, error) error) error {
	var moduleErr graph.ModuleNotPresent
	if errors.As(err, &moduleErr) {
		return domain.NewModuleNotPresentError(message, err)
	}
	var valueErr graph.ValueError
	if errors.As(err, &valueErr) {
		return domain.NewValueErrorDomainError(message, err)
	}
	var containerErr layers.NoSuchContainer
	if errors.As(err, &containerErr) {
		return domain.NewNoSuchContainerError(message, err)
	}
	var modExprErr pattern.ErrInvalidModuleExpression
	if errors.As(err, &modExprErr) {
		return domain.NewInvalidModuleExpressionError(message, err)
	}
	var impExprErr pattern.ErrInvalidImportExpression
	if errors.As(err, &impExprErr) {
		return domain.NewInvalidImportExpressionError(message, err)
	}
	var syntaxErr pyimport.SourceSyntaxError
	if errors.As(err, &syntaxErr) {
		return domain.NewSourceSyntaxError(message, err)
	}
	var nsErr walker.NamespacePackageEncountered
	if errors.As(err, &nsErr) {
		return domain.NewNamespacePackageError(message, err)
	}
	var topErr walker.NotATopLevelModule
	if errors.As(err, &topErr) {
		return domain.NewNotTopLevelModuleError(message, err)
	}
	return fallback(message, err)
}

// GraphServiceImpl is the default domain.GraphService implementation.
type GraphServiceImpl struct{}

// NewGraphService constructs a GraphServiceImpl.
func NewGraphService() *GraphServiceImpl {
	return &GraphServiceImpl{}
}

var _ domain.GraphService = (*GraphServiceImpl)(nil)

// Build discovers, extracts, and assembles the import graph for req,
// optionally checking it against an architecture spec.
func (s *GraphServiceImpl) Build(ctx context.Context, req domain.BuildRequest) (*domain.BuildResponse, error) {
	roots := make([]builder.Root, 0, len(req.Roots))
	for _, r := range req.Roots {
		roots = append(roots, builder.Root{Name: modname.Name(r.Name), Directory: r.Directory})
	}

	opts := builder.Options{
		IncludeExternal:     req.IncludeExternal,
		ExcludeTypeChecking: req.ExcludeTypeChecking,
		IncludePatterns:     req.IncludePatterns,
		ExcludePatterns:     req.ExcludePatterns,
		NoCache:             req.NoCache,
		CacheDir:            req.CacheDir,
	}
	if req.ShowProgress {
		opts.Progress = newBarReporter()
	}

	result, err := builder.Build(ctx, roots, opts)
	if err != nil {
		return nil, wrapEngineError("failed to build import graph", err, domain.NewAnalysisError)
	}

	nodes := result.Graph.Nodes()
	modules := make([]string, 0, len(nodes))
	squashed := 0
	for _, n := range nodes {
		modules = append(modules, string(n))
		if ok, _ := result.Graph.IsModuleSquashed(n); ok {
			squashed++
		}
	}
	sort.Strings(modules)

	edges := make([]domain.ModuleEdge, 0, result.Graph.CountImports())
	for _, e := range result.Graph.AllEdges() {
		edges = append(edges, domain.ModuleEdge{From: string(e[0]), To: string(e[1])})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})

	resp := &domain.BuildResponse{
		Modules: modules,
		Edges:   edges,
		Summary: domain.BuildSummary{
			Modules:         len(modules),
			Edges:           len(edges),
			SquashedModules: squashed,
		},
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Version:     version.Short(),
	}
	resp.SetHandle(&graphHandle{g: result.Graph, packages: result.Packages})

	if req.Architecture != nil {
		violations, err := checkArchitecture(result.Graph, req.Architecture)
		if err != nil {
			return nil, wrapEngineError("failed to check layer architecture", err, domain.NewAnalysisError)
		}
		resp.LayerViolations = violations
		resp.Summary.LayerViolations = len(violations)
	}

	return resp, nil
}

func checkArchitecture(g *graph.Graph, spec *domain.ArchitectureConfigSpec) ([]domain.LayerViolation, error) {
	order := make([]layers.Layer, 0, len(spec.Layers))
	for _, l := range spec.Layers {
		tails := make([]modname.Name, 0, len(l.Tails))
		for _, t := range l.Tails {
			tails = append(tails, modname.Name(t))
		}
		order = append(order, layers.Layer{Tails: tails, Independent: l.Independent, Closed: l.Closed})
	}
	containers := make([]modname.Name, 0, len(spec.Containers))
	for _, c := range spec.Containers {
		containers = append(containers, modname.Name(c))
	}

	deps, err := layers.Check(g, order, containers)
	if err != nil {
		return nil, err
	}

	var out []domain.LayerViolation
	for _, dep := range deps {
		for _, route := range dep.Routes {
			out = append(out, domain.LayerViolation{
				FromModule: string(dep.Importer),
				ToModule:   string(dep.Imported),
				Heads:      sortedStrings(route.Heads),
				Tails:      sortedStrings(route.Tails),
				Middle:     namesToStrings(route.Middle),
			})
		}
	}
	return out, nil
}

func sortedStrings(set map[modname.Name]bool) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, string(n))
	}
	sort.Strings(out)
	return out
}

func namesToStrings(names []modname.Name) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, string(n))
	}
	return out
}

// FindChain resolves a shortest import chain (or every shortest chain,
// when req.All) between two modules in a previously built graph.
func (s *GraphServiceImpl) FindChain(ctx context.Context, req domain.ChainRequest) (*domain.ChainResponse, error) {
	h, ok := asHandle(req.Graph)
	if !ok {
		return nil, domain.NewInvalidInputError("chain query requires a graph built in this process", nil)
	}

	importer, imported := modname.Name(req.Importer), modname.Name(req.Imported)

	if req.All {
		chains, err := pathfind.FindShortestChains(h.g, importer, imported)
		if err != nil {
			return nil, wrapEngineError("failed to find chains", err, domain.NewAnalysisError)
		}
		results := make([]domain.ChainResult, 0, len(chains))
		for _, c := range chains {
			results = append(results, domain.ChainResult{Exists: true, Modules: namesToStrings(c)})
		}
		if len(results) == 0 {
			results = append(results, domain.ChainResult{Exists: false})
		}
		return &domain.ChainResponse{Chains: results}, nil
	}

	chain, err := pathfind.FindShortestChain(h.g, importer, imported, req.AsPackages)
	if err != nil {
		return nil, wrapEngineError("failed to find chain", err, domain.NewAnalysisError)
	}
	if chain == nil {
		return &domain.ChainResponse{Chains: []domain.ChainResult{{Exists: false}}}, nil
	}
	return &domain.ChainResponse{Chains: []domain.ChainResult{{Exists: true, Modules: namesToStrings(chain)}}}, nil
}

// FindDescendants resolves a module's direct children or full
// descendant set.
func (s *GraphServiceImpl) FindDescendants(ctx context.Context, req domain.DescendantsRequest) (*domain.DescendantsResponse, error) {
	h, ok := asHandle(req.Graph)
	if !ok {
		return nil, domain.NewInvalidInputError("descendants query requires a graph built in this process", nil)
	}

	module := modname.Name(req.Module)
	var names []modname.Name
	var err error
	if req.Recursive {
		names, err = h.g.FindDescendants(module)
	} else {
		names, err = h.g.FindChildren(module)
	}
	if err != nil {
		return nil, wrapEngineError("failed to resolve descendants", err, domain.NewAnalysisError)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return &domain.DescendantsResponse{Modules: namesToStrings(names)}, nil
}

// MatchModules evaluates a module or import pattern expression against
// every module the graph holds.
func (s *GraphServiceImpl) MatchModules(ctx context.Context, req domain.MatchRequest) (*domain.MatchResponse, error) {
	h, ok := asHandle(req.Graph)
	if !ok {
		return nil, domain.NewInvalidInputError("match query requires a graph built in this process", nil)
	}

	if strings.Contains(req.Expression, "->") {
		imp, err := pattern.ParseImportExpression(req.Expression)
		if err != nil {
			return nil, wrapEngineError("invalid match expression", err, domain.NewInvalidInputError)
		}
		candidates := h.g.Nodes()
		importers := pattern.FindMatchingModules(imp.Importer, candidates)
		importedSet := make(map[modname.Name]bool)
		for _, m := range pattern.FindMatchingModules(imp.Imported, candidates) {
			importedSet[m] = true
		}
		var pairs []domain.ModuleEdge
		for _, importer := range importers {
			for _, imported := range h.g.FindModulesDirectlyImportedBy(importer) {
				if importedSet[imported] {
					pairs = append(pairs, domain.ModuleEdge{From: string(importer), To: string(imported)})
				}
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].From != pairs[j].From {
				return pairs[i].From < pairs[j].From
			}
			return pairs[i].To < pairs[j].To
		})
		return &domain.MatchResponse{Imports: pairs}, nil
	}

	expr, err := pattern.ParseModuleExpression(req.Expression)
	if err != nil {
		return nil, wrapEngineError("invalid match expression", err, domain.NewInvalidInputError)
	}
	matched := pattern.FindMatchingModules(expr, h.g.Nodes())
	sort.Slice(matched, func(i, j int) bool { return matched[i] < matched[j] })
	return &domain.MatchResponse{Modules: namesToStrings(matched)}, nil
}

// NominateCycleBreakers nominates a minimal set of edges whose removal
// breaks every cycle among a package's direct children.
func (s *GraphServiceImpl) NominateCycleBreakers(ctx context.Context, req domain.CyclesRequest) (*domain.CyclesResponse, error) {
	h, ok := asHandle(req.Graph)
	if !ok {
		return nil, domain.NewInvalidInputError("cycle query requires a graph built in this process", nil)
	}

	edges, err := cyclebreak.Nominate(h.g, modname.Name(req.Package))
	if err != nil {
		return nil, wrapEngineError("failed to nominate cycle-breaking edges", err, domain.NewAnalysisError)
	}
	out := make([]domain.ModuleEdge, 0, len(edges))
	for _, e := range edges {
		out = append(out, domain.ModuleEdge{From: string(e.Importer), To: string(e.Imported)})
	}
	return &domain.CyclesResponse{Edges: out}, nil
}
