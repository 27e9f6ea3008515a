package pathfind

import (
	"github.com/dotgraph/dotgraph/internal/graph"
	"github.com/dotgraph/dotgraph/internal/modname"
)

// FindShortestCycle returns the shortest cycle that passes through m (or,
// with asPackage, through any module inside pkg(m), while ignoring edges
// internal to pkg(m)), or nil if m participates in no cycle.
func FindShortestCycle(g *graph.Graph, m modname.Name, asPackage bool) (Chain, error) {
	if err := requirePresent(g, m); err != nil {
		return nil, err
	}

	if !asPackage {
		return shortestCycleThroughNode(g, m), nil
	}

	pkg, err := packageSet(g, m)
	if err != nil {
		return nil, err
	}
	h := newHider(g)
	defer h.Restore()
	h.HideInternal(pkg)

	var best Chain
	for _, n := range sortedSet(pkg) {
		for _, s := range g.FindModulesDirectlyImportedBy(n) {
			if pkg[s] {
				continue
			}
			back := multiSourceSinkBFS(g, singleton(s), pkg)
			if back == nil {
				continue
			}
			candidate := append(Chain{n}, Chain(back)...)
			if best == nil || len(candidate) < len(best) {
				best = candidate
			}
		}
	}
	return best, nil
}

func shortestCycleThroughNode(g *graph.Graph, m modname.Name) Chain {
	if g.DirectImportExistsUnchecked(m, m) {
		return Chain{m, m}
	}
	var best Chain
	for _, s := range g.FindModulesDirectlyImportedBy(m) {
		if s == m {
			continue
		}
		back := multiSourceSinkBFS(g, singleton(s), singleton(m))
		if back == nil {
			continue
		}
		candidate := append(Chain{m}, Chain(back)...)
		if best == nil || len(candidate) < len(best) {
			best = candidate
		}
	}
	return best
}
