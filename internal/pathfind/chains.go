package pathfind

import (
	"github.com/dotgraph/dotgraph/internal/graph"
	"github.com/dotgraph/dotgraph/internal/modname"
)

// Chain is an ordered sequence of modules in which each adjacent pair
// has a direct import.
type Chain []modname.Name

func requirePresent(g *graph.Graph, m modname.Name) error {
	if !g.HasNode(m) {
		return graph.ModuleNotPresent{Name: m}
	}
	return nil
}

// FindShortestChain returns the shortest chain from importer to
// imported, or nil if none exists. With asPackages, edges internal to
// either package are hidden first and the search runs from the
// importer's whole package to the imported's whole package.
func FindShortestChain(g *graph.Graph, importer, imported modname.Name, asPackages bool) (Chain, error) {
	if err := requirePresent(g, importer); err != nil {
		return nil, err
	}
	if err := requirePresent(g, imported); err != nil {
		return nil, err
	}

	if !asPackages {
		chain := multiSourceSinkBFS(g, singleton(importer), singleton(imported))
		if chain == nil {
			return nil, nil
		}
		return Chain(chain), nil
	}

	importerSet, err := packageSet(g, importer)
	if err != nil {
		return nil, err
	}
	importedSet, err := packageSet(g, imported)
	if err != nil {
		return nil, err
	}
	if setsIntersect(importerSet, importedSet) {
		return nil, graph.ValueError{Msg: "importer and imported packages share descendants"}
	}

	h := newHider(g)
	defer h.Restore()
	h.HideInternal(importerSet)
	h.HideInternal(importedSet)

	chain := multiSourceSinkBFS(g, importerSet, importedSet)
	if chain == nil {
		return nil, nil
	}
	return Chain(chain), nil
}

// FindShortestChains finds, for every pair (d, u) with d in importer's
// package and u in imported's package, the shortest chain between them
// that does not cheat by re-entering either package.
func FindShortestChains(g *graph.Graph, importer, imported modname.Name) ([]Chain, error) {
	if err := requirePresent(g, importer); err != nil {
		return nil, err
	}
	if err := requirePresent(g, imported); err != nil {
		return nil, err
	}
	importerSet, err := packageSet(g, importer)
	if err != nil {
		return nil, err
	}
	importedSet, err := packageSet(g, imported)
	if err != nil {
		return nil, err
	}
	if setsIntersect(importerSet, importedSet) {
		return nil, graph.ValueError{Msg: "importer and imported packages share descendants"}
	}

	var results []Chain
	for _, d := range sortedSet(importerSet) {
		for _, u := range sortedSet(importedSet) {
			chain := func() []modname.Name {
				h := newHider(g)
				defer h.Restore()
				h.HideInternal(importerSet)
				h.HideInternal(importedSet)
				h.HideIncidentExcept(importerSet, d)
				h.HideIncidentExcept(importedSet, u)
				return multiSourceSinkBFS(g, singleton(d), singleton(u))
			}()

			if chain != nil {
				results = append(results, Chain(chain))
			}
		}
	}
	return results, nil
}

// ChainExists reports whether any chain exists between importer and
// imported.
func ChainExists(g *graph.Graph, importer, imported modname.Name, asPackages bool) (bool, error) {
	chain, err := FindShortestChain(g, importer, imported, asPackages)
	if err != nil {
		return false, err
	}
	return chain != nil, nil
}

// FindAllSimpleChains enumerates every simple path (no repeated node)
// from importer to imported via backtracking DFS. No package expansion
// is performed.
func FindAllSimpleChains(g *graph.Graph, importer, imported modname.Name) ([]Chain, error) {
	if err := requirePresent(g, importer); err != nil {
		return nil, err
	}
	if err := requirePresent(g, imported); err != nil {
		return nil, err
	}

	var results []Chain
	visited := map[modname.Name]bool{importer: true}
	path := []modname.Name{importer}

	var walk func(cur modname.Name)
	walk = func(cur modname.Name) {
		if cur == imported && len(path) > 1 {
			cp := make(Chain, len(path))
			copy(cp, path)
			results = append(results, cp)
			return
		}
		for _, next := range g.FindModulesDirectlyImportedBy(cur) {
			if visited[next] {
				continue
			}
			if next == imported {
				cp := make(Chain, len(path)+1)
				copy(cp, path)
				cp[len(path)] = next
				results = append(results, cp)
				continue
			}
			visited[next] = true
			path = append(path, next)
			walk(next)
			path = path[:len(path)-1]
			visited[next] = false
		}
	}
	if importer == imported {
		return []Chain{{importer}}, nil
	}
	walk(importer)
	return results, nil
}
