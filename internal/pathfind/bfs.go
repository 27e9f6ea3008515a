// Package pathfind implements chain-finding over a graph.Graph:
// bidirectional BFS, shortest-chain and all-shortest-chains queries
// between packages, simple-path enumeration, and shortest-cycle search.
//
// Builds on the same successor/predecessor adjacency-map traversal
// shape a cycle detector's SCC walk would use; the bidirectional and
// multi-source/sink variants here are specific to chain-finding.
package pathfind

import (
	"sort"

	"github.com/dotgraph/dotgraph/internal/graph"
	"github.com/dotgraph/dotgraph/internal/modname"
)

func sortNames(names []modname.Name) {
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
}

// multiSourceSinkBFS grows two frontiers (forward from sources via
// successors, backward from sinks via predecessors), always expanding
// the smaller frontier, and reconstructs the chain at first
// intersection. Ties on chain length are broken by map/slice iteration
// order and are not guaranteed stable across runs, per this package's
// explicit non-goal of stabilizing bidirectional BFS.
func multiSourceSinkBFS(g *graph.Graph, sources, sinks map[modname.Name]bool) []modname.Name {
	if setsIntersect(sources, sinks) {
		for s := range sources {
			if sinks[s] {
				return []modname.Name{s}
			}
		}
	}

	parentF := make(map[modname.Name]modname.Name)
	parentB := make(map[modname.Name]modname.Name)
	var frontF, frontB []modname.Name
	for s := range sources {
		parentF[s] = s
		frontF = append(frontF, s)
	}
	for s := range sinks {
		parentB[s] = s
		frontB = append(frontB, s)
	}
	sortNames(frontF)
	sortNames(frontB)

	for len(frontF) > 0 && len(frontB) > 0 {
		var meet modname.Name
		found := false

		if len(frontF) <= len(frontB) {
			var next []modname.Name
			for _, u := range frontF {
				for _, v := range g.FindModulesDirectlyImportedBy(u) {
					if _, seen := parentF[v]; seen {
						continue
					}
					parentF[v] = u
					next = append(next, v)
					if _, inB := parentB[v]; inB && !found {
						meet, found = v, true
					}
				}
			}
			sortNames(next)
			frontF = next
		} else {
			var next []modname.Name
			for _, u := range frontB {
				for _, v := range g.FindModulesThatDirectlyImport(u) {
					if _, seen := parentB[v]; seen {
						continue
					}
					parentB[v] = u
					next = append(next, v)
					if _, inF := parentF[v]; inF && !found {
						meet, found = v, true
					}
				}
			}
			sortNames(next)
			frontB = next
		}

		if found {
			return reconstructChain(meet, parentF, parentB)
		}
	}
	return nil
}

func reconstructChain(meet modname.Name, parentF, parentB map[modname.Name]modname.Name) []modname.Name {
	var chain []modname.Name
	cur := meet
	for {
		chain = append([]modname.Name{cur}, chain...)
		p := parentF[cur]
		if p == cur {
			break
		}
		cur = p
	}
	cur = meet
	for {
		p := parentB[cur]
		if p == cur {
			break
		}
		cur = p
		chain = append(chain, cur)
	}
	return chain
}

func singleton(m modname.Name) map[modname.Name]bool {
	return map[modname.Name]bool{m: true}
}

// ShortestChainBetweenSets exposes multiSourceSinkBFS for callers (the
// layer analyzer) that need shortest-chain search between two arbitrary
// node sets rather than between two ModuleName-rooted packages.
func ShortestChainBetweenSets(g *graph.Graph, sources, sinks map[modname.Name]bool) Chain {
	chain := multiSourceSinkBFS(g, sources, sinks)
	if chain == nil {
		return nil
	}
	return Chain(chain)
}
