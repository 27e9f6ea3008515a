// Package cyclebreak nominates a minimal, deterministic set of edges
// whose removal makes a package's child-level dependency graph acyclic.
//
// The child-projection and greedy feedback-arc-set heuristic build on
// the same node/edge traversal idiom a cycle-reporting pass over
// ModuleNode dependency maps would use, extended from detecting cycles
// to proposing edges whose removal breaks them.
package cyclebreak

import (
	"sort"

	"github.com/dotgraph/dotgraph/internal/graph"
	"github.com/dotgraph/dotgraph/internal/modname"
)

// Edge is one nominated (importer, imported) module pair.
type Edge struct {
	Importer modname.Name
	Imported modname.Name
}

type projKey struct{ from, to modname.Name }

// Nominate returns a deterministic, minimal-effort set of edges to
// remove so that the child-level projection of P becomes acyclic.
func Nominate(g *graph.Graph, p modname.Name) ([]Edge, error) {
	children, err := g.FindChildren(p)
	if err != nil {
		return nil, err
	}
	owner := func(m modname.Name) modname.Name {
		if m == p {
			return p
		}
		for _, c := range children {
			if m == c || m.IsDescendantOf(c) {
				return c
			}
		}
		return ""
	}

	weight := map[projKey]int{}
	underlying := map[projKey][]Edge{}
	var projNodes = map[modname.Name]bool{}

	packageNodes := append([]modname.Name{p}, g.FindDescendantsUnchecked(p)...)
	for _, importer := range packageNodes {
		oi := owner(importer)
		if oi == "" {
			continue
		}
		for _, imported := range g.FindModulesDirectlyImportedBy(importer) {
			oj := owner(imported)
			if oj == "" || oj == oi {
				continue
			}
			k := projKey{from: oi, to: oj}
			weight[k]++
			underlying[k] = append(underlying[k], Edge{Importer: importer, Imported: imported})
			projNodes[oi] = true
			projNodes[oj] = true
		}
	}

	if len(projNodes) == 0 {
		return nil, nil
	}

	order := sequence(projNodes, weight)
	pos := make(map[modname.Name]int, len(order))
	for i, m := range order {
		pos[m] = i
	}

	var nominated []Edge
	var keys []projKey
	for k := range weight {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].from != keys[j].from {
			return keys[i].from < keys[j].from
		}
		return keys[i].to < keys[j].to
	})

	for _, k := range keys {
		if pos[k.from] > pos[k.to] {
			nominated = append(nominated, representative(underlying[k]))
		}
	}
	return nominated, nil
}

// representative picks the lexicographically smallest (importer,
// imported) pair among those that collapsed onto the same
// child-projection edge.
func representative(edges []Edge) Edge {
	best := edges[0]
	for _, e := range edges[1:] {
		if e.Importer < best.Importer || (e.Importer == best.Importer && e.Imported < best.Imported) {
			best = e
		}
	}
	return best
}

// sequence computes a linear order over projNodes using the
// Eades-Lynn-Smyth greedy heuristic: peel off sinks to the right,
// sources to the left, and otherwise pick the node with the largest
// weighted (out-degree - in-degree), breaking ties lexicographically
// for determinism. Edges running from a later position to an earlier
// one are the nominated feedback set.
func sequence(nodes map[modname.Name]bool, weight map[projKey]int) []modname.Name {
	remaining := make(map[modname.Name]bool, len(nodes))
	for n := range nodes {
		remaining[n] = true
	}
	outW := map[modname.Name]int{}
	inW := map[modname.Name]int{}
	for k, w := range weight {
		outW[k.from] += w
		inW[k.to] += w
	}

	var left, right []modname.Name

	sortedRemaining := func() []modname.Name {
		out := make([]modname.Name, 0, len(remaining))
		for n := range remaining {
			out = append(out, n)
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out
	}

	outDeg := func(n modname.Name) int {
		d := 0
		for k := range weight {
			if k.from == n && remaining[k.to] {
				d++
			}
		}
		return d
	}
	inDeg := func(n modname.Name) int {
		d := 0
		for k := range weight {
			if k.to == n && remaining[k.from] {
				d++
			}
		}
		return d
	}

	for len(remaining) > 0 {
		progressed := false

		for _, n := range sortedRemaining() {
			if outDeg(n) == 0 {
				right = append([]modname.Name{n}, right...)
				delete(remaining, n)
				progressed = true
			}
		}
		if len(remaining) == 0 {
			break
		}
		for _, n := range sortedRemaining() {
			if inDeg(n) == 0 {
				left = append(left, n)
				delete(remaining, n)
				progressed = true
			}
		}
		if len(remaining) == 0 {
			break
		}
		if progressed {
			continue
		}

		var best modname.Name
		bestScore := 0
		first := true
		for _, n := range sortedRemaining() {
			score := outW[n] - inW[n]
			if first || score > bestScore {
				best, bestScore, first = n, score, false
			}
		}
		left = append(left, best)
		delete(remaining, best)
	}

	return append(left, right...)
}
