// Package layers implements layered-architecture conformance checking:
// given an ordered sequence of Layer records (optionally scoped by
// container packages), it finds every illegal dependency a lower layer
// has on a higher one, including dependencies that bypass a closed
// intervening layer, and the legal-sibling checks for independent
// layers.
//
// Builds on domain/deps.go's ArchitectureConfigSpec / ArchitectureLayer
// and an architecture-violation pass over a flat "allowed target
// layers" allow-list, generalized into an ordered / independent /
// closed / container model with Route provenance.
package layers

import (
	"github.com/dotgraph/dotgraph/internal/graph"
	"github.com/dotgraph/dotgraph/internal/modname"
	"github.com/dotgraph/dotgraph/internal/pathfind"
)

// Layer is one rank in an architectural ordering. Tails are
// module-name suffixes; when more than one is given they are siblings
// at the same rank.
type Layer struct {
	Tails       []modname.Name
	Independent bool
	Closed      bool
}

// Route is a chain-family sharing a fixed interior.
type Route struct {
	Heads  map[modname.Name]bool
	Middle []modname.Name
	Tails  map[modname.Name]bool
}

// PackageDependency is one forbidden (importer, imported) layer
// relationship, with every distinct Route that realizes it.
type PackageDependency struct {
	Importer modname.Name
	Imported modname.Name
	Routes   []Route
}

// NoSuchContainer is returned when a named container is not a graph
// node.
type NoSuchContainer struct {
	Name modname.Name
}

func (e NoSuchContainer) Error() string {
	return "no such container: " + string(e.Name)
}

// Check runs layer-conformance analysis against g for the given ordered
// layers and optional containers. An empty containers slice runs a
// single "no container" pass.
func Check(g *graph.Graph, order []Layer, containers []modname.Name) ([]PackageDependency, error) {
	passes := containers
	if len(passes) == 0 {
		passes = []modname.Name{""}
	}
	for _, c := range passes {
		if c != "" && !g.HasNode(c) {
			return nil, NoSuchContainer{Name: c}
		}
	}

	merged := map[[2]modname.Name]*PackageDependency{}
	var orderedKeys [][2]modname.Name

	addRoutes := func(importer, imported modname.Name, routes []Route) {
		key := [2]modname.Name{importer, imported}
		pd, ok := merged[key]
		if !ok {
			pd = &PackageDependency{Importer: importer, Imported: imported}
			merged[key] = pd
			orderedKeys = append(orderedKeys, key)
		}
		pd.Routes = mergeRoutes(pd.Routes, routes)
	}

	for _, container := range passes {
		effective := make([][]modname.Name, len(order))
		for i, l := range order {
			effective[i] = expandLayer(g, l, container)
		}

		for i := 0; i < len(order); i++ {
			for j := i + 1; j < len(order); j++ {
				higherSet := expandPackageSet(g, effective[i])
				lowerSet := expandPackageSet(g, effective[j])
				if len(higherSet) == 0 || len(lowerSet) == 0 {
					continue
				}

				// Rule 1: direct layer-to-layer forbidden direction.
				routes := forbiddenRoutes(g, lowerSet, higherSet, unionOthers(effective, i, j))
				if len(routes) > 0 {
					imp, exp := representativeNames(effective[j]), representativeNames(effective[i])
					addRoutes(imp, exp, routes)
				}

				// Rule 2: bypass of a strictly-between closed layer.
				for k := i + 1; k < j; k++ {
					if !order[k].Closed {
						continue
					}
					closedSet := expandPackageSet(g, effective[k])
					if len(closedSet) == 0 {
						continue
					}
					bypassRoutes := forbiddenRoutesWithSuppressedInternal(g, lowerSet, higherSet, closedSet, unionOthers(effective, i, j, k))
					if len(bypassRoutes) > 0 {
						imp, exp := representativeNames(effective[j]), representativeNames(effective[i])
						addRoutes(imp, exp, bypassRoutes)
					}
				}
			}

			// Rule 3: independent-layer sibling checks.
			if order[i].Independent && len(effective[i]) > 1 {
				siblings := effective[i]
				for a := 0; a < len(siblings); a++ {
					for b := 0; b < len(siblings); b++ {
						if a == b {
							continue
						}
						from, to := expandPackageSet(g, []modname.Name{siblings[a]}), expandPackageSet(g, []modname.Name{siblings[b]})
						routes := forbiddenRoutes(g, from, to, unionOthersExceptLayer(effective, i))
						if len(routes) > 0 {
							addRoutes(siblings[a], siblings[b], routes)
						}
					}
				}
			}
		}
	}

	out := make([]PackageDependency, 0, len(orderedKeys))
	for _, key := range orderedKeys {
		out = append(out, *merged[key])
	}
	return out, nil
}

func representativeNames(tails []modname.Name) modname.Name {
	if len(tails) == 0 {
		return ""
	}
	return tails[0]
}

// expandPackageSet turns a layer's effective top-level modules into the
// full set of nodes that belong to those packages: each tail plus every
// descendant of it that is actually present in the graph. Layer
// dependency edges typically originate from or land on a submodule, not
// the package root itself, so chain-finding must operate over this
// expanded set rather than the bare tails.
func expandPackageSet(g *graph.Graph, tails []modname.Name) map[modname.Name]bool {
	out := map[modname.Name]bool{}
	for _, t := range tails {
		out[t] = true
		descendants, err := g.FindDescendants(t)
		if err != nil {
			continue
		}
		for _, d := range descendants {
			out[d] = true
		}
	}
	return out
}

// expandLayer resolves a layer's tails within a container (or verbatim
// when container is empty), dropping tails absent from the graph.
func expandLayer(g *graph.Graph, l Layer, container modname.Name) []modname.Name {
	var out []modname.Name
	for _, tail := range l.Tails {
		full := tail
		if container != "" {
			full = container.Join(string(tail))
		}
		if g.HasNode(full) {
			out = append(out, full)
		}
	}
	return out
}

func unionOthers(effective [][]modname.Name, skip ...int) map[modname.Name]bool {
	skipSet := map[int]bool{}
	for _, s := range skip {
		skipSet[s] = true
	}
	out := map[modname.Name]bool{}
	for i, tails := range effective {
		if skipSet[i] {
			continue
		}
		for _, t := range tails {
			out[t] = true
		}
	}
	return out
}

func unionOthersExceptLayer(effective [][]modname.Name, self int) map[modname.Name]bool {
	return unionOthers(effective, self)
}

// forbiddenRoutes builds a working copy of g with every module
// belonging to otherLayers removed, then iteratively finds shortest
// chains from lowerSet to higherSet, converting each to a Route and
// removing its edges until none remain.
func forbiddenRoutes(g *graph.Graph, lowerSet, higherSet, otherLayerModules map[modname.Name]bool) []Route {
	working := g.Clone()
	removeModuleSet(working, lowerSet, higherSet, otherLayerModules)
	return collectRoutes(working, lowerSet, higherSet)
}

// removeModuleSet deletes every descendant-closed module belonging to
// otherLayers, leaving only the two packages under analysis (and
// whatever non-layer modules sit between them).
func removeModuleSet(working *graph.Graph, lowerSet, higherSet, otherLayerModules map[modname.Name]bool) {
	for m := range otherLayerModules {
		if lowerSet[m] || higherSet[m] {
			continue
		}
		for _, node := range nodesIn(working, m) {
			working.RemoveModule(node)
		}
	}
}

func nodesIn(g *graph.Graph, root modname.Name) []modname.Name {
	out := []modname.Name{root}
	descendants, err := g.FindDescendants(root)
	if err == nil {
		out = append(out, descendants...)
	}
	return out
}

// forbiddenRoutesWithSuppressedInternal builds a working copy with
// unrelated layers removed (the closed layer's modules stay, so chains
// that legitimately transit it remain visible), suppresses every edge
// whose both endpoints lie inside closedSet, and finds routes
// lowerSet -> higherSet: any chain that still gets through is one that
// bypasses the closed layer instead of transiting it.
func forbiddenRoutesWithSuppressedInternal(g *graph.Graph, lowerSet, higherSet, closedSet, otherLayerModules map[modname.Name]bool) []Route {
	working := g.Clone()
	removeModuleSet(working, lowerSet, higherSet, otherLayerModules)
	for m := range closedSet {
		for _, succ := range working.FindModulesDirectlyImportedBy(m) {
			if closedSet[succ] {
				working.RemoveImport(m, succ)
			}
		}
	}
	return collectRoutes(working, lowerSet, higherSet)
}

func collectRoutes(working *graph.Graph, lowerSet, higherSet map[modname.Name]bool) []Route {
	var routes []Route

	// Trivial direct-edge routes first.
	var directEdges [][2]modname.Name
	for lp := range lowerSet {
		for _, succ := range working.FindModulesDirectlyImportedBy(lp) {
			if higherSet[succ] {
				directEdges = append(directEdges, [2]modname.Name{lp, succ})
			}
		}
	}
	if len(directEdges) > 0 {
		heads := map[modname.Name]bool{}
		tails := map[modname.Name]bool{}
		for _, e := range directEdges {
			heads[e[0]] = true
			tails[e[1]] = true
			working.RemoveImport(e[0], e[1])
		}
		routes = append(routes, Route{Heads: heads, Middle: nil, Tails: tails})
	}

	for {
		chain := pathfind.ShortestChainBetweenSets(working, lowerSet, higherSet)
		if chain == nil {
			break
		}
		middle := append([]modname.Name{}, chain[1:len(chain)-1]...)

		heads := map[modname.Name]bool{}
		for _, p := range working.FindModulesThatDirectlyImport(chain[1]) {
			if lowerSet[p] {
				heads[p] = true
			}
		}
		tails := map[modname.Name]bool{}
		secondLast := chain[len(chain)-2]
		for _, s := range working.FindModulesDirectlyImportedBy(secondLast) {
			if higherSet[s] {
				tails[s] = true
			}
		}

		routes = append(routes, Route{Heads: heads, Middle: middle, Tails: tails})

		for i := 0; i < len(chain)-1; i++ {
			working.RemoveImport(chain[i], chain[i+1])
		}
	}

	return mergeRoutes(nil, routes)
}

func middleKey(middle []modname.Name) string {
	s := ""
	for _, m := range middle {
		s += string(m) + "\x00"
	}
	return s
}

// mergeRoutes merges routes sharing the same middle into a single Route
// per unique middle.
func mergeRoutes(existing []Route, fresh []Route) []Route {
	byMiddle := map[string]*Route{}
	var order []string
	for _, r := range existing {
		k := middleKey(r.Middle)
		cp := r
		byMiddle[k] = &cp
		order = append(order, k)
	}
	for _, r := range fresh {
		k := middleKey(r.Middle)
		if cur, ok := byMiddle[k]; ok {
			cur.Heads = unionBool(cur.Heads, r.Heads)
			cur.Tails = unionBool(cur.Tails, r.Tails)
			continue
		}
		cp := r
		byMiddle[k] = &cp
		order = append(order, k)
	}
	out := make([]Route, 0, len(order))
	for _, k := range order {
		out = append(out, *byMiddle[k])
	}
	return out
}

func unionBool(a, b map[modname.Name]bool) map[modname.Name]bool {
	if a == nil {
		a = map[modname.Name]bool{}
	}
	for k := range b {
		a[k] = true
	}
	return a
}
