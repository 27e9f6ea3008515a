// Package graph implements the in-memory, indexed directed import graph:
// mutation (add/remove modules and edges), subtree squashing, and the
// name-hierarchy and direct-edge queries every higher-level component
// (pathfind, layers, cyclebreak) is built on.
//
// The adjacency-map design generalizes a ModuleNode.Dependencies /
// Dependents style graph to carry per-edge provenance (DirectImport
// detail lines), a squashed-node set, and stricter mutation
// invariants.
package graph

import (
	"fmt"
	"sort"

	"github.com/dotgraph/dotgraph/internal/modname"
)

// Detail is one provenance record for an edge: the source line and text
// that produced it. Either both fields are present or both are zero.
type Detail struct {
	LineNumber int
	LineText   string
}

type edgeKey struct {
	From modname.Name
	To   modname.Name
}

// Graph is an indexed directed graph over module names.
type Graph struct {
	nodes    map[modname.Name]bool
	squashed map[modname.Name]bool

	successors   map[modname.Name]map[modname.Name]bool
	predecessors map[modname.Name]map[modname.Name]bool

	details map[edgeKey][]Detail
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:        make(map[modname.Name]bool),
		squashed:     make(map[modname.Name]bool),
		successors:   make(map[modname.Name]map[modname.Name]bool),
		predecessors: make(map[modname.Name]map[modname.Name]bool),
		details:      make(map[edgeKey][]Detail),
	}
}

// AddModule inserts m as a node, idempotently, with the given squashed
// flag. Fails if m was already present with a different flag, or if an
// ancestor of m is squashed.
func (g *Graph) AddModule(m modname.Name, squashed bool) error {
	if g.hasSquashedAncestor(m) {
		return ValueError{Msg: fmt.Sprintf("cannot add %s: an ancestor is squashed", m)}
	}
	if g.nodes[m] {
		if g.squashed[m] != squashed {
			return ValueError{Msg: fmt.Sprintf("module %s already present with squashed=%v", m, g.squashed[m])}
		}
		return nil
	}
	g.nodes[m] = true
	if squashed {
		g.squashed[m] = true
	}
	if g.successors[m] == nil {
		g.successors[m] = make(map[modname.Name]bool)
	}
	if g.predecessors[m] == nil {
		g.predecessors[m] = make(map[modname.Name]bool)
	}
	return nil
}

func (g *Graph) hasSquashedAncestor(m modname.Name) bool {
	for ancestor := range g.squashed {
		if m.IsDescendantOf(ancestor) {
			return true
		}
	}
	return false
}

// RemoveModule removes m, every incident edge, and related details. A
// missing module is a no-op.
func (g *Graph) RemoveModule(m modname.Name) {
	if !g.nodes[m] {
		return
	}
	for succ := range g.successors[m] {
		g.removeEdgeUnchecked(m, succ)
	}
	for pred := range g.predecessors[m] {
		g.removeEdgeUnchecked(pred, m)
	}
	delete(g.nodes, m)
	delete(g.squashed, m)
	delete(g.successors, m)
	delete(g.predecessors, m)
}

func (g *Graph) removeEdgeUnchecked(from, to modname.Name) {
	delete(g.successors[from], to)
	delete(g.predecessors[to], from)
	delete(g.details, edgeKey{From: from, To: to})
}

// AddImport inserts an edge, auto-creating missing endpoints as
// unsquashed nodes. A provided (line, text) pair is appended to the
// edge's detail list; it is a ValueError to supply exactly one of the
// two.
func (g *Graph) AddImport(importer, imported modname.Name, line *int, text *string) error {
	if (line == nil) != (text == nil) {
		return ValueError{Msg: "line number and line text must both be present or both absent"}
	}
	if err := g.ensureNode(importer); err != nil {
		return err
	}
	if err := g.ensureNode(imported); err != nil {
		return err
	}
	g.successors[importer][imported] = true
	g.predecessors[imported][importer] = true
	if line != nil {
		key := edgeKey{From: importer, To: imported}
		g.details[key] = append(g.details[key], Detail{LineNumber: *line, LineText: *text})
	}
	return nil
}

func (g *Graph) ensureNode(m modname.Name) error {
	if g.nodes[m] {
		return nil
	}
	return g.AddModule(m, false)
}

// RemoveImport removes one edge and its details; missing edge is a no-op.
func (g *Graph) RemoveImport(importer, imported modname.Name) {
	g.removeEdgeUnchecked(importer, imported)
}

// SquashModule contracts every edge whose opposite endpoint is a
// descendant of m onto m itself, then deletes those descendants. Detail
// records on contracted edges are discarded; details on edges already
// incident to m survive.
func (g *Graph) SquashModule(m modname.Name) error {
	if !g.nodes[m] {
		return ModuleNotPresent{Name: m}
	}
	descendants := g.FindDescendantsUnchecked(m)

	for _, d := range descendants {
		for succ := range g.successors[d] {
			if succ == m || contains(descendants, succ) {
				continue
			}
			_ = g.AddImport(m, succ, nil, nil)
		}
		for pred := range g.predecessors[d] {
			if pred == m || contains(descendants, pred) {
				continue
			}
			_ = g.AddImport(pred, m, nil, nil)
		}
	}
	for _, d := range descendants {
		g.RemoveModule(d)
	}
	g.squashed[m] = true
	return nil
}

func contains(names []modname.Name, n modname.Name) bool {
	for _, x := range names {
		if x == n {
			return true
		}
	}
	return false
}

// IsModuleSquashed reports whether m is a squashed node.
func (g *Graph) IsModuleSquashed(m modname.Name) (bool, error) {
	if !g.nodes[m] {
		return false, ModuleNotPresent{Name: m}
	}
	return g.squashed[m], nil
}

// FindChildren returns direct children of m in the name hierarchy
// (modules present in the graph whose parent is m). Fails if m is
// squashed.
func (g *Graph) FindChildren(m modname.Name) ([]modname.Name, error) {
	if g.squashed[m] {
		return nil, ValueError{Msg: fmt.Sprintf("%s is squashed", m)}
	}
	var out []modname.Name
	for n := range g.nodes {
		if n.IsChildOf(m) {
			out = append(out, n)
		}
	}
	sortNames(out)
	return out, nil
}

// FindDescendants returns every present module that is a descendant of
// m. Fails if m is squashed.
func (g *Graph) FindDescendants(m modname.Name) ([]modname.Name, error) {
	if g.squashed[m] {
		return nil, ValueError{Msg: fmt.Sprintf("%s is squashed", m)}
	}
	out := g.FindDescendantsUnchecked(m)
	sortNames(out)
	return out, nil
}

// FindDescendantsUnchecked is the internal variant used by SquashModule,
// which must compute descendants of a node about to become squashed.
func (g *Graph) FindDescendantsUnchecked(m modname.Name) []modname.Name {
	var out []modname.Name
	for n := range g.nodes {
		if n.IsDescendantOf(m) {
			out = append(out, n)
		}
	}
	return out
}

// CountImports returns the number of distinct (importer, imported) edges,
// independent of how many detail records any of them carry.
func (g *Graph) CountImports() int {
	n := 0
	for _, succs := range g.successors {
		n += len(succs)
	}
	return n
}

// FindModulesDirectlyImportedBy returns the successor set of m.
func (g *Graph) FindModulesDirectlyImportedBy(m modname.Name) []modname.Name {
	return sortedKeys(g.successors[m])
}

// FindModulesThatDirectlyImport returns the predecessor set of m.
func (g *Graph) FindModulesThatDirectlyImport(m modname.Name) []modname.Name {
	return sortedKeys(g.predecessors[m])
}

// DirectImportExists reports whether importer directly imports imported.
// With asPackages, the query is expanded to "any descendant pair has a
// direct edge"; it fails if the two packages' descendant-closures
// intersect.
func (g *Graph) DirectImportExists(importer, imported modname.Name, asPackages bool) (bool, error) {
	if !asPackages {
		return g.successors[importer][imported], nil
	}
	importerSet, err := g.expandWithSelf(importer)
	if err != nil {
		return false, err
	}
	importedSet, err := g.expandWithSelf(imported)
	if err != nil {
		return false, err
	}
	for a := range importerSet {
		if importedSet[a] {
			return false, ValueError{Msg: fmt.Sprintf("%s and %s share descendants", importer, imported)}
		}
	}
	for a := range importerSet {
		for b := range g.successors[a] {
			if importedSet[b] {
				return true, nil
			}
		}
	}
	return false, nil
}

func (g *Graph) expandWithSelf(m modname.Name) (map[modname.Name]bool, error) {
	descendants, err := g.FindDescendants(m)
	if err != nil {
		return nil, err
	}
	set := map[modname.Name]bool{m: true}
	for _, d := range descendants {
		set[d] = true
	}
	return set, nil
}

// SuppressEdge temporarily hides an edge from adjacency-based queries
// (successors/predecessors) without touching the detail map, for use by
// scoped hide/restore primitives in pathfind and layers. It is a no-op if
// the edge does not currently exist. Returns whether the edge was
// present (and thus should be restored).
func (g *Graph) SuppressEdge(from, to modname.Name) bool {
	if !g.successors[from][to] {
		return false
	}
	delete(g.successors[from], to)
	delete(g.predecessors[to], from)
	return true
}

// RestoreEdge reverses SuppressEdge.
func (g *Graph) RestoreEdge(from, to modname.Name) {
	if g.successors[from] == nil {
		g.successors[from] = make(map[modname.Name]bool)
	}
	if g.predecessors[to] == nil {
		g.predecessors[to] = make(map[modname.Name]bool)
	}
	g.successors[from][to] = true
	g.predecessors[to][from] = true
}

// DirectImportExistsUnchecked is the unchecked single-edge variant of
// DirectImportExists, for callers that already know both endpoints are
// present.
func (g *Graph) DirectImportExistsUnchecked(importer, imported modname.Name) bool {
	return g.successors[importer][imported]
}

// EdgeDetails returns the provenance records for one edge, in insertion
// order.
func (g *Graph) EdgeDetails(importer, imported modname.Name) []Detail {
	key := edgeKey{From: importer, To: imported}
	return g.details[key]
}

// Nodes returns every module present in the graph, sorted.
func (g *Graph) Nodes() []modname.Name {
	return sortedKeys(g.nodes)
}

// HasNode reports whether m is present.
func (g *Graph) HasNode(m modname.Name) bool {
	return g.nodes[m]
}

// AllEdges returns every distinct (importer, imported) pair, sorted.
func (g *Graph) AllEdges() [][2]modname.Name {
	var out [][2]modname.Name
	for from, succs := range g.successors {
		for to := range succs {
			out = append(out, [2]modname.Name{from, to})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// Clone returns a deep copy: mutating the copy never affects the
// original, including adjacency, details, and squash flags.
func (g *Graph) Clone() *Graph {
	c := New()
	for n := range g.nodes {
		c.nodes[n] = true
	}
	for n := range g.squashed {
		c.squashed[n] = true
	}
	for n, succs := range g.successors {
		cp := make(map[modname.Name]bool, len(succs))
		for s := range succs {
			cp[s] = true
		}
		c.successors[n] = cp
	}
	for n, preds := range g.predecessors {
		cp := make(map[modname.Name]bool, len(preds))
		for p := range preds {
			cp[p] = true
		}
		c.predecessors[n] = cp
	}
	for k, ds := range g.details {
		cp := make([]Detail, len(ds))
		copy(cp, ds)
		c.details[k] = cp
	}
	return c
}

func sortedKeys(m map[modname.Name]bool) []modname.Name {
	out := make([]modname.Name, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sortNames(out)
	return out
}

func sortNames(names []modname.Name) {
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
}
