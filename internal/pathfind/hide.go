package pathfind

import (
	"github.com/dotgraph/dotgraph/internal/graph"
	"github.com/dotgraph/dotgraph/internal/modname"
)

// edgeHider is the scoped hide/restore primitive the chain probes rely
// on: it pushes every edge it actually suppresses onto a stack and
// guarantees restoration, even when the caller exits through a panic,
// via Restore being invoked from a defer at the call site.
type edgeHider struct {
	g     *graph.Graph
	stack [][2]modname.Name
}

func newHider(g *graph.Graph) *edgeHider {
	return &edgeHider{g: g}
}

// Hide suppresses one edge if present.
func (h *edgeHider) Hide(from, to modname.Name) {
	if h.g.SuppressEdge(from, to) {
		h.stack = append(h.stack, [2]modname.Name{from, to})
	}
}

// HideInternal suppresses every edge whose both endpoints lie in set.
func (h *edgeHider) HideInternal(set map[modname.Name]bool) {
	for m := range set {
		for _, succ := range h.g.FindModulesDirectlyImportedBy(m) {
			if set[succ] {
				h.Hide(m, succ)
			}
		}
	}
}

// HideIncidentExcept suppresses every edge incident to a module in set,
// other than the named exception.
func (h *edgeHider) HideIncidentExcept(set map[modname.Name]bool, except modname.Name) {
	for m := range set {
		if m == except {
			continue
		}
		for _, succ := range h.g.FindModulesDirectlyImportedBy(m) {
			h.Hide(m, succ)
		}
		for _, pred := range h.g.FindModulesThatDirectlyImport(m) {
			h.Hide(pred, m)
		}
	}
}

// Restore reverses every suppression made through this hider, in
// reverse order.
func (h *edgeHider) Restore() {
	for i := len(h.stack) - 1; i >= 0; i-- {
		e := h.stack[i]
		h.g.RestoreEdge(e[0], e[1])
	}
	h.stack = nil
}

// packageSet returns {m} ∪ descendants(m).
func packageSet(g *graph.Graph, m modname.Name) (map[modname.Name]bool, error) {
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

func setsIntersect(a, b map[modname.Name]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

func sortedSet(set map[modname.Name]bool) []modname.Name {
	out := make([]modname.Name, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sortNames(out)
	return out
}
