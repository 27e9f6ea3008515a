package service

import (
	"github.com/dotgraph/dotgraph/internal/graph"
	"github.com/dotgraph/dotgraph/internal/walker"
)

// graphHandle is the concrete domain.GraphHandle: the live graph plus
// the FoundPackages it was built from, which query operations key off
// of (package-scoped chains, layer containers).
type graphHandle struct {
	g        *graph.Graph
	packages []*walker.FoundPackage
}

func (h *graphHandle) ModuleCount() int { return len(h.g.Nodes()) }

// asHandle extracts the concrete graph behind a domain.GraphHandle,
// rejecting handles that did not come from this package (e.g. a
// BuildResponse deserialized from JSON on another process).
func asHandle(h interface{ ModuleCount() int }) (*graphHandle, bool) {
	gh, ok := h.(*graphHandle)
	return gh, ok
}
