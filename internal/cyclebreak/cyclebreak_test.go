package cyclebreak

import (
	"testing"

	"github.com/dotgraph/dotgraph/internal/graph"
	"github.com/dotgraph/dotgraph/internal/modname"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(s string) modname.Name { return modname.Name(s) }

func mustImport(t *testing.T, g *graph.Graph, from, to string) {
	t.Helper()
	require.NoError(t, g.AddImport(n(from), n(to), nil, nil))
}

func TestNominateBreaksSimpleCycle(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddModule(n("p"), false))
	mustImport(t, g, "p.a", "p.b")
	mustImport(t, g, "p.b", "p.c")
	mustImport(t, g, "p.c", "p.a")

	edges, err := Nominate(g, n("p"))
	require.NoError(t, err)
	require.Len(t, edges, 1)

	working := map[[2]modname.Name]bool{
		{n("p.a"), n("p.b")}: true,
		{n("p.b"), n("p.c")}: true,
		{n("p.c"), n("p.a")}: true,
	}
	assert.True(t, working[[2]modname.Name{edges[0].Importer, edges[0].Imported}])
}

func TestNominateAcyclicIsEmpty(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddModule(n("p"), false))
	mustImport(t, g, "p.a", "p.b")
	mustImport(t, g, "p.b", "p.c")

	edges, err := Nominate(g, n("p"))
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestNominateIgnoresIntraChildSelfLoop(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddModule(n("p"), false))
	mustImport(t, g, "p.a.x", "p.a.y")
	mustImport(t, g, "p.a.y", "p.a.x")

	edges, err := Nominate(g, n("p"))
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestNominateDeterministic(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddModule(n("p"), false))
	mustImport(t, g, "p.a", "p.b")
	mustImport(t, g, "p.b", "p.c")
	mustImport(t, g, "p.c", "p.d")
	mustImport(t, g, "p.d", "p.a")

	first, err := Nominate(g, n("p"))
	require.NoError(t, err)
	second, err := Nominate(g, n("p"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
