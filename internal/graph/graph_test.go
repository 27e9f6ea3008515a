package graph

import (
	"testing"

	"github.com/dotgraph/dotgraph/internal/modname"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func n(s string) modname.Name { return modname.Name(s) }

func TestAddImportCreatesEndpoints(t *testing.T) {
	g := New()
	require.NoError(t, g.AddImport(n("foo.one"), n("foo.two"), nil, nil))
	assert.True(t, g.HasNode(n("foo.one")))
	assert.True(t, g.HasNode(n("foo.two")))
	assert.Contains(t, g.FindModulesDirectlyImportedBy(n("foo.one")), n("foo.two"))
	assert.Contains(t, g.FindModulesThatDirectlyImport(n("foo.two")), n("foo.one"))
}

func TestDirectImportExistsConsistency(t *testing.T) {
	g := New()
	require.NoError(t, g.AddImport(n("a"), n("b"), nil, nil))
	exists, err := g.DirectImportExists(n("a"), n("b"), false)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = g.DirectImportExists(n("b"), n("a"), false)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAddImportOneOfLineTextFails(t *testing.T) {
	g := New()
	line := 3
	err := g.AddImport(n("a"), n("b"), &line, nil)
	require.Error(t, err)
	var ve ValueError
	require.ErrorAs(t, err, &ve)
}

func TestRemoveModuleRemovesIncidentEdges(t *testing.T) {
	g := New()
	require.NoError(t, g.AddImport(n("a"), n("b"), nil, nil))
	require.NoError(t, g.AddImport(n("b"), n("c"), nil, nil))
	g.RemoveModule(n("b"))
	assert.False(t, g.HasNode(n("b")))
	assert.NotContains(t, g.FindModulesDirectlyImportedBy(n("a")), n("b"))
	assert.NotContains(t, g.FindModulesThatDirectlyImport(n("c")), n("b"))
}

func TestAddModuleRejectsModuleWithSquashedAncestor(t *testing.T) {
	g := New()
	require.NoError(t, g.AddModule(n("foo"), false))
	require.NoError(t, g.AddModule(n("foo.bar"), false))
	require.NoError(t, g.SquashModule(n("foo")))
	err := g.AddModule(n("foo.bar.baz"), false)
	require.Error(t, err)
}

func TestCountImportsIndependentOfDetails(t *testing.T) {
	g := New()
	line1, text1 := 1, "import foo.two"
	line2, text2 := 5, "import foo.two  # again"
	require.NoError(t, g.AddImport(n("foo.one"), n("foo.two"), &line1, &text1))
	require.NoError(t, g.AddImport(n("foo.one"), n("foo.two"), &line2, &text2))
	assert.Equal(t, 1, g.CountImports())
	assert.Len(t, g.EdgeDetails(n("foo.one"), n("foo.two")), 2)
}

// TestSquashSemantics covers module-squashing edge cases.
func TestSquashSemantics(t *testing.T) {
	g := New()
	require.NoError(t, g.AddModule(n("foo"), false))
	require.NoError(t, g.AddModule(n("foo.green"), false))
	require.NoError(t, g.AddModule(n("bar.blue"), false))
	line, text := 10, "import bar.blue"
	require.NoError(t, g.AddImport(n("foo.green"), n("bar.blue"), nil, nil))
	require.NoError(t, g.AddImport(n("bar.blue"), n("foo"), &line, &text))

	require.NoError(t, g.SquashModule(n("foo")))

	nodes := g.Nodes()
	assert.ElementsMatch(t, []modname.Name{n("foo"), n("bar.blue")}, nodes)

	edges := g.AllEdges()
	assert.ElementsMatch(t, [][2]modname.Name{{n("foo"), n("bar.blue")}, {n("bar.blue"), n("foo")}}, edges)

	assert.Len(t, g.EdgeDetails(n("bar.blue"), n("foo")), 1)
	assert.Empty(t, g.EdgeDetails(n("foo"), n("bar.blue")))
}

func TestDirectImportExistsAsPackagesSharedDescendantsFails(t *testing.T) {
	g := New()
	require.NoError(t, g.AddModule(n("a"), false))
	require.NoError(t, g.AddModule(n("a.b"), false))
	_, err := g.DirectImportExists(n("a"), n("a.b"), true)
	require.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	g := New()
	require.NoError(t, g.AddImport(n("a"), n("b"), nil, nil))
	require.NoError(t, g.SquashModule(n("a")))
	c := g.Clone()
	require.NoError(t, c.AddImport(n("b"), n("c"), nil, nil))
	assert.NotContains(t, g.FindModulesDirectlyImportedBy(n("b")), n("c"))
	squashed, err := c.IsModuleSquashed(n("a"))
	require.NoError(t, err)
	assert.True(t, squashed)
}
