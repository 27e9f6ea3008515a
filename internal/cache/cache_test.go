package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotgraph/dotgraph/internal/modname"
	"github.com/dotgraph/dotgraph/internal/pyimport"
)

func TestCache_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	id := Identity{Roots: []string{"foo"}}

	imports := map[modname.Name][]pyimport.DirectImport{
		"foo.one": {{Importer: "foo.one", Imported: "foo.two", LineNumber: 1, LineText: "import foo.two"}},
		"foo.two": {},
	}
	packages := []PackageImports{
		{Name: "foo", MTimes: map[modname.Name]float64{"foo.one": 100.0, "foo.two": 200.0}},
	}
	require.NoError(t, c.WriteAll(id, packages, imports))

	meta := c.LoadMeta("foo")
	data := c.LoadData(id)

	got, err := Lookup(meta, data, "foo.one", 100.0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, modname.Name("foo.two"), got[0].Imported)
	assert.Equal(t, 1, got[0].LineNumber)

	got, err = Lookup(meta, data, "foo.two", 200.0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCache_MissOnMTimeChange(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	id := Identity{Roots: []string{"foo"}}

	imports := map[modname.Name][]pyimport.DirectImport{"foo.one": {}}
	packages := []PackageImports{{Name: "foo", MTimes: map[modname.Name]float64{"foo.one": 100.0}}}
	require.NoError(t, c.WriteAll(id, packages, imports))

	meta := c.LoadMeta("foo")
	data := c.LoadData(id)

	_, err := Lookup(meta, data, "foo.one", 101.0)
	require.Error(t, err)
	var missErr ErrCacheMiss
	require.ErrorAs(t, err, &missErr)
}

func TestCache_MissOnUnknownModule(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	meta := c.LoadMeta("nonexistent")
	data := c.LoadData(Identity{Roots: []string{"nonexistent"}})

	_, err := Lookup(meta, data, "nonexistent.mod", 1.0)
	require.Error(t, err)
}

func TestIdentity_String(t *testing.T) {
	id := Identity{Roots: []string{"b", "a"}, IncludeExternal: true, ExcludeTypeChecking: true}
	assert.Equal(t, "a,b:external:no_type_checking", id.String())
}

func TestCache_WritesMarkerFiles(t *testing.T) {
	dir := t.TempDir()
	c := New(dir)
	require.NoError(t, c.WriteAll(Identity{Roots: []string{"foo"}}, nil, nil))

	assert.FileExists(t, dir+"/.gitignore")
	assert.FileExists(t, dir+"/CACHEDIR.TAG")
}
