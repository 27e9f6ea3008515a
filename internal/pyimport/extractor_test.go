package pyimport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotgraph/dotgraph/internal/modname"
)

func foundPackages(pairs ...[2]string) []FoundPackage {
	var out []FoundPackage
	for _, p := range pairs {
		out = append(out, FoundPackage{
			Name:    modname.Name(p[0]),
			Modules: map[modname.Name]bool{modname.Name(p[1]): true},
		})
	}
	return out
}

func TestExtract_DirectAbsoluteImport(t *testing.T) {
	source := []byte("import foo.two\nimport externalone\n")
	found := foundPackages([2]string{"foo", "foo.one"}, [2]string{"foo", "foo.two"})

	imports, err := Extract(context.Background(), source, "foo.one", false, found, ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, modname.Name("foo.two"), imports[0].Imported)
	assert.Equal(t, 1, imports[0].LineNumber)
	assert.Equal(t, "import foo.two", imports[0].LineText)

	imports, err = Extract(context.Background(), source, "foo.one", false, found, ExtractOptions{IncludeExternal: true})
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, modname.Name("foo.two"), imports[0].Imported)
	assert.Equal(t, modname.Name("externalone"), imports[1].Imported)
	assert.Equal(t, 2, imports[1].LineNumber)
}

func TestExtract_RelativeImportInPackage(t *testing.T) {
	source := []byte("from .yellow import my_function\n")
	found := foundPackages([2]string{"foo", "foo.one"}, [2]string{"foo", "foo.one.yellow"})

	imports, err := Extract(context.Background(), source, "foo.one", true, found, ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, modname.Name("foo.one.yellow"), imports[0].Imported)
	assert.Equal(t, "from .yellow import my_function", imports[0].LineText)
}

func TestExtract_SyntaxError(t *testing.T) {
	source := []byte("def f(:\n")
	_, err := Extract(context.Background(), source, "foo.one", false, nil, ExtractOptions{})
	require.Error(t, err)
	var synErr SourceSyntaxError
	require.ErrorAs(t, err, &synErr)
}

func TestExtract_TypeCheckingGuardExcluded(t *testing.T) {
	source := []byte("from typing import TYPE_CHECKING\nif TYPE_CHECKING:\n    import foo.two\n")
	found := foundPackages([2]string{"foo", "foo.one"}, [2]string{"foo", "foo.two"})

	imports, err := Extract(context.Background(), source, "foo.one", false, found, ExtractOptions{ExcludeTypeChecking: true})
	require.NoError(t, err)
	assert.Empty(t, imports)

	imports, err = Extract(context.Background(), source, "foo.one", false, found, ExtractOptions{ExcludeTypeChecking: false})
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, modname.Name("foo.two"), imports[0].Imported)
}

func TestExtract_FromImportAttributeOfInternalModule(t *testing.T) {
	source := []byte("from foo import one\n")
	found := foundPackages([2]string{"foo", "foo"}, [2]string{"foo", "foo.one"})
	// foo.one is itself internal, so the resolved edge targets it rather
	// than falling back to foo.
	imports, err := Extract(context.Background(), source, "bar", false, found, ExtractOptions{})
	require.NoError(t, err)
	require.Len(t, imports, 1)
	assert.Equal(t, modname.Name("foo.one"), imports[0].Imported)
}
