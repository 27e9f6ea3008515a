package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotgraph/dotgraph/internal/modname"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuild_SimpleGraph(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "foo")
	writeFile(t, filepath.Join(pkg, "__init__.py"), "")
	writeFile(t, filepath.Join(pkg, "one.py"), "import foo.two\n")
	writeFile(t, filepath.Join(pkg, "two.py"), "")

	res, err := Build(context.Background(), []Root{{Name: "foo", Directory: pkg}}, Options{
		NoCache: true,
	})
	require.NoError(t, err)

	exists, err := res.Graph.DirectImportExists("foo.one", "foo.two", false)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBuild_UsesCacheOnSecondRun(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "foo")
	writeFile(t, filepath.Join(pkg, "__init__.py"), "")
	writeFile(t, filepath.Join(pkg, "one.py"), "import foo.two\n")
	writeFile(t, filepath.Join(pkg, "two.py"), "")

	cacheDir := filepath.Join(root, "cache")
	opts := Options{CacheDir: cacheDir}

	res1, err := Build(context.Background(), []Root{{Name: "foo", Directory: pkg}}, opts)
	require.NoError(t, err)
	assert.Equal(t, 1, res1.Graph.CountImports())

	res2, err := Build(context.Background(), []Root{{Name: "foo", Directory: pkg}}, opts)
	require.NoError(t, err)
	exists, err := res2.Graph.DirectImportExists("foo.one", "foo.two", false)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestBuild_ExternalModulesSquashed(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "foo")
	writeFile(t, filepath.Join(pkg, "__init__.py"), "")
	writeFile(t, filepath.Join(pkg, "one.py"), "import requests\n")

	res, err := Build(context.Background(), []Root{{Name: "foo", Directory: pkg}}, Options{
		NoCache:         true,
		IncludeExternal: true,
	})
	require.NoError(t, err)

	squashed, err := res.Graph.IsModuleSquashed(modname.Name("requests"))
	require.NoError(t, err)
	assert.True(t, squashed)
}

func TestBuild_SyntaxErrorIsFatal(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "foo")
	writeFile(t, filepath.Join(pkg, "__init__.py"), "")
	writeFile(t, filepath.Join(pkg, "bad.py"), "def f(:\n")

	_, err := Build(context.Background(), []Root{{Name: "foo", Directory: pkg}}, Options{NoCache: true})
	require.Error(t, err)
}
