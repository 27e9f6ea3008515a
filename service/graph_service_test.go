package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotgraph/dotgraph/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func buildSample(t *testing.T) *domain.BuildResponse {
	t.Helper()
	root := t.TempDir()
	pkg := filepath.Join(root, "foo")
	writeFile(t, filepath.Join(pkg, "__init__.py"), "")
	writeFile(t, filepath.Join(pkg, "one.py"), "import foo.two\n")
	writeFile(t, filepath.Join(pkg, "two.py"), "import foo.three\n")
	writeFile(t, filepath.Join(pkg, "three.py"), "")

	svc := NewGraphService()
	resp, err := svc.Build(context.Background(), domain.BuildRequest{
		Roots:   []domain.GraphRoot{{Name: "foo", Directory: pkg}},
		NoCache: true,
	})
	require.NoError(t, err)
	return resp
}

func TestGraphService_Build(t *testing.T) {
	resp := buildSample(t)
	assert.Equal(t, 4, resp.Summary.Modules)
	assert.Equal(t, 2, resp.Summary.Edges)
}

func TestGraphService_FindChain(t *testing.T) {
	resp := buildSample(t)
	svc := NewGraphService()
	chainResp, err := svc.FindChain(context.Background(), domain.ChainRequest{
		Graph: resp.Handle(), Importer: "foo.one", Imported: "foo.three",
	})
	require.NoError(t, err)
	require.Len(t, chainResp.Chains, 1)
	assert.True(t, chainResp.Chains[0].Exists)
	assert.Equal(t, []string{"foo.one", "foo.two", "foo.three"}, chainResp.Chains[0].Modules)
}

func TestGraphService_FindDescendants(t *testing.T) {
	resp := buildSample(t)
	svc := NewGraphService()
	descResp, err := svc.FindDescendants(context.Background(), domain.DescendantsRequest{
		Graph: resp.Handle(), Module: "foo", Recursive: true,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"foo.one", "foo.two", "foo.three"}, descResp.Modules)
}

func TestGraphService_MatchModules(t *testing.T) {
	resp := buildSample(t)
	svc := NewGraphService()
	matchResp, err := svc.MatchModules(context.Background(), domain.MatchRequest{
		Graph: resp.Handle(), Expression: "foo.*",
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"foo.one", "foo.two", "foo.three"}, matchResp.Modules)
}

func TestGraphService_MatchImports(t *testing.T) {
	resp := buildSample(t)
	svc := NewGraphService()
	matchResp, err := svc.MatchModules(context.Background(), domain.MatchRequest{
		Graph: resp.Handle(), Expression: "** -> **",
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.ModuleEdge{
		{From: "foo.one", To: "foo.two"},
		{From: "foo.two", To: "foo.three"},
	}, matchResp.Imports)
}

func TestGraphService_MatchInvalidImportExpression(t *testing.T) {
	resp := buildSample(t)
	svc := NewGraphService()
	_, err := svc.MatchModules(context.Background(), domain.MatchRequest{
		Graph: resp.Handle(), Expression: "foo* -> **",
	})
	require.Error(t, err)
	var domainErr domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeInvalidImportExpression, domainErr.Code)
}

func TestGraphService_NominateCycleBreakers_NoCycle(t *testing.T) {
	resp := buildSample(t)
	svc := NewGraphService()
	cyclesResp, err := svc.NominateCycleBreakers(context.Background(), domain.CyclesRequest{
		Graph: resp.Handle(), Package: "foo",
	})
	require.NoError(t, err)
	assert.Empty(t, cyclesResp.Edges)
}

func TestGraphService_Build_WithArchitecture(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "foo")
	writeFile(t, filepath.Join(pkg, "__init__.py"), "")
	writeFile(t, filepath.Join(pkg, "high.py"), "import foo.low\n")
	writeFile(t, filepath.Join(pkg, "low.py"), "import foo.high\n")

	svc := NewGraphService()
	resp, err := svc.Build(context.Background(), domain.BuildRequest{
		Roots:   []domain.GraphRoot{{Name: "foo", Directory: pkg}},
		NoCache: true,
		Architecture: &domain.ArchitectureConfigSpec{
			Containers: []string{"foo"},
			Layers: []domain.ArchitectureLayer{
				{Tails: []string{"high"}},
				{Tails: []string{"low"}},
			},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.LayerViolations)
}
