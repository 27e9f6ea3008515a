package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotgraph/dotgraph/domain"
	"github.com/dotgraph/dotgraph/service"
)

func TestBuildUseCase_Execute(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "foo")
	require.NoError(t, os.MkdirAll(pkg, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "__init__.py"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "one.py"), []byte("import foo.two\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "two.py"), nil, 0o644))

	uc := NewBuildUseCase(service.NewGraphService(), service.NewDepsFormatter(), service.NewFileReportWriter())

	var buf bytes.Buffer
	resp, err := uc.Execute(context.Background(), domain.BuildRequest{
		Roots:   []domain.GraphRoot{{Name: "foo", Directory: pkg}},
		NoCache: true,
	}, &buf, "", domain.OutputFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Summary.Modules)
	assert.Contains(t, buf.String(), "foo.one")
}
