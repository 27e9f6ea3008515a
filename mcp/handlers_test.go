package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"github.com/dotgraph/dotgraph/domain"
)

func writeTestPackage(t *testing.T, root string) {
	t.Helper()
	mustWrite(t, filepath.Join(root, "__init__.py"), "")
	mustWrite(t, filepath.Join(root, "one.py"), "import testpkg.two\n")
	mustWrite(t, filepath.Join(root, "two.py"), "")
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func callToolRequest(name string, args map[string]interface{}) mcptypes.CallToolRequest {
	return mcptypes.CallToolRequest{
		Params: mcptypes.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func decodeResult(t *testing.T, result *mcptypes.CallToolResult, v interface{}) {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected successful MCP tool result, got error result: %+v", result.Content)
	}
	if len(result.Content) == 0 {
		t.Fatal("expected tool result content")
	}
	text, ok := result.Content[0].(mcptypes.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	if err := json.Unmarshal([]byte(text.Text), v); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
}

func TestHandleBuildGraph(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "testpkg")
	if err := os.Mkdir(pkg, 0o755); err != nil {
		t.Fatalf("failed to create package dir: %v", err)
	}
	writeTestPackage(t, pkg)

	handlers := NewHandlerSet(NewDependencies())
	result, err := handlers.HandleBuildGraph(context.Background(), callToolRequest("build_graph", map[string]interface{}{
		"path": pkg,
	}))
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}

	var resp domain.BuildResponse
	decodeResult(t, result, &resp)
	if resp.Summary.Modules != 3 {
		t.Fatalf("expected 3 modules, got %d (%v)", resp.Summary.Modules, resp.Modules)
	}
	if resp.Summary.Edges != 1 {
		t.Fatalf("expected 1 edge, got %d", resp.Summary.Edges)
	}
}

func TestHandleBuildGraph_MissingPath(t *testing.T) {
	handlers := NewHandlerSet(NewDependencies())
	result, err := handlers.HandleBuildGraph(context.Background(), callToolRequest("build_graph", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an error result when path is missing")
	}
}

func TestHandleFindDescendants(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "testpkg")
	if err := os.Mkdir(pkg, 0o755); err != nil {
		t.Fatalf("failed to create package dir: %v", err)
	}
	writeTestPackage(t, pkg)

	handlers := NewHandlerSet(NewDependencies())
	result, err := handlers.HandleFindDescendants(context.Background(), callToolRequest("find_descendants", map[string]interface{}{
		"path":   pkg,
		"module": "testpkg",
	}))
	if err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}

	var resp domain.DescendantsResponse
	decodeResult(t, result, &resp)
	if len(resp.Modules) != 2 {
		t.Fatalf("expected 2 children, got %v", resp.Modules)
	}
}
