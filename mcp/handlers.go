package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dotgraph/dotgraph/domain"
	"github.com/dotgraph/dotgraph/internal/config"
)

// HandlerSet binds the MCP tool handlers to a Dependencies instance as
// methods rather than package-level free functions, so tests can
// inject a fake GraphService.
type HandlerSet struct {
	deps *Dependencies
}

// NewHandlerSet constructs a HandlerSet.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	return &HandlerSet{deps: deps}
}

func stringArg(args map[string]interface{}, name string) (string, bool) {
	v, ok := args[name].(string)
	return v, ok
}

func boolArg(args map[string]interface{}, name string) bool {
	v, _ := args[name].(bool)
	return v
}

func parseArgs(request mcp.CallToolRequest) (map[string]interface{}, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid arguments format")
	}
	return args, nil
}

func requirePath(args map[string]interface{}) (string, *mcp.CallToolResult) {
	path, ok := stringArg(args, "path")
	if !ok || path == "" {
		return "", mcp.NewToolResultError("path parameter is required and must be a string")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path))
	}
	return path, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// HandleBuildGraph handles the build_graph tool.
func (h *HandlerSet) HandleBuildGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, errResult := requirePath(args)
	if errResult != nil {
		return errResult, nil
	}

	req := buildRequestForPath(path, boolArg(args, "include_external"), boolArg(args, "exclude_type_checking"))
	resp, err := h.deps.GraphService().Build(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", err)), nil
	}
	return jsonResult(resp)
}

// HandleFindChain handles the find_chain tool. It builds the graph
// fresh from path, since the MCP transport gives handlers no built-in
// way to carry a live domain.GraphHandle between calls.
func (h *HandlerSet) HandleFindChain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, errResult := requirePath(args)
	if errResult != nil {
		return errResult, nil
	}
	importer, ok := stringArg(args, "importer")
	if !ok || importer == "" {
		return mcp.NewToolResultError("importer parameter is required and must be a string"), nil
	}
	imported, ok := stringArg(args, "imported")
	if !ok || imported == "" {
		return mcp.NewToolResultError("imported parameter is required and must be a string"), nil
	}

	built, err := h.deps.GraphService().Build(ctx, buildRequestForPath(path, false, false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", err)), nil
	}

	result, err := h.deps.GraphService().FindChain(ctx, domain.ChainRequest{
		Graph:      built.Handle(),
		Importer:   importer,
		Imported:   imported,
		AsPackages: boolArg(args, "as_packages"),
		All:        boolArg(args, "all"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chain query failed: %v", err)), nil
	}
	return jsonResult(result)
}

// HandleFindDescendants handles the find_descendants tool.
func (h *HandlerSet) HandleFindDescendants(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, errResult := requirePath(args)
	if errResult != nil {
		return errResult, nil
	}
	module, ok := stringArg(args, "module")
	if !ok || module == "" {
		return mcp.NewToolResultError("module parameter is required and must be a string"), nil
	}

	built, err := h.deps.GraphService().Build(ctx, buildRequestForPath(path, false, false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", err)), nil
	}

	result, err := h.deps.GraphService().FindDescendants(ctx, domain.DescendantsRequest{
		Graph:     built.Handle(),
		Module:    module,
		Recursive: boolArg(args, "recursive"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("descendants query failed: %v", err)), nil
	}
	return jsonResult(result)
}

// HandleMatchModules handles the match_modules tool.
func (h *HandlerSet) HandleMatchModules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, errResult := requirePath(args)
	if errResult != nil {
		return errResult, nil
	}
	expression, ok := stringArg(args, "expression")
	if !ok || expression == "" {
		return mcp.NewToolResultError("expression parameter is required and must be a string"), nil
	}

	built, err := h.deps.GraphService().Build(ctx, buildRequestForPath(path, false, false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", err)), nil
	}

	result, err := h.deps.GraphService().MatchModules(ctx, domain.MatchRequest{
		Graph:      built.Handle(),
		Expression: expression,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("match failed: %v", err)), nil
	}
	return jsonResult(result)
}

// HandleNominateCycleBreakers handles the nominate_cycle_breakers tool.
func (h *HandlerSet) HandleNominateCycleBreakers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, errResult := requirePath(args)
	if errResult != nil {
		return errResult, nil
	}
	pkg, ok := stringArg(args, "package")
	if !ok || pkg == "" {
		return mcp.NewToolResultError("package parameter is required and must be a string"), nil
	}

	built, err := h.deps.GraphService().Build(ctx, buildRequestForPath(path, false, false))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", err)), nil
	}

	result, err := h.deps.GraphService().NominateCycleBreakers(ctx, domain.CyclesRequest{
		Graph:   built.Handle(),
		Package: pkg,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cycle-breaker nomination failed: %v", err)), nil
	}
	return jsonResult(result)
}

// HandleCheckArchitecture handles the check_architecture tool: it loads
// layer/container configuration the same way the build CLI command
// does and reports whatever violations turn up.
func (h *HandlerSet) HandleCheckArchitecture(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path, errResult := requirePath(args)
	if errResult != nil {
		return errResult, nil
	}

	req := buildRequestForPath(path, false, false)
	cfg, err := config.Load("", path)
	if err == nil && len(cfg.Layers) > 0 {
		spec := &domain.ArchitectureConfigSpec{Containers: append([]string{}, cfg.Containers...)}
		for _, l := range cfg.Layers {
			spec.Layers = append(spec.Layers, domain.ArchitectureLayer{
				Tails:       append([]string{}, l.Tails...),
				Independent: l.Independent,
				Closed:      l.Closed,
			})
		}
		req.Architecture = spec
	}

	resp, err := h.deps.GraphService().Build(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("build failed: %v", err)), nil
	}
	return jsonResult(resp.LayerViolations)
}
