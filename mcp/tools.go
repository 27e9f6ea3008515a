package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers every dotgraph MCP tool with the server.
func RegisterTools(s *server.MCPServer, h *HandlerSet) {
	s.AddTool(mcp.NewTool("build_graph",
		mcp.WithDescription("Build the import graph for a Python package and return its module/edge summary"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the root package directory to analyze")),
		mcp.WithBoolean("include_external",
			mcp.Description("Include third-party and stdlib modules as squashed nodes (default: false)")),
		mcp.WithBoolean("exclude_type_checking",
			mcp.Description("Exclude imports guarded by \"if TYPE_CHECKING:\" (default: false)")),
	), h.HandleBuildGraph)

	s.AddTool(mcp.NewTool("find_chain",
		mcp.WithDescription("Find the shortest import chain (or every shortest chain) between two modules"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the root package directory to analyze")),
		mcp.WithString("importer",
			mcp.Required(),
			mcp.Description("Fully qualified module name the chain starts from")),
		mcp.WithString("imported",
			mcp.Required(),
			mcp.Description("Fully qualified module name the chain ends at")),
		mcp.WithBoolean("as_packages",
			mcp.Description("Treat importer/imported as whole packages rather than single modules")),
		mcp.WithBoolean("all",
			mcp.Description("Return every shortest chain between the two packages instead of one")),
	), h.HandleFindChain)

	s.AddTool(mcp.NewTool("find_descendants",
		mcp.WithDescription("List a module's direct children or full descendant set in the name hierarchy"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the root package directory to analyze")),
		mcp.WithString("module",
			mcp.Required(),
			mcp.Description("Fully qualified module name to resolve descendants of")),
		mcp.WithBoolean("recursive",
			mcp.Description("Return every descendant instead of only direct children (default: false)")),
	), h.HandleFindDescendants)

	s.AddTool(mcp.NewTool("match_modules",
		mcp.WithDescription("Evaluate a module-name or import-expression pattern (supporting * and ** wildcards) against the graph"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the root package directory to analyze")),
		mcp.WithString("expression",
			mcp.Required(),
			mcp.Description("A module expression (e.g. \"pkg.**\") or import expression (e.g. \"pkg.* -> pkg.db\")")),
	), h.HandleMatchModules)

	s.AddTool(mcp.NewTool("nominate_cycle_breakers",
		mcp.WithDescription("Nominate a minimal set of import edges whose removal breaks every cycle among a package's direct children"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the root package directory to analyze")),
		mcp.WithString("package",
			mcp.Required(),
			mcp.Description("Fully qualified name of the package to analyze for cycles")),
	), h.HandleNominateCycleBreakers)

	s.AddTool(mcp.NewTool("check_architecture",
		mcp.WithDescription("Build the graph and report layered-architecture violations found via dotgraph.toml/pyproject.toml configuration"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the root package directory to analyze")),
	), h.HandleCheckArchitecture)
}
