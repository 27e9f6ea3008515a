package main

import (
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/dotgraph/dotgraph/mcp"
)

const (
	mcpServerName    = "dotgraph"
	mcpServerVersion = "1.0.0"
)

// NewMCPCmd creates and returns the mcp cobra command, which starts a
// stdio Model Context Protocol server exposing dotgraph's build/query
// surface as tools, folded into a subcommand of the single dotgraph
// binary rather than a second entry point.
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start a Model Context Protocol server exposing dotgraph's tools",
		Long: `Start a stdio MCP server so an LLM client can build and query import
graphs directly: build_graph, find_chain, find_descendants,
match_modules, nominate_cycle_breakers, and check_architecture.`,
		RunE: runMCPServer,
	}
}

func runMCPServer(cmd *cobra.Command, args []string) error {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	server := mcpserver.NewMCPServer(
		mcpServerName,
		mcpServerVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	handlers := mcp.NewHandlerSet(mcp.NewDependencies())
	mcp.RegisterTools(server, handlers)

	log.Printf("Starting %s MCP server v%s", mcpServerName, mcpServerVersion)
	log.Println("Registered tools:")
	log.Println("  - build_graph: Build the import graph for a package")
	log.Println("  - find_chain: Shortest import chain between two modules")
	log.Println("  - find_descendants: Children/descendants of a module")
	log.Println("  - match_modules: Pattern match over module names and imports")
	log.Println("  - nominate_cycle_breakers: Minimal edge set to break cycles")
	log.Println("  - check_architecture: Layered-architecture conformance")
	log.Println("Server ready - waiting for MCP client connection...")

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
	return nil
}
