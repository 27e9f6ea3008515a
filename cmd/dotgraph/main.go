package main

import (
	"os"

	"github.com/dotgraph/dotgraph/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dotgraph",
	Short: "A static import-graph builder and query tool for Python source trees",
	Long: `dotgraph builds a directed graph of the import relationships between
a Python codebase's modules and packages, and answers structural
questions against it:

  • does one module import another, directly or through a chain?
  • what does a package depend on, and what depends on it?
  • does the codebase conform to a layered architecture?
  • which imports would need to be removed to break its cycles?`,
	Version: version.Short(),
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewChainCmd())
	rootCmd.AddCommand(NewDescendantsCmd())
	rootCmd.AddCommand(NewMatchCmd())
	rootCmd.AddCommand(NewCyclesCmd())
	rootCmd.AddCommand(NewMCPCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
