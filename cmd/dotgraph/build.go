package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dotgraph/dotgraph/app"
	"github.com/dotgraph/dotgraph/domain"
	"github.com/dotgraph/dotgraph/internal/config"
	"github.com/dotgraph/dotgraph/service"
)

// BuildCommand represents the build command.
type BuildCommand struct {
	json            bool
	yaml            bool
	csv             bool
	dot             bool
	configFile      string
	includeExternal bool
	excludeTypeChk  bool
	noCache         bool
	cacheDir        string
	include         []string
	exclude         []string
	progress        bool
	output          string
	report          bool
}

// NewBuildCommand creates a new build command.
func NewBuildCommand() *BuildCommand { return &BuildCommand{} }

// NewBuildCmd creates and returns the build cobra command.
func NewBuildCmd() *cobra.Command {
	c := NewBuildCommand()
	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Build the import graph for one or more Python packages",
		Long: `Discover every module under each given directory, extract its
static imports, and assemble the result into a directed import graph.

Examples:
  dotgraph build src/
  dotgraph build --json src/ > graph.json
  dotgraph build --dot src/ | dot -Tsvg -o graph.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}

	cmd.Flags().BoolVar(&c.json, "json", false, "Output the graph as JSON")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output the graph as YAML")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output the graph edges as CSV")
	cmd.Flags().BoolVar(&c.dot, "dot", false, "Output the graph in Graphviz DOT format")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path (dotgraph.toml or pyproject.toml)")
	cmd.Flags().BoolVar(&c.includeExternal, "include-external", false, "Include third-party and stdlib modules in the graph")
	cmd.Flags().BoolVar(&c.excludeTypeChk, "exclude-type-checking", false, "Exclude imports guarded by \"if TYPE_CHECKING:\"")
	cmd.Flags().BoolVar(&c.noCache, "no-cache", false, "Disable the incremental import cache")
	cmd.Flags().StringVar(&c.cacheDir, "cache-dir", "", "Override the cache directory")
	cmd.Flags().StringSliceVar(&c.include, "include", nil, "Glob patterns of files to include")
	cmd.Flags().StringSliceVar(&c.exclude, "exclude", nil, "Glob patterns of files to exclude")
	cmd.Flags().BoolVar(&c.progress, "progress", false, "Show an extraction progress bar")
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&c.report, "report", false, "Write the report to a timestamped file under .dotgraph/reports")
	return cmd
}

func (c *BuildCommand) run(cmd *cobra.Command, args []string) error {
	paths, err := expandAndValidatePaths(args)
	if err != nil {
		return err
	}

	formatCount := 0
	format := domain.OutputFormatText
	for _, f := range []struct {
		set bool
		fmt domain.OutputFormat
	}{
		{c.json, domain.OutputFormatJSON},
		{c.yaml, domain.OutputFormatYAML},
		{c.csv, domain.OutputFormatCSV},
		{c.dot, domain.OutputFormatDOT},
	} {
		if f.set {
			formatCount++
			format = f.fmt
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one of --json, --yaml, --csv, --dot can be specified")
	}

	outputPath := c.output
	if outputPath == "" && c.report {
		outputPath, err = generateOutputFilePath("build", formatExtension(format))
		if err != nil {
			return err
		}
	}

	req := domain.BuildRequest{
		Roots:               rootsFromPaths(paths),
		IncludeExternal:     c.includeExternal,
		ExcludeTypeChecking: c.excludeTypeChk,
		IncludePatterns:     c.include,
		ExcludePatterns:     c.exclude,
		NoCache:             c.noCache,
		CacheDir:            c.cacheDir,
		Architecture:        loadArchitectureConfig(c.configFile, paths),
		ShowProgress:        c.progress,
	}
	if cfg, err := config.Load(c.configFile, paths[0]); err == nil {
		changed := flagsChanged(cmd, "include", "exclude", "cache-dir", "include-external", "exclude-type-checking")
		applyConfigDefaults(&req, cfg, changed)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	uc := app.NewBuildUseCase(service.NewGraphService(), service.NewDepsFormatter(), service.NewFileReportWriter())
	_, err = uc.Execute(ctx, req, cmd.OutOrStdout(), outputPath, format)
	return err
}

// formatExtension maps an output format to the file extension used for
// generated report filenames.
func formatExtension(format domain.OutputFormat) string {
	switch format {
	case domain.OutputFormatJSON:
		return "json"
	case domain.OutputFormatYAML:
		return "yaml"
	case domain.OutputFormatCSV:
		return "csv"
	case domain.OutputFormatDOT:
		return "dot"
	default:
		return "txt"
	}
}
