package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotgraph/dotgraph/domain"
	"github.com/dotgraph/dotgraph/internal/config"
	"github.com/dotgraph/dotgraph/service"
)

// queryFlags are the build-affecting flags every query subcommand
// shares with `build`, since a query must build the graph before it can
// run against it.
type queryFlags struct {
	configFile      string
	includeExternal bool
	excludeTypeChk  bool
	noCache         bool
	cacheDir        string
	include         []string
	exclude         []string
	format          string
}

func addQueryFlags(cmd *cobra.Command, f *queryFlags) {
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Configuration file path (dotgraph.toml or pyproject.toml)")
	cmd.Flags().BoolVar(&f.includeExternal, "include-external", false, "Include third-party and stdlib modules in the graph")
	cmd.Flags().BoolVar(&f.excludeTypeChk, "exclude-type-checking", false, "Exclude imports guarded by \"if TYPE_CHECKING:\"")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "Disable the incremental import cache")
	cmd.Flags().StringVar(&f.cacheDir, "cache-dir", "", "Override the cache directory")
	cmd.Flags().StringSliceVar(&f.include, "include", nil, "Glob patterns of files to include")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "Glob patterns of files to exclude")
	cmd.Flags().StringVar(&f.format, "format", "text", "Output format: text, json, yaml, csv (csv applies to chain; the other queries print text for it)")
}

// buildGraphForQuery builds the graph for paths using f, returning a
// BuildResponse whose Handle() backs the query.
func buildGraphForQuery(ctx context.Context, paths []string, f *queryFlags, cmd *cobra.Command) (*domain.BuildResponse, error) {
	req := domain.BuildRequest{
		Roots:               rootsFromPaths(paths),
		IncludeExternal:     f.includeExternal,
		ExcludeTypeChecking: f.excludeTypeChk,
		IncludePatterns:     f.include,
		ExcludePatterns:     f.exclude,
		NoCache:             f.noCache,
		CacheDir:            f.cacheDir,
	}
	if cfg, err := config.Load(f.configFile, paths[0]); err == nil {
		changed := flagsChanged(cmd, "include", "exclude", "cache-dir", "include-external", "exclude-type-checking")
		applyConfigDefaults(&req, cfg, changed)
	}
	return service.NewGraphService().Build(ctx, req)
}

func (f *queryFlags) outputFormat() domain.OutputFormat {
	switch f.format {
	case "json":
		return domain.OutputFormatJSON
	case "yaml":
		return domain.OutputFormatYAML
	case "csv":
		return domain.OutputFormatCSV
	default:
		return domain.OutputFormatText
	}
}
