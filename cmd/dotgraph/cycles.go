package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotgraph/dotgraph/domain"
	"github.com/dotgraph/dotgraph/service"
)

// CyclesCommand nominates a minimal set of edges whose removal breaks
// every cycle among a package's direct children.
type CyclesCommand struct {
	queryFlags
}

// NewCyclesCmd creates the cycles cobra command.
func NewCyclesCmd() *cobra.Command {
	c := &CyclesCommand{}
	cmd := &cobra.Command{
		Use:   "cycles [paths...] --package PACKAGE",
		Short: "Nominate a minimal set of edges that break a package's internal cycles",
		Long: `Build the import graph for the given paths, then nominate a
deterministic, minimal set of (importer, imported) edges whose removal
would make --package's child-level dependency graph acyclic.

Examples:
  dotgraph cycles src/ --package myapp.services`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}
	addQueryFlags(cmd, &c.queryFlags)
	cmd.Flags().String("package", "", "Package to analyze for internal cycles")
	cmd.MarkFlagRequired("package")
	return cmd
}

func (c *CyclesCommand) run(cmd *cobra.Command, args []string) error {
	paths, err := expandAndValidatePaths(args)
	if err != nil {
		return err
	}
	pkg, _ := cmd.Flags().GetString("package")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	buildResp, err := buildGraphForQuery(ctx, paths, &c.queryFlags, cmd)
	if err != nil {
		return err
	}

	resp, err := service.NewGraphService().NominateCycleBreakers(ctx, domain.CyclesRequest{
		Graph: buildResp.Handle(), Package: pkg,
	})
	if err != nil {
		return err
	}
	return service.WriteCycles(resp, c.outputFormat(), cmd.OutOrStdout())
}
