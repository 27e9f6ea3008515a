package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotgraph/dotgraph/domain"
	"github.com/dotgraph/dotgraph/service"
)

// DescendantsCommand lists a module's children or full descendants.
type DescendantsCommand struct {
	queryFlags
	recursive bool
}

// NewDescendantsCmd creates the descendants cobra command.
func NewDescendantsCmd() *cobra.Command {
	c := &DescendantsCommand{}
	cmd := &cobra.Command{
		Use:   "descendants [paths...] --module MODULE",
		Short: "List a module's direct children or full descendant set",
		Long: `Build the import graph for the given paths, then list every
submodule of --module: direct children by default, or the full
descendant tree with --recursive.

Examples:
  dotgraph descendants src/ --module myapp.api
  dotgraph descendants src/ --module myapp.api --recursive`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}
	addQueryFlags(cmd, &c.queryFlags)
	cmd.Flags().String("module", "", "Module to list descendants of")
	cmd.Flags().BoolVar(&c.recursive, "recursive", false, "List every descendant, not just direct children")
	cmd.MarkFlagRequired("module")
	return cmd
}

func (c *DescendantsCommand) run(cmd *cobra.Command, args []string) error {
	paths, err := expandAndValidatePaths(args)
	if err != nil {
		return err
	}
	module, _ := cmd.Flags().GetString("module")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	buildResp, err := buildGraphForQuery(ctx, paths, &c.queryFlags, cmd)
	if err != nil {
		return err
	}

	resp, err := service.NewGraphService().FindDescendants(ctx, domain.DescendantsRequest{
		Graph: buildResp.Handle(), Module: module, Recursive: c.recursive,
	})
	if err != nil {
		return err
	}
	return service.WriteDescendants(resp, c.outputFormat(), cmd.OutOrStdout())
}
