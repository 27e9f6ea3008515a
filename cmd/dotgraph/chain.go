package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotgraph/dotgraph/domain"
	"github.com/dotgraph/dotgraph/service"
)

// ChainCommand finds the shortest import chain between two modules.
type ChainCommand struct {
	queryFlags
	asPackages bool
	all        bool
}

// NewChainCmd creates the chain cobra command.
func NewChainCmd() *cobra.Command {
	c := &ChainCommand{}
	cmd := &cobra.Command{
		Use:   "chain [paths...] --from MODULE --to MODULE",
		Short: "Find the shortest import chain between two modules",
		Long: `Build the import graph for the given paths, then report the
shortest chain of imports connecting --from to --to, if one exists.

Examples:
  dotgraph chain src/ --from myapp.api --to myapp.db
  dotgraph chain src/ --from myapp.api --to myapp.db --as-packages
  dotgraph chain src/ --from myapp.api --to myapp.db --all`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}
	addQueryFlags(cmd, &c.queryFlags)
	cmd.Flags().String("from", "", "Importer module")
	cmd.Flags().String("to", "", "Imported module")
	cmd.Flags().BoolVar(&c.asPackages, "as-packages", false, "Treat --from/--to as whole packages")
	cmd.Flags().BoolVar(&c.all, "all", false, "Report every shortest chain instead of one")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	return cmd
}

func (c *ChainCommand) run(cmd *cobra.Command, args []string) error {
	paths, err := expandAndValidatePaths(args)
	if err != nil {
		return err
	}
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	buildResp, err := buildGraphForQuery(ctx, paths, &c.queryFlags, cmd)
	if err != nil {
		return err
	}

	resp, err := service.NewGraphService().FindChain(ctx, domain.ChainRequest{
		Graph: buildResp.Handle(), Importer: from, Imported: to, AsPackages: c.asPackages, All: c.all,
	})
	if err != nil {
		return err
	}
	return service.WriteChain(resp, c.outputFormat(), cmd.OutOrStdout())
}
