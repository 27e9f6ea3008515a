package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dotgraph/dotgraph/domain"
	"github.com/dotgraph/dotgraph/service"
)

// MatchCommand evaluates a module or import pattern expression.
type MatchCommand struct {
	queryFlags
}

// NewMatchCmd creates the match cobra command.
func NewMatchCmd() *cobra.Command {
	c := &MatchCommand{}
	cmd := &cobra.Command{
		Use:   "match [paths...] EXPRESSION",
		Short: "List modules (or import pairs) matching a pattern expression",
		Long: `Build the import graph for the given paths, then evaluate EXPRESSION
against it: a dotted module pattern with "*"/"**" wildcards
(e.g. "myapp.*.models"), or an import expression of the form
"importer_pattern -> imported_pattern".

Examples:
  dotgraph match src/ "myapp.*.models"
  dotgraph match src/ "myapp.** -> myapp.legacy.**"`,
		Args: cobra.MinimumNArgs(2),
		RunE: c.run,
	}
	addQueryFlags(cmd, &c.queryFlags)
	return cmd
}

func (c *MatchCommand) run(cmd *cobra.Command, args []string) error {
	expression := args[len(args)-1]
	paths, err := expandAndValidatePaths(args[:len(args)-1])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	buildResp, err := buildGraphForQuery(ctx, paths, &c.queryFlags, cmd)
	if err != nil {
		return err
	}

	resp, err := service.NewGraphService().MatchModules(ctx, domain.MatchRequest{
		Graph: buildResp.Handle(), Expression: expression,
	})
	if err != nil {
		return err
	}
	return service.WriteMatch(resp, c.outputFormat(), cmd.OutOrStdout())
}
