package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/dotgraph/dotgraph/domain"
)

// DepsFormatter implements domain.DepsOutputFormatter across every
// format this tool supports. There is no HTML report: drawing and
// visualization are out of scope.
type DepsFormatter struct{}

// NewDepsFormatter constructs a DepsFormatter.
func NewDepsFormatter() *DepsFormatter { return &DepsFormatter{} }

var _ domain.DepsOutputFormatter = (*DepsFormatter)(nil)

func (f *DepsFormatter) Write(resp *domain.BuildResponse, format domain.OutputFormat, w io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case domain.OutputFormatYAML:
		return yaml.NewEncoder(w).Encode(resp)
	case domain.OutputFormatCSV:
		return f.writeCSV(resp, w)
	case domain.OutputFormatDOT:
		return f.writeDOT(resp, w)
	case domain.OutputFormatText, "":
		return f.writeText(resp, w)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *DepsFormatter) writeCSV(resp *domain.BuildResponse, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"from", "to"}); err != nil {
		return err
	}
	for _, e := range resp.Edges {
		if err := cw.Write([]string{e.From, e.To}); err != nil {
			return err
		}
	}
	return nil
}

func (f *DepsFormatter) writeDOT(resp *domain.BuildResponse, w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph dotgraph {"); err != nil {
		return err
	}
	for _, m := range resp.Modules {
		if _, err := fmt.Fprintf(w, "  %q;\n", m); err != nil {
			return err
		}
	}
	for _, e := range resp.Edges {
		if _, err := fmt.Fprintf(w, "  %q -> %q;\n", e.From, e.To); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func (f *DepsFormatter) writeText(resp *domain.BuildResponse, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Modules: %d  Edges: %d  Squashed: %d\n",
		resp.Summary.Modules, resp.Summary.Edges, resp.Summary.SquashedModules); err != nil {
		return err
	}
	for _, e := range resp.Edges {
		if _, err := fmt.Fprintf(w, "  %s -> %s\n", e.From, e.To); err != nil {
			return err
		}
	}
	if len(resp.LayerViolations) > 0 {
		if _, err := fmt.Fprintf(w, "\nLayer violations: %d\n", len(resp.LayerViolations)); err != nil {
			return err
		}
		violations := append([]domain.LayerViolation(nil), resp.LayerViolations...)
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].FromModule != violations[j].FromModule {
				return violations[i].FromModule < violations[j].FromModule
			}
			return violations[i].ToModule < violations[j].ToModule
		})
		for _, v := range violations {
			if _, err := fmt.Fprintf(w, "  %s -> %s\n", v.FromModule, v.ToModule); err != nil {
				return err
			}
		}
	}
	return nil
}
