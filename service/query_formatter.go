package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotgraph/dotgraph/domain"
)

// WriteChain renders a domain.ChainResponse in the requested format.
func WriteChain(resp *domain.ChainResponse, format domain.OutputFormat, w io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case domain.OutputFormatYAML:
		return yaml.NewEncoder(w).Encode(resp)
	case domain.OutputFormatCSV:
		cw := csv.NewWriter(w)
		defer cw.Flush()
		for _, c := range resp.Chains {
			if err := cw.Write([]string{fmt.Sprint(c.Exists), strings.Join(c.Modules, " -> ")}); err != nil {
				return err
			}
		}
		return nil
	default:
		for _, c := range resp.Chains {
			if !c.Exists {
				fmt.Fprintln(w, "no chain found")
				continue
			}
			fmt.Fprintln(w, strings.Join(c.Modules, " -> "))
		}
		return nil
	}
}

// WriteDescendants renders a domain.DescendantsResponse.
func WriteDescendants(resp *domain.DescendantsResponse, format domain.OutputFormat, w io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case domain.OutputFormatYAML:
		return yaml.NewEncoder(w).Encode(resp)
	default:
		for _, m := range resp.Modules {
			fmt.Fprintln(w, m)
		}
		return nil
	}
}

// WriteMatch renders a domain.MatchResponse.
func WriteMatch(resp *domain.MatchResponse, format domain.OutputFormat, w io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case domain.OutputFormatYAML:
		return yaml.NewEncoder(w).Encode(resp)
	default:
		for _, m := range resp.Modules {
			fmt.Fprintln(w, m)
		}
		for _, e := range resp.Imports {
			fmt.Fprintf(w, "%s -> %s\n", e.From, e.To)
		}
		return nil
	}
}

// WriteCycles renders a domain.CyclesResponse.
func WriteCycles(resp *domain.CyclesResponse, format domain.OutputFormat, w io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case domain.OutputFormatYAML:
		return yaml.NewEncoder(w).Encode(resp)
	default:
		for _, e := range resp.Edges {
			fmt.Fprintf(w, "%s -> %s\n", e.From, e.To)
		}
		return nil
	}
}
