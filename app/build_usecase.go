// Package app composes domain services for CLI and MCP consumption,
// wrapping domain.GraphService behind a use case that also owns
// config resolution and report writing.
package app

import (
	"context"
	"io"

	"github.com/dotgraph/dotgraph/domain"
)

// BuildUseCase builds an import graph and writes a formatted report.
type BuildUseCase struct {
	Service   domain.GraphService
	Formatter domain.DepsOutputFormatter
	Writer    domain.ReportWriter
}

// NewBuildUseCase constructs a BuildUseCase from its collaborators.
func NewBuildUseCase(svc domain.GraphService, formatter domain.DepsOutputFormatter, writer domain.ReportWriter) *BuildUseCase {
	return &BuildUseCase{Service: svc, Formatter: formatter, Writer: writer}
}

// Execute builds the graph described by req and writes it to out (or
// outputPath, if non-empty) in format. It returns the BuildResponse so
// callers can chain further queries against its live handle.
func (uc *BuildUseCase) Execute(ctx context.Context, req domain.BuildRequest, out io.Writer, outputPath string, format domain.OutputFormat) (*domain.BuildResponse, error) {
	resp, err := uc.Service.Build(ctx, req)
	if err != nil {
		return nil, err
	}
	err = uc.Writer.Write(out, outputPath, format, func(w io.Writer) error {
		return uc.Formatter.Write(resp, format, w)
	})
	if err != nil {
		return resp, err
	}
	return resp, nil
}
