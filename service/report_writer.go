package service

import (
	"fmt"
	"io"
	"os"

	"github.com/dotgraph/dotgraph/domain"
)

// FileReportWriter implements domain.ReportWriter: write to outputPath
// when given, otherwise to the caller-supplied writer.
type FileReportWriter struct{}

// NewFileReportWriter constructs a FileReportWriter.
func NewFileReportWriter() *FileReportWriter { return &FileReportWriter{} }

var _ domain.ReportWriter = (*FileReportWriter)(nil)

func (w *FileReportWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, writeFunc func(io.Writer) error) error {
	if outputPath == "" {
		return writeFunc(writer)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return domain.NewOutputError(fmt.Sprintf("failed to create output file: %s", outputPath), err)
	}
	defer f.Close()
	if err := writeFunc(f); err != nil {
		return err
	}
	fmt.Fprintf(writer, "Report written to %s\n", outputPath)
	return nil
}
