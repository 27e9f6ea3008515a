package domain

import "io"

// ReportWriter abstracts writing a formatted report to its destination:
// a file at outputPath, or the caller-supplied writer when outputPath is
// empty.
//
// Implementations live in the service layer.
type ReportWriter interface {
	// Write renders a report using writeFunc. If outputPath is non-empty,
	// implementations create/truncate the file at that path and pass it to
	// writeFunc, optionally emitting a status message (e.g. the written
	// path) to writer. If outputPath is empty, writer itself is passed to
	// writeFunc.
	Write(writer io.Writer, outputPath string, format OutputFormat, writeFunc func(io.Writer) error) error
}
