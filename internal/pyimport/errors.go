package pyimport

import "fmt"

// SourceSyntaxError wraps a parse failure: the offending file, the
// 1-based line, and the line's text. Extract, which is given no path,
// sets File to the module name; the build driver replaces it with the
// module's file path.
type SourceSyntaxError struct {
	File string
	Line int
	Text string
}

func (e SourceSyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: syntax error: %s", e.File, e.Line, e.Text)
}
