package pyimport

import "github.com/dotgraph/dotgraph/internal/modname"

// FoundPackage is the extractor's view of one root package under
// analysis: its name and the full set of module names it contains. The
// walker collaborator produces the richer on-disk variant (directory,
// per-module mtimes); the build driver projects it down to this shape
// before invoking the extractor.
type FoundPackage struct {
	Name    modname.Name
	Modules map[modname.Name]bool
}

// DirectImport is one resolved import edge with source provenance.
type DirectImport struct {
	Importer   modname.Name
	Imported   modname.Name
	LineNumber int
	LineText   string
}
