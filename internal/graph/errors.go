package graph

import (
	"fmt"

	"github.com/dotgraph/dotgraph/internal/modname"
)

// ModuleNotPresent is returned when a query references a module absent
// from the graph.
type ModuleNotPresent struct {
	Name modname.Name
}

func (e ModuleNotPresent) Error() string {
	return fmt.Sprintf("module not present in graph: %s", e.Name)
}

// ValueError signals a contract violation: a squashed-module child
// query, shared descendants in a package-level query, or supplying only
// one of a detail's line/text pair.
type ValueError struct {
	Msg string
}

func (e ValueError) Error() string { return e.Msg }
