// Package pyimport implements the static import extractor: parsing one
// Python source file and resolving every absolute and relative import
// into a set of DirectImports against the internal module namespace
// defined by the build's FoundPackages.
//
// Parsing walks the raw tree-sitter CST directly with
// github.com/smacker/go-tree-sitter + its Python grammar, rather than
// building a full custom AST for CFG/clone-detection use cases this
// tool has no need of: this extractor only ever looks at
// import_statement / import_from_statement nodes and the handful of
// node kinds needed to recognize a TYPE_CHECKING guard, so a raw CST
// walk is the idiomatic reduction.
package pyimport

import (
	"context"
	"fmt"
	"log"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/dotgraph/dotgraph/internal/modname"
)

// ExtractOptions configures one extraction call.
type ExtractOptions struct {
	// IncludeExternal enables distillation and emission of imports that
	// resolve outside the internal namespace.
	IncludeExternal bool
	// ExcludeTypeChecking drops imports found only inside an
	// `if TYPE_CHECKING:` guard (and its typing.TYPE_CHECKING spelling).
	ExcludeTypeChecking bool
}

// Extract parses source (one Python module's text) and returns every
// resolved DirectImport. importer is that module's own ModuleName;
// isPackage is true when importer has children (i.e. the file is an
// `__init__`-style module, per the L vs L-1 relative-import rule).
func Extract(ctx context.Context, source []byte, importer modname.Name, isPackage bool, found []FoundPackage, opts ExtractOptions) ([]DirectImport, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", importer, err)
	}
	root := tree.RootNode()
	if root.HasError() {
		line, text := firstErrorLocation(root, source)
		return nil, SourceSyntaxError{File: string(importer), Line: line, Text: text}
	}

	e := &extraction{
		source:   source,
		importer: importer,
		isPkg:    isPackage,
		found:    found,
		opts:     opts,
	}
	e.walk(root, false)
	return e.imports, nil
}

type extraction struct {
	source   []byte
	importer modname.Name
	isPkg    bool
	found    []FoundPackage
	opts     ExtractOptions
	imports  []DirectImport
}

func (e *extraction) walk(n *sitter.Node, inTypeChecking bool) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "import_statement":
		e.handleImport(n, inTypeChecking)
		return
	case "import_from_statement":
		e.handleImportFrom(n, inTypeChecking)
		return
	case "if_statement":
		guarded := inTypeChecking || isTypeCheckingGuard(e.childByField(n, "condition"), e.source)
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			child := n.Child(i)
			// The guard only applies to the `if` branch's own body,
			// not `elif`/`else` clauses.
			if child != nil && (child.Type() == "elif_clause" || child.Type() == "else_clause") {
				e.walk(child, inTypeChecking)
				continue
			}
			e.walk(child, guarded)
		}
		return
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		e.walk(n.Child(i), inTypeChecking)
	}
}

func (e *extraction) childByField(n *sitter.Node, field string) *sitter.Node {
	return n.ChildByFieldName(field)
}

func (e *extraction) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(e.source)
}

func isTypeCheckingGuard(condition *sitter.Node, source []byte) bool {
	if condition == nil {
		return false
	}
	text := condition.Content(source)
	return strings.Contains(text, "TYPE_CHECKING")
}

func (e *extraction) lineInfo(n *sitter.Node) (int, string) {
	start := n.StartPoint()
	lineNo := int(start.Row) + 1
	lineStart := int(start.Row)
	lines := strings.Split(string(e.source), "\n")
	if lineStart >= 0 && lineStart < len(lines) {
		return lineNo, strings.TrimRight(lines[lineStart], "\r")
	}
	return lineNo, ""
}

func (e *extraction) emit(imported modname.Name, n *sitter.Node, inTypeChecking bool) {
	if inTypeChecking && e.opts.ExcludeTypeChecking {
		return
	}
	if imported == "" || imported == e.importer {
		return
	}
	line, text := e.lineInfo(n)
	e.imports = append(e.imports, DirectImport{
		Importer:   e.importer,
		Imported:   imported,
		LineNumber: line,
		LineText:   text,
	})
}

// handleImport handles `import a.b[, c.d ...]`.
func (e *extraction) handleImport(n *sitter.Node, inTypeChecking bool) {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if n.FieldNameForChild(i) != "name" {
			continue
		}
		child := n.Child(i)
		if child == nil {
			continue
		}
		var dotted string
		switch child.Type() {
		case "dotted_name":
			dotted = e.text(child)
		case "aliased_import":
			if name := e.childByField(child, "name"); name != nil {
				dotted = e.text(name)
			}
		default:
			dotted = e.text(child)
		}
		if dotted == "" {
			continue
		}
		candidate := modname.Name(dotted)
		if resolved, ok := resolveAbsoluteImport(candidate, e.found, e.opts.IncludeExternal); ok {
			e.emit(resolved, n, inTypeChecking)
		}
	}
}

// handleImportFrom handles `from a.b import c` and relative imports.
func (e *extraction) handleImportFrom(n *sitter.Node, inTypeChecking bool) {
	moduleNode := e.childByField(n, "module_name")
	var base modname.Name
	isRelative := false
	level := 0
	var suffix string

	if moduleNode != nil {
		if moduleNode.Type() == "relative_import" {
			isRelative = true
			mc := int(moduleNode.ChildCount())
			for i := 0; i < mc; i++ {
				c := moduleNode.Child(i)
				if c == nil {
					continue
				}
				switch c.Type() {
				case "import_prefix":
					level = len(e.text(c))
				case "dotted_name":
					suffix = e.text(c)
				}
			}
		} else {
			base = modname.Name(e.text(moduleNode))
		}
	}

	if isRelative {
		resolvedBase, ok := resolveRelativeBase(e.importer, e.isPkg, level, suffix)
		if !ok {
			lineNo, lineText := e.lineInfo(n)
			log.Printf("WARNING: %s:%d: cannot resolve relative import %q (missing __init__ ancestor), dropping: %s", e.importer, lineNo, suffix, lineText)
			return
		}
		base = resolvedBase
	}

	names := e.collectFromNames(n)
	if len(names) == 0 {
		// `from X import *`: the base module itself is the edge.
		if resolved, ok := resolveAbsoluteImport(base, e.found, e.opts.IncludeExternal); ok {
			e.emit(resolved, n, inTypeChecking)
		}
		return
	}
	for _, y := range names {
		if resolved, ok := resolveFromImport(base, y, e.found, e.opts.IncludeExternal); ok {
			e.emit(resolved, n, inTypeChecking)
		}
	}
}

func (e *extraction) collectFromNames(n *sitter.Node) []string {
	var names []string
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		if n.FieldNameForChild(i) != "name" {
			continue
		}
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "dotted_name", "identifier":
			names = append(names, e.text(child))
		case "aliased_import":
			if name := e.childByField(child, "name"); name != nil {
				names = append(names, e.text(name))
			}
		}
	}
	return names
}

func firstErrorLocation(root *sitter.Node, source []byte) (int, string) {
	var find func(n *sitter.Node) *sitter.Node
	find = func(n *sitter.Node) *sitter.Node {
		if n.IsError() || n.IsMissing() {
			return n
		}
		count := int(n.ChildCount())
		for i := 0; i < count; i++ {
			if r := find(n.Child(i)); r != nil {
				return r
			}
		}
		return nil
	}
	bad := find(root)
	if bad == nil {
		return 1, ""
	}
	start := bad.StartPoint()
	lineNo := int(start.Row) + 1
	lines := strings.Split(string(source), "\n")
	text := ""
	if int(start.Row) < len(lines) {
		text = strings.TrimRight(lines[start.Row], "\r")
	}
	return lineNo, text
}
