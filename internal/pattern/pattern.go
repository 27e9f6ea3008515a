// Package pattern implements the module-name and import expression
// language used for ad-hoc querying: a dotted sequence of literal
// components, single-component wildcards ("*") and multi-component
// wildcards ("**"). This grammar is bespoke to dotgraph: no glob
// library in the dependency pack models "**" as "one or more dotted
// components" the way this package's tests require, which is why it is
// hand-written rather than built on doublestar (see DESIGN.md).
package pattern

import (
	"fmt"
	"strings"

	"github.com/dotgraph/dotgraph/internal/modname"
)

// ErrInvalidModuleExpression is returned when a module expression is
// malformed.
type ErrInvalidModuleExpression struct {
	Expr   string
	Reason string
}

func (e ErrInvalidModuleExpression) Error() string {
	return fmt.Sprintf("invalid module expression %q: %s", e.Expr, e.Reason)
}

// ErrInvalidImportExpression is returned when an import expression (the
// "importer -> imported" form) is malformed.
type ErrInvalidImportExpression struct {
	Expr   string
	Reason string
}

func (e ErrInvalidImportExpression) Error() string {
	return fmt.Sprintf("invalid import expression %q: %s", e.Expr, e.Reason)
}

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenSingle            // *
	tokenMulti             // **
)

type token struct {
	kind    tokenKind
	literal string
}

// ModuleExpression is a parsed, matchable module-name pattern.
type ModuleExpression struct {
	raw    string
	tokens []token
}

// ParseModuleExpression parses a dotted pattern of literals, "*" and
// "**". A token may not mix wildcard and literal characters, and "**"
// may not be directly adjacent to another "**".
func ParseModuleExpression(expr string) (*ModuleExpression, error) {
	if expr == "" {
		return nil, ErrInvalidModuleExpression{Expr: expr, Reason: "empty expression"}
	}
	parts := strings.Split(expr, ".")
	tokens := make([]token, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, ErrInvalidModuleExpression{Expr: expr, Reason: "empty component"}
		}
		switch part {
		case "*":
			tokens = append(tokens, token{kind: tokenSingle})
		case "**":
			tokens = append(tokens, token{kind: tokenMulti})
		default:
			if strings.Contains(part, "*") {
				return nil, ErrInvalidModuleExpression{Expr: expr, Reason: fmt.Sprintf("token %q mixes wildcard and literal characters", part)}
			}
			tokens = append(tokens, token{kind: tokenLiteral, literal: part})
		}
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i].kind == tokenMulti && tokens[i-1].kind == tokenMulti {
			return nil, ErrInvalidModuleExpression{Expr: expr, Reason: "\"**\" may not be adjacent to another \"**\""}
		}
	}
	return &ModuleExpression{raw: expr, tokens: tokens}, nil
}

// String returns the original expression text.
func (m *ModuleExpression) String() string { return m.raw }

// Match reports whether name's dotted-component vector matches the
// expression.
func (m *ModuleExpression) Match(name modname.Name) bool {
	return matchTokens(m.tokens, name.Components())
}

// matchTokens matches a token sequence against components, greedily
// expanding "**" to consume as many components as possible while still
// allowing the remainder of the pattern to match (classic greedy regex
// backtracking, but over a small alphabet of token kinds so a simple
// recursive matcher suffices).
func matchTokens(tokens []token, components []string) bool {
	if len(tokens) == 0 {
		return len(components) == 0
	}
	t := tokens[0]
	switch t.kind {
	case tokenLiteral:
		if len(components) == 0 || components[0] != t.literal {
			return false
		}
		return matchTokens(tokens[1:], components[1:])
	case tokenSingle:
		if len(components) == 0 {
			return false
		}
		return matchTokens(tokens[1:], components[1:])
	case tokenMulti:
		// "**" must consume at least one component; try the longest
		// match first (greedy) and backtrack down to one component.
		if len(components) == 0 {
			return false
		}
		for take := len(components); take >= 1; take-- {
			if matchTokens(tokens[1:], components[take:]) {
				return true
			}
		}
		return false
	}
	return false
}

// FindMatchingModules returns every name in candidates that matches expr.
func FindMatchingModules(expr *ModuleExpression, candidates []modname.Name) []modname.Name {
	var out []modname.Name
	for _, c := range candidates {
		if expr.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// ImportExpression pairs an importer and imported ModuleExpression,
// parsed from the "importer_expr -> imported_expr" syntax.
type ImportExpression struct {
	Importer *ModuleExpression
	Imported *ModuleExpression
}

// ParseImportExpression parses the "importer_expr -> imported_expr" form.
func ParseImportExpression(expr string) (*ImportExpression, error) {
	parts := strings.Split(expr, " -> ")
	if len(parts) != 2 {
		return nil, ErrInvalidImportExpression{Expr: expr, Reason: "expected exactly one \" -> \" separator"}
	}
	importer, err := ParseModuleExpression(parts[0])
	if err != nil {
		return nil, ErrInvalidImportExpression{Expr: expr, Reason: err.Error()}
	}
	imported, err := ParseModuleExpression(parts[1])
	if err != nil {
		return nil, ErrInvalidImportExpression{Expr: expr, Reason: err.Error()}
	}
	return &ImportExpression{Importer: importer, Imported: imported}, nil
}
