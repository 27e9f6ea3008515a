// Package modname implements the dot-separated module-name algebra that
// every other package in dotgraph builds on: parent/root derivation and
// the ancestor/child predicates used throughout graph queries and layer
// analysis.
package modname

import "strings"

// Name is a non-empty dot-separated sequence of identifiers, e.g. "a.b.c".
type Name string

// ErrSingleComponent is returned by Parent when the name has no dot.
type ErrSingleComponent struct {
	Name Name
}

func (e ErrSingleComponent) Error() string {
	return "module name has no parent: " + string(e.Name)
}

// Components splits the name on '.'.
func (n Name) Components() []string {
	return strings.Split(string(n), ".")
}

// Parent returns all components but the last. Fails if n is a single
// component.
func (n Name) Parent() (Name, error) {
	parts := n.Components()
	if len(parts) < 2 {
		return "", ErrSingleComponent{Name: n}
	}
	return Name(strings.Join(parts[:len(parts)-1], ".")), nil
}

// Root returns the first component of the name.
func (n Name) Root() Name {
	parts := n.Components()
	return Name(parts[0])
}

// IsDescendantOf reports whether n is strictly nested under ancestor, i.e.
// n starts with ancestor + ".".
func (n Name) IsDescendantOf(ancestor Name) bool {
	if ancestor == "" || n == ancestor {
		return false
	}
	return strings.HasPrefix(string(n), string(ancestor)+".")
}

// IsChildOf reports whether parent(n) == ancestor exactly.
func (n Name) IsChildOf(ancestor Name) bool {
	p, err := n.Parent()
	if err != nil {
		return false
	}
	return p == ancestor
}

// IsAncestorOf is the inverse of IsDescendantOf, kept for readability at
// call sites that reason from the ancestor's point of view.
func (n Name) IsAncestorOf(descendant Name) bool {
	return descendant.IsDescendantOf(n)
}

// Join appends a component to n, returning a new Name.
func (n Name) Join(component string) Name {
	if n == "" {
		return Name(component)
	}
	return Name(string(n) + "." + component)
}

// TrimComponents removes the last k trailing components from n. It never
// fails; trimming more components than exist yields the empty Name.
func (n Name) TrimComponents(k int) Name {
	parts := n.Components()
	if k <= 0 {
		return n
	}
	if k >= len(parts) {
		return ""
	}
	return Name(strings.Join(parts[:len(parts)-k], "."))
}

// Depth returns the number of dot-separated components.
func (n Name) Depth() int {
	return len(n.Components())
}

// String implements fmt.Stringer.
func (n Name) String() string {
	return string(n)
}
