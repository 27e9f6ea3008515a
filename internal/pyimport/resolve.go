package pyimport

import "github.com/dotgraph/dotgraph/internal/modname"

func isInternal(m modname.Name, fps []FoundPackage) bool {
	for _, fp := range fps {
		if fp.Modules[m] {
			return true
		}
	}
	return false
}

// resolveAbsoluteImport resolves a plain `import a.b` statement.
func resolveAbsoluteImport(candidate modname.Name, fps []FoundPackage, includeExternal bool) (modname.Name, bool) {
	if isInternal(candidate, fps) {
		return candidate, true
	}
	if includeExternal {
		return distill(candidate, fps)
	}
	return "", false
}

// resolveFromImport resolves a `from a.b import c` statement (and is
// reused, with a resolved base, for relative imports).
func resolveFromImport(x modname.Name, y string, fps []FoundPackage, includeExternal bool) (modname.Name, bool) {
	candidate := x.Join(y)
	if isInternal(candidate, fps) {
		return candidate, true
	}
	if isInternal(x, fps) {
		return x, true
	}
	if parent, err := candidate.Parent(); err == nil && isInternal(parent, fps) {
		return parent, true
	}
	if includeExternal {
		if m, ok := distill(candidate, fps); ok {
			return m, true
		}
		return distill(x, fps)
	}
	return "", false
}

// distill records an external module as shallow as possible without
// colliding with the internal namespace: if an internal package shares
// m's root, the result is their deepest shared prefix extended by one
// more component of m; otherwise just m's root. A parent of an internal
// package is dropped entirely.
func distill(m modname.Name, fps []FoundPackage) (modname.Name, bool) {
	for _, fp := range fps {
		if fp.Name.IsDescendantOf(m) {
			return "", false
		}
	}

	root := m.Root()
	var best modname.Name
	bestLen := -1
	haveMatch := false
	for _, fp := range fps {
		if fp.Name.Root() != root {
			continue
		}
		haveMatch = true
		shared := sharedPrefixLen(fp.Name, m)
		if shared > bestLen {
			bestLen = shared
			best = m.TrimComponents(m.Depth() - (shared + 1))
		}
	}
	if !haveMatch {
		return root, true
	}
	return best, true
}

func sharedPrefixLen(a, b modname.Name) int {
	ac, bc := a.Components(), b.Components()
	n := 0
	for n < len(ac) && n < len(bc) && ac[n] == bc[n] {
		n++
	}
	return n
}

// resolveRelativeBase implements the base-trimming rule for relative
// imports: trim the importer's last L components (L-1 when the
// importer is itself a package), then append the optional dotted
// suffix X. A false return signals the base could not be formed (trim
// past the root), which the caller treats as a dropped import with a
// warning rather than a fatal error.
func resolveRelativeBase(importer modname.Name, isPackage bool, level int, suffix string) (modname.Name, bool) {
	trim := level
	if isPackage {
		trim = level - 1
	}
	if trim < 0 {
		trim = 0
	}
	depth := importer.Depth()
	if trim > depth {
		return "", false
	}
	base := importer.TrimComponents(trim)
	if base == "" && trim == depth {
		if suffix == "" {
			return "", false
		}
	}
	if suffix != "" {
		if base == "" {
			base = modname.Name(suffix)
			return base, true
		}
		return modname.Name(string(base) + "." + suffix), true
	}
	if base == "" {
		return "", false
	}
	return base, true
}
