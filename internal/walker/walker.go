// Package walker implements the filesystem walker collaborator: given
// a root package name and directory, it enumerates every module file
// under that package together with its modification time, skipping
// hidden directories and directories missing an `__init__` marker.
//
// Glob include/exclude filtering reuses
// github.com/bmatcuk/doublestar/v4 rather than hand-rolled
// filepath.Match globstar emulation, for patterns doublestar already
// models correctly.
package walker

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dotgraph/dotgraph/internal/modname"
	"github.com/dotgraph/dotgraph/internal/pyimport"
)

// ModuleFile is one discovered module source file paired with its
// on-disk modification time.
type ModuleFile struct {
	Name    modname.Name
	Path    string
	ModTime time.Time
}

// FoundPackage is the walker's enumeration of one root package: its
// name, its directory, and every module file with its mtime.
type FoundPackage struct {
	Name        modname.Name
	Directory   string
	ModuleFiles []ModuleFile
}

// NamespacePackageEncountered is returned when a root package directory
// has no `__init__` marker.
type NamespacePackageEncountered struct {
	Directory string
}

func (e NamespacePackageEncountered) Error() string {
	return "namespace package encountered (no __init__ marker): " + e.Directory
}

// NotATopLevelModule is returned when the caller asks to build a root
// that is itself a child of another package (its parent directory also
// carries an `__init__` marker).
type NotATopLevelModule struct {
	Directory string
}

func (e NotATopLevelModule) Error() string {
	return "not a top-level module (parent directory is itself a package): " + e.Directory
}

// Options configures a single walk.
type Options struct {
	IncludePatterns []string
	ExcludePatterns []string
}

var initFileNames = []string{"__init__.py", "__init__.pyi"}

// FindPackage walks directory as the root package name, returning its
// FoundPackage. directory must itself carry an `__init__` marker; child
// directories without one are skipped entirely (treated as not part of
// the package).
func FindPackage(name modname.Name, directory string, opts Options) (*FoundPackage, error) {
	if !hasInitMarker(directory) {
		return nil, NamespacePackageEncountered{Directory: directory}
	}
	if parent := filepath.Dir(filepath.Clean(directory)); hasInitMarker(parent) {
		return nil, NotATopLevelModule{Directory: directory}
	}

	fp := &FoundPackage{Name: name, Directory: directory}
	if err := walkDir(fp, name, directory, directory, opts); err != nil {
		return nil, err
	}
	sort.Slice(fp.ModuleFiles, func(i, j int) bool {
		return fp.ModuleFiles[i].Name < fp.ModuleFiles[j].Name
	})
	return fp, nil
}

func hasInitMarker(dir string) bool {
	for _, n := range initFileNames {
		if info, err := os.Stat(filepath.Join(dir, n)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

func walkDir(fp *FoundPackage, pkgName modname.Name, root, dir string, opts Options) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(dir, name)
		if entry.IsDir() {
			if !hasInitMarker(full) {
				continue
			}
			if err := walkDir(fp, pkgName, root, full, opts); err != nil {
				return err
			}
			continue
		}
		if !isPythonSource(name) {
			continue
		}
		rel, err := filepath.Rel(root, full)
		if err != nil {
			return err
		}
		if !matchesFilters(rel, opts) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		moduleName := fileToModuleName(pkgName, rel)
		fp.ModuleFiles = append(fp.ModuleFiles, ModuleFile{
			Name:    moduleName,
			Path:    full,
			ModTime: info.ModTime(),
		})
	}
	return nil
}

func isPythonSource(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".py" || ext == ".pyi"
}

func matchesFilters(rel string, opts Options) bool {
	relSlash := filepath.ToSlash(rel)
	for _, pat := range opts.ExcludePatterns {
		if ok, _ := doublestar.Match(pat, relSlash); ok {
			return false
		}
	}
	if len(opts.IncludePatterns) == 0 {
		return true
	}
	for _, pat := range opts.IncludePatterns {
		if ok, _ := doublestar.Match(pat, relSlash); ok {
			return true
		}
	}
	return false
}

// fileToModuleName maps a package-relative source path to a fully
// qualified module name. An `__init__.py[i]` at the package root is the
// package's own name; elsewhere it names the enclosing directory.
func fileToModuleName(pkgName modname.Name, rel string) modname.Name {
	relSlash := filepath.ToSlash(rel)
	ext := filepath.Ext(relSlash)
	trimmed := strings.TrimSuffix(relSlash, ext)
	parts := strings.Split(trimmed, "/")
	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	name := pkgName
	for _, p := range parts {
		name = name.Join(p)
	}
	return name
}

// ToPyimportFoundPackage projects the walker's richer FoundPackage down
// to the shape the extractor needs: just the name and the set of
// module names it contains.
func ToPyimportFoundPackage(fp *FoundPackage) pyimport.FoundPackage {
	modules := make(map[modname.Name]bool, len(fp.ModuleFiles))
	for _, mf := range fp.ModuleFiles {
		modules[mf.Name] = true
	}
	return pyimport.FoundPackage{Name: fp.Name, Modules: modules}
}

// IsPackageModule reports whether m is a package-style module (has at
// least one child module file) within fp.
func IsPackageModule(fp *FoundPackage, m modname.Name) bool {
	for _, mf := range fp.ModuleFiles {
		if mf.Name.IsChildOf(m) {
			return true
		}
	}
	return false
}
