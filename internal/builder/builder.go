// Package builder implements the build driver: it composes the walker,
// the cache, and the extractor to produce a finished import graph for
// a set of root packages, with parallel extraction and everything else
// single-threaded.
//
// The worker-pool shape (bounded semaphore + first-error cancellation)
// generalizes a one-task-per-file executor to one task per
// cache-miss module, the unit extraction actually operates on.
package builder

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"regexp"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/dotgraph/dotgraph/internal/cache"
	"github.com/dotgraph/dotgraph/internal/graph"
	"github.com/dotgraph/dotgraph/internal/modname"
	"github.com/dotgraph/dotgraph/internal/pyimport"
	"github.com/dotgraph/dotgraph/internal/walker"
)

// parallelThreshold is the miss count above which extraction fans out
// across min(cpu, |misses|) workers; at or below it a single worker
// goroutine handles every miss.
const parallelThreshold = 4

// Root names one root package to discover and build.
type Root struct {
	Name      modname.Name
	Directory string
}

// Options configures a build.
type Options struct {
	IncludeExternal     bool
	ExcludeTypeChecking bool
	IncludePatterns     []string
	ExcludePatterns     []string

	// NoCache disables the incremental cache entirely.
	NoCache  bool
	CacheDir string

	// Progress, if non-nil, is notified as misses are extracted.
	Progress ProgressReporter
}

// ProgressReporter receives extraction progress notifications.
type ProgressReporter interface {
	Start(total int)
	Advance()
	Done()
}

// Result is a finished build: the graph plus the FoundPackages it was
// built from, which later queries (layers containers, package-scoped
// pathfind) key off of.
type Result struct {
	Graph    *graph.Graph
	Packages []*walker.FoundPackage
}

// Build discovers every root, partitions its modules into cache
// hits/misses, extracts the misses (in parallel workers when there are
// enough of them), assembles everything into one graph, and persists
// the merged import set back to the cache.
func Build(ctx context.Context, roots []Root, opts Options) (*Result, error) {
	packages := make([]*walker.FoundPackage, 0, len(roots))
	for _, r := range roots {
		fp, err := walker.FindPackage(r.Name, r.Directory, walker.Options{
			IncludePatterns: opts.IncludePatterns,
			ExcludePatterns: opts.ExcludePatterns,
		})
		if err != nil {
			return nil, err
		}
		packages = append(packages, fp)
	}

	pyFound := make([]pyimport.FoundPackage, 0, len(packages))
	for _, fp := range packages {
		pyFound = append(pyFound, walker.ToPyimportFoundPackage(fp))
	}

	id := identityFor(roots, opts)
	var c *cache.Cache
	if !opts.NoCache {
		c = cache.New(opts.CacheDir)
	}

	imports := make(map[modname.Name][]pyimport.DirectImport)
	var misses []missTask

	if c != nil {
		data := c.LoadData(id)
		for _, fp := range packages {
			meta := c.LoadMeta(fp.Name)
			for _, mf := range fp.ModuleFiles {
				mtime := float64(mf.ModTime.UnixNano()) / 1e9
				if got, err := cache.Lookup(meta, data, mf.Name, mtime); err == nil {
					imports[mf.Name] = got
					continue
				}
				misses = append(misses, missTask{
					path:      mf.Path,
					module:    mf.Name,
					isPackage: walker.IsPackageModule(fp, mf.Name),
				})
			}
		}
	} else {
		for _, fp := range packages {
			for _, mf := range fp.ModuleFiles {
				misses = append(misses, missTask{
					path:      mf.Path,
					module:    mf.Name,
					isPackage: walker.IsPackageModule(fp, mf.Name),
				})
			}
		}
	}

	extracted, err := extractAll(ctx, misses, pyFound, opts)
	if err != nil {
		return nil, err
	}
	for module, dis := range extracted {
		imports[module] = dis
	}

	g := graph.New()
	internal := map[modname.Name]bool{}
	for _, fp := range packages {
		for _, mf := range fp.ModuleFiles {
			internal[mf.Name] = true
		}
	}
	for name := range internal {
		if err := g.AddModule(name, false); err != nil {
			return nil, err
		}
	}
	// Sort importers for deterministic insertion order (queries'
	// result ordering is independently guaranteed by graph/pathfind
	// sorting, but deterministic insertion makes failures reproducible).
	importers := make([]modname.Name, 0, len(imports))
	for m := range imports {
		importers = append(importers, m)
	}
	sort.Slice(importers, func(i, j int) bool { return importers[i] < importers[j] })

	for _, importer := range importers {
		for _, di := range imports[importer] {
			if !internal[di.Imported] && !g.HasNode(di.Imported) {
				if err := g.AddModule(di.Imported, opts.IncludeExternal); err != nil {
					return nil, err
				}
			}
			var line *int
			var text *string
			if di.LineNumber != 0 {
				ln := di.LineNumber
				t := di.LineText
				line = &ln
				text = &t
			}
			if err := g.AddImport(importer, di.Imported, line, text); err != nil {
				return nil, err
			}
		}
	}

	if c != nil {
		if err := persist(c, id, packages, imports); err != nil {
			return nil, err
		}
	}

	return &Result{Graph: g, Packages: packages}, nil
}

func persist(c *cache.Cache, id cache.Identity, packages []*walker.FoundPackage, imports map[modname.Name][]pyimport.DirectImport) error {
	pkgImports := make([]cache.PackageImports, 0, len(packages))
	for _, fp := range packages {
		mtimes := make(map[modname.Name]float64, len(fp.ModuleFiles))
		for _, mf := range fp.ModuleFiles {
			mtimes[mf.Name] = float64(mf.ModTime.UnixNano()) / 1e9
		}
		pkgImports = append(pkgImports, cache.PackageImports{Name: fp.Name, MTimes: mtimes})
	}
	return c.WriteAll(id, pkgImports, imports)
}

func identityFor(roots []Root, opts Options) cache.Identity {
	names := make([]string, 0, len(roots))
	for _, r := range roots {
		names = append(names, string(r.Name))
	}
	sort.Strings(names)
	return cache.Identity{
		Roots:               names,
		IncludeExternal:     opts.IncludeExternal,
		ExcludeTypeChecking: opts.ExcludeTypeChecking,
	}
}

type missTask struct {
	path      string
	module    modname.Name
	isPackage bool
}

// extractAll runs the extractor over every miss, in parallel once the
// miss count passes parallelThreshold, cancelling every in-flight
// worker as soon as one reports an error.
func extractAll(ctx context.Context, misses []missTask, found []pyimport.FoundPackage, opts Options) (map[modname.Name][]pyimport.DirectImport, error) {
	results := make(map[modname.Name][]pyimport.DirectImport, len(misses))
	if len(misses) == 0 {
		return results, nil
	}
	if opts.Progress != nil {
		opts.Progress.Start(len(misses))
		defer opts.Progress.Done()
	}

	workers := 1
	if len(misses) > parallelThreshold {
		workers = runtime.GOMAXPROCS(0)
		if workers > len(misses) {
			workers = len(misses)
		}
	}

	extractOpts := pyimport.ExtractOptions{
		IncludeExternal:     opts.IncludeExternal,
		ExcludeTypeChecking: opts.ExcludeTypeChecking,
	}

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan missTask)
	var mu sync.Mutex
	var firstErr error
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				select {
				case <-cctx.Done():
					return
				default:
				}
				source, err := readSource(t.path)
				if err != nil {
					recordErr(&mu, &firstErr, err)
					cancel()
					return
				}
				dis, err := pyimport.Extract(cctx, source, t.module, t.isPackage, found, extractOpts)
				if err != nil {
					var synErr pyimport.SourceSyntaxError
					if errors.As(err, &synErr) {
						synErr.File = t.path
						err = synErr
					}
					recordErr(&mu, &firstErr, err)
					cancel()
					return
				}
				mu.Lock()
				results[t.module] = dis
				mu.Unlock()
				if opts.Progress != nil {
					opts.Progress.Advance()
				}
			}
		}()
	}

	for _, t := range misses {
		select {
		case tasks <- t:
		case <-cctx.Done():
		}
	}
	close(tasks)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func recordErr(mu *sync.Mutex, dst *error, err error) {
	mu.Lock()
	defer mu.Unlock()
	if *dst == nil {
		*dst = err
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// codingDeclaration matches a PEP 263 encoding comment, e.g.
// "# -*- coding: latin-1 -*-" or the simpler "# coding: utf-8" form.
var codingDeclaration = regexp.MustCompile(`coding[:=][ \t]*([-_.a-zA-Z0-9]+)`)

// readSource reads one module file, honoring its declared encoding: a
// leading UTF-8 BOM is stripped, then the first two lines are checked
// for a PEP 263 "coding: X" declaration (Python only honors one
// there); when present and not already UTF-8/ASCII, the whole file is
// transcoded from that declared encoding into UTF-8. Absent a
// declaration, the file is assumed to already be UTF-8.
func readSource(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(raw, utf8BOM) {
		raw = raw[len(utf8BOM):]
	}

	name, ok := declaredEncoding(raw)
	if !ok || isUTF8Compatible(name) {
		return raw, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		log.Printf("WARNING: %s: unrecognized coding declaration %q, treating as UTF-8", path, name)
		return raw, nil
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		log.Printf("WARNING: %s: failed to decode declared encoding %q, treating as UTF-8: %v", path, name, err)
		return raw, nil
	}
	return decoded, nil
}

// declaredEncoding scans the first two lines of source for a PEP 263
// coding declaration, the only place Python itself looks for one.
func declaredEncoding(source []byte) (string, bool) {
	lines := bytes.SplitN(source, []byte("\n"), 3)
	limit := len(lines)
	if limit > 2 {
		limit = 2
	}
	for i := 0; i < limit; i++ {
		if m := codingDeclaration.FindSubmatch(lines[i]); m != nil {
			return string(m[1]), true
		}
	}
	return "", false
}

func isUTF8Compatible(name string) bool {
	switch normalizeEncodingName(name) {
	case "utf8", "utf-8", "ascii", "us-ascii":
		return true
	}
	return false
}

func normalizeEncodingName(name string) string {
	lower := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		lower[i] = c
	}
	return string(lower)
}
