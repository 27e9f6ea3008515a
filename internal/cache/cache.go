// Package cache implements the incremental import cache: per-package
// (module -> mtime) meta files plus a per-analysis-identity
// (module -> imports) data file, keyed by a short content hash so
// filenames stay bounded regardless of how many root packages an
// analysis spans.
//
// JSON encoding follows the same encoding/json conventions used for
// report output elsewhere in this module, here applied to cache
// payloads instead. The content hash uses golang.org/x/crypto/blake2b,
// a real dependency for BLAKE2b-20 content hashing of the data
// filename.
package cache

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/dotgraph/dotgraph/internal/modname"
	"github.com/dotgraph/dotgraph/internal/pyimport"
)

// DefaultDir is the cache directory name used when the caller does not
// override it: a dot-prefixed, per-tool cache directory.
const DefaultDir = ".dotgraph_cache"

// ErrCacheMiss signals a cache miss. It is internal-only: Lookup returns
// it to the build driver, which re-extracts the module, and it is never
// surfaced to a build's caller.
type ErrCacheMiss struct {
	Module modname.Name
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + string(e.Module)
}

// Identity is the analysis identity that keys a cache data file: the
// sorted set of root package names plus the two flags that change
// extraction semantics.
type Identity struct {
	Roots               []string
	IncludeExternal     bool
	ExcludeTypeChecking bool
}

// String renders the identity as a stable cache key: sorted
// root names joined by commas, plus ":external" and/or
// ":no_type_checking" suffixes.
func (id Identity) String() string {
	roots := append([]string(nil), id.Roots...)
	sort.Strings(roots)
	s := strings.Join(roots, ",")
	if id.IncludeExternal {
		s += ":external"
	}
	if id.ExcludeTypeChecking {
		s += ":no_type_checking"
	}
	return s
}

// dataFileName returns the blake2b-20 hashed data filename for id.
func (id Identity) dataFileName() string {
	h, err := blake2b.New(20, nil)
	if err != nil {
		// Only fails for an invalid size or an over-length key; 20 and
		// nil are always valid, so this is unreachable in practice.
		panic(err)
	}
	h.Write([]byte(id.String()))
	return hexEncode(h.Sum(nil)) + ".data.json"
}

func hexEncode(b []byte) string {
	const hex = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hex[c>>4]
		out[i*2+1] = hex[c&0x0f]
	}
	return string(out)
}

// dataEntry is the on-disk shape of one cached import:
// [imported, line_no|null, line_text].
type dataEntry struct {
	Imported   string
	LineNumber *int
	LineText   *string
}

func (e dataEntry) MarshalJSON() ([]byte, error) {
	var lineJSON, textJSON string
	if e.LineNumber == nil {
		lineJSON = "null"
	} else {
		lineJSON = strconv.Itoa(*e.LineNumber)
	}
	if e.LineText == nil {
		textJSON = "null"
	} else {
		b, err := json.Marshal(*e.LineText)
		if err != nil {
			return nil, err
		}
		textJSON = string(b)
	}
	importedJSON, err := json.Marshal(e.Imported)
	if err != nil {
		return nil, err
	}
	return []byte("[" + string(importedJSON) + "," + lineJSON + "," + textJSON + "]"), nil
}

func (e *dataEntry) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return &json.UnsupportedValueError{Str: "expected 3-element import entry"}
	}
	if err := json.Unmarshal(raw[0], &e.Imported); err != nil {
		return err
	}
	var lineNo *int
	if err := json.Unmarshal(raw[1], &lineNo); err == nil {
		e.LineNumber = lineNo
	}
	var lineText *string
	if err := json.Unmarshal(raw[2], &lineText); err == nil {
		e.LineText = lineText
	}
	return nil
}

// Cache is a directory-backed store for per-module import lists keyed
// on modification time.
type Cache struct {
	dir string
}

// New returns a Cache rooted at dir (DefaultDir if empty).
func New(dir string) *Cache {
	if dir == "" {
		dir = DefaultDir
	}
	return &Cache{dir: dir}
}

func (c *Cache) metaPath(packageName modname.Name) string {
	return filepath.Join(c.dir, string(packageName)+".meta.json")
}

func (c *Cache) dataPath(id Identity) string {
	return filepath.Join(c.dir, id.dataFileName())
}

// LoadMeta reads the mtime map for one package. A missing or corrupt
// file is treated as an empty map (every module is then a miss);
// corruption is logged, never surfaced.
func (c *Cache) LoadMeta(packageName modname.Name) map[modname.Name]float64 {
	path := c.metaPath(packageName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return map[modname.Name]float64{}
	}
	var flat map[string]float64
	if err := json.Unmarshal(raw, &flat); err != nil {
		log.Printf("WARNING: corrupt cache meta file %s, treating as cache miss: %v", path, err)
		return map[modname.Name]float64{}
	}
	out := make(map[modname.Name]float64, len(flat))
	for k, v := range flat {
		out[modname.Name(k)] = v
	}
	return out
}

// LoadData reads the cached (module -> imports) mapping for id. A
// missing file is treated as empty; a corrupt file is treated as empty
// and logged.
func (c *Cache) LoadData(id Identity) map[modname.Name][]dataEntry {
	path := c.dataPath(id)
	raw, err := os.ReadFile(path)
	if err != nil {
		return map[modname.Name][]dataEntry{}
	}
	var flat map[string][]dataEntry
	if err := json.Unmarshal(raw, &flat); err != nil {
		log.Printf("WARNING: corrupt cache data file %s, treating as cache miss: %v", path, err)
		return map[modname.Name][]dataEntry{}
	}
	out := make(map[modname.Name][]dataEntry, len(flat))
	for k, v := range flat {
		out[modname.Name(k)] = v
	}
	return out
}

// Lookup resolves one module against already-loaded meta/data maps,
// returning its cached imports or ErrCacheMiss: a meta miss, a
// mismatched mtime, or a meta hit whose module is absent from the data
// file are all misses.
func Lookup(meta map[modname.Name]float64, data map[modname.Name][]dataEntry, module modname.Name, mtimeNow float64) ([]pyimport.DirectImport, error) {
	cachedMTime, ok := meta[module]
	if !ok || cachedMTime != mtimeNow {
		return nil, ErrCacheMiss{Module: module}
	}
	entries, ok := data[module]
	if !ok {
		return nil, ErrCacheMiss{Module: module}
	}
	out := make([]pyimport.DirectImport, 0, len(entries))
	for _, e := range entries {
		di := pyimport.DirectImport{Importer: module, Imported: modname.Name(e.Imported)}
		if e.LineNumber != nil {
			di.LineNumber = *e.LineNumber
		}
		if e.LineText != nil {
			di.LineText = *e.LineText
		}
		out = append(out, di)
	}
	return out, nil
}

// PackageImports is the per-package payload WriteAll persists: the
// mtime of every module file, used to populate the package's meta
// file.
type PackageImports struct {
	Name   modname.Name
	MTimes map[modname.Name]float64
}

// WriteAll persists the union of cached and newly extracted imports:
// one data file for id, one meta file per package. On first write it
// also drops the .gitignore/CACHEDIR.TAG marker files.
func (c *Cache) WriteAll(id Identity, packages []PackageImports, imports map[modname.Name][]pyimport.DirectImport) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	if err := c.writeMarkers(); err != nil {
		return err
	}

	flatData := make(map[string][]dataEntry, len(imports))
	for module, dis := range imports {
		entries := make([]dataEntry, 0, len(dis))
		for _, di := range dis {
			e := dataEntry{Imported: string(di.Imported)}
			if di.LineNumber != 0 || di.LineText != "" {
				ln := di.LineNumber
				lt := di.LineText
				e.LineNumber = &ln
				e.LineText = &lt
			}
			entries = append(entries, e)
		}
		flatData[string(module)] = entries
	}
	dataBytes, err := json.MarshalIndent(flatData, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.dataPath(id), dataBytes, 0o644); err != nil {
		return err
	}

	for _, pkg := range packages {
		flatMeta := make(map[string]float64, len(pkg.MTimes))
		for m, t := range pkg.MTimes {
			flatMeta[string(m)] = t
		}
		metaBytes, err := json.MarshalIndent(flatMeta, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(c.metaPath(pkg.Name), metaBytes, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) writeMarkers() error {
	gitignore := filepath.Join(c.dir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		if err := os.WriteFile(gitignore, []byte("# Automatically created\n*"), 0o644); err != nil {
			return err
		}
	}
	cachedirTag := filepath.Join(c.dir, "CACHEDIR.TAG")
	if _, err := os.Stat(cachedirTag); os.IsNotExist(err) {
		tag := "Signature: 8a477f597d28d172789f06886806bc55\n" +
			"# This file is a cache directory tag created by dotgraph.\n" +
			"# For information about cache directory tags see https://bford.info/cachedir/\n"
		if err := os.WriteFile(cachedirTag, []byte(tag), 0o644); err != nil {
			return err
		}
	}
	return nil
}
