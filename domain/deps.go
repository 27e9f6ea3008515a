package domain

import (
	"context"
	"io"
)

// GraphRoot names one root package to discover and build, mirroring
// builder.Root at the domain boundary (so service/app never import
// internal/ packages directly).
type GraphRoot struct {
	Name      string
	Directory string
}

// BuildRequest is input to a graph build.
type BuildRequest struct {
	Roots []GraphRoot

	IncludeExternal     bool
	ExcludeTypeChecking bool
	IncludePatterns     []string
	ExcludePatterns     []string

	NoCache  bool
	CacheDir string

	// Architecture, when set, is checked against the built graph and its
	// violations attached to BuildResponse.
	Architecture *ArchitectureConfigSpec

	ShowProgress bool
}

// ModuleEdge is a directed edge reported back across the domain
// boundary, independent of internal/graph's richer edge-detail type.
type ModuleEdge struct {
	From string `json:"from" yaml:"from" csv:"from"`
	To   string `json:"to" yaml:"to" csv:"to"`
}

// BuildSummary holds aggregate counts for a finished build.
type BuildSummary struct {
	Modules         int `json:"modules" yaml:"modules"`
	Edges           int `json:"edges" yaml:"edges"`
	SquashedModules int `json:"squashed_modules" yaml:"squashed_modules"`
	LayerViolations int `json:"layer_violations" yaml:"layer_violations"`
}

// BuildResponse is the result of a graph build, plus any layer
// violations found when Architecture was supplied on the request.
type BuildResponse struct {
	Modules []string     `json:"modules" yaml:"modules"`
	Edges   []ModuleEdge `json:"edges" yaml:"edges"`

	Summary     BuildSummary `json:"summary" yaml:"summary"`
	Warnings    []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	GeneratedAt string       `json:"generated_at" yaml:"generated_at"`
	Version     string       `json:"version" yaml:"version"`

	LayerViolations []LayerViolation `json:"layer_violations_detail,omitempty" yaml:"layer_violations_detail,omitempty"`

	// handle lets query operations run against the in-memory graph that
	// produced this response without rebuilding it. It is nil once a
	// BuildResponse crosses a process boundary (e.g. MCP JSON output).
	handle GraphHandle
}

// GraphHandle is an opaque reference to a built graph, passed from
// BuildResponse into the query request types below so a single CLI
// invocation can build once and query many times.
type GraphHandle interface {
	// ModuleCount reports the number of modules the underlying graph
	// holds. It exists mainly so callers can sanity-check a handle
	// without reaching into internal/graph.
	ModuleCount() int
}

// Handle returns the live graph handle backing resp, or nil if resp was
// deserialized rather than produced by a local build.
func (resp *BuildResponse) Handle() GraphHandle { return resp.handle }

// SetHandle attaches a live graph handle to resp; called only by the
// service implementation immediately after a build.
func (resp *BuildResponse) SetHandle(h GraphHandle) { resp.handle = h }

// ChainRequest asks for a shortest import chain between two modules.
type ChainRequest struct {
	Graph      GraphHandle
	Importer   string
	Imported   string
	AsPackages bool
	All        bool // return every shortest chain instead of one
}

// ChainResponse carries the chain(s) found, each as an ordered list of
// module names from Importer to Imported inclusive.
type ChainResponse struct {
	Chains []ChainResult `json:"chains" yaml:"chains"`
}

// ChainResult is one chain and whether it exists at all.
type ChainResult struct {
	Exists  bool     `json:"exists" yaml:"exists"`
	Modules []string `json:"modules,omitempty" yaml:"modules,omitempty"`
}

// DescendantsRequest asks for a module's children or full descendants.
type DescendantsRequest struct {
	Graph     GraphHandle
	Module    string
	Recursive bool // true: all descendants, false: direct children only
}

// DescendantsResponse lists the resolved module names.
type DescendantsResponse struct {
	Modules []string `json:"modules" yaml:"modules"`
}

// MatchRequest asks which of the graph's modules match a module or
// import expression (module pattern syntax).
type MatchRequest struct {
	Graph      GraphHandle
	Expression string
}

// MatchResponse lists the modules (or import pairs, for import
// expressions) the expression matched.
type MatchResponse struct {
	Modules []string     `json:"modules,omitempty" yaml:"modules,omitempty"`
	Imports []ModuleEdge `json:"imports,omitempty" yaml:"imports,omitempty"`
}

// CyclesRequest asks for feedback-edge-set nominations that would break
// every cycle running through a package's internal child graph.
type CyclesRequest struct {
	Graph   GraphHandle
	Package string
}

// CyclesResponse lists the nominated edges to remove.
type CyclesResponse struct {
	Edges []ModuleEdge `json:"edges" yaml:"edges"`
}

// GraphService defines the core business logic for building and
// querying import graphs.
type GraphService interface {
	Build(ctx context.Context, req BuildRequest) (*BuildResponse, error)
	FindChain(ctx context.Context, req ChainRequest) (*ChainResponse, error)
	FindDescendants(ctx context.Context, req DescendantsRequest) (*DescendantsResponse, error)
	MatchModules(ctx context.Context, req MatchRequest) (*MatchResponse, error)
	NominateCycleBreakers(ctx context.Context, req CyclesRequest) (*CyclesResponse, error)
}

// DepsOutputFormatter formats a BuildResponse for display.
type DepsOutputFormatter interface {
	Write(response *BuildResponse, format OutputFormat, writer io.Writer) error
}

// ArchitectureConfigSpec represents layer-based architecture rules
// (domain-friendly mirror of internal/layers.Layer, plus the container
// packages each layer tail is resolved under, one check pass per
// container).
type ArchitectureConfigSpec struct {
	Containers []string            `json:"containers" yaml:"containers" mapstructure:"containers"`
	Layers     []ArchitectureLayer `json:"layers" yaml:"layers" mapstructure:"layers"`
}

// ArchitectureLayer defines one layer: the module-name suffixes
// ("tails") of its sibling packages at the same rank, plus its
// independence/closure flags. Layers themselves are listed from highest
// to lowest in ArchitectureConfigSpec.Layers.
type ArchitectureLayer struct {
	Tails       []string `json:"tails" yaml:"tails" mapstructure:"tails"`
	Independent bool     `json:"independent" yaml:"independent" mapstructure:"independent"`
	Closed      bool     `json:"closed" yaml:"closed" mapstructure:"closed"`
}

// LayerViolation represents one illegal route discovered between two
// layers, flattened for reporting (a PackageDependency with N routes
// becomes N LayerViolation entries, one per offending route).
type LayerViolation struct {
	FromModule string   `json:"from_module" yaml:"from_module"`
	ToModule   string   `json:"to_module" yaml:"to_module"`
	Heads      []string `json:"heads" yaml:"heads"`
	Tails      []string `json:"tails" yaml:"tails"`
	Middle     []string `json:"middle,omitempty" yaml:"middle,omitempty"`
}
