package analyzer

import (
	"context"
	"fmt"

	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
	"github.com/simonhull/firebird-suite/heron/pkg/depgraph"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/workspace"
)

// Analysis is the result of one pass over a workspace
type Analysis struct {
	Snapshot    *workspace.Snapshot
	Facts       map[string]*buildfile.BuildFacts // Keyed by module name
	Graph       *depgraph.Graph
	Diagnostics *depgraph.Diagnostics
}

// BuildOrder returns modules with dependencies first
func (a *Analysis) BuildOrder() ([]string, error) {
	return depgraph.TopologicalSort(a.Graph)
}

// Cycles returns every circular dependency in the graph
func (a *Analysis) Cycles() [][]string {
	return depgraph.DetectCycles(a.Graph)
}

// Module returns the discovered module for a name
func (a *Analysis) Module(name string) (*workspace.Module, bool) {
	return a.Snapshot.Module(name)
}

// Analyzer turns workspace snapshots into dependency graphs
type Analyzer struct {
	cache   *FactsCache
	logger  logger.Logger
	workers int
	strict  bool
}

// NewAnalyzer creates a new Analyzer. cache may be nil.
func NewAnalyzer(cache *FactsCache) *Analyzer {
	return &Analyzer{
		cache:  cache,
		logger: logger.Default(),
	}
}

// WithLogger returns a new Analyzer with the specified logger
func (a *Analyzer) WithLogger(log logger.Logger) *Analyzer {
	c := *a
	c.logger = log
	return &c
}

// WithWorkers returns a new Analyzer parsing with n workers (0 = NumCPU)
func (a *Analyzer) WithWorkers(n int) *Analyzer {
	c := *a
	c.workers = n
	return &c
}

// WithStrict returns a new Analyzer that fails on unresolved references
func (a *Analyzer) WithStrict(strict bool) *Analyzer {
	c := *a
	c.strict = strict
	return &c
}

// Cache returns the facts cache, which may be nil
func (a *Analyzer) Cache() *FactsCache {
	return a.cache
}

// AnalyzeDir discovers the workspace at root and analyzes it
func (a *Analyzer) AnalyzeDir(ctx context.Context, root string, walk workspace.WalkOptions) (*Analysis, error) {
	snap, err := workspace.Discover(ctx, root, workspace.DiscoverOptions{
		Walk:   walk,
		Logger: a.logger,
	})
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, snap)
}

// Analyze parses every module of the snapshot and builds the graph.
// In strict mode unresolved references are returned as an error together
// with the analysis.
func (a *Analyzer) Analyze(ctx context.Context, snap *workspace.Snapshot) (*Analysis, error) {
	facts, err := a.parseAll(ctx, snap.Modules)
	if err != nil {
		return nil, err
	}

	modules := make([]depgraph.Module, 0, len(snap.Modules))
	for i, m := range snap.Modules {
		modules = append(modules, depgraph.Module{
			Name:  m.Name,
			Path:  m.Path,
			Facts: facts[i],
		})
	}

	graph, diags := depgraph.Build(modules)

	analysis := &Analysis{
		Snapshot:    snap,
		Facts:       make(map[string]*buildfile.BuildFacts, len(modules)),
		Graph:       graph,
		Diagnostics: diags,
	}
	for _, m := range modules {
		if _, exists := analysis.Facts[m.Name]; !exists {
			analysis.Facts[m.Name] = m.Facts
		}
	}

	for _, u := range diags.Unresolved {
		a.logger.Warn("Unresolved project reference",
			logger.F("module", u.Module),
			logger.F("project", u.ProjectPath),
			logger.F("reason", u.Reason))
	}
	for _, name := range diags.DuplicateModules {
		a.logger.Warn("Duplicate module name", logger.F("module", name))
	}

	hits, misses := a.cache.Stats()
	a.logger.Info("Analysis complete",
		logger.F("modules", graph.Len()),
		logger.F("edges", graph.EdgeCount()),
		logger.F("cache_hits", hits),
		logger.F("cache_misses", misses))

	if a.strict {
		if err := diags.Strict(); err != nil {
			return analysis, fmt.Errorf("strict analysis: %w", err)
		}
	}

	return analysis, nil
}
