// Package report summarizes an analyzed workspace as Markdown or HTML.
//
// Each module gets fan-in (modules depending on it), fan-out (modules it
// depends on) and instability, fan-out / (fan-in + fan-out). Stable
// modules sit near 0 and should change rarely; modules near 1 depend on
// much and are depended on by little.
package report

import (
	"path/filepath"
	"time"

	"github.com/simonhull/firebird-suite/heron/pkg/analyzer"
	"github.com/simonhull/firebird-suite/heron/pkg/depgraph"
)

// ModuleMetrics describes one module's place in the graph
type ModuleMetrics struct {
	Name        string   `json:"name" yaml:"name"`
	Path        string   `json:"path" yaml:"path"`
	Dialect     string   `json:"dialect" yaml:"dialect"`
	FanIn       int      `json:"fan_in" yaml:"fan_in"`
	FanOut      int      `json:"fan_out" yaml:"fan_out"`
	Instability float64  `json:"instability" yaml:"instability"`
	Level       int      `json:"level" yaml:"level"` // -1 when the graph has cycles
	External    int      `json:"external" yaml:"external"`
	Plugins     []string `json:"plugins" yaml:"plugins"`
	InCycle     bool     `json:"in_cycle" yaml:"in_cycle"`
}

// Edge is one project dependency
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Stats are workspace totals
type Stats struct {
	Modules   int `json:"modules" yaml:"modules"`
	Edges     int `json:"edges" yaml:"edges"`
	Externals int `json:"externals" yaml:"externals"` // Distinct group:artifact pairs
	Levels    int `json:"levels" yaml:"levels"`
}

// Report is everything the renderers need
type Report struct {
	Name        string                     `json:"name" yaml:"name"`
	Root        string                     `json:"root" yaml:"root"`
	GeneratedAt time.Time                  `json:"generated_at" yaml:"generated_at"`
	Stats       Stats                      `json:"stats" yaml:"stats"`
	Modules     []ModuleMetrics            `json:"modules" yaml:"modules"`
	Edges       []Edge                     `json:"edges" yaml:"edges"`
	Levels      [][]string                 `json:"levels" yaml:"levels"`
	Cycles      [][]string                 `json:"cycles" yaml:"cycles"`
	Conflicts   []analyzer.VersionConflict `json:"conflicts" yaml:"conflicts"`
}

// Build computes the report for an analysis. cycles are the circular
// dependencies to list, typically with rotations removed.
func Build(a *analyzer.Analysis, cycles [][]string) *Report {
	g := a.Graph

	name := a.Snapshot.RootProjectName
	if name == "" {
		name = filepath.Base(a.Snapshot.Root)
	}

	r := &Report{
		Name:        name,
		Root:        a.Snapshot.Root,
		GeneratedAt: time.Now(),
		Modules:     make([]ModuleMetrics, 0, g.Len()),
		Edges:       []Edge{},
		Levels:      [][]string{},
		Cycles:      cycles,
		Conflicts:   a.VersionConflicts(),
	}
	if r.Cycles == nil {
		r.Cycles = [][]string{}
	}

	inCycle := make(map[string]bool)
	for _, c := range cycles {
		for _, m := range c {
			inCycle[m] = true
		}
	}

	level := make(map[string]int)
	if levels, err := depgraph.Levels(g); err == nil {
		r.Levels = levels
		for i, wave := range levels {
			for _, m := range wave {
				level[m] = i
			}
		}
	}

	libraries := make(map[string]bool)
	for _, node := range g.Nodes() {
		deps := g.UniqueDependencies(node.ModuleName)
		for _, dep := range deps {
			r.Edges = append(r.Edges, Edge{From: node.ModuleName, To: dep})
		}

		m := ModuleMetrics{
			Name:    node.ModuleName,
			Path:    node.ModulePath,
			FanIn:   len(g.Dependents(node.ModuleName)),
			FanOut:  len(deps),
			Level:   -1,
			Plugins: []string{},
			InCycle: inCycle[node.ModuleName],
		}
		if total := m.FanIn + m.FanOut; total > 0 {
			m.Instability = float64(m.FanOut) / float64(total)
		}
		if l, ok := level[node.ModuleName]; ok {
			m.Level = l
		}
		if mod, ok := a.Module(node.ModuleName); ok {
			m.Dialect = mod.Dialect.String()
		}
		if facts := a.Facts[node.ModuleName]; facts != nil {
			m.Plugins = facts.Plugins
			for _, dep := range facts.ExternalDependencies() {
				m.External++
				libraries[dep.Group+":"+dep.Artifact] = true
			}
		}
		r.Modules = append(r.Modules, m)
	}

	r.Stats = Stats{
		Modules:   len(r.Modules),
		Edges:     len(r.Edges),
		Externals: len(libraries),
		Levels:    len(r.Levels),
	}
	return r
}
