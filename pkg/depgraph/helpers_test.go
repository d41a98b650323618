package depgraph

import (
	"testing"

	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
)

// graphOf builds a graph whose module paths equal their names and whose
// edges follow deps, in the given order.
func graphOf(t *testing.T, names []string, deps map[string][]string) *Graph {
	t.Helper()

	modules := make([]Module, 0, len(names))
	for _, name := range names {
		facts := buildfile.NewBuildFacts()
		for _, dep := range deps[name] {
			facts.Dependencies = append(facts.Dependencies, buildfile.Dependency{
				Configuration: "implementation",
				Kind:          buildfile.Project,
				ProjectPath:   ":" + dep,
			})
		}
		modules = append(modules, Module{Name: name, Path: name, Facts: facts})
	}

	g, diags := Build(modules)
	if diags.HasIssues() {
		t.Fatalf("unexpected diagnostics: %v", diags.Strict())
	}
	return g
}

func indexIn(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}
