package depgraph

import (
	"errors"
	"fmt"
)

// ErrCycle is wrapped by every CycleError
var ErrCycle = errors.New("circular dependency")

// CycleError reports the module at which a cycle was detected
type CycleError struct {
	Module string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected involving module '%s'", e.Module)
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// DetectCycles finds circular dependencies using DFS. Each cycle is the
// traversal path from the first module of the cycle to the module that
// closes it. The same cycle may be reported more than once when it is
// reachable through different back edges.
func DetectCycles(g *Graph) [][]string {
	cycles := make([][]string, 0)
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	var dfs func(name string, path []string)
	dfs = func(name string, path []string) {
		visited[name] = true
		recStack[name] = true
		path = append(path, name)

		for _, neighbor := range g.edges[name] {
			if !visited[neighbor] {
				dfs(neighbor, path)
				continue
			}
			if !recStack[neighbor] {
				continue
			}

			start := indexOf(path, neighbor)
			cycle := make([]string, len(path)-start)
			copy(cycle, path[start:])
			cycles = append(cycles, cycle)
		}

		recStack[name] = false
	}

	for _, name := range g.order {
		if !visited[name] {
			dfs(name, nil)
		}
	}

	return cycles
}

// HasCycle reports whether the graph contains any circular dependency
func HasCycle(g *Graph) bool {
	_, err := TopologicalSort(g)
	return err != nil
}

// TopologicalSort orders modules so that every module comes after all of
// the modules it depends on. Independent modules keep insertion order.
// A cycle fails the sort with a *CycleError.
func TopologicalSort(g *Graph) ([]string, error) {
	const (
		unvisited = iota
		visiting
		done
	)

	sorted := make([]string, 0, len(g.order))
	state := make(map[string]int, len(g.order))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			return &CycleError{Module: name}
		case done:
			return nil
		}

		state[name] = visiting

		// Visit all dependencies first
		for _, dep := range g.edges[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}

		state[name] = done
		sorted = append(sorted, name) // dependencies are already in place

		return nil
	}

	for _, name := range g.order {
		if state[name] == unvisited {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}

	return sorted, nil
}

// TransitiveDependencies returns every module reachable from name. The
// result never contains name itself, even when name is part of a cycle.
// An unknown name yields an empty set.
func TransitiveDependencies(name string, g *Graph) map[string]bool {
	result := make(map[string]bool)
	visited := map[string]bool{name: true}

	var dfs func(current string)
	dfs = func(current string) {
		for _, dep := range g.edges[current] {
			if dep != name {
				result[dep] = true
			}
			if visited[dep] {
				continue
			}
			visited[dep] = true
			dfs(dep)
		}
	}
	dfs(name)

	return result
}

// TransitiveDependents returns every module that reaches name through
// one or more edges, excluding name itself.
func TransitiveDependents(name string, g *Graph) map[string]bool {
	reverse := reverseEdges(g)
	result := make(map[string]bool)
	visited := map[string]bool{name: true}

	stack := []string{name}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, from := range reverse[current] {
			if from != name {
				result[from] = true
			}
			if !visited[from] {
				visited[from] = true
				stack = append(stack, from)
			}
		}
	}

	return result
}

// Affected returns the changed modules together with everything that
// transitively depends on them, in insertion order. Unknown names are
// ignored.
func Affected(g *Graph, changed ...string) []string {
	hit := make(map[string]bool)
	for _, name := range changed {
		if !g.HasNode(name) {
			continue
		}
		hit[name] = true
		for dep := range TransitiveDependents(name, g) {
			hit[dep] = true
		}
	}

	out := []string{}
	for _, name := range g.order {
		if hit[name] {
			out = append(out, name)
		}
	}
	return out
}

// Levels groups modules into build waves. Level 0 holds modules without
// dependencies; every other module sits one level above its deepest
// dependency, so modules within a level never depend on each other.
func Levels(g *Graph) ([][]string, error) {
	order, err := TopologicalSort(g)
	if err != nil {
		return nil, err
	}

	depth := make(map[string]int, len(order))
	maxDepth := -1
	for _, name := range order {
		level := 0
		for _, dep := range g.edges[name] {
			if depth[dep]+1 > level {
				level = depth[dep] + 1
			}
		}
		depth[name] = level
		if level > maxDepth {
			maxDepth = level
		}
	}

	levels := make([][]string, maxDepth+1)
	for _, name := range g.order {
		levels[depth[name]] = append(levels[depth[name]], name)
	}
	return levels, nil
}

func reverseEdges(g *Graph) map[string][]string {
	reverse := make(map[string][]string, len(g.order))
	for _, from := range g.order {
		for _, to := range g.edges[from] {
			reverse[to] = append(reverse[to], from)
		}
	}
	return reverse
}

func indexOf(path []string, name string) int {
	for i, p := range path {
		if p == name {
			return i
		}
	}
	return -1
}
