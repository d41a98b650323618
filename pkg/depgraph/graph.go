package depgraph

import "fmt"

// Node is one module in the graph
type Node struct {
	ModuleName   string
	ModulePath   string
	Dependencies []string // Names of the modules this one depends on
}

// Graph tracks dependencies between workspace modules
type Graph struct {
	nodes map[string]*Node
	edges map[string][]string // module -> modules it depends on
	order []string            // insertion order of nodes
}

// NewGraph creates a new empty graph
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string][]string),
	}
}

// AddNode adds a module. It reports false when the name is already taken.
func (g *Graph) AddNode(name, path string) bool {
	if _, exists := g.nodes[name]; exists {
		return false
	}
	g.nodes[name] = &Node{
		ModuleName:   name,
		ModulePath:   path,
		Dependencies: []string{},
	}
	g.edges[name] = []string{}
	g.order = append(g.order, name)
	return true
}

// AddDependency records that from depends on to. Both modules must already
// be nodes. Each call adds one edge, so a module referenced under two
// configurations appears twice in Dependencies.
func (g *Graph) AddDependency(from, to string) error {
	node, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("unknown module '%s'", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("unknown dependency '%s' of module '%s'", to, from)
	}
	node.Dependencies = append(node.Dependencies, to)
	g.edges[from] = node.Dependencies
	return nil
}

// Len returns the number of modules
func (g *Graph) Len() int {
	return len(g.order)
}

// Names returns module names in insertion order
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Nodes returns the nodes in insertion order
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// Node returns the node for a module name
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

// HasNode reports whether the module exists
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Dependencies returns the direct dependencies of a module
func (g *Graph) Dependencies(name string) []string {
	if deps, ok := g.edges[name]; ok {
		out := make([]string, len(deps))
		copy(out, deps)
		return out
	}
	return []string{}
}

// Dependents returns the modules that depend directly on name, in
// insertion order.
func (g *Graph) Dependents(name string) []string {
	out := []string{}
	for _, from := range g.order {
		if contains(g.edges[from], name) {
			out = append(out, from)
		}
	}
	return out
}

// UniqueDependencies returns the direct dependencies of a module with
// repeats removed, keeping first occurrence order.
func (g *Graph) UniqueDependencies(name string) []string {
	out := []string{}
	for _, dep := range g.edges[name] {
		if !contains(out, dep) {
			out = append(out, dep)
		}
	}
	return out
}

// EdgeCount returns the number of distinct module pairs joined by at
// least one edge
func (g *Graph) EdgeCount() int {
	total := 0
	for _, from := range g.order {
		total += len(g.UniqueDependencies(from))
	}
	return total
}

// contains checks if a string slice contains a value
func contains(slice []string, value string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
