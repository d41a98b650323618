package depgraph

import (
	"errors"
	"fmt"
	"io"

	dgraph "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// ModuleView is the serializable form of one node
type ModuleView struct {
	Name         string   `json:"name" yaml:"name"`
	Path         string   `json:"path" yaml:"path"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	Dependents   []string `json:"dependents" yaml:"dependents"`
}

// View is a JSON and YAML friendly copy of a graph
type View struct {
	Modules   []ModuleView `json:"modules" yaml:"modules"`
	EdgeCount int          `json:"edge_count" yaml:"edge_count"`
}

// Snapshot copies the graph into a View. Modules keep insertion order.
func (g *Graph) Snapshot() View {
	view := View{
		Modules:   make([]ModuleView, 0, len(g.order)),
		EdgeCount: g.EdgeCount(),
	}
	for _, name := range g.order {
		node := g.nodes[name]
		view.Modules = append(view.Modules, ModuleView{
			Name:         node.ModuleName,
			Path:         node.ModulePath,
			Dependencies: g.Dependencies(name),
			Dependents:   g.Dependents(name),
		})
	}
	return view
}

// DOTOptions controls WriteDOT
type DOTOptions struct {
	// Highlight lists modules drawn filled, e.g. the members of a cycle
	Highlight []string
	// RankDir sets the graphviz rankdir attribute ("LR", "TB", ...)
	RankDir string
}

// WriteDOT renders the graph in graphviz DOT format
func WriteDOT(w io.Writer, g *Graph, opts DOTOptions) error {
	dg := dgraph.New(dgraph.StringHash, dgraph.Directed())

	highlight := make(map[string]bool, len(opts.Highlight))
	for _, name := range opts.Highlight {
		highlight[name] = true
	}

	for _, name := range g.order {
		attrs := []func(*dgraph.VertexProperties){
			dgraph.VertexAttribute("label", name),
			dgraph.VertexAttribute("tooltip", g.nodes[name].ModulePath),
		}
		if highlight[name] {
			attrs = append(attrs,
				dgraph.VertexAttribute("style", "filled"),
				dgraph.VertexAttribute("fillcolor", "#f7768e"),
			)
		}
		if err := dg.AddVertex(name, attrs...); err != nil {
			return fmt.Errorf("adding vertex %s: %w", name, err)
		}
	}

	for _, from := range g.order {
		for _, to := range g.edges[from] {
			err := dg.AddEdge(from, to)
			if err != nil && !errors.Is(err, dgraph.ErrEdgeAlreadyExists) {
				return fmt.Errorf("adding edge %s -> %s: %w", from, to, err)
			}
		}
	}

	if opts.RankDir != "" {
		return draw.DOT(dg, w, draw.GraphAttribute("rankdir", opts.RankDir))
	}
	return draw.DOT(dg, w)
}
