package commands

import (
	"fmt"
	"io"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/analyzer"
	"github.com/simonhull/firebird-suite/heron/pkg/depgraph"
	"github.com/spf13/cobra"
)

// graphReport is the JSON and YAML shape of heron graph
type graphReport struct {
	Root          string `json:"root" yaml:"root"`
	depgraph.View `yaml:",inline"`
	Cycles        [][]string            `json:"cycles" yaml:"cycles"`
	Diagnostics   *depgraph.Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

func newGraphReport(a *analyzer.Analysis) graphReport {
	cycles := uniqueCycles(a.Cycles())
	if cycles == nil {
		cycles = [][]string{}
	}
	return graphReport{
		Root:        a.Snapshot.Root,
		View:        a.Graph.Snapshot(),
		Cycles:      cycles,
		Diagnostics: a.Diagnostics,
	}
}

// GraphCmd creates the 'graph' command
func GraphCmd() *cobra.Command {
	var (
		format  string
		watch   bool
		rankDir string
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the module dependency graph",
		Long: `Discovers every Gradle module below the workspace root, parses its build
script and prints the dependency graph between modules.

Formats: text (default), json, yaml, dot (graphviz).
Modules that take part in a cycle are highlighted in dot output.

Example:
  heron graph
  heron graph --format dot | dot -Tsvg > graph.svg
  heron graph --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			f, err := s.format(format)
			if err != nil {
				return err
			}

			render := func(a *analyzer.Analysis) error {
				return renderGraph(cmd.OutOrStdout(), f, a, rankDir)
			}

			if !watch {
				a, err := s.analyze(cmd.Context())
				if err != nil {
					return err
				}
				return render(a)
			}

			ctx, stop := interruptContext(cmd)
			defer stop()

			output.Info(fmt.Sprintf("Watching %s for build file changes (Ctrl+C to stop)", s.root))
			return s.analyzer.Watch(ctx, s.root, analyzer.WatchOptions{Walk: s.walk}, func(a *analyzer.Analysis, err error) {
				if err != nil {
					output.Error(err.Error())
					return
				}
				if err := render(a); err != nil {
					output.Error(err.Error())
				}
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, yaml, dot")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render the graph whenever a build file changes")
	cmd.Flags().StringVar(&rankDir, "rankdir", "LR", "Graphviz rank direction for dot output")

	return cmd
}

func renderGraph(w io.Writer, format string, a *analyzer.Analysis, rankDir string) error {
	switch format {
	case "dot":
		var highlight []string
		for _, c := range uniqueCycles(a.Cycles()) {
			highlight = append(highlight, c...)
		}
		return depgraph.WriteDOT(w, a.Graph, depgraph.DOTOptions{Highlight: highlight, RankDir: rankDir})
	case "json", "yaml":
		return writeStructured(w, format, newGraphReport(a))
	}

	reportIncludes(a)

	g := a.Graph
	fmt.Fprintf(w, "%s (%d modules, %d edges)\n", a.Snapshot.Root, g.Len(), g.EdgeCount())
	for _, node := range g.Nodes() {
		fmt.Fprintf(w, "\n%s", node.ModuleName)
		if node.ModulePath != node.ModuleName {
			fmt.Fprintf(w, " (%s)", node.ModulePath)
		}
		fmt.Fprintln(w)
		for _, dep := range node.Dependencies {
			fmt.Fprintf(w, "  → %s\n", dep)
		}
	}

	if cycles := uniqueCycles(a.Cycles()); len(cycles) > 0 {
		fmt.Fprintln(w)
		for _, c := range cycles {
			output.Warn("Circular dependency: " + formatCycle(c))
		}
	}
	return nil
}
