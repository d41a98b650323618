package commands

import (
	"errors"
	"fmt"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/depgraph"
	"github.com/spf13/cobra"
)

// OrderCmd creates the 'order' command
func OrderCmd() *cobra.Command {
	var (
		format string
		levels bool
	)

	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print the build order, dependencies first",
		Long: `Prints every module after all of the modules it depends on.

With --levels, modules are grouped into waves: modules within one wave do
not depend on each other and can be built in parallel.

The command fails when the graph contains a circular dependency.

Example:
  heron order
  heron order --levels --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			f, err := s.listFormat(format)
			if err != nil {
				return err
			}

			a, err := s.analyze(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if levels {
				waves, err := depgraph.Levels(a.Graph)
				if err != nil {
					return cycleHint(a.Cycles(), err)
				}
				if f != "text" {
					return writeStructured(w, f, map[string]any{"levels": waves})
				}
				for i, wave := range waves {
					fmt.Fprintf(w, "Level %d: ", i)
					for j, name := range wave {
						if j > 0 {
							fmt.Fprint(w, ", ")
						}
						fmt.Fprint(w, name)
					}
					fmt.Fprintln(w)
				}
				return nil
			}

			order, err := a.BuildOrder()
			if err != nil {
				return cycleHint(a.Cycles(), err)
			}
			if f != "text" {
				return writeStructured(w, f, map[string]any{"order": order})
			}
			for i, name := range order {
				fmt.Fprintf(w, "%4d. %s\n", i+1, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&levels, "levels", false, "Group modules into parallel build waves")

	return cmd
}

// cycleHint prints the cycles behind a failed sort and returns err
func cycleHint(cycles [][]string, err error) error {
	if errors.Is(err, depgraph.ErrCycle) {
		for _, c := range uniqueCycles(cycles) {
			output.Step(formatCycle(c))
		}
	}
	return err
}

// CyclesCmd creates the 'cycles' command
func CyclesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "Detect circular dependencies between modules",
		Long: `Reports every circular dependency between modules. The command exits
with an error when at least one cycle exists, so it can guard CI builds.

Example:
  heron cycles
  heron cycles --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			f, err := s.listFormat(format)
			if err != nil {
				return err
			}

			a, err := s.analyze(cmd.Context())
			if err != nil {
				return err
			}

			cycles := uniqueCycles(a.Cycles())
			if f != "text" {
				if cycles == nil {
					cycles = [][]string{}
				}
				if err := writeStructured(cmd.OutOrStdout(), f, map[string]any{"cycles": cycles}); err != nil {
					return err
				}
			} else if len(cycles) == 0 {
				output.Success(fmt.Sprintf("No circular dependencies in %d modules", a.Graph.Len()))
			} else {
				for _, c := range cycles {
					fmt.Fprintln(cmd.OutOrStdout(), formatCycle(c))
				}
			}

			if len(cycles) > 0 {
				return fmt.Errorf("%d circular %s found", len(cycles), plural(len(cycles), "dependency", "dependencies"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, yaml")

	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
