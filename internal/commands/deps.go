package commands

import (
	"fmt"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/depgraph"
	"github.com/spf13/cobra"
)

// DepsCmd creates the 'deps' command
func DepsCmd() *cobra.Command {
	var (
		format     string
		reverse    bool
		transitive bool
	)

	cmd := &cobra.Command{
		Use:   "deps <module>",
		Short: "List what a module depends on, or what depends on it",
		Long: `Lists the project dependencies of a module. With --reverse, lists the
modules that depend on it instead. With --transitive, follows the graph
all the way down (or up).

Example:
  heron deps app
  heron deps core --reverse --transitive`,
		Args: cobra.ExactArgs(1),
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

			name := args[0]
			if err := requireModule(a, name); err != nil {
				return err
			}

			var names []string
			switch {
			case reverse && transitive:
				names = sortedKeys(depgraph.TransitiveDependents(name, a.Graph))
			case reverse:
				names = a.Graph.Dependents(name)
			case transitive:
				names = sortedKeys(depgraph.TransitiveDependencies(name, a.Graph))
			default:
				names = a.Graph.Dependencies(name)
			}
			if names == nil {
				names = []string{}
			}

			if f != "text" {
				key := "dependencies"
				if reverse {
					key = "dependents"
				}
				return writeStructured(cmd.OutOrStdout(), f, map[string]any{"module": name, key: names})
			}

			title := "Dependencies of " + name
			if reverse {
				title = "Dependents of " + name
			}
			if transitive {
				title += " (transitive)"
			}
			output.List(title, names)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, yaml")
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "List dependents instead of dependencies")
	cmd.Flags().BoolVarP(&transitive, "transitive", "t", false, "Follow the graph transitively")

	return cmd
}

// AffectedCmd creates the 'affected' command
func AffectedCmd() *cobra.Command {
	var (
		format string
		files  []string
	)

	cmd := &cobra.Command{
		Use:   "affected [module...]",
		Short: "List modules affected by a change",
		Long: `Lists the changed modules together with every module that transitively
depends on them, in build order. Changed modules can be named directly or
derived from changed files with --files.

Example:
  heron affected core
  heron affected --files libs/core/src/main/java/Core.java,app/build.gradle
  git diff --name-only main | xargs heron affected --files`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(files) == 0 {
				return fmt.Errorf("name at least one module or pass --files")
			}

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

			changed := []string{}
			for _, name := range args {
				if err := requireModule(a, name); err != nil {
					return err
				}
				changed = append(changed, name)
			}
			for _, file := range files {
				if name, ok := moduleForFile(a.Snapshot, file); ok {
					output.Verbose(fmt.Sprintf("%s belongs to %s", file, name))
					changed = append(changed, name)
				} else {
					output.Verbose(fmt.Sprintf("%s is outside every module", file))
				}
			}

			affected := depgraph.Affected(a.Graph, changed...)
			if order, err := a.BuildOrder(); err == nil {
				affected = inOrder(order, affected)
			}

			if f != "text" {
				return writeStructured(cmd.OutOrStdout(), f, map[string]any{"changed": changed, "affected": affected})
			}
			output.List(fmt.Sprintf("Affected modules (%d)", len(affected)), affected)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, yaml")
	cmd.Flags().StringSliceVar(&files, "files", nil, "Changed files, relative to the workspace root")

	return cmd
}

// inOrder returns the members of subset in the order they appear in order
func inOrder(order, subset []string) []string {
	want := make(map[string]bool, len(subset))
	for _, name := range subset {
		want[name] = true
	}
	out := make([]string, 0, len(subset))
	for _, name := range order {
		if want[name] {
			out = append(out, name)
		}
	}
	return out
}
