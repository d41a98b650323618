package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/simonhull/firebird-suite/heron/internal/exec"
	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/depgraph"
	"github.com/spf13/cobra"
)

// RunCmd creates the 'run' command
func RunCmd() *cobra.Command {
	var (
		task           string
		keepGoing      bool
		coverage       bool
		coverageFormat string
		prefix         bool
		withDeps       bool
	)

	cmd := &cobra.Command{
		Use:   "run <target> [module...] [-- gradle-args...]",
		Short: "Run a target in modules, dependencies first",
		Long: `Runs a build target in each module in dependency order. Without module
names every module runs. A failing module stops the run unless
--keep-going is set, in which case modules depending on it are skipped.

Targets:
` + targetHelp() + `

Example:
  heron run build
  heron run test core app --coverage
  heron run build app --with-deps --prefix
  heron run gradle app -- dependencies --configuration runtimeClasspath`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, extra := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				positional, extra = args[:dash], args[dash:]
			}
			if len(positional) == 0 {
				return fmt.Errorf("missing target (one of %s)", strings.Join(exec.Targets(), ", "))
			}

			t, ok := exec.Lookup(positional[0])
			if !ok {
				return fmt.Errorf("unknown target '%s' (available: %s)", positional[0], strings.Join(exec.Targets(), ", "))
			}
			if coverage && t.Name() != "test" {
				return fmt.Errorf("--coverage only applies to the test target")
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := interruptContext(cmd)
			defer cancel()

			a, err := s.analyze(ctx)
			if err != nil {
				return err
			}

			var modules []string
			for _, name := range positional[1:] {
				if err := requireModule(a, name); err != nil {
					return err
				}
				modules = append(modules, name)
			}
			if withDeps && modules != nil {
				set := make(map[string]bool)
				for _, name := range modules {
					set[name] = true
					for dep := range depgraph.TransitiveDependencies(name, a.Graph) {
						set[dep] = true
					}
				}
				modules = sortedKeys(set)
			}

			invocationFor := func(name string) exec.Invocation {
				m, _ := a.Module(name)
				inv := s.invocation(a.Snapshot, m, extra)
				inv.Task = task
				inv.Coverage = coverage
				inv.CoverageFormat = coverageFormat
				return inv
			}

			e := exec.NewExecutor(&exec.Options{
				Stdout:  cmd.OutOrStdout(),
				Stderr:  cmd.ErrOrStderr(),
				Spinner: !prefix,
			})

			results, err := exec.RunOrdered(ctx, e, a.Graph, t, invocationFor, exec.OrderOptions{
				Modules:   modules,
				KeepGoing: keepGoing,
				Prefix:    prefix,
				OnStart: func(module string, position, total int) {
					output.Verbose(fmt.Sprintf("[%d/%d] %s", position, total, module))
				},
			})
			if errors.Is(err, depgraph.ErrCycle) {
				return cycleHint(a.Cycles(), err)
			}

			summarize(results)
			return err
		},
	}

	cmd.Flags().StringVar(&task, "task", "", "Gradle task for the build and test targets")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Continue after a module fails")
	cmd.Flags().BoolVar(&coverage, "coverage", false, "Generate a JaCoCo report (test target)")
	cmd.Flags().StringVar(&coverageFormat, "coverage-format", "", "Coverage report format: xml, html, csv")
	cmd.Flags().BoolVar(&prefix, "prefix", false, "Prefix output lines with the module name")
	cmd.Flags().BoolVar(&withDeps, "with-deps", false, "Also run the named modules' dependencies")

	return cmd
}

// summarize prints one line per module result
func summarize(results []exec.ModuleResult) {
	ok := 0
	for _, r := range results {
		switch {
		case r.Skipped:
			output.Warn(fmt.Sprintf("%s skipped: %v", r.Module, r.Err))
		case r.Err != nil:
			output.Error(fmt.Sprintf("%s failed", r.Module))
		default:
			ok++
			output.Verbose(fmt.Sprintf("%s done in %s", r.Module, r.Duration.Round(time.Millisecond)))
		}
	}
	if ok == len(results) && ok > 0 {
		output.Success(fmt.Sprintf("%d %s succeeded", ok, plural(ok, "module", "modules")))
	}
}

func targetHelp() string {
	desc := exec.Describe()
	names := make([]string, 0, len(desc))
	for name := range desc {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("  %-8s %s", name, desc[name])
	}
	return strings.Join(lines, "\n")
}
