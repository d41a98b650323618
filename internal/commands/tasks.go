package commands

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/simonhull/firebird-suite/heron/internal/exec"
	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/tasks"
	"github.com/spf13/cobra"
)

// TasksCmd creates the 'tasks' command
func TasksCmd() *cobra.Command {
	var (
		format   string
		fromFile string
		caching  bool
	)

	cmd := &cobra.Command{
		Use:   "tasks <module>",
		Short: "Infer heron targets from a module's Gradle tasks",
		Long: `Runs 'gradle tasks --all' in a module and maps the tasks it reports onto
heron targets with their outputs. Use --from-file to read a saved task
listing instead of starting Gradle.

Example:
  heron tasks app
  heron tasks app --from-file tasks.txt --format json
  heron tasks app --caching`,
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
			if err := requireModule(a, args[0]); err != nil {
				return err
			}
			m, _ := a.Module(args[0])

			var listing string
			if fromFile != "" {
				data, err := os.ReadFile(fromFile)
				if err != nil {
					return fmt.Errorf("reading task list: %w", err)
				}
				listing = string(data)
			} else {
				ctx, cancel := interruptContext(cmd)
				defer cancel()

				inv := s.invocation(a.Snapshot, m, nil)
				var buf bytes.Buffer
				e := exec.NewExecutor(&exec.Options{Stdout: &buf, Stderr: cmd.ErrOrStderr()}).
					WithDir(inv.Dir).
					WithEnv(inv.Env()...)
				output.Verbose(fmt.Sprintf("Running %s tasks --all in %s", inv.Command, m.Path))
				if err := e.Run(ctx, inv.Command, "tasks", "--all"); err != nil {
					return err
				}
				listing = buf.String()
			}

			found := tasks.ParseTaskList(listing)
			targets := tasks.Infer(found, m.Path)

			if f != "text" {
				report := map[string]any{"module": m.Name, "targets": targets}
				if caching {
					report["outputs"] = tasks.Outputs(m.Path)
					report["inputs"] = tasks.CacheInputs(m.Path)
				}
				return writeStructured(cmd.OutOrStdout(), f, report)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Targets for %s (%d of %d tasks)\n", m.Name, len(targets), len(found))
			for _, t := range targets {
				line := fmt.Sprintf("  %-10s executor=%s", t.Name, t.Executor)
				if len(t.Outputs) > 0 {
					line += " outputs=" + strings.Join(t.Outputs, ",")
				}
				if len(t.DependsOn) > 0 {
					line += " dependsOn=" + strings.Join(t.DependsOn, ",")
				}
				fmt.Fprintln(w, line)
			}
			if caching {
				output.List("Cache outputs", tasks.Outputs(m.Path))
				output.List("Cache inputs", tasks.CacheInputs(m.Path))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json, yaml")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "Read 'gradle tasks --all' output from a file")
	cmd.Flags().BoolVar(&caching, "caching", false, "Also print the module's cache inputs and outputs")

	return cmd
}
