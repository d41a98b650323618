package exec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/simonhull/firebird-suite/heron/pkg/depgraph"
)

// ErrModuleFailed is returned by RunOrdered when any module fails
var ErrModuleFailed = errors.New("module run failed")

// ModuleResult is the outcome of a target in one module
type ModuleResult struct {
	Module   string
	Err      error
	Skipped  bool // A dependency failed, so the module did not run
	Duration time.Duration
}

// OrderOptions configures RunOrdered
type OrderOptions struct {
	// Modules restricts the run to these names. Nil runs every module.
	Modules []string
	// KeepGoing continues after a failure, skipping modules that depend
	// on a failed module.
	KeepGoing bool
	// Prefix tags each output line with the module name.
	Prefix bool
	// OnStart is called before each module runs.
	OnStart func(module string, position, total int)
}

// RunOrdered runs t in every module of g, dependencies first. A cycle is
// reported before any build tool is started.
func RunOrdered(ctx context.Context, e *Executor, g *depgraph.Graph, t Target, invocationFor func(module string) Invocation, opts OrderOptions) ([]ModuleResult, error) {
	order, err := depgraph.TopologicalSort(g)
	if err != nil {
		return nil, err
	}

	if opts.Modules != nil {
		wanted := make(map[string]bool, len(opts.Modules))
		for _, name := range opts.Modules {
			wanted[name] = true
		}
		filtered := make([]string, 0, len(order))
		for _, name := range order {
			if wanted[name] {
				filtered = append(filtered, name)
			}
		}
		order = filtered
	}

	results := make([]ModuleResult, 0, len(order))
	failed := make(map[string]bool) // Failed or skipped, both block dependents
	runFailures, skipped := 0, 0

	for i, name := range order {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		if blocker, ok := failedDependency(g, name, failed); ok {
			failed[name] = true
			skipped++
			results = append(results, ModuleResult{
				Module:  name,
				Skipped: true,
				Err:     fmt.Errorf("dependency %s failed", blocker),
			})
			continue
		}

		if opts.OnStart != nil {
			opts.OnStart(name, i+1, len(order))
		}

		runner := e
		var flush func()
		if opts.Prefix {
			out := NewPrefixWriter(e.stdout, name)
			errOut := NewPrefixWriter(e.stderr, name)
			runner = e.WithOutput(out, errOut)
			flush = func() {
				out.Flush()
				errOut.Flush()
			}
		}

		start := time.Now()
		runErr := RunTarget(ctx, runner, t, invocationFor(name))
		if flush != nil {
			flush()
		}
		results = append(results, ModuleResult{
			Module:   name,
			Err:      runErr,
			Duration: time.Since(start),
		})

		if runErr != nil {
			failed[name] = true
			runFailures++
			if !opts.KeepGoing {
				return results, fmt.Errorf("%w: %w", ErrModuleFailed, runErr)
			}
		}
	}

	if runFailures > 0 {
		if skipped > 0 {
			return results, fmt.Errorf("%w: %d of %d modules, %d skipped", ErrModuleFailed, runFailures, len(order), skipped)
		}
		return results, fmt.Errorf("%w: %d of %d modules", ErrModuleFailed, runFailures, len(order))
	}
	return results, nil
}

func failedDependency(g *depgraph.Graph, name string, failed map[string]bool) (string, bool) {
	for _, dep := range g.Dependencies(name) {
		if failed[dep] {
			return dep, true
		}
	}
	return "", false
}
