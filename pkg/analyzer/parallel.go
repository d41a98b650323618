package analyzer

import (
	"context"
	"runtime"
	"sync"

	"github.com/simonhull/firebird-suite/heron/pkg/buildfile"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/workspace"
)

// parseJob is one build file to parse
type parseJob struct {
	index  int
	module *workspace.Module
}

// parseResult holds the facts of one module
type parseResult struct {
	index int
	facts *buildfile.BuildFacts
}

// parseAll parses module build files with a bounded worker pool. The
// result is indexed like modules.
func (a *Analyzer) parseAll(ctx context.Context, modules []*workspace.Module) ([]*buildfile.BuildFacts, error) {
	numWorkers := a.workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(modules) {
		numWorkers = len(modules)
	}

	out := make([]*buildfile.BuildFacts, len(modules))
	if len(modules) == 0 {
		return out, nil
	}

	jobs := make(chan parseJob, len(modules))
	results := make(chan parseResult, len(modules))
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go a.parseWorker(ctx, jobs, results, &wg)
	}

	// Send jobs
	go func() {
		defer close(jobs)
		for i, m := range modules {
			select {
			case <-ctx.Done():
				return
			case jobs <- parseJob{index: i, module: m}:
			}
		}
	}()

	// Wait for workers to finish
	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		out[result.index] = result.facts
	}

	// Check if context was cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	a.logger.Debug("Parsed build files",
		logger.F("modules", len(modules)),
		logger.F("workers", numWorkers))

	return out, nil
}

// parseWorker processes parse jobs until the channel closes
func (a *Analyzer) parseWorker(ctx context.Context, jobs <-chan parseJob, results chan<- parseResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		facts := a.cache.Parse(job.module.BuildText, job.module.Dialect)
		a.logger.Debug("Parsed build file",
			logger.F("module", job.module.Name),
			logger.F("dependencies", len(facts.Dependencies)))

		results <- parseResult{index: job.index, facts: facts}
	}
}
