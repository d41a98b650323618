package generator

import (
	"context"
	"fmt"
	"io"
	"os"
)

// ExecuteOptions configures execution behavior
type ExecuteOptions struct {
	DryRun bool
	Force  bool
	Writer io.Writer // Where to write output (defaults to os.Stdout)
}

// Execute validates every operation, then runs them in order. A failure
// rolls back the operations that already ran.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	// Phase 1: Validate all operations
	for _, op := range ops {
		if err := op.Validate(ctx, opts.Force); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}

	if opts.DryRun {
		for _, op := range ops {
			fmt.Fprintf(opts.Writer, "✓ [DRY RUN] %s\n", op.Description())
		}
		return nil
	}

	// Phase 2: Execute
	tx := NewTransaction()
	for _, op := range ops {
		if err := tx.Run(ctx, op); err != nil {
			tx.Rollback()
			return fmt.Errorf("execution failed: %w", err)
		}
		fmt.Fprintf(opts.Writer, "✓ %s\n", op.Description())
	}
	tx.Commit()

	return nil
}
