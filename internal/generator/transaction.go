package generator

import (
	"context"
	"fmt"
)

// Transaction executes operations and can undo the ones that completed
type Transaction struct {
	done      []Operation
	committed bool
}

// NewTransaction creates an empty transaction
func NewTransaction() *Transaction {
	return &Transaction{}
}

// Run executes op and records it for rollback
func (t *Transaction) Run(ctx context.Context, op Operation) error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}
	if err := op.Execute(ctx); err != nil {
		return err
	}
	t.done = append(t.done, op)
	return nil
}

// Commit marks the transaction complete. Rollback is a no-op afterwards.
func (t *Transaction) Commit() {
	t.committed = true
}

// Rollback reverts completed operations in reverse order. Errors are
// collected but do not stop the remaining reverts.
func (t *Transaction) Rollback() []error {
	if t.committed {
		return nil
	}

	var errs []error
	for i := len(t.done) - 1; i >= 0; i-- {
		if r, ok := t.done[i].(Reverter); ok {
			if err := r.Revert(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	t.done = nil
	return errs
}
