package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Operation is a file system change that can be validated and executed.
//
// Validate checks if the operation would succeed without executing it.
// force=true skips conflict checks (e.g., file already exists).
//
// Execute performs the change. It is only called after every operation of
// a run validated.
//
// Description returns a human-readable description for output (e.g.,
// "Create billing/build.gradle (412 bytes)").
type Operation interface {
	Validate(ctx context.Context, force bool) error
	Execute(ctx context.Context) error
	Description() string
}

// Reverter is implemented by operations that can undo a completed Execute
type Reverter interface {
	Revert() error
}

// WriteFileOp creates a file with content, creating parent directories
// as needed.
type WriteFileOp struct {
	Path    string      // File path to create
	Content []byte      // File content (can be empty, must not be nil)
	Mode    fs.FileMode // File permissions (e.g., 0644)

	createdDir string // Topmost directory created by Execute
	existed    bool
	previous   []byte
}

func (op *WriteFileOp) Validate(ctx context.Context, force bool) error {
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	info, err := os.Stat(op.Path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("path is a directory: %s", op.Path)
	case err == nil && !force:
		return fmt.Errorf("file already exists: %s", op.Path)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("cannot stat %s: %w", op.Path, err)
	}

	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(op.Path)
	op.createdDir = firstMissing(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", dir, err)
	}

	if previous, err := os.ReadFile(op.Path); err == nil {
		op.existed = true
		op.previous = previous
	}

	mode := op.Mode
	if mode == 0 {
		mode = 0644
	}
	if err := os.WriteFile(op.Path, op.Content, mode); err != nil {
		return fmt.Errorf("failed to write file %s: %w", op.Path, err)
	}
	return nil
}

// Revert restores an overwritten file or removes a new one, along with
// any directories Execute created.
func (op *WriteFileOp) Revert() error {
	if op.existed {
		return os.WriteFile(op.Path, op.previous, 0644)
	}
	if op.createdDir != "" {
		return os.RemoveAll(op.createdDir)
	}
	return os.Remove(op.Path)
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("Create %s (%d bytes)", op.Path, len(op.Content))
}

// firstMissing returns the topmost ancestor of dir, or dir itself, that
// does not exist yet. It is empty when dir exists.
func firstMissing(dir string) string {
	missing := ""
	for current := filepath.Clean(dir); ; {
		if _, err := os.Stat(current); err == nil {
			return missing
		}
		missing = current
		parent := filepath.Dir(current)
		if parent == current {
			return missing
		}
		current = parent
	}
}
